package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ledger/pkg/jwt"
)

func TestGenerateAndParse(t *testing.T) {
	token, err := jwt.Generate("secreto", "user-1", "branch-1", "MANAGER", "pos-ledger", 5)
	require.NoError(t, err)

	claims, err := jwt.Parse("secreto", token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "branch-1", claims.BranchID)
	assert.Equal(t, "MANAGER", claims.Role)
	assert.Equal(t, "pos-ledger", claims.Issuer)
}

func TestParse_WrongSecret(t *testing.T) {
	token, err := jwt.Generate("secreto", "user-1", "", "CASHIER", "pos-ledger", 5)
	require.NoError(t, err)

	_, err = jwt.Parse("otro", token)
	assert.Error(t, err)
}

func TestParse_Expired(t *testing.T) {
	token, err := jwt.Generate("secreto", "user-1", "", "CASHIER", "pos-ledger", -1)
	require.NoError(t, err)

	_, err = jwt.Parse("secreto", token)
	assert.Error(t, err)
}

func TestGenerate_EmptySecret(t *testing.T) {
	_, err := jwt.Generate("", "user-1", "", "CASHIER", "pos-ledger", 5)
	assert.Error(t, err)
}
