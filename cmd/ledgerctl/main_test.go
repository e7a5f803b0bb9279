package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ledger/pkg/jwt"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestToken_GeneratesParseableToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-test-secret")
	t.Setenv("STORAGE_DRIVER", "memory")

	out, err := run(t, "token", "--user", "u-7", "--role", "manager", "--branch", "branch-main")
	require.NoError(t, err)

	claims, err := jwt.Parse("cli-test-secret", strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "u-7", claims.UserID)
	assert.Equal(t, "MANAGER", claims.Role)
	assert.Equal(t, "branch-main", claims.BranchID)
}

func TestToken_RejectsUnknownRole(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-test-secret")
	t.Setenv("STORAGE_DRIVER", "memory")

	_, err := run(t, "token", "--user", "u-7", "--role", "bodeguero")
	assert.Error(t, err)
}

func TestToken_RequiresUser(t *testing.T) {
	_, err := run(t, "token")
	assert.Error(t, err)
}
