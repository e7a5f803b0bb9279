package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/pos-ledger/internal/domain"
)

func TestError_IsMatchesByKind(t *testing.T) {
	err := domain.Wrap(domain.ErrInsufficientStock, "stock insuficiente para P1")

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.NotErrorIs(t, err, domain.ErrInvalidState)

	wrapped := fmt.Errorf("venta V-1: %w", err)
	assert.ErrorIs(t, wrapped, domain.ErrInsufficientStock)
	assert.Equal(t, domain.KindInsufficientStock, domain.KindOf(wrapped))
}

func TestStorageFailure(t *testing.T) {
	assert.NoError(t, domain.StorageFailure(nil))

	cause := errors.New("conexión rechazada")
	err := domain.StorageFailure(cause)
	assert.ErrorIs(t, err, domain.ErrStorageFailure)
	assert.ErrorIs(t, err, cause)

	// Un error de dominio no se reclasifica
	notFound := domain.Wrap(domain.ErrRecordNotFound, "no existe")
	assert.Same(t, notFound, domain.StorageFailure(notFound))
}

func TestKindOf_Unknown(t *testing.T) {
	assert.Equal(t, domain.KindStorageFailure, domain.KindOf(errors.New("x")))
}
