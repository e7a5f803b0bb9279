package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/ledger"
)

func strPtr(s string) *string { return &s }

// -----------------------------------------------------------------------------
// ResolveKey
// -----------------------------------------------------------------------------

func TestResolveKey_AbsentVariationAndBatchUseSentinel(t *testing.T) {
	// Caso 1: nil y cadena vacía resuelven a la misma clave
	a, err := ledger.ResolveKey("B1", "P1", nil, nil)
	require.NoError(t, err)
	b, err := ledger.ResolveKey(" B1 ", "P1", strPtr(""), strPtr("  "))
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, entity.NoneID, a.VariationID)
	assert.Equal(t, entity.NoneID, a.BatchID)
	assert.True(t, ledger.IsNone(a.BatchID))
}

func TestResolveKey_KeepsExplicitValues(t *testing.T) {
	k, err := ledger.ResolveKey("B1", "P1", strPtr("V1"), strPtr("L1"))
	require.NoError(t, err)
	assert.Equal(t, entity.StockKey{BranchID: "B1", ProductID: "P1", VariationID: "V1", BatchID: "L1"}, k)
}

func TestResolveKey_MissingBranchOrProduct(t *testing.T) {
	_, err := ledger.ResolveKey("", "P1", nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidIdentity)

	_, err = ledger.ResolveKey("B1", "   ", nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidIdentity)
}

// -----------------------------------------------------------------------------
// Movement
// -----------------------------------------------------------------------------

func TestMovement_ProjectionsAgree(t *testing.T) {
	rec := &entity.StockRecord{ID: "R1", BranchID: "B1", ProductID: "P1", VariationID: entity.NoneID, BatchID: entity.NoneID, Quantity: 5}
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	m, err := ledger.NewMovement(rec, 50, " damage ", "REF-1", "u1", at)
	require.NoError(t, err)

	log := m.Log()
	assert.Equal(t, int64(-45), log.QuantityChange)
	assert.Equal(t, int64(50), log.PreviousQuantity)
	assert.Equal(t, int64(5), log.NewQuantity)
	assert.Equal(t, "DAMAGE", log.Reason)
	assert.Equal(t, log.PreviousQuantity+log.QuantityChange, log.NewQuantity)

	tx := m.Transaction()
	assert.Equal(t, entity.DirectionOut, tx.Direction)
	assert.Equal(t, int64(45), tx.Quantity)
	assert.Equal(t, "R1", tx.StockRecordID)
	assert.Equal(t, "REF-1", tx.Reference)
	assert.Equal(t, "DAMAGE", tx.Metadata.Reason)
	assert.Equal(t, int64(50), tx.Metadata.PreviousQuantity)
	assert.Equal(t, at, tx.CreatedAt)
}

func TestMovement_InDirection(t *testing.T) {
	rec := &entity.StockRecord{ID: "R1", Quantity: 12}
	m, err := ledger.NewMovement(rec, 2, "restock", "", "u1", time.Now())
	require.NoError(t, err)
	assert.Equal(t, entity.DirectionIn, m.Transaction().Direction)
	assert.Equal(t, int64(10), m.Transaction().Quantity)
}

func TestMovement_RequiresReason(t *testing.T) {
	_, err := ledger.NewMovement(&entity.StockRecord{Quantity: 1}, 0, "  ", "", "u1", time.Now())
	assert.ErrorIs(t, err, domain.ErrMissingField)
}

func TestOfflineReference(t *testing.T) {
	assert.Equal(t, "offline sync: abc-1", ledger.OfflineReference("abc-1"))
}

// -----------------------------------------------------------------------------
// FixedRatioCost
// -----------------------------------------------------------------------------

func TestFixedRatioCost(t *testing.T) {
	c := ledger.NewFixedRatioCost(0.70)
	cost, err := c.UnitCost(context.Background(), "P1", decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("7").Equal(cost), cost.String())
}
