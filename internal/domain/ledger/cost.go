package ledger

import (
	"context"

	"github.com/shopspring/decimal"
)

// CostResolver resuelve el costo unitario que se congela en una línea de venta.
type CostResolver interface {
	UnitCost(ctx context.Context, productID string, unitPrice decimal.Decimal) (decimal.Decimal, error)
}

// FixedRatioCost costo = precio unitario * Ratio. Aproximación usada mientras no
// exista un costo real por producto.
type FixedRatioCost struct {
	Ratio decimal.Decimal
}

// NewFixedRatioCost crea la política con el ratio dado (ej. 0.70).
func NewFixedRatioCost(ratio float64) FixedRatioCost {
	return FixedRatioCost{Ratio: decimal.NewFromFloat(ratio)}
}

func (c FixedRatioCost) UnitCost(_ context.Context, _ string, unitPrice decimal.Decimal) (decimal.Decimal, error) {
	return unitPrice.Mul(c.Ratio).Round(4), nil
}

