package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta registrada por el coordinador.
const (
	SaleStatusCompleted = "COMPLETED"
	PaymentStatusPaid   = "PAID"
)

// Sale cabecera de venta. Los totales se guardan tal como los envía el cliente.
type Sale struct {
	ID            string
	SaleNumber    string
	BranchID      string
	UserID        string
	CustomerID    string
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	Tax           decimal.Decimal
	TotalAmount   decimal.Decimal
	PaymentMethod string
	Status        string
	PaymentStatus string
	CreatedAt     time.Time
	Items         []*SaleLineItem
}

// SaleLineItem línea de venta con costo y utilidad calculados al momento de vender.
type SaleLineItem struct {
	ID          string
	SaleID      string
	Position    int
	ProductID   string
	VariationID string
	BatchID     string
	Quantity    int64
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
	CostPrice   decimal.Decimal // costo unitario
	Profit      decimal.Decimal
}

// ComputeProfit utilidad = total de la línea - costo unitario * cantidad.
func (i *SaleLineItem) ComputeProfit() {
	i.Profit = i.TotalPrice.Sub(i.CostPrice.Mul(decimal.NewFromInt(i.Quantity)))
}

// TotalCost costo total de la línea.
func (i *SaleLineItem) TotalCost() decimal.Decimal {
	return i.CostPrice.Mul(decimal.NewFromInt(i.Quantity))
}
