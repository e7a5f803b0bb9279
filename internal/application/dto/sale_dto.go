package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

// SaleLineRequest línea de una venta. VariationID/BatchID opcionales acotan el stock a debitar.
type SaleLineRequest struct {
	ProductID   string          `json:"product_id" validate:"required"`
	VariationID *string         `json:"variation_id,omitempty"`
	BatchID     *string         `json:"batch_id,omitempty"`
	Quantity    int64           `json:"quantity" validate:"gt=0"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// CompleteSaleRequest body para POST /api/sales. BranchID vacío usa la sucursal por defecto.
type CompleteSaleRequest struct {
	SaleNumber    string            `json:"sale_number" validate:"required"`
	BranchID      string            `json:"branch_id,omitempty"`
	CustomerID    string            `json:"customer_id,omitempty"`
	Items         []SaleLineRequest `json:"items" validate:"required,dive"`
	Subtotal      decimal.Decimal   `json:"subtotal"`
	Discount      decimal.Decimal   `json:"discount"`
	Tax           decimal.Decimal   `json:"tax"`
	Total         decimal.Decimal   `json:"total"`
	PaymentMethod string            `json:"payment_method" validate:"required"`
}

// SaleLineDTO línea persistida con costo y utilidad.
type SaleLineDTO struct {
	ID          string          `json:"id"`
	Position    int             `json:"position"`
	ProductID   string          `json:"product_id"`
	VariationID string          `json:"variation_id,omitempty"`
	BatchID     string          `json:"batch_id,omitempty"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	Profit      decimal.Decimal `json:"profit"`
}

// SaleDTO venta registrada. UntrackedProductIDs lista las líneas sin stock asociado
// (se vendieron sin debitar inventario).
type SaleDTO struct {
	ID                  string          `json:"id"`
	SaleNumber          string          `json:"sale_number"`
	BranchID            string          `json:"branch_id"`
	UserID              string          `json:"user_id"`
	CustomerID          string          `json:"customer_id,omitempty"`
	Subtotal            decimal.Decimal `json:"subtotal"`
	Discount            decimal.Decimal `json:"discount"`
	Tax                 decimal.Decimal `json:"tax"`
	TotalAmount         decimal.Decimal `json:"total_amount"`
	PaymentMethod       string          `json:"payment_method"`
	Status              string          `json:"status"`
	PaymentStatus       string          `json:"payment_status"`
	CreatedAt           time.Time       `json:"created_at"`
	Items               []SaleLineDTO   `json:"items"`
	UntrackedProductIDs []string        `json:"untracked_product_ids,omitempty"`
}

// ToSaleDTO convierte la venta y sus líneas.
func ToSaleDTO(s *entity.Sale) *SaleDTO {
	out := &SaleDTO{
		ID:            s.ID,
		SaleNumber:    s.SaleNumber,
		BranchID:      s.BranchID,
		UserID:        s.UserID,
		CustomerID:    s.CustomerID,
		Subtotal:      s.Subtotal,
		Discount:      s.Discount,
		Tax:           s.Tax,
		TotalAmount:   s.TotalAmount,
		PaymentMethod: s.PaymentMethod,
		Status:        s.Status,
		PaymentStatus: s.PaymentStatus,
		CreatedAt:     s.CreatedAt,
		Items:         make([]SaleLineDTO, 0, len(s.Items)),
	}
	for _, it := range s.Items {
		line := SaleLineDTO{
			ID:         it.ID,
			Position:   it.Position,
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			TotalPrice: it.TotalPrice,
			CostPrice:  it.CostPrice,
			Profit:     it.Profit,
		}
		if it.VariationID != entity.NoneID {
			line.VariationID = it.VariationID
		}
		if it.BatchID != entity.NoneID {
			line.BatchID = it.BatchID
		}
		out.Items = append(out.Items, line)
	}
	return out
}
