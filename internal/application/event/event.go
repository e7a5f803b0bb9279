package event

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de notificación publicados por el ledger.
const (
	TypeSaleCompleted   = "sale.completed"
	TypeExpenseApproved = "expense.approved"
	TypeExpenseRejected = "expense.rejected"
	TypeStockLow        = "stock.low"
)

// Notification mensaje fire-and-forget emitido después del commit.
type Notification struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// Publisher publica notificaciones. Un error de publicación nunca revierte la
// operación que la originó: el llamador solo lo registra.
type Publisher interface {
	Publish(ctx context.Context, n Notification) error
}

// NopPublisher descarta todo.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Notification) error { return nil }

// SaleCompleted payload de TypeSaleCompleted.
type SaleCompleted struct {
	SaleID              string            `json:"sale_id"`
	SaleNumber          string            `json:"sale_number"`
	BranchID            string            `json:"branch_id"`
	UserID              string            `json:"user_id"`
	CustomerID          string            `json:"customer_id,omitempty"`
	Subtotal            decimal.Decimal   `json:"subtotal"`
	Discount            decimal.Decimal   `json:"discount"`
	Tax                 decimal.Decimal   `json:"tax"`
	TotalAmount         decimal.Decimal   `json:"total_amount"`
	Items               []SaleLineSummary `json:"items"`
	UntrackedProductIDs []string          `json:"untracked_product_ids,omitempty"`
}

// SaleLineSummary resumen de una línea vendida.
type SaleLineSummary struct {
	ProductID   string          `json:"product_id"`
	VariationID string          `json:"variation_id,omitempty"`
	BatchID     string          `json:"batch_id,omitempty"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// ExpenseReviewed payload de TypeExpenseApproved y TypeExpenseRejected.
type ExpenseReviewed struct {
	ExpenseID  string          `json:"expense_id"`
	BranchID   string          `json:"branch_id,omitempty"`
	Status     string          `json:"status"`
	Amount     decimal.Decimal `json:"amount"`
	ReviewedBy string          `json:"reviewed_by"`
	CreatedBy  string          `json:"created_by"`
}

// StockLow payload de TypeStockLow.
type StockLow struct {
	StockRecordID string `json:"stock_record_id"`
	BranchID      string `json:"branch_id"`
	ProductID     string `json:"product_id"`
	Quantity      int64  `json:"quantity"`
	MinStock      int64  `json:"min_stock"`
	NeedsReorder  bool   `json:"needs_reorder"`
}
