package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

// FinanceFilter ventana y sucursal del resumen. BranchID vacío = todas.
type FinanceFilter struct {
	BranchID string
	Start    time.Time
	End      time.Time
}

// SaleFact venta COMPLETED con sus líneas, tal como la necesita el proyector financiero.
type SaleFact struct {
	SaleID      string
	BranchID    string
	TotalAmount decimal.Decimal
	Lines       []LineFact
}

// LineFact línea de venta con su categoría resuelta (vacía si el producto no tiene).
type LineFact struct {
	ProductID    string
	CategoryID   string
	CategoryName string
	Quantity     int64
	TotalPrice   decimal.Decimal
	CostPrice    decimal.Decimal
}

// FinanceRepository consultas read-only para el resumen financiero.
type FinanceRepository interface {
	ListCompletedSales(ctx context.Context, f FinanceFilter) ([]SaleFact, error)
	// ListExpenses gastos de cualquier estado cuya ExpenseDate cae en la ventana.
	ListExpenses(ctx context.Context, f FinanceFilter) ([]*entity.Expense, error)
}
