package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

// CreateExpenseRequest body para POST /api/expenses.
type CreateExpenseRequest struct {
	BranchID    string          `json:"branch_id,omitempty"`
	Category    string          `json:"category" validate:"required"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	ExpenseDate *time.Time      `json:"expense_date,omitempty"`
}

// UpdateExpenseRequest body para PUT /api/expenses/:id. Campos nil no cambian.
type UpdateExpenseRequest struct {
	Category    *string          `json:"category,omitempty"`
	Description *string          `json:"description,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	ExpenseDate *time.Time       `json:"expense_date,omitempty"`
}

// ReviewExpenseRequest body opcional de approve/reject.
type ReviewExpenseRequest struct {
	Note string `json:"note,omitempty"`
}

// ExpenseDTO representación pública de un gasto.
type ExpenseDTO struct {
	ID          string          `json:"id"`
	BranchID    string          `json:"branch_id,omitempty"`
	Category    string          `json:"category"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
	ExpenseDate time.Time       `json:"expense_date"`
	CreatedBy   string          `json:"created_by"`
	ReviewedBy  string          `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time      `json:"reviewed_at,omitempty"`
	Note        string          `json:"note,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToExpenseDTO convierte la entidad.
func ToExpenseDTO(e *entity.Expense) *ExpenseDTO {
	return &ExpenseDTO{
		ID:          e.ID,
		BranchID:    e.BranchID,
		Category:    e.Category,
		Description: e.Description,
		Amount:      e.Amount,
		Status:      string(e.Status),
		ExpenseDate: e.ExpenseDate,
		CreatedBy:   e.CreatedBy,
		ReviewedBy:  e.ReviewedBy,
		ReviewedAt:  e.ReviewedAt,
		Note:        e.Note,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// FinancialSummaryRequest filtros del resumen. Start/End nil = sin límite inferior / ahora.
type FinancialSummaryRequest struct {
	BranchID string
	Start    *time.Time
	End      *time.Time
}

// CategoryBreakdownDTO ingresos y costo agrupados por categoría de producto.
type CategoryBreakdownDTO struct {
	CategoryID   string          `json:"category_id,omitempty"`
	CategoryName string          `json:"category_name"`
	UnitsSold    int64           `json:"units_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
	COGS         decimal.Decimal `json:"cogs"`
	GrossProfit  decimal.Decimal `json:"gross_profit"`
}

// BranchBreakdownDTO ingresos, costo y gastos aprobados por sucursal.
type BranchBreakdownDTO struct {
	BranchID         string          `json:"branch_id"`
	BranchName       string          `json:"branch_name"`
	SalesCount       int             `json:"sales_count"`
	Revenue          decimal.Decimal `json:"revenue"`
	COGS             decimal.Decimal `json:"cogs"`
	GrossProfit      decimal.Decimal `json:"gross_profit"`
	ApprovedExpenses decimal.Decimal `json:"approved_expenses"`
	NetProfit        decimal.Decimal `json:"net_profit"`
}

// FinancialSummaryDTO resumen financiero de un período.
type FinancialSummaryDTO struct {
	BranchID         string                 `json:"branch_id,omitempty"`
	Start            *time.Time             `json:"start,omitempty"`
	End              time.Time              `json:"end"`
	SalesCount       int                    `json:"sales_count"`
	TotalRevenue     decimal.Decimal        `json:"total_revenue"`
	TotalCOGS        decimal.Decimal        `json:"total_cogs"`
	GrossProfit      decimal.Decimal        `json:"gross_profit"`
	ApprovedExpenses decimal.Decimal        `json:"approved_expenses"`
	NetProfit        decimal.Decimal        `json:"net_profit"`
	ProfitMargin     decimal.Decimal        `json:"profit_margin"` // porcentaje sobre ingresos
	PendingExpenses  int                    `json:"pending_expenses"`
	ApprovedCount    int                    `json:"approved_expenses_count"`
	RejectedExpenses int                    `json:"rejected_expenses"`
	ByCategory       []CategoryBreakdownDTO `json:"by_category"`
	ByBranch         []BranchBreakdownDTO   `json:"by_branch"`
}
