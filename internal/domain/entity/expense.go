package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseStatus estado del ciclo de vida de un gasto.
type ExpenseStatus string

const (
	ExpensePending  ExpenseStatus = "PENDING"
	ExpenseApproved ExpenseStatus = "APPROVED"
	ExpenseRejected ExpenseStatus = "REJECTED"
)

// IsTerminal APPROVED y REJECTED no admiten más transiciones.
func (s ExpenseStatus) IsTerminal() bool {
	return s == ExpenseApproved || s == ExpenseRejected
}

// Expense gasto operativo. Solo los aprobados restan en la utilidad neta.
type Expense struct {
	ID          string
	BranchID    string // vacío = gasto general
	Category    string
	Description string
	Amount      decimal.Decimal
	Status      ExpenseStatus
	ExpenseDate time.Time
	CreatedBy   string
	ReviewedBy  string
	ReviewedAt  *time.Time
	Note        string // motivo de rechazo o comentario de revisión
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CanEdit un gasto solo se modifica o elimina mientras está pendiente.
func (e *Expense) CanEdit() bool {
	return e.Status == ExpensePending
}

// Review aplica la transición PENDING -> to. Devuelve false si el gasto ya fue revisado.
func (e *Expense) Review(to ExpenseStatus, reviewer, note string, at time.Time) bool {
	if e.Status != ExpensePending || !to.IsTerminal() {
		return false
	}
	e.Status = to
	e.ReviewedBy = reviewer
	e.ReviewedAt = &at
	e.Note = note
	e.UpdatedAt = at
	return true
}

// Clone copia el gasto (ReviewedAt incluido).
func (e *Expense) Clone() *Expense {
	c := *e
	if e.ReviewedAt != nil {
		t := *e.ReviewedAt
		c.ReviewedAt = &t
	}
	return &c
}
