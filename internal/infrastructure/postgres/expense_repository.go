package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

var _ repository.ExpenseRepository = (*ExpenseRepo)(nil)

const expenseColumns = `id, branch_id, category, description, amount, status, expense_date,
	created_by, reviewed_by, reviewed_at, note, created_at, updated_at`

// ExpenseRepo gastos operativos.
type ExpenseRepo struct {
	q Querier
}

func NewExpenseRepository(q Querier) *ExpenseRepo {
	return &ExpenseRepo{q: q}
}

func scanExpense(row pgx.Row) (*entity.Expense, error) {
	var (
		e                        entity.Expense
		status                   string
		branch, reviewedBy, note *string
	)
	err := row.Scan(&e.ID, &branch, &e.Category, &e.Description, &e.Amount, &status, &e.ExpenseDate,
		&e.CreatedBy, &reviewedBy, &e.ReviewedAt, &note, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.Status = entity.ExpenseStatus(status)
	e.BranchID = derefString(branch)
	e.ReviewedBy = derefString(reviewedBy)
	e.Note = derefString(note)
	return &e, nil
}

func (r *ExpenseRepo) Create(ctx context.Context, e *entity.Expense) error {
	query := `INSERT INTO expenses (` + expenseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query, e.ID, nullString(e.BranchID), e.Category, e.Description, e.Amount,
		string(e.Status), e.ExpenseDate, e.CreatedBy, nullString(e.ReviewedBy), e.ReviewedAt,
		nullString(e.Note), e.CreatedAt, e.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Wrap(domain.ErrInvalidState, "gasto duplicado")
		}
		return fmt.Errorf("create expense: %w", err)
	}
	return nil
}

func (r *ExpenseRepo) get(ctx context.Context, query, id string) (*entity.Expense, error) {
	e, err := scanExpense(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

func (r *ExpenseRepo) GetByID(ctx context.Context, id string) (*entity.Expense, error) {
	return r.get(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id)
}

// GetByIDForUpdate bloquea la fila para serializar revisiones concurrentes.
func (r *ExpenseRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Expense, error) {
	return r.get(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = $1 FOR UPDATE`, id)
}

func (r *ExpenseRepo) Update(ctx context.Context, e *entity.Expense) error {
	query := `
		UPDATE expenses SET branch_id = $2, category = $3, description = $4, amount = $5, status = $6,
			expense_date = $7, reviewed_by = $8, reviewed_at = $9, note = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, e.ID, nullString(e.BranchID), e.Category, e.Description, e.Amount,
		string(e.Status), e.ExpenseDate, nullString(e.ReviewedBy), e.ReviewedAt, nullString(e.Note), e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Wrap(domain.ErrRecordNotFound, "gasto no encontrado")
	}
	return nil
}

func (r *ExpenseRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Wrap(domain.ErrRecordNotFound, "gasto no encontrado")
	}
	return nil
}
