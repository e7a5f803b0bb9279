package memory

import (
	"context"

	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

// ExpenseRepo gastos en memoria.
type ExpenseRepo struct {
	v view
}

func (r *ExpenseRepo) Create(ctx context.Context, e *entity.Expense) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.expenses[e.ID]; ok {
			return domain.Wrap(domain.ErrInvalidState, "gasto duplicado")
		}
		st.expenses[e.ID] = e.Clone()
		return nil
	})
}

func (r *ExpenseRepo) GetByID(ctx context.Context, id string) (*entity.Expense, error) {
	var out *entity.Expense
	r.v.read(func(st *state) {
		if e, ok := st.expenses[id]; ok {
			out = e.Clone()
		}
	})
	return out, nil
}

func (r *ExpenseRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Expense, error) {
	return r.GetByID(ctx, id)
}

func (r *ExpenseRepo) Update(ctx context.Context, e *entity.Expense) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.expenses[e.ID]; !ok {
			return domain.Wrap(domain.ErrRecordNotFound, "gasto no encontrado")
		}
		st.expenses[e.ID] = e.Clone()
		return nil
	})
}

func (r *ExpenseRepo) Delete(ctx context.Context, id string) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.expenses[id]; !ok {
			return domain.Wrap(domain.ErrRecordNotFound, "gasto no encontrado")
		}
		delete(st.expenses, id)
		return nil
	})
}

var _ repository.ExpenseRepository = (*ExpenseRepo)(nil)
