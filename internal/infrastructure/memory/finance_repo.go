package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

// BranchRepo lectura de sucursales.
type BranchRepo struct {
	v view
}

func (r *BranchRepo) GetByID(ctx context.Context, id string) (*entity.Branch, error) {
	var out *entity.Branch
	r.v.read(func(st *state) {
		if b, ok := st.branches[id]; ok {
			c := *b
			out = &c
		}
	})
	return out, nil
}

func (r *BranchRepo) NamesByIDs(ctx context.Context, ids []string) (map[string]string, error) {
	out := make(map[string]string, len(ids))
	r.v.read(func(st *state) {
		for _, id := range ids {
			if b, ok := st.branches[id]; ok {
				out[id] = b.Name
			}
		}
	})
	return out, nil
}

var _ repository.BranchRepository = (*BranchRepo)(nil)

// FinanceRepo consultas del resumen financiero en memoria.
type FinanceRepo struct {
	v view
}

func inWindow(t time.Time, f repository.FinanceFilter) bool {
	if !f.Start.IsZero() && t.Before(f.Start) {
		return false
	}
	return !t.After(f.End)
}

func (r *FinanceRepo) ListCompletedSales(ctx context.Context, f repository.FinanceFilter) ([]repository.SaleFact, error) {
	var out []repository.SaleFact
	r.v.read(func(st *state) {
		for _, id := range st.saleOrder {
			s, ok := st.sales[id]
			if !ok || s.Status != entity.SaleStatusCompleted || !inWindow(s.CreatedAt, f) {
				continue
			}
			if f.BranchID != "" && s.BranchID != f.BranchID {
				continue
			}
			fact := repository.SaleFact{SaleID: s.ID, BranchID: s.BranchID, TotalAmount: s.TotalAmount}
			for _, it := range copySale(s).Items {
				line := repository.LineFact{
					ProductID:  it.ProductID,
					Quantity:   it.Quantity,
					TotalPrice: it.TotalPrice,
					CostPrice:  it.CostPrice,
				}
				if p, ok := st.products[it.ProductID]; ok && p.CategoryID != "" {
					if c, ok := st.categories[p.CategoryID]; ok {
						line.CategoryID, line.CategoryName = c.ID, c.Name
					}
				}
				fact.Lines = append(fact.Lines, line)
			}
			out = append(out, fact)
		}
	})
	return out, nil
}

func (r *FinanceRepo) ListExpenses(ctx context.Context, f repository.FinanceFilter) ([]*entity.Expense, error) {
	var out []*entity.Expense
	r.v.read(func(st *state) {
		for _, e := range st.expenses {
			if !inWindow(e.ExpenseDate, f) {
				continue
			}
			if f.BranchID != "" && e.BranchID != f.BranchID {
				continue
			}
			out = append(out, e.Clone())
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ExpenseDate.Before(out[j].ExpenseDate) })
	return out, nil
}

var _ repository.FinanceRepository = (*FinanceRepo)(nil)
