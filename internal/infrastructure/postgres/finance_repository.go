package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

var _ repository.FinanceRepository = (*FinanceRepo)(nil)

// FinanceRepo consultas read-only del resumen financiero.
type FinanceRepo struct {
	q Querier
}

func NewFinanceRepository(q Querier) *FinanceRepo {
	return &FinanceRepo{q: q}
}

// ListCompletedSales una fila por línea (LEFT JOIN: ventas sin líneas también cuentan);
// se agrupan por venta conservando el orden de creación.
func (r *FinanceRepo) ListCompletedSales(ctx context.Context, f repository.FinanceFilter) ([]repository.SaleFact, error) {
	query := `
		SELECT s.id, s.branch_id, s.total_amount,
			si.product_id, si.quantity, si.total_price, si.cost_price,
			c.id, c.name
		FROM sales s
		LEFT JOIN sale_items si ON si.sale_id = s.id
		LEFT JOIN products p ON p.id = si.product_id
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE s.status = $1
			AND ($2::timestamptz IS NULL OR s.created_at >= $2)
			AND s.created_at <= $3
			AND ($4 = '' OR s.branch_id = $4)
		ORDER BY s.created_at, s.id, si.position`
	rows, err := r.q.Query(ctx, query, entity.SaleStatusCompleted, startParam(f), f.End, f.BranchID)
	if err != nil {
		return nil, fmt.Errorf("list completed sales: %w", err)
	}
	defer rows.Close()

	var (
		out   []repository.SaleFact
		index = map[string]int{}
	)
	for rows.Next() {
		var (
			saleID, branchID     string
			total                decimal.Decimal
			productID            *string
			qty                  *int64
			lineTotal, lineCost  decimal.NullDecimal
			categoryID, category *string
		)
		if err := rows.Scan(&saleID, &branchID, &total, &productID, &qty, &lineTotal, &lineCost,
			&categoryID, &category); err != nil {
			return nil, fmt.Errorf("scan sale fact: %w", err)
		}
		i, ok := index[saleID]
		if !ok {
			out = append(out, repository.SaleFact{SaleID: saleID, BranchID: branchID, TotalAmount: total})
			i = len(out) - 1
			index[saleID] = i
		}
		if productID == nil {
			continue
		}
		line := repository.LineFact{
			ProductID:    *productID,
			CategoryID:   derefString(categoryID),
			CategoryName: derefString(category),
			TotalPrice:   lineTotal.Decimal,
			CostPrice:    lineCost.Decimal,
		}
		if qty != nil {
			line.Quantity = *qty
		}
		out[i].Lines = append(out[i].Lines, line)
	}
	return out, rows.Err()
}

// ListExpenses gastos de cualquier estado con expense_date en la ventana.
func (r *FinanceRepo) ListExpenses(ctx context.Context, f repository.FinanceFilter) ([]*entity.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses
		WHERE ($1::timestamptz IS NULL OR expense_date >= $1)
			AND expense_date <= $2
			AND ($3 = '' OR branch_id = $3)
		ORDER BY expense_date, id`
	rows, err := r.q.Query(ctx, query, startParam(f), f.End, f.BranchID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []*entity.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// startParam ventana sin inicio = NULL.
func startParam(f repository.FinanceFilter) any {
	if f.Start.IsZero() {
		return nil
	}
	return f.Start
}
