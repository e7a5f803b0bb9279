package finance

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

const uncategorized = "Sin categoría"

var hundred = decimal.NewFromInt(100)

// SummaryUseCase proyecta ventas COMPLETED y gastos en un resumen financiero.
// Solo lectura: los resultados se recalculan en cada consulta.
type SummaryUseCase struct {
	finance  repository.FinanceRepository
	branches repository.BranchRepository
	now      func() time.Time
}

// NewSummaryUseCase construye el caso de uso.
func NewSummaryUseCase(finance repository.FinanceRepository, branches repository.BranchRepository) *SummaryUseCase {
	return &SummaryUseCase{finance: finance, branches: branches, now: func() time.Time { return time.Now().UTC() }}
}

// Summary calcula ingresos, costo de ventas, utilidad bruta y neta (solo gastos
// APPROVED), margen y desgloses por categoría y sucursal.
func (uc *SummaryUseCase) Summary(ctx context.Context, in dto.FinancialSummaryRequest) (*dto.FinancialSummaryDTO, error) {
	end := uc.now()
	if in.End != nil {
		end = *in.End
	}
	var start time.Time
	if in.Start != nil {
		start = *in.Start
	}
	if !start.IsZero() && start.After(end) {
		return nil, domain.Wrap(domain.ErrInvalidAmount, "start no puede ser posterior a end")
	}
	filter := repository.FinanceFilter{BranchID: in.BranchID, Start: start, End: end}

	sales, err := uc.finance.ListCompletedSales(ctx, filter)
	if err != nil {
		return nil, domain.StorageFailure(err)
	}
	expenses, err := uc.finance.ListExpenses(ctx, filter)
	if err != nil {
		return nil, domain.StorageFailure(err)
	}

	out := &dto.FinancialSummaryDTO{
		BranchID:         in.BranchID,
		Start:            in.Start,
		End:              end,
		SalesCount:       len(sales),
		TotalRevenue:     decimal.Zero,
		TotalCOGS:        decimal.Zero,
		ApprovedExpenses: decimal.Zero,
	}

	categories := map[string]*dto.CategoryBreakdownDTO{}
	branches := map[string]*dto.BranchBreakdownDTO{}
	branchRow := func(id string) *dto.BranchBreakdownDTO {
		b, ok := branches[id]
		if !ok {
			b = &dto.BranchBreakdownDTO{BranchID: id, Revenue: decimal.Zero, COGS: decimal.Zero, ApprovedExpenses: decimal.Zero}
			branches[id] = b
		}
		return b
	}

	for _, s := range sales {
		b := branchRow(s.BranchID)
		b.SalesCount++
		b.Revenue = b.Revenue.Add(s.TotalAmount)
		out.TotalRevenue = out.TotalRevenue.Add(s.TotalAmount)

		for _, l := range s.Lines {
			cost := l.CostPrice.Mul(decimal.NewFromInt(l.Quantity))
			out.TotalCOGS = out.TotalCOGS.Add(cost)
			b.COGS = b.COGS.Add(cost)

			name := l.CategoryName
			if l.CategoryID == "" {
				name = uncategorized
			}
			c, ok := categories[l.CategoryID]
			if !ok {
				c = &dto.CategoryBreakdownDTO{CategoryID: l.CategoryID, CategoryName: name, Revenue: decimal.Zero, COGS: decimal.Zero}
				categories[l.CategoryID] = c
			}
			c.UnitsSold += l.Quantity
			c.Revenue = c.Revenue.Add(l.TotalPrice)
			c.COGS = c.COGS.Add(cost)
		}
	}

	for _, e := range expenses {
		switch e.Status {
		case entity.ExpenseApproved:
			out.ApprovedCount++
			out.ApprovedExpenses = out.ApprovedExpenses.Add(e.Amount)
			if e.BranchID != "" {
				b := branchRow(e.BranchID)
				b.ApprovedExpenses = b.ApprovedExpenses.Add(e.Amount)
			}
		case entity.ExpensePending:
			out.PendingExpenses++
		case entity.ExpenseRejected:
			out.RejectedExpenses++
		}
	}

	out.GrossProfit = out.TotalRevenue.Sub(out.TotalCOGS)
	out.NetProfit = out.GrossProfit.Sub(out.ApprovedExpenses)
	out.ProfitMargin = margin(out.NetProfit, out.TotalRevenue)

	out.ByCategory = make([]dto.CategoryBreakdownDTO, 0, len(categories))
	for _, c := range categories {
		c.GrossProfit = c.Revenue.Sub(c.COGS)
		out.ByCategory = append(out.ByCategory, *c)
	}
	sort.Slice(out.ByCategory, func(i, j int) bool {
		if !out.ByCategory[i].Revenue.Equal(out.ByCategory[j].Revenue) {
			return out.ByCategory[i].Revenue.GreaterThan(out.ByCategory[j].Revenue)
		}
		return out.ByCategory[i].CategoryName < out.ByCategory[j].CategoryName
	})

	byBranch, err := uc.branchBreakdown(ctx, branches)
	if err != nil {
		return nil, err
	}
	out.ByBranch = byBranch
	return out, nil
}

func (uc *SummaryUseCase) branchBreakdown(ctx context.Context, rows map[string]*dto.BranchBreakdownDTO) ([]dto.BranchBreakdownDTO, error) {
	ids := make([]string, 0, len(rows))
	for id := range rows {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	names := map[string]string{}
	if len(ids) > 0 {
		var err error
		names, err = uc.branches.NamesByIDs(ctx, ids)
		if err != nil {
			return nil, domain.StorageFailure(err)
		}
	}

	out := make([]dto.BranchBreakdownDTO, 0, len(ids))
	for _, id := range ids {
		b := rows[id]
		b.BranchName = names[id]
		if b.BranchName == "" {
			b.BranchName = "Sucursal " + id
		}
		b.GrossProfit = b.Revenue.Sub(b.COGS)
		b.NetProfit = b.GrossProfit.Sub(b.ApprovedExpenses)
		out = append(out, *b)
	}
	return out, nil
}

// margin porcentaje de utilidad neta sobre ingresos; 0 cuando no hay ingresos.
func margin(net, revenue decimal.Decimal) decimal.Decimal {
	if revenue.IsZero() {
		return decimal.Zero
	}
	return net.Div(revenue).Mul(hundred).Round(2)
}
