package main

import (
	"context"
	"fmt"

	"github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/jhoicas/pos-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/pos-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/pos-ledger/internal/interfaces/http"
	"github.com/jhoicas/pos-ledger/pkg/config"
	"github.com/jhoicas/pos-ledger/pkg/logger"
)

// backend repositorios y runner del driver configurado.
type backend struct {
	runner    inventory.TxRunner
	stock     repository.StockRecordRepository
	movements repository.StockMovementRepository
	sales     repository.SaleRepository
	expenses  repository.ExpenseRepository
	branches  repository.BranchRepository
	finance   repository.FinanceRepository
	pinger    httpRouter.Pinger
	close     func()
}

func openBackend(ctx context.Context, cfg *config.Config, log *logger.Logger) (*backend, error) {
	switch cfg.Storage.Driver {
	case "memory":
		s := memory.NewSeeded()
		log.Warn().Msg("usando store en memoria: los datos se pierden al reiniciar")
		return &backend{
			runner:    s,
			stock:     s.StockRecords(),
			movements: s.Movements(),
			sales:     s.Sales(),
			expenses:  s.Expenses(),
			branches:  s.Branches(),
			finance:   s.Finance(),
			close:     func() {},
		}, nil
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		return &backend{
			runner:    postgres.NewTxRunner(pool),
			stock:     postgres.NewStockRepository(pool),
			movements: postgres.NewMovementRepository(pool),
			sales:     postgres.NewSaleRepository(pool),
			expenses:  postgres.NewExpenseRepository(pool),
			branches:  postgres.NewBranchRepository(pool),
			finance:   postgres.NewFinanceRepository(pool),
			pinger:    pool,
			close:     pool.Close,
		}, nil
	default:
		return nil, fmt.Errorf("STORAGE_DRIVER desconocido: %q", cfg.Storage.Driver)
	}
}
