package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/domain"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL (READ COMMITTED;
// la exclusión por registro la dan los SELECT ... FOR UPDATE de los repositorios).
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(tx inventory.Repos) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return domain.StorageFailure(fmt.Errorf("begin transaction: %w", err))
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ReposFor(tx)); err != nil {
		return domain.StorageFailure(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.StorageFailure(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// ReposFor repositorios atados a q (pool o tx).
func ReposFor(q Querier) inventory.Repos {
	return inventory.Repos{
		Stock:     NewStockRepository(q),
		Movements: NewMovementRepository(q),
		Sales:     NewSaleRepository(q),
		Expenses:  NewExpenseRepository(q),
	}
}
