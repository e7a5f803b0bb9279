package inventory

import (
	"context"

	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

// Repos repositorios atados a una misma transacción.
type Repos struct {
	Stock     repository.StockRecordRepository
	Movements repository.StockMovementRepository
	Sales     repository.SaleRepository
	Expenses  repository.ExpenseRepository
}

// TxRunner ejecuta fn dentro de una transacción, pasando repositorios atados a ella.
// Si fn devuelve error (o el contexto se cancela) nada de lo escrito queda visible.
// Errores de infraestructura se reportan como domain.ErrStorageFailure.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx Repos) error) error
}
