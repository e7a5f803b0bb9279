package repository

import (
	"context"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

// StockMovementRepository puerto append-only para las dos proyecciones de auditoría.
type StockMovementRepository interface {
	CreateLog(ctx context.Context, log *entity.StockMovementLog) error
	CreateTransaction(ctx context.Context, tx *entity.StockMovementTransaction) error
	// ListLogs más recientes primero. limit <= 0 = sin límite.
	ListLogs(ctx context.Context, stockRecordID string, limit int) ([]*entity.StockMovementLog, error)
	ListTransactions(ctx context.Context, stockRecordID string, limit int) ([]*entity.StockMovementTransaction, error)
}
