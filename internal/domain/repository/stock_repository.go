package repository

import (
	"context"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

// StockRecordRepository puerto para leer/actualizar StockRecord.
// Los métodos de escritura solo se usan dentro de una transacción (TxRunner).
// Un registro inexistente se devuelve como (nil, nil).
type StockRecordRepository interface {
	Get(ctx context.Context, key entity.StockKey) (*entity.StockRecord, error)
	GetByID(ctx context.Context, id string) (*entity.StockRecord, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, key entity.StockKey) (*entity.StockRecord, error)
	// GetByIDForUpdate igual que GetForUpdate, buscando por id.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.StockRecord, error)
	// Create inserta el registro. Devuelve domain.ErrInvalidState si la identidad ya existe.
	Create(ctx context.Context, rec *entity.StockRecord) error
	// EnsureForUpdate inserta seed si la identidad no existe y bloquea la fila resultante.
	// created indica si la fila fue insertada por esta llamada.
	EnsureForUpdate(ctx context.Context, seed *entity.StockRecord) (rec *entity.StockRecord, created bool, err error)
	// UpdateQuantity persiste Quantity, LastUpdated y UpdatedBy.
	UpdateQuantity(ctx context.Context, rec *entity.StockRecord) error
	// UpdateThresholds persiste MinStock, MaxStock y ReorderPoint.
	UpdateThresholds(ctx context.Context, rec *entity.StockRecord) error
	// DeleteByIDs elimina los registros y devuelve cuántos existían. No toca la auditoría.
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)
	// ListLowStock registros con Quantity <= MinStock, ascendente por cantidad.
	// branchID vacío = todas las sucursales.
	ListLowStock(ctx context.Context, branchID string) ([]*entity.StockRecord, error)
}
