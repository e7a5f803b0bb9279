package repository

import (
	"context"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

// SaleRepository puerto de persistencia de ventas.
type SaleRepository interface {
	// Create inserta la cabecera. Un SaleNumber repetido devuelve domain.ErrInvalidState.
	Create(ctx context.Context, sale *entity.Sale) error
	CreateItem(ctx context.Context, item *entity.SaleLineItem) error
	// GetByID devuelve la venta con sus líneas ordenadas por posición.
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
}
