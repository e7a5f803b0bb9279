package inventory

import (
	"context"

	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

// LowStockUseCase consulta de registros en o bajo su mínimo. Solo lectura.
type LowStockUseCase struct {
	stock repository.StockRecordRepository
}

// NewLowStockUseCase construye el caso de uso.
func NewLowStockUseCase(stock repository.StockRecordRepository) *LowStockUseCase {
	return &LowStockUseCase{stock: stock}
}

// Records devuelve las entidades ordenadas por cantidad ascendente.
// branchID vacío consulta todas las sucursales.
func (uc *LowStockUseCase) Records(ctx context.Context, branchID string) ([]*entity.StockRecord, error) {
	recs, err := uc.stock.ListLowStock(ctx, branchID)
	if err != nil {
		return nil, domain.StorageFailure(err)
	}
	return recs, nil
}

// List igual que Records, en su representación pública.
func (uc *LowStockUseCase) List(ctx context.Context, branchID string) ([]dto.StockRecordDTO, error) {
	recs, err := uc.Records(ctx, branchID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockRecordDTO, 0, len(recs))
	for _, r := range recs {
		out = append(out, dto.ToStockRecordDTO(r))
	}
	return out, nil
}
