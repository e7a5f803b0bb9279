package inventory

import (
	"context"

	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/ledger"
)

// AdjustStockUseCase ajustes manuales (daño, conteo, devolución) sobre un registro existente.
type AdjustStockUseCase struct {
	txRunner TxRunner
	ledger   *StockLedger
}

// NewAdjustStockUseCase construye el caso de uso.
func NewAdjustStockUseCase(txRunner TxRunner, l *StockLedger) *AdjustStockUseCase {
	return &AdjustStockUseCase{txRunner: txRunner, ledger: l}
}

// Adjust aplica quantity_change al registro identificado por la petición. El
// registro debe existir (no se crea de forma implícita) y la cantidad resultante
// no puede quedar negativa.
func (uc *AdjustStockUseCase) Adjust(ctx context.Context, actorID string, in dto.AdjustStockRequest) (*dto.StockMutationResponse, error) {
	if actorID == "" {
		return nil, domain.ErrUnauthorized
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	key, err := ledger.ResolveKey(in.BranchID, in.ProductID, in.VariationID, in.BatchID)
	if err != nil {
		return nil, err
	}
	delta := *in.QuantityChange
	if delta == 0 {
		return nil, domain.Wrap(domain.ErrInvalidAmount, "quantity_change no puede ser cero")
	}

	reference := in.Reference
	if reference == "" && in.OfflineID != "" {
		reference = ledger.OfflineReference(in.OfflineID)
	}

	var (
		rec *entity.StockRecord
		log *entity.StockMovementLog
	)
	err = uc.txRunner.Run(ctx, func(tx Repos) error {
		r, err := tx.Stock.GetForUpdate(ctx, key)
		if err != nil {
			return err
		}
		if r == nil {
			return domain.Wrap(domain.ErrRecordNotFound, "no existe stock para el producto en la sucursal")
		}
		l, err := uc.ledger.Apply(ctx, tx, r, delta, Mutation{Reason: in.Reason, Reference: reference, ActorID: actorID})
		if err != nil {
			return err
		}
		rec, log = r, l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.StockMutationResponse{Record: dto.ToStockRecordDTO(rec), Receipt: dto.ToReceiptDTO(log)}, nil
}
