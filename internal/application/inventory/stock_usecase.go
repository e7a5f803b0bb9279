package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/ledger"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

const (
	defaultMovementsLimit = 50
	maxMovementsLimit     = 500
)

// StockUseCase alta, entradas, umbrales, borrado y consultas de StockRecord.
type StockUseCase struct {
	txRunner  TxRunner
	ledger    *StockLedger
	stock     repository.StockRecordRepository
	movements repository.StockMovementRepository
}

// NewStockUseCase construye el caso de uso. stock y movements son los
// repositorios de lectura fuera de transacción.
func NewStockUseCase(txRunner TxRunner, l *StockLedger, stock repository.StockRecordRepository, movements repository.StockMovementRepository) *StockUseCase {
	return &StockUseCase{txRunner: txRunner, ledger: l, stock: stock, movements: movements}
}

// Provision crea el registro de forma explícita. Falla con ErrInvalidState si la
// identidad ya existe. Una cantidad inicial positiva queda auditada como INITIAL_STOCK.
func (uc *StockUseCase) Provision(ctx context.Context, actorID string, in dto.ProvisionStockRequest) (*dto.StockMutationResponse, error) {
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

	var (
		rec *entity.StockRecord
		log *entity.StockMovementLog
	)
	err = uc.txRunner.Run(ctx, func(tx Repos) error {
		existing, err := tx.Stock.GetForUpdate(ctx, key)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.Wrap(domain.ErrInvalidState, "ya existe stock para esa identidad")
		}
		r := uc.ledger.NewRecord(key, 0, actorID)
		if in.MinStock != nil {
			r.MinStock = *in.MinStock
		}
		if in.ReorderPoint != nil {
			r.ReorderPoint = *in.ReorderPoint
		}
		r.MaxStock = in.MaxStock
		if r.MaxStock != nil && *r.MaxStock < r.MinStock {
			return domain.Wrap(domain.ErrInvalidAmount, fmt.Sprintf("max_stock (%d) no puede ser menor que min_stock (%d)", *r.MaxStock, r.MinStock))
		}
		if err := tx.Stock.Create(ctx, r); err != nil {
			return err
		}
		if in.InitialQuantity > 0 {
			l, err := uc.ledger.Apply(ctx, tx, r, in.InitialQuantity, Mutation{Reason: entity.ReasonInitialStock, ActorID: actorID})
			if err != nil {
				return err
			}
			log = l
		}
		rec = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mutationResponse(rec, log), nil
}

// Receive registra una entrada de mercancía; crea el registro si aún no existe.
func (uc *StockUseCase) Receive(ctx context.Context, actorID string, in dto.ReceiveStockRequest) (*dto.StockMutationResponse, error) {
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

	var (
		rec *entity.StockRecord
		log *entity.StockMovementLog
	)
	err = uc.txRunner.Run(ctx, func(tx Repos) error {
		r, l, err := uc.ledger.UpsertAdjust(ctx, tx, key, in.Quantity, Mutation{Reason: entity.ReasonReceipt, Reference: in.Reference, ActorID: actorID})
		if err != nil {
			return err
		}
		rec, log = r, l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mutationResponse(rec, log), nil
}

// UpdateThresholds cambia mínimo, máximo y punto de reorden. No genera auditoría.
func (uc *StockUseCase) UpdateThresholds(ctx context.Context, id string, in dto.UpdateThresholdsRequest) (*dto.StockRecordDTO, error) {
	if id == "" {
		return nil, domain.Wrap(domain.ErrMissingField, "id es obligatorio")
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.MaxStock != nil && *in.MaxStock < *in.MinStock {
		return nil, domain.Wrap(domain.ErrInvalidAmount, "max_stock no puede ser menor que min_stock")
	}

	var rec *entity.StockRecord
	err := uc.txRunner.Run(ctx, func(tx Repos) error {
		r, err := tx.Stock.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if r == nil {
			return domain.Wrap(domain.ErrRecordNotFound, "stock no encontrado")
		}
		r.MinStock = *in.MinStock
		r.MaxStock = in.MaxStock
		r.ReorderPoint = *in.ReorderPoint
		if err := tx.Stock.UpdateThresholds(ctx, r); err != nil {
			return err
		}
		rec = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToStockRecordDTO(rec)
	return &out, nil
}

// BulkDelete elimina los registros indicados y devuelve cuántos existían.
// El historial de auditoría se conserva.
func (uc *StockUseCase) BulkDelete(ctx context.Context, in dto.BulkDeleteRequest) (int64, error) {
	if len(in.IDs) == 0 {
		return 0, domain.Wrap(domain.ErrMissingField, "ids es obligatorio")
	}
	if err := dto.Validate(in); err != nil {
		return 0, err
	}
	ids := dedupe(in.IDs)

	var deleted int64
	err := uc.txRunner.Run(ctx, func(tx Repos) error {
		n, err := tx.Stock.DeleteByIDs(ctx, ids)
		if err != nil {
			return err
		}
		deleted = n
		return nil
	})
	return deleted, err
}

// Get devuelve un registro por id.
func (uc *StockUseCase) Get(ctx context.Context, id string) (*dto.StockRecordDTO, error) {
	rec, err := uc.stock.GetByID(ctx, id)
	if err != nil {
		return nil, domain.StorageFailure(err)
	}
	if rec == nil {
		return nil, domain.Wrap(domain.ErrRecordNotFound, "stock no encontrado")
	}
	out := dto.ToStockRecordDTO(rec)
	return &out, nil
}

// ListMovements historial del registro, más reciente primero. Funciona también
// para registros ya eliminados.
func (uc *StockUseCase) ListMovements(ctx context.Context, stockRecordID string, limit int) ([]dto.MovementLogDTO, error) {
	if stockRecordID == "" {
		return nil, domain.Wrap(domain.ErrMissingField, "id es obligatorio")
	}
	if limit <= 0 {
		limit = defaultMovementsLimit
	}
	if limit > maxMovementsLimit {
		limit = maxMovementsLimit
	}
	logs, err := uc.movements.ListLogs(ctx, stockRecordID, limit)
	if err != nil {
		return nil, domain.StorageFailure(err)
	}
	out := make([]dto.MovementLogDTO, 0, len(logs))
	for _, l := range logs {
		out = append(out, dto.ToMovementLogDTO(l))
	}
	return out, nil
}

func mutationResponse(rec *entity.StockRecord, log *entity.StockMovementLog) *dto.StockMutationResponse {
	out := &dto.StockMutationResponse{Record: dto.ToStockRecordDTO(rec)}
	if log != nil {
		out.Receipt = dto.ToReceiptDTO(log)
	}
	return out
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
