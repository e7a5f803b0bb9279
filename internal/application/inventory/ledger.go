package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/ledger"
)

// Defaults umbrales asignados a registros creados de forma implícita.
type Defaults struct {
	MinStock     int64
	ReorderPoint int64
}

// Mutation quién y por qué cambia una cantidad.
type Mutation struct {
	Reason    string
	Reference string
	ActorID   string
}

// StockLedger lectura-modificación-escritura de StockRecord. Cada cambio de cantidad
// escribe en la misma transacción el log y la transacción de auditoría.
// Todos los métodos esperan repositorios atados a una transacción abierta.
type StockLedger struct {
	defaults Defaults
	now      func() time.Time
}

// NewStockLedger construye el ledger.
func NewStockLedger(defaults Defaults) *StockLedger {
	return &StockLedger{defaults: defaults, now: func() time.Time { return time.Now().UTC() }}
}

// Apply suma delta a rec (ya bloqueado con GetForUpdate), persiste y audita.
// Un resultado negativo devuelve domain.ErrInsufficientStock sin escribir nada.
func (l *StockLedger) Apply(ctx context.Context, tx Repos, rec *entity.StockRecord, delta int64, m Mutation) (*entity.StockMovementLog, error) {
	if delta == 0 {
		return nil, domain.Wrap(domain.ErrInvalidAmount, "el cambio de cantidad no puede ser cero")
	}
	before := rec.Quantity
	after := before + delta
	if delta > 0 && after < before {
		return nil, domain.Wrap(domain.ErrInvalidAmount, fmt.Sprintf("la cantidad de %s excede el máximo representable", rec.ProductID))
	}
	if after < 0 {
		return nil, domain.Wrap(domain.ErrInsufficientStock,
			fmt.Sprintf("stock insuficiente para producto %s: disponible %d, solicitado %d", rec.ProductID, before, -delta))
	}
	now := l.now()
	rec.Quantity = after
	rec.LastUpdated = now
	rec.UpdatedBy = m.ActorID
	if err := tx.Stock.UpdateQuantity(ctx, rec); err != nil {
		return nil, err
	}
	return l.record(ctx, tx, rec, before, m, now)
}

// UpsertAdjust aplica delta al registro de key creándolo con los umbrales por
// defecto si no existe. Un registro nuevo arranca en max(0, delta); si eso es cero
// se crea sin movimiento y el log devuelto es nil.
func (l *StockLedger) UpsertAdjust(ctx context.Context, tx Repos, key entity.StockKey, delta int64, m Mutation) (*entity.StockRecord, *entity.StockMovementLog, error) {
	rec, created, err := tx.Stock.EnsureForUpdate(ctx, l.NewRecord(key, 0, m.ActorID))
	if err != nil {
		return nil, nil, err
	}
	if created && delta < 0 {
		return rec, nil, nil
	}
	if delta == 0 {
		return rec, nil, nil
	}
	log, err := l.Apply(ctx, tx, rec, delta, m)
	if err != nil {
		return nil, nil, err
	}
	return rec, log, nil
}

// NewRecord registro sin persistir para key, con los umbrales por defecto.
func (l *StockLedger) NewRecord(key entity.StockKey, qty int64, actorID string) *entity.StockRecord {
	now := l.now()
	return &entity.StockRecord{
		ID:           uuid.New().String(),
		BranchID:     key.BranchID,
		ProductID:    key.ProductID,
		VariationID:  key.VariationID,
		BatchID:      key.BatchID,
		Quantity:     qty,
		MinStock:     l.defaults.MinStock,
		ReorderPoint: l.defaults.ReorderPoint,
		LastUpdated:  now,
		UpdatedBy:    actorID,
		CreatedAt:    now,
	}
}

func (l *StockLedger) record(ctx context.Context, tx Repos, rec *entity.StockRecord, before int64, m Mutation, at time.Time) (*entity.StockMovementLog, error) {
	mv, err := ledger.NewMovement(rec, before, m.Reason, m.Reference, m.ActorID, at)
	if err != nil {
		return nil, err
	}
	log := mv.Log()
	if err := tx.Movements.CreateLog(ctx, log); err != nil {
		return nil, err
	}
	if err := tx.Movements.CreateTransaction(ctx, mv.Transaction()); err != nil {
		return nil, err
	}
	return log, nil
}
