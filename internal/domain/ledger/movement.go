package ledger

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

// Movement evento interno de un cambio de cantidad. Las dos filas de auditoría
// (log y transacción) se derivan de aquí para que nunca diverjan.
type Movement struct {
	ID        string
	Record    entity.StockKey
	RecordID  string
	Before    int64
	After     int64
	Reason    string
	Reference string
	ActorID   string
	At        time.Time
}

// NewMovement construye el evento a partir del estado anterior y posterior del registro.
func NewMovement(rec *entity.StockRecord, before int64, reason, reference, actorID string, at time.Time) (Movement, error) {
	reason = NormalizeReason(reason)
	if reason == "" {
		return Movement{}, domain.Wrap(domain.ErrMissingField, "reason es obligatorio")
	}
	if rec.Quantity < 0 {
		return Movement{}, domain.Wrap(domain.ErrInsufficientStock, "la cantidad resultante no puede ser negativa")
	}
	return Movement{
		ID:        uuid.New().String(),
		Record:    rec.Key(),
		RecordID:  rec.ID,
		Before:    before,
		After:     rec.Quantity,
		Reason:    reason,
		Reference: strings.TrimSpace(reference),
		ActorID:   actorID,
		At:        at,
	}, nil
}

// Delta cambio con signo.
func (m Movement) Delta() int64 { return m.After - m.Before }

// Direction IN para entradas, OUT para salidas.
func (m Movement) Direction() string {
	if m.Delta() < 0 {
		return entity.DirectionOut
	}
	return entity.DirectionIn
}

// Log proyección de auditoría con cantidades antes/después.
func (m Movement) Log() *entity.StockMovementLog {
	return &entity.StockMovementLog{
		ID:               m.ID,
		StockRecordID:    m.RecordID,
		BranchID:         m.Record.BranchID,
		ProductID:        m.Record.ProductID,
		VariationID:      m.Record.VariationID,
		BatchID:          m.Record.BatchID,
		QuantityChange:   m.Delta(),
		PreviousQuantity: m.Before,
		NewQuantity:      m.After,
		Reason:           m.Reason,
		Reference:        m.Reference,
		ActorID:          m.ActorID,
		CreatedAt:        m.At,
	}
}

// Transaction proyección direccional con cantidad absoluta.
func (m Movement) Transaction() *entity.StockMovementTransaction {
	d := m.Delta()
	if d < 0 {
		d = -d
	}
	return &entity.StockMovementTransaction{
		ID:            uuid.New().String(),
		StockRecordID: m.RecordID,
		Direction:     m.Direction(),
		Quantity:      d,
		Reference:     m.Reference,
		ActorID:       m.ActorID,
		Metadata: entity.MovementMetadata{
			Reason:           m.Reason,
			QuantityChange:   m.Delta(),
			PreviousQuantity: m.Before,
			NewQuantity:      m.After,
		},
		CreatedAt: m.At,
	}
}

// NormalizeReason el motivo se guarda en mayúsculas y sin espacios extremos.
func NormalizeReason(reason string) string {
	return strings.ToUpper(strings.TrimSpace(reason))
}

// OfflineReference referencia para ajustes sincronizados desde un cliente sin conexión.
func OfflineReference(offlineID string) string {
	return "offline sync: " + strings.TrimSpace(offlineID)
}
