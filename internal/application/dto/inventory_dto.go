package dto

import (
	"time"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/ledger"
)

// AdjustStockRequest body para POST /api/inventory/adjustments.
// QuantityChange es puntero para distinguir "ausente" de cero.
type AdjustStockRequest struct {
	ProductID      string  `json:"product_id" validate:"required"`
	BranchID       string  `json:"branch_id" validate:"required"`
	VariationID    *string `json:"variation_id,omitempty"`
	BatchID        *string `json:"batch_id,omitempty"`
	QuantityChange *int64  `json:"quantity_change" validate:"required"`
	Reason         string  `json:"reason" validate:"required"`
	Reference      string  `json:"reference,omitempty"`
	OfflineID      string  `json:"offline_id,omitempty"` // id del cliente offline que originó el ajuste
}

// ProvisionStockRequest body para POST /api/inventory/stock.
type ProvisionStockRequest struct {
	ProductID       string  `json:"product_id" validate:"required"`
	BranchID        string  `json:"branch_id" validate:"required"`
	VariationID     *string `json:"variation_id,omitempty"`
	BatchID         *string `json:"batch_id,omitempty"`
	InitialQuantity int64   `json:"initial_quantity" validate:"min=0"`
	MinStock        *int64  `json:"min_stock,omitempty" validate:"omitempty,min=0"`
	MaxStock        *int64  `json:"max_stock,omitempty" validate:"omitempty,min=0"`
	ReorderPoint    *int64  `json:"reorder_point,omitempty" validate:"omitempty,min=0"`
}

// ReceiveStockRequest body para POST /api/inventory/receipts (entrada de mercancía).
type ReceiveStockRequest struct {
	ProductID   string  `json:"product_id" validate:"required"`
	BranchID    string  `json:"branch_id" validate:"required"`
	VariationID *string `json:"variation_id,omitempty"`
	BatchID     *string `json:"batch_id,omitempty"`
	Quantity    int64   `json:"quantity" validate:"gt=0"`
	Reference   string  `json:"reference,omitempty"`
}

// UpdateThresholdsRequest body para PUT /api/inventory/stock/:id/thresholds.
type UpdateThresholdsRequest struct {
	MinStock     *int64 `json:"min_stock" validate:"required,min=0"`
	MaxStock     *int64 `json:"max_stock,omitempty" validate:"omitempty,min=0"`
	ReorderPoint *int64 `json:"reorder_point" validate:"required,min=0"`
}

// BulkDeleteRequest body para POST /api/inventory/stock/bulk-delete.
type BulkDeleteRequest struct {
	IDs []string `json:"ids" validate:"required,dive,required"`
}

// StockRecordDTO representación pública de un StockRecord.
// Variación y lote ausentes se exponen vacíos, no con el centinela.
type StockRecordDTO struct {
	ID           string    `json:"id"`
	BranchID     string    `json:"branch_id"`
	ProductID    string    `json:"product_id"`
	VariationID  string    `json:"variation_id,omitempty"`
	BatchID      string    `json:"batch_id,omitempty"`
	Quantity     int64     `json:"quantity"`
	MinStock     int64     `json:"min_stock"`
	MaxStock     *int64    `json:"max_stock,omitempty"`
	ReorderPoint int64     `json:"reorder_point"`
	IsLowStock   bool      `json:"is_low_stock"`
	NeedsReorder bool      `json:"needs_reorder"`
	LastUpdated  time.Time `json:"last_updated"`
	UpdatedBy    string    `json:"updated_by,omitempty"`
}

// AdjustmentReceiptDTO comprobante de un cambio de cantidad.
type AdjustmentReceiptDTO struct {
	StockRecordID    string    `json:"stock_record_id"`
	ProductID        string    `json:"product_id"`
	BranchID         string    `json:"branch_id"`
	QuantityChange   int64     `json:"quantity_change"`
	PreviousQuantity int64     `json:"previous_quantity"`
	NewQuantity      int64     `json:"new_quantity"`
	Reason           string    `json:"reason"`
	Reference        string    `json:"reference,omitempty"`
	ActorID          string    `json:"actor_id"`
	Timestamp        time.Time `json:"timestamp"`
}

// StockMutationResponse registro actualizado más su comprobante.
type StockMutationResponse struct {
	Record  StockRecordDTO        `json:"record"`
	Receipt *AdjustmentReceiptDTO `json:"receipt,omitempty"`
}

// MovementLogDTO entrada del historial de movimientos.
type MovementLogDTO struct {
	ID               string    `json:"id"`
	StockRecordID    string    `json:"stock_record_id"`
	QuantityChange   int64     `json:"quantity_change"`
	PreviousQuantity int64     `json:"previous_quantity"`
	NewQuantity      int64     `json:"new_quantity"`
	Reason           string    `json:"reason"`
	Reference        string    `json:"reference,omitempty"`
	ActorID          string    `json:"actor_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// ToStockRecordDTO convierte la entidad a su representación pública.
func ToStockRecordDTO(r *entity.StockRecord) StockRecordDTO {
	out := StockRecordDTO{
		ID:           r.ID,
		BranchID:     r.BranchID,
		ProductID:    r.ProductID,
		Quantity:     r.Quantity,
		MinStock:     r.MinStock,
		MaxStock:     r.MaxStock,
		ReorderPoint: r.ReorderPoint,
		IsLowStock:   r.IsLowStock(),
		NeedsReorder: r.NeedsReorder(),
		LastUpdated:  r.LastUpdated,
		UpdatedBy:    r.UpdatedBy,
	}
	if !ledger.IsNone(r.VariationID) {
		out.VariationID = r.VariationID
	}
	if !ledger.IsNone(r.BatchID) {
		out.BatchID = r.BatchID
	}
	return out
}

// ToReceiptDTO comprobante a partir de la entrada de auditoría.
func ToReceiptDTO(l *entity.StockMovementLog) *AdjustmentReceiptDTO {
	return &AdjustmentReceiptDTO{
		StockRecordID:    l.StockRecordID,
		ProductID:        l.ProductID,
		BranchID:         l.BranchID,
		QuantityChange:   l.QuantityChange,
		PreviousQuantity: l.PreviousQuantity,
		NewQuantity:      l.NewQuantity,
		Reason:           l.Reason,
		Reference:        l.Reference,
		ActorID:          l.ActorID,
		Timestamp:        l.CreatedAt,
	}
}

// ToMovementLogDTO entrada de historial.
func ToMovementLogDTO(l *entity.StockMovementLog) MovementLogDTO {
	return MovementLogDTO{
		ID:               l.ID,
		StockRecordID:    l.StockRecordID,
		QuantityChange:   l.QuantityChange,
		PreviousQuantity: l.PreviousQuantity,
		NewQuantity:      l.NewQuantity,
		Reason:           l.Reason,
		Reference:        l.Reference,
		ActorID:          l.ActorID,
		CreatedAt:        l.CreatedAt,
	}
}
