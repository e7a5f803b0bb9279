package entity

import "time"

// Direcciones de StockMovementTransaction.
const (
	DirectionIn  = "IN"
	DirectionOut = "OUT"
)

// Motivos registrados por procesos internos.
const (
	ReasonSale         = "SALE"
	ReasonInitialStock = "INITIAL_STOCK"
	ReasonReceipt      = "RECEIPT"
)

// StockMovementLog entrada de auditoría con cantidades antes y después.
// Invariante: NewQuantity = PreviousQuantity + QuantityChange.
// No tiene FK hacia stock_records: sobrevive al borrado masivo del registro.
type StockMovementLog struct {
	ID               string
	StockRecordID    string
	BranchID         string
	ProductID        string
	VariationID      string
	BatchID          string
	QuantityChange   int64
	PreviousQuantity int64
	NewQuantity      int64
	Reason           string
	Reference        string
	ActorID          string
	CreatedAt        time.Time
}

// MovementMetadata detalle serializado como JSON junto a la transacción.
type MovementMetadata struct {
	Reason           string `json:"reason"`
	QuantityChange   int64  `json:"quantity_change"`
	PreviousQuantity int64  `json:"previous_quantity"`
	NewQuantity      int64  `json:"new_quantity"`
}

// StockMovementTransaction proyección direccional del mismo movimiento (IN/OUT, cantidad absoluta).
type StockMovementTransaction struct {
	ID            string
	StockRecordID string
	Direction     string
	Quantity      int64
	Reference     string
	ActorID       string
	Metadata      MovementMetadata
	CreatedAt     time.Time
}
