package entity

import "time"

// NoneID valor centinela para variación o lote ausente. Dos registros sin lote
// comparten este valor, así la clave compuesta sigue siendo única.
const NoneID = "00000000-0000-0000-0000-000000000000"

// StockKey identidad compuesta de un StockRecord.
type StockKey struct {
	BranchID    string
	ProductID   string
	VariationID string
	BatchID     string
}

// StockRecord cantidad disponible de un producto (o variación/lote) en una sucursal.
type StockRecord struct {
	ID           string
	BranchID     string
	ProductID    string
	VariationID  string
	BatchID      string
	Quantity     int64
	MinStock     int64
	MaxStock     *int64
	ReorderPoint int64
	LastUpdated  time.Time
	UpdatedBy    string // vacío en filas creadas por el sistema
	CreatedAt    time.Time
}

// Key devuelve la identidad compuesta del registro.
func (s *StockRecord) Key() StockKey {
	return StockKey{BranchID: s.BranchID, ProductID: s.ProductID, VariationID: s.VariationID, BatchID: s.BatchID}
}

// IsLowStock cantidad en o por debajo del mínimo.
func (s *StockRecord) IsLowStock() bool {
	return s.Quantity <= s.MinStock
}

// NeedsReorder cantidad en o por debajo del punto de reorden.
func (s *StockRecord) NeedsReorder() bool {
	return s.Quantity <= s.ReorderPoint
}

// Clone copia profunda (MaxStock incluido).
func (s *StockRecord) Clone() *StockRecord {
	c := *s
	if s.MaxStock != nil {
		m := *s.MaxStock
		c.MaxStock = &m
	}
	return &c
}
