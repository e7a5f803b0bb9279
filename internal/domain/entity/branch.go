package entity

import "time"

// Branch sucursal (punto de venta) donde vive el stock.
type Branch struct {
	ID        string
	Name      string
	Active    bool
	CreatedAt time.Time
}
