package entity

import "github.com/shopspring/decimal"

// Product producto del catálogo. El ledger solo necesita su categoría y precio de lista.
type Product struct {
	ID         string
	Name       string
	CategoryID string // vacío si no tiene categoría
	Price      decimal.Decimal
}
