package entity

// Category categoría de productos. Se administra fuera del ledger; aquí solo se lee
// para agrupar el resumen financiero.
type Category struct {
	ID   string
	Name string
}
