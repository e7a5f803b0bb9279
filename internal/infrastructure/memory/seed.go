package memory

import (
	"time"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

// Los datos maestros (sucursales, productos, categorías) se administran fuera del
// ledger; en memoria se cargan con estas funciones.

// AddBranch registra o reemplaza una sucursal.
func (s *Store) AddBranch(b entity.Branch) {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	_ = view{store: s}.write(func(st *state) error {
		st.branches[b.ID] = &b
		return nil
	})
}

// AddCategory registra o reemplaza una categoría.
func (s *Store) AddCategory(c entity.Category) {
	_ = view{store: s}.write(func(st *state) error {
		st.categories[c.ID] = &c
		return nil
	})
}

// AddProduct registra o reemplaza un producto.
func (s *Store) AddProduct(p entity.Product) {
	_ = view{store: s}.write(func(st *state) error {
		st.products[p.ID] = &p
		return nil
	})
}

// NewSeeded store con una sucursal, dos categorías y tres productos de
// demostración (sin stock).
func NewSeeded() *Store {
	s := New()
	s.AddBranch(entity.Branch{ID: "branch-main", Name: "Sucursal Principal", Active: true})
	s.AddCategory(entity.Category{ID: "cat-bebidas", Name: "Bebidas"})
	s.AddCategory(entity.Category{ID: "cat-abarrotes", Name: "Abarrotes"})
	s.AddProduct(entity.Product{ID: "prod-cafe", Name: "Café 500g", CategoryID: "cat-abarrotes"})
	s.AddProduct(entity.Product{ID: "prod-agua", Name: "Agua 600ml", CategoryID: "cat-bebidas"})
	s.AddProduct(entity.Product{ID: "prod-pan", Name: "Pan tajado"})
	return s
}
