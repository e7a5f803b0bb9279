package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

// SaleRepo ventas en memoria. Las líneas se guardan dentro de la cabecera.
type SaleRepo struct {
	v view
}

func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.saleNumber[sale.SaleNumber]; ok {
			return domain.Wrap(domain.ErrInvalidState, "número de venta duplicado: "+sale.SaleNumber)
		}
		c := *sale
		c.Items = nil
		st.sales[sale.ID] = &c
		st.saleNumber[sale.SaleNumber] = sale.ID
		st.saleOrder = append(st.saleOrder, sale.ID)
		return nil
	})
}

func (r *SaleRepo) CreateItem(ctx context.Context, item *entity.SaleLineItem) error {
	return r.v.write(func(st *state) error {
		cur, ok := st.sales[item.SaleID]
		if !ok {
			return domain.Wrap(domain.ErrRecordNotFound, "venta no encontrada")
		}
		next := *cur
		it := *item
		next.Items = append(append([]*entity.SaleLineItem(nil), cur.Items...), &it)
		st.sales[item.SaleID] = &next
		return nil
	})
}

func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	r.v.read(func(st *state) {
		if s, ok := st.sales[id]; ok {
			out = copySale(s)
		}
	})
	return out, nil
}

func copySale(s *entity.Sale) *entity.Sale {
	c := *s
	c.Items = make([]*entity.SaleLineItem, 0, len(s.Items))
	for _, it := range s.Items {
		ic := *it
		c.Items = append(c.Items, &ic)
	}
	sort.Slice(c.Items, func(i, j int) bool { return c.Items[i].Position < c.Items[j].Position })
	return &c
}

var _ repository.SaleRepository = (*SaleRepo)(nil)
