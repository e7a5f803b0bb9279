package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

// StockRepo implementación en memoria de repository.StockRecordRepository.
// Los bloqueos de fila no aplican: la unidad de trabajo ya es exclusiva.
type StockRepo struct {
	v view
}

func (r *StockRepo) Get(ctx context.Context, key entity.StockKey) (*entity.StockRecord, error) {
	var out *entity.StockRecord
	r.v.read(func(st *state) {
		if id, ok := st.stockByKey[key]; ok {
			out = st.stock[id].Clone()
		}
	})
	return out, nil
}

func (r *StockRepo) GetByID(ctx context.Context, id string) (*entity.StockRecord, error) {
	var out *entity.StockRecord
	r.v.read(func(st *state) {
		if rec, ok := st.stock[id]; ok {
			out = rec.Clone()
		}
	})
	return out, nil
}

func (r *StockRepo) GetForUpdate(ctx context.Context, key entity.StockKey) (*entity.StockRecord, error) {
	return r.Get(ctx, key)
}

func (r *StockRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.StockRecord, error) {
	return r.GetByID(ctx, id)
}

func (r *StockRepo) Create(ctx context.Context, rec *entity.StockRecord) error {
	return r.v.write(func(st *state) error {
		key := rec.Key()
		if _, ok := st.stockByKey[key]; ok {
			return domain.Wrap(domain.ErrInvalidState, "ya existe stock para esa identidad")
		}
		st.stock[rec.ID] = rec.Clone()
		st.stockByKey[key] = rec.ID
		return nil
	})
}

func (r *StockRepo) EnsureForUpdate(ctx context.Context, seed *entity.StockRecord) (*entity.StockRecord, bool, error) {
	var (
		out     *entity.StockRecord
		created bool
	)
	err := r.v.write(func(st *state) error {
		key := seed.Key()
		if id, ok := st.stockByKey[key]; ok {
			out = st.stock[id].Clone()
			return nil
		}
		st.stock[seed.ID] = seed.Clone()
		st.stockByKey[key] = seed.ID
		out, created = seed.Clone(), true
		return nil
	})
	return out, created, err
}

func (r *StockRepo) UpdateQuantity(ctx context.Context, rec *entity.StockRecord) error {
	if rec.Quantity < 0 {
		return domain.Wrap(domain.ErrInsufficientStock, "la cantidad no puede ser negativa")
	}
	return r.replace(rec, func(cur, next *entity.StockRecord) {
		next.MinStock, next.MaxStock, next.ReorderPoint = cur.MinStock, cur.MaxStock, cur.ReorderPoint
	})
}

func (r *StockRepo) UpdateThresholds(ctx context.Context, rec *entity.StockRecord) error {
	return r.replace(rec, func(cur, next *entity.StockRecord) {
		next.Quantity, next.LastUpdated, next.UpdatedBy = cur.Quantity, cur.LastUpdated, cur.UpdatedBy
	})
}

// replace sustituye la entrada por una copia de rec; keep restaura los campos
// que la operación no debe tocar.
func (r *StockRepo) replace(rec *entity.StockRecord, keep func(cur, next *entity.StockRecord)) error {
	return r.v.write(func(st *state) error {
		cur, ok := st.stock[rec.ID]
		if !ok {
			return domain.Wrap(domain.ErrRecordNotFound, "stock no encontrado")
		}
		next := rec.Clone()
		next.BranchID, next.ProductID, next.VariationID, next.BatchID = cur.BranchID, cur.ProductID, cur.VariationID, cur.BatchID
		next.CreatedAt = cur.CreatedAt
		keep(cur, next)
		st.stock[rec.ID] = next
		return nil
	})
}

func (r *StockRepo) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	var n int64
	err := r.v.write(func(st *state) error {
		for _, id := range ids {
			rec, ok := st.stock[id]
			if !ok {
				continue
			}
			delete(st.stockByKey, rec.Key())
			delete(st.stock, id)
			n++
		}
		return nil
	})
	return n, err
}

func (r *StockRepo) ListLowStock(ctx context.Context, branchID string) ([]*entity.StockRecord, error) {
	var out []*entity.StockRecord
	r.v.read(func(st *state) {
		for _, rec := range st.stock {
			if branchID != "" && rec.BranchID != branchID {
				continue
			}
			if rec.IsLowStock() {
				out = append(out, rec.Clone())
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity < out[j].Quantity
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

var _ repository.StockRecordRepository = (*StockRepo)(nil)
