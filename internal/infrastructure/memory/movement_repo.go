package memory

import (
	"context"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

// MovementRepo auditoría append-only en memoria.
type MovementRepo struct {
	v view
}

func (r *MovementRepo) CreateLog(ctx context.Context, l *entity.StockMovementLog) error {
	c := *l
	return r.v.write(func(st *state) error {
		st.logs = append(st.logs, &c)
		return nil
	})
}

func (r *MovementRepo) CreateTransaction(ctx context.Context, t *entity.StockMovementTransaction) error {
	c := *t
	return r.v.write(func(st *state) error {
		st.txs = append(st.txs, &c)
		return nil
	})
}

// ListLogs recorre de atrás hacia adelante: el orden de inserción es el orden temporal.
func (r *MovementRepo) ListLogs(ctx context.Context, stockRecordID string, limit int) ([]*entity.StockMovementLog, error) {
	var out []*entity.StockMovementLog
	r.v.read(func(st *state) {
		for i := len(st.logs) - 1; i >= 0; i-- {
			if st.logs[i].StockRecordID != stockRecordID {
				continue
			}
			c := *st.logs[i]
			out = append(out, &c)
			if limit > 0 && len(out) == limit {
				return
			}
		}
	})
	return out, nil
}

func (r *MovementRepo) ListTransactions(ctx context.Context, stockRecordID string, limit int) ([]*entity.StockMovementTransaction, error) {
	var out []*entity.StockMovementTransaction
	r.v.read(func(st *state) {
		for i := len(st.txs) - 1; i >= 0; i-- {
			if st.txs[i].StockRecordID != stockRecordID {
				continue
			}
			c := *st.txs[i]
			out = append(out, &c)
			if limit > 0 && len(out) == limit {
				return
			}
		}
	})
	return out, nil
}

var _ repository.StockMovementRepository = (*MovementRepo)(nil)
