package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*MovementRepo)(nil)

// MovementRepo tablas append-only stock_movement_logs y stock_movement_transactions.
type MovementRepo struct {
	q Querier
}

func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

func (r *MovementRepo) CreateLog(ctx context.Context, l *entity.StockMovementLog) error {
	query := `
		INSERT INTO stock_movement_logs (id, stock_record_id, branch_id, product_id, variation_id, batch_id,
			quantity_change, previous_quantity, new_quantity, reason, reference, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query, l.ID, l.StockRecordID, l.BranchID, l.ProductID, l.VariationID, l.BatchID,
		l.QuantityChange, l.PreviousQuantity, l.NewQuantity, l.Reason, nullString(l.Reference), l.ActorID, l.CreatedAt)
	if err != nil {
		return fmt.Errorf("create movement log: %w", err)
	}
	return nil
}

func (r *MovementRepo) CreateTransaction(ctx context.Context, t *entity.StockMovementTransaction) error {
	meta, err := json.Marshal(t.Metadata)
	if err != nil {
		return fmt.Errorf("marshal movement metadata: %w", err)
	}
	query := `
		INSERT INTO stock_movement_transactions (id, stock_record_id, direction, quantity, reference, actor_id, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8)`
	_, err = r.q.Exec(ctx, query, t.ID, t.StockRecordID, t.Direction, t.Quantity,
		nullString(t.Reference), t.ActorID, string(meta), t.CreatedAt)
	if err != nil {
		return fmt.Errorf("create movement transaction: %w", err)
	}
	return nil
}

// ListLogs más recientes primero.
func (r *MovementRepo) ListLogs(ctx context.Context, stockRecordID string, limit int) ([]*entity.StockMovementLog, error) {
	query := `
		SELECT id, stock_record_id, branch_id, product_id, variation_id, batch_id,
			quantity_change, previous_quantity, new_quantity, reason, reference, actor_id, created_at
		FROM stock_movement_logs
		WHERE stock_record_id = $1
		ORDER BY created_at DESC, seq DESC
		LIMIT NULLIF($2, 0)`
	rows, err := r.q.Query(ctx, query, stockRecordID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list movement logs: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockMovementLog
	for rows.Next() {
		var (
			l   entity.StockMovementLog
			ref *string
		)
		if err := rows.Scan(&l.ID, &l.StockRecordID, &l.BranchID, &l.ProductID, &l.VariationID, &l.BatchID,
			&l.QuantityChange, &l.PreviousQuantity, &l.NewQuantity, &l.Reason, &ref, &l.ActorID, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement log: %w", err)
		}
		l.Reference = derefString(ref)
		out = append(out, &l)
	}
	return out, rows.Err()
}

func (r *MovementRepo) ListTransactions(ctx context.Context, stockRecordID string, limit int) ([]*entity.StockMovementTransaction, error) {
	query := `
		SELECT id, stock_record_id, direction, quantity, reference, actor_id, metadata, created_at
		FROM stock_movement_transactions
		WHERE stock_record_id = $1
		ORDER BY created_at DESC, seq DESC
		LIMIT NULLIF($2, 0)`
	rows, err := r.q.Query(ctx, query, stockRecordID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list movement transactions: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockMovementTransaction
	for rows.Next() {
		var (
			t    entity.StockMovementTransaction
			ref  *string
			meta []byte
		)
		if err := rows.Scan(&t.ID, &t.StockRecordID, &t.Direction, &t.Quantity, &ref, &t.ActorID, &meta, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement transaction: %w", err)
		}
		t.Reference = derefString(ref)
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &t.Metadata); err != nil {
				return nil, fmt.Errorf("decode movement metadata: %w", err)
			}
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

// clampLimit 0 se traduce a LIMIT NULL (sin límite).
func clampLimit(limit int) int {
	if limit < 0 {
		return 0
	}
	return limit
}
