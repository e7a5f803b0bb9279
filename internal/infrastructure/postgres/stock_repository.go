package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

var _ repository.StockRecordRepository = (*StockRepo)(nil)

const stockColumns = `id, branch_id, product_id, variation_id, batch_id, quantity,
	min_stock, max_stock, reorder_point, last_updated, updated_by, created_at`

// StockRepo implementación de StockRecordRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

func scanStock(row pgx.Row) (*entity.StockRecord, error) {
	var (
		s         entity.StockRecord
		updatedBy *string
	)
	err := row.Scan(&s.ID, &s.BranchID, &s.ProductID, &s.VariationID, &s.BatchID, &s.Quantity,
		&s.MinStock, &s.MaxStock, &s.ReorderPoint, &s.LastUpdated, &updatedBy, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	s.UpdatedBy = derefString(updatedBy)
	return &s, nil
}

func (r *StockRepo) one(ctx context.Context, op, query string, args ...any) (*entity.StockRecord, error) {
	s, err := scanStock(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

// Get obtiene el registro por identidad compuesta.
func (r *StockRepo) Get(ctx context.Context, key entity.StockKey) (*entity.StockRecord, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_records
		WHERE branch_id = $1 AND product_id = $2 AND variation_id = $3 AND batch_id = $4`
	return r.one(ctx, "get stock", query, key.BranchID, key.ProductID, key.VariationID, key.BatchID)
}

// GetByID obtiene el registro por id.
func (r *StockRepo) GetByID(ctx context.Context, id string) (*entity.StockRecord, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_records WHERE id = $1`
	return r.one(ctx, "get stock by id", query, id)
}

// GetForUpdate obtiene el registro y bloquea la fila (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(ctx context.Context, key entity.StockKey) (*entity.StockRecord, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_records
		WHERE branch_id = $1 AND product_id = $2 AND variation_id = $3 AND batch_id = $4
		FOR UPDATE`
	return r.one(ctx, "get stock for update", query, key.BranchID, key.ProductID, key.VariationID, key.BatchID)
}

// GetByIDForUpdate obtiene el registro por id y bloquea la fila.
func (r *StockRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.StockRecord, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_records WHERE id = $1 FOR UPDATE`
	return r.one(ctx, "get stock by id for update", query, id)
}

// Create inserta el registro. La restricción única de identidad se traduce a ErrInvalidState.
func (r *StockRepo) Create(ctx context.Context, s *entity.StockRecord) error {
	query := `
		INSERT INTO stock_records (` + stockColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query, s.ID, s.BranchID, s.ProductID, s.VariationID, s.BatchID, s.Quantity,
		s.MinStock, s.MaxStock, s.ReorderPoint, s.LastUpdated, nullString(s.UpdatedBy), s.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Wrap(domain.ErrInvalidState, "ya existe stock para esa identidad")
		}
		if isCheckViolation(err) {
			return domain.Wrap(domain.ErrInvalidAmount, "umbrales o cantidad fuera de rango")
		}
		return fmt.Errorf("create stock: %w", err)
	}
	return nil
}

// EnsureForUpdate inserta seed si la identidad no existe (ON CONFLICT DO NOTHING)
// y luego bloquea la fila. Dos transacciones concurrentes sobre la misma identidad
// terminan con una sola fila: la segunda espera el commit de la primera en el INSERT.
func (r *StockRepo) EnsureForUpdate(ctx context.Context, seed *entity.StockRecord) (*entity.StockRecord, bool, error) {
	query := `
		INSERT INTO stock_records (` + stockColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (branch_id, product_id, variation_id, batch_id) DO NOTHING`
	tag, err := r.q.Exec(ctx, query, seed.ID, seed.BranchID, seed.ProductID, seed.VariationID, seed.BatchID, seed.Quantity,
		seed.MinStock, seed.MaxStock, seed.ReorderPoint, seed.LastUpdated, nullString(seed.UpdatedBy), seed.CreatedAt)
	if err != nil {
		return nil, false, fmt.Errorf("ensure stock: %w", err)
	}
	rec, err := r.GetForUpdate(ctx, seed.Key())
	if err != nil {
		return nil, false, err
	}
	if rec == nil {
		return nil, false, fmt.Errorf("ensure stock: fila no visible tras insertar")
	}
	return rec, tag.RowsAffected() == 1, nil
}

// UpdateQuantity persiste cantidad, fecha y actor.
func (r *StockRepo) UpdateQuantity(ctx context.Context, s *entity.StockRecord) error {
	query := `
		UPDATE stock_records SET quantity = $2, last_updated = $3, updated_by = $4
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, s.ID, s.Quantity, s.LastUpdated, nullString(s.UpdatedBy))
	if err != nil {
		if isCheckViolation(err) {
			return domain.Wrap(domain.ErrInsufficientStock, "la cantidad no puede ser negativa")
		}
		return fmt.Errorf("update stock quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Wrap(domain.ErrRecordNotFound, "stock no encontrado")
	}
	return nil
}

// UpdateThresholds persiste mínimo, máximo y punto de reorden.
func (r *StockRepo) UpdateThresholds(ctx context.Context, s *entity.StockRecord) error {
	query := `
		UPDATE stock_records SET min_stock = $2, max_stock = $3, reorder_point = $4
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, s.ID, s.MinStock, s.MaxStock, s.ReorderPoint)
	if err != nil {
		return fmt.Errorf("update stock thresholds: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Wrap(domain.ErrRecordNotFound, "stock no encontrado")
	}
	return nil
}

// DeleteByIDs elimina los registros. Los logs de auditoría no tienen FK y se conservan.
func (r *StockRepo) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM stock_records WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("delete stock: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ListLowStock registros con quantity <= min_stock, ascendente por cantidad.
func (r *StockRepo) ListLowStock(ctx context.Context, branchID string) ([]*entity.StockRecord, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_records
		WHERE quantity <= min_stock AND ($1 = '' OR branch_id = $1)
		ORDER BY quantity ASC, id ASC`
	rows, err := r.q.Query(ctx, query, branchID)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockRecord
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan low stock: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
