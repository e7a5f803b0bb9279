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

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo cabeceras (sales) y líneas (sale_items).
type SaleRepo struct {
	q Querier
}

func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create inserta la cabecera. sale_number es UNIQUE.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `
		INSERT INTO sales (id, sale_number, branch_id, user_id, customer_id, subtotal, discount, tax,
			total_amount, payment_method, status, payment_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query, s.ID, s.SaleNumber, s.BranchID, s.UserID, nullString(s.CustomerID),
		s.Subtotal, s.Discount, s.Tax, s.TotalAmount, s.PaymentMethod, s.Status, s.PaymentStatus, s.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Wrap(domain.ErrInvalidState, "número de venta duplicado: "+s.SaleNumber)
		}
		return fmt.Errorf("create sale: %w", err)
	}
	return nil
}

func (r *SaleRepo) CreateItem(ctx context.Context, it *entity.SaleLineItem) error {
	query := `
		INSERT INTO sale_items (id, sale_id, position, product_id, variation_id, batch_id, quantity,
			unit_price, total_price, cost_price, profit)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query, it.ID, it.SaleID, it.Position, it.ProductID, it.VariationID, it.BatchID,
		it.Quantity, it.UnitPrice, it.TotalPrice, it.CostPrice, it.Profit)
	if err != nil {
		return fmt.Errorf("create sale item: %w", err)
	}
	return nil
}

// GetByID devuelve la venta con sus líneas, o (nil, nil) si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	var (
		s        entity.Sale
		customer *string
	)
	query := `
		SELECT id, sale_number, branch_id, user_id, customer_id, subtotal, discount, tax,
			total_amount, payment_method, status, payment_status, created_at
		FROM sales WHERE id = $1`
	err := r.q.QueryRow(ctx, query, id).Scan(&s.ID, &s.SaleNumber, &s.BranchID, &s.UserID, &customer,
		&s.Subtotal, &s.Discount, &s.Tax, &s.TotalAmount, &s.PaymentMethod, &s.Status, &s.PaymentStatus, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	s.CustomerID = derefString(customer)

	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, position, product_id, variation_id, batch_id, quantity,
			unit_price, total_price, cost_price, profit
		FROM sale_items WHERE sale_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.SaleLineItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.Position, &it.ProductID, &it.VariationID, &it.BatchID,
			&it.Quantity, &it.UnitPrice, &it.TotalPrice, &it.CostPrice, &it.Profit); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		s.Items = append(s.Items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	return &s, nil
}
