package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/omlabs/zapbridge/internal/domain"
)

var orderColumns = []string{
	"id", "status", "currency", "total", "customer_id", "created_at", "updated_at",
}

// OrderRepository handles database operations for orders.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(&o.ID, &o.Status, &o.Currency, &o.Total, &o.CustomerID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}
	return &o, nil
}

// GetByID retrieves an order by ID.
func (r *OrderRepository) GetByID(ctx context.Context, orderID int64) (*domain.Order, error) {
	query, args, err := psql.
		Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"id": orderID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for order: %w", err)
	}

	return scanOrder(r.pool.QueryRow(ctx, query, args...))
}

// Create inserts a new order and populates its ID and timestamps.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	query, args, err := psql.
		Insert("orders").
		Columns("status", "currency", "total", "customer_id").
		Values(order.Status, order.Currency, order.Total, order.CustomerID).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build Create query for order: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt); err != nil {
		return fmt.Errorf("create order: %w", err)
	}

	return nil
}

// Update rewrites an order's mutable fields.
func (r *OrderRepository) Update(ctx context.Context, order *domain.Order) error {
	query, args, err := psql.
		Update("orders").
		Set("status", order.Status).
		Set("currency", order.Currency).
		Set("total", order.Total).
		Set("customer_id", order.CustomerID).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": order.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Update query for order %d: %w", order.ID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}

	return nil
}
