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

var productColumns = []string{
	"id", "parent_id", "name", "sku", "price", "created_at", "updated_at",
}

// ProductRepository handles database operations for products and their
// variations.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.ParentID, &p.Name, &p.SKU, &p.Price, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}
	return &p, nil
}

// GetByID retrieves a product by ID.
func (r *ProductRepository) GetByID(ctx context.Context, productID int64) (*domain.Product, error) {
	query, args, err := psql.
		Select(productColumns...).
		From("products").
		Where(sq.Eq{"id": productID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for product: %w", err)
	}

	return scanProduct(r.pool.QueryRow(ctx, query, args...))
}

// Create inserts a new product and populates its ID and timestamps.
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	query, args, err := psql.
		Insert("products").
		Columns("parent_id", "name", "sku", "price").
		Values(product.ParentID, product.Name, product.SKU, product.Price).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build Create query for product: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt); err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	return nil
}

// Update rewrites a product's mutable fields.
func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	query, args, err := psql.
		Update("products").
		Set("name", product.Name).
		Set("sku", product.SKU).
		Set("price", product.Price).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": product.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Update query for product %d: %w", product.ID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}
