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

// OrderNoteRepository handles database operations for order notes.
// The trigger listener uses it to resolve a note's parent order.
type OrderNoteRepository struct {
	pool *pgxpool.Pool
}

// NewOrderNoteRepository creates a new OrderNoteRepository.
func NewOrderNoteRepository(pool *pgxpool.Pool) *OrderNoteRepository {
	return &OrderNoteRepository{pool: pool}
}

// GetByID retrieves an order note by ID.
func (r *OrderNoteRepository) GetByID(ctx context.Context, noteID int64) (*domain.OrderNote, error) {
	query, args, err := psql.
		Select("id", "order_id", "note", "created_at").
		From("order_notes").
		Where(sq.Eq{"id": noteID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for order note: %w", err)
	}

	var n domain.OrderNote
	err = r.pool.QueryRow(ctx, query, args...).Scan(&n.ID, &n.OrderID, &n.Note, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNoteNotFound
		}
		return nil, fmt.Errorf("scan order note: %w", err)
	}

	return &n, nil
}

// Create inserts a new order note and populates its ID and timestamp.
func (r *OrderNoteRepository) Create(ctx context.Context, note *domain.OrderNote) error {
	query, args, err := psql.
		Insert("order_notes").
		Columns("order_id", "note").
		Values(note.OrderID, note.Note).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build Create query for order note: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&note.ID, &note.CreatedAt); err != nil {
		return fmt.Errorf("create order note: %w", err)
	}

	return nil
}

// Delete removes an order note.
func (r *OrderNoteRepository) Delete(ctx context.Context, noteID int64) error {
	query, args, err := psql.
		Delete("order_notes").
		Where(sq.Eq{"id": noteID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Delete query for order note %d: %w", noteID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete order note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNoteNotFound
	}

	return nil
}
