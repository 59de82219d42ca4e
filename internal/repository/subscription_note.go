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

// SubscriptionNoteRepository handles database operations for
// subscription notes.
type SubscriptionNoteRepository struct {
	pool *pgxpool.Pool
}

// NewSubscriptionNoteRepository creates a new SubscriptionNoteRepository.
func NewSubscriptionNoteRepository(pool *pgxpool.Pool) *SubscriptionNoteRepository {
	return &SubscriptionNoteRepository{pool: pool}
}

// GetByID retrieves a subscription note by ID.
func (r *SubscriptionNoteRepository) GetByID(ctx context.Context, noteID int64) (*domain.SubscriptionNote, error) {
	query, args, err := psql.
		Select("id", "subscription_id", "note", "created_at").
		From("subscription_notes").
		Where(sq.Eq{"id": noteID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for subscription note: %w", err)
	}

	var n domain.SubscriptionNote
	err = r.pool.QueryRow(ctx, query, args...).Scan(&n.ID, &n.SubscriptionID, &n.Note, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSubscriptionNoteNotFound
		}
		return nil, fmt.Errorf("scan subscription note: %w", err)
	}

	return &n, nil
}

// Create inserts a new subscription note and populates its ID and timestamp.
func (r *SubscriptionNoteRepository) Create(ctx context.Context, note *domain.SubscriptionNote) error {
	query, args, err := psql.
		Insert("subscription_notes").
		Columns("subscription_id", "note").
		Values(note.SubscriptionID, note.Note).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build Create query for subscription note: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&note.ID, &note.CreatedAt); err != nil {
		return fmt.Errorf("create subscription note: %w", err)
	}

	return nil
}
