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

// webhookColumns is the shared list of columns for webhook queries.
var webhookColumns = []string{
	"id", "topic", "delivery_url", "secret", "user_id", "failure_count", "active",
}

// WebhookRepository handles database operations for webhook subscriptions.
type WebhookRepository struct {
	pool *pgxpool.Pool
}

// NewWebhookRepository creates a new WebhookRepository.
func NewWebhookRepository(pool *pgxpool.Pool) *WebhookRepository {
	return &WebhookRepository{pool: pool}
}

func scanWebhook(row pgx.Row) (*domain.Webhook, error) {
	var w domain.Webhook
	err := row.Scan(&w.ID, &w.Topic, &w.DeliveryURL, &w.Secret, &w.UserID, &w.FailureCount, &w.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWebhookNotFound
		}
		return nil, fmt.Errorf("scan webhook: %w", err)
	}
	return &w, nil
}

// GetByID retrieves a webhook by ID.
func (r *WebhookRepository) GetByID(ctx context.Context, webhookID int64) (*domain.Webhook, error) {
	query, args, err := psql.
		Select(webhookColumns...).
		From("webhooks").
		Where(sq.Eq{"id": webhookID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for webhook: %w", err)
	}

	return scanWebhook(r.pool.QueryRow(ctx, query, args...))
}

// Create inserts a new webhook subscription and populates its ID.
func (r *WebhookRepository) Create(ctx context.Context, webhook *domain.Webhook) error {
	query, args, err := psql.
		Insert("webhooks").
		Columns("topic", "delivery_url", "secret", "user_id", "active").
		Values(webhook.Topic, webhook.DeliveryURL, webhook.Secret, webhook.UserID, webhook.Active).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build Create query for webhook: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&webhook.ID); err != nil {
		return fmt.Errorf("create webhook: %w", err)
	}

	return nil
}

// Delete removes a webhook subscription.
func (r *WebhookRepository) Delete(ctx context.Context, webhookID int64) error {
	query, args, err := psql.
		Delete("webhooks").
		Where(sq.Eq{"id": webhookID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Delete query for webhook %d: %w", webhookID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete webhook: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrWebhookNotFound
	}

	return nil
}

// List retrieves all webhook subscriptions ordered by ID.
func (r *WebhookRepository) List(ctx context.Context) ([]*domain.Webhook, error) {
	query, args, err := psql.
		Select(webhookColumns...).
		From("webhooks").
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build List query for webhooks: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query webhooks: %w", err)
	}
	defer rows.Close()

	var webhooks []*domain.Webhook
	for rows.Next() {
		w, err := scanWebhook(rows)
		if err != nil {
			return nil, err
		}
		webhooks = append(webhooks, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return webhooks, nil
}

// ListActiveByTopic retrieves all active webhooks subscribed to a topic.
func (r *WebhookRepository) ListActiveByTopic(ctx context.Context, topic string) ([]*domain.Webhook, error) {
	query, args, err := psql.
		Select(webhookColumns...).
		From("webhooks").
		Where(sq.Eq{"topic": topic, "active": true}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListActiveByTopic query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query webhooks for topic %s: %w", topic, err)
	}
	defer rows.Close()

	var webhooks []*domain.Webhook
	for rows.Next() {
		w, err := scanWebhook(rows)
		if err != nil {
			return nil, err
		}
		webhooks = append(webhooks, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return webhooks, nil
}

// IncrementFailureCount bumps a webhook's delivery failure counter.
func (r *WebhookRepository) IncrementFailureCount(ctx context.Context, webhookID int64) error {
	query, args, err := psql.
		Update("webhooks").
		Set("failure_count", sq.Expr("failure_count + 1")).
		Where(sq.Eq{"id": webhookID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build IncrementFailureCount query for webhook %d: %w", webhookID, err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("increment webhook failure count: %w", err)
	}

	return nil
}
