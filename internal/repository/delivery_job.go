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

var jobColumns = []string{
	"id", "hook", "webhook_id", "resource_id", "status", "attempts",
	"created_at", "updated_at",
}

// DeliveryJobRepository handles database operations for queued webhook
// deliveries and their logs.
type DeliveryJobRepository struct {
	pool *pgxpool.Pool
}

// NewDeliveryJobRepository creates a new DeliveryJobRepository.
func NewDeliveryJobRepository(pool *pgxpool.Pool) *DeliveryJobRepository {
	return &DeliveryJobRepository{pool: pool}
}

func scanJob(row pgx.Row) (*domain.DeliveryJob, error) {
	var j domain.DeliveryJob
	err := row.Scan(&j.ID, &j.Hook, &j.WebhookID, &j.ResourceID, &j.Status, &j.Attempts, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("scan delivery job: %w", err)
	}
	return &j, nil
}

// GetByID retrieves a delivery job by ID.
func (r *DeliveryJobRepository) GetByID(ctx context.Context, jobID int64) (*domain.DeliveryJob, error) {
	query, args, err := psql.
		Select(jobColumns...).
		From("delivery_jobs").
		Where(sq.Eq{"id": jobID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for delivery job: %w", err)
	}

	return scanJob(r.pool.QueryRow(ctx, query, args...))
}

// Enqueue inserts a new pending delivery job and populates its ID.
func (r *DeliveryJobRepository) Enqueue(ctx context.Context, job *domain.DeliveryJob) error {
	if job.Status == "" {
		job.Status = domain.JobStatusPending
	}

	query, args, err := psql.
		Insert("delivery_jobs").
		Columns("hook", "webhook_id", "resource_id", "status").
		Values(job.Hook, job.WebhookID, job.ResourceID, job.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build Enqueue query for delivery job: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt); err != nil {
		return fmt.Errorf("enqueue delivery job: %w", err)
	}

	return nil
}

// ClaimNext atomically claims the oldest pending job and marks it
// running. Returns ErrNoPendingJobs when the queue is empty. The
// SKIP LOCKED clause lets concurrent workers claim without contention.
func (r *DeliveryJobRepository) ClaimNext(ctx context.Context) (*domain.DeliveryJob, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	query, args, err := psql.
		Select(jobColumns...).
		From("delivery_jobs").
		Where(sq.Eq{"status": domain.JobStatusPending}).
		OrderBy("id ASC").
		Limit(1).
		Suffix("FOR UPDATE SKIP LOCKED").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ClaimNext query: %w", err)
	}

	job, err := scanJob(tx.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			return nil, domain.ErrNoPendingJobs
		}
		return nil, err
	}

	update, updateArgs, err := psql.
		Update("delivery_jobs").
		Set("status", domain.JobStatusRunning).
		Set("attempts", sq.Expr("attempts + 1")).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": job.ID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ClaimNext update for job %d: %w", job.ID, err)
	}

	if _, err := tx.Exec(ctx, update, updateArgs...); err != nil {
		return nil, fmt.Errorf("mark job running: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	job.Status = domain.JobStatusRunning
	job.Attempts++

	return job, nil
}

// SetStatus marks a job complete or failed.
func (r *DeliveryJobRepository) SetStatus(ctx context.Context, jobID int64, status domain.JobStatus) error {
	query, args, err := psql.
		Update("delivery_jobs").
		Set("status", status).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": jobID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build SetStatus query for job %d: %w", jobID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("set job status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrJobNotFound
	}

	return nil
}

// AppendLog attaches a log line to a job.
func (r *DeliveryJobRepository) AppendLog(ctx context.Context, jobID int64, message string) error {
	query, args, err := psql.
		Insert("delivery_job_logs").
		Columns("job_id", "message").
		Values(jobID, message).
		ToSql()
	if err != nil {
		return fmt.Errorf("build AppendLog query for job %d: %w", jobID, err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("append job log: %w", err)
	}

	return nil
}

// LastLog returns the most recent log line for a job, or ok=false when
// the job has no logs.
func (r *DeliveryJobRepository) LastLog(ctx context.Context, jobID int64) (string, bool, error) {
	query, args, err := psql.
		Select("message").
		From("delivery_job_logs").
		Where(sq.Eq{"job_id": jobID}).
		OrderBy("id DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return "", false, fmt.Errorf("build LastLog query for job %d: %w", jobID, err)
	}

	var message string
	err = r.pool.QueryRow(ctx, query, args...).Scan(&message)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get last job log: %w", err)
	}

	return message, true, nil
}
