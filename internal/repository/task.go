package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/omlabs/zapbridge/internal/domain"
)

// taskColumns is the shared list of columns for task history queries.
var taskColumns = []string{
	"history_id", "status", "date_time", "webhook_id", "resource_type",
	"resource_id", "child_type", "child_id", "message", "event_type",
	"event_topic",
}

// TaskRepository is the sole component that reads and writes the
// task_history table.
type TaskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

// scanTask scans a single row into a Task struct.
func scanTask(row pgx.Row) (*domain.Task, error) {
	var task domain.Task
	err := row.Scan(
		&task.ID,
		&task.Status,
		&task.DateTime,
		&task.WebhookID,
		&task.ResourceType,
		&task.ResourceID,
		&task.ChildType,
		&task.ChildID,
		&task.Message,
		&task.EventType,
		&task.EventTopic,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}
	return &task, nil
}

// scanTasks scans multiple rows into a slice of Task structs.
func scanTasks(rows pgx.Rows) ([]*domain.Task, error) {
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return tasks, nil
}

// GetByID retrieves a task history record by ID.
func (r *TaskRepository) GetByID(ctx context.Context, taskID int64) (*domain.Task, error) {
	query, args, err := psql.
		Select(taskColumns...).
		From("task_history").
		Where(sq.Eq{"history_id": taskID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for task: %w", err)
	}

	return scanTask(r.pool.QueryRow(ctx, query, args...))
}

// Create inserts a new task history record and populates the task's ID.
func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	query, args, err := psql.
		Insert("task_history").
		Columns(
			"status", "date_time", "webhook_id", "resource_type",
			"resource_id", "child_type", "child_id", "message",
			"event_type", "event_topic",
		).
		Values(
			task.Status,
			task.DateTime,
			task.WebhookID,
			task.ResourceType,
			task.ResourceID,
			task.ChildType,
			task.ChildID,
			task.Message,
			task.EventType,
			task.EventTopic,
		).
		Suffix("RETURNING history_id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build Create query for task: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&task.ID); err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	return nil
}

// Update rewrites every column of an existing task history record.
// Tasks are immutable in normal operation; this exists for data-store
// level maintenance only.
func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	query, args, err := psql.
		Update("task_history").
		Set("status", task.Status).
		Set("date_time", task.DateTime).
		Set("webhook_id", task.WebhookID).
		Set("resource_type", task.ResourceType).
		Set("resource_id", task.ResourceID).
		Set("child_type", task.ChildType).
		Set("child_id", task.ChildID).
		Set("message", task.Message).
		Set("event_type", task.EventType).
		Set("event_topic", task.EventTopic).
		Where(sq.Eq{"history_id": task.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Update query for task %d: %w", task.ID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}

	return nil
}

// Delete removes a task history record.
func (r *TaskRepository) Delete(ctx context.Context, taskID int64) error {
	query, args, err := psql.
		Delete("task_history").
		Where(sq.Eq{"history_id": taskID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Delete query for task %d: %w", taskID, err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	return nil
}

// DeleteOlderThan removes task history records created before the
// cutoff and returns the number of rows removed.
func (r *TaskRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query, args, err := psql.
		Delete("task_history").
		Where(sq.Lt{"date_time": cutoff}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build DeleteOlderThan query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete old tasks: %w", err)
	}

	return tag.RowsAffected(), nil
}
