package repository

import (
	"context"
	"fmt"
)

// TriggerTaskCount holds the number of trigger-related task records for
// one webhook and resource type.
type TriggerTaskCount struct {
	WebhookID    int64
	ResourceType string
	Count        int
}

// ActionTaskCount holds the number of action-related task records for
// one resource type.
type ActionTaskCount struct {
	ResourceType string
	Count        int
}

// GetTriggerTaskCounts returns trigger task record counts grouped by
// webhook ID and resource type.
func (r *TaskRepository) GetTriggerTaskCounts(ctx context.Context) ([]TriggerTaskCount, error) {
	query := `
		SELECT webhook_id, resource_type, COUNT(*)
		FROM task_history
		WHERE event_type = 'trigger'
		GROUP BY webhook_id, resource_type
		ORDER BY webhook_id DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query trigger task counts: %w", err)
	}
	defer rows.Close()

	var counts []TriggerTaskCount
	for rows.Next() {
		var c TriggerTaskCount
		if err := rows.Scan(&c.WebhookID, &c.ResourceType, &c.Count); err != nil {
			return nil, fmt.Errorf("scan trigger task count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return counts, nil
}

// GetActionTaskCounts returns action task record counts grouped by
// resource type.
func (r *TaskRepository) GetActionTaskCounts(ctx context.Context) ([]ActionTaskCount, error) {
	query := `
		SELECT resource_type, COUNT(*)
		FROM task_history
		WHERE event_type = 'action'
		GROUP BY resource_type
		ORDER BY resource_type ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query action task counts: %w", err)
	}
	defer rows.Close()

	var counts []ActionTaskCount
	for rows.Next() {
		var c ActionTaskCount
		if err := rows.Scan(&c.ResourceType, &c.Count); err != nil {
			return nil, fmt.Errorf("scan action task count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return counts, nil
}
