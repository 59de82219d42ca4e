package repository

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/omlabs/zapbridge/internal/config"
	"github.com/omlabs/zapbridge/internal/domain"
)

// TaskSearchCriteria holds all supported filters for task history searches.
type TaskSearchCriteria struct {
	Status        string   // Optional: exact status match
	StatusNot     string   // Optional: exclude exact status
	Search        string   // Optional: substring match against message or status
	ResourceID    *int64   // Optional: exact resource ID
	ChildID       *int64   // Optional: exact child ID
	ResourceTypes []string // Optional: one type for exact match, several for an IN list
	OrderBy       string   // Optional: sort column (default history_id)
	Order         string   // Optional: ASC or DESC (default DESC)
	Limit         int      // Page size; 0 means the default, above the cap falls back to the default
	Offset        int      // Page offset
}

// orderableColumns is the whitelist of sortable task history columns.
var orderableColumns = map[string]bool{
	"history_id":    true,
	"status":        true,
	"date_time":     true,
	"webhook_id":    true,
	"resource_type": true,
	"resource_id":   true,
	"event_type":    true,
	"event_topic":   true,
}

// applyFilters adds the criteria's WHERE clauses to a select builder.
func applyFilters(qb sq.SelectBuilder, criteria TaskSearchCriteria) sq.SelectBuilder {
	if criteria.Status != "" {
		qb = qb.Where(sq.Eq{"status": criteria.Status})
	}
	if criteria.StatusNot != "" {
		qb = qb.Where(sq.NotEq{"status": criteria.StatusNot})
	}
	if criteria.Search != "" {
		pattern := "%" + escapeLike(criteria.Search) + "%"
		qb = qb.Where(sq.Or{
			sq.ILike{"message": pattern},
			sq.ILike{"status": pattern},
		})
	}
	if criteria.ResourceID != nil {
		qb = qb.Where(sq.Eq{"resource_id": *criteria.ResourceID})
	}
	if criteria.ChildID != nil {
		qb = qb.Where(sq.Eq{"child_id": *criteria.ChildID})
	}
	if len(criteria.ResourceTypes) > 0 {
		qb = qb.Where(sq.Eq{"resource_type": criteria.ResourceTypes})
	}
	return qb
}

// escapeLike escapes LIKE metacharacters in a user-supplied search term.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// Search retrieves task history records matching the criteria.
//
// Ordering defaults to history_id DESC; unrecognized columns fall back
// to the default rather than erroring. The page size defaults to
// config.DefaultHistoryLimit and requests above config.MaxHistoryLimit
// fall back to the default.
func (r *TaskRepository) Search(ctx context.Context, criteria TaskSearchCriteria) ([]*domain.Task, error) {
	qb := applyFilters(psql.Select(taskColumns...).From("task_history"), criteria)

	orderBy := criteria.OrderBy
	if !orderableColumns[orderBy] {
		orderBy = "history_id"
	}
	order := strings.ToUpper(criteria.Order)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	qb = qb.OrderBy(orderBy + " " + order)

	limit := criteria.Limit
	if limit <= 0 || limit > config.MaxHistoryLimit {
		limit = config.DefaultHistoryLimit
	}
	offset := criteria.Offset
	if offset < 0 {
		offset = 0
	}
	qb = qb.Limit(uint64(limit)).Offset(uint64(offset))

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Search query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}

	return scanTasks(rows)
}

// Count returns the number of task history records matching the
// criteria, ignoring pagination.
func (r *TaskRepository) Count(ctx context.Context, criteria TaskSearchCriteria) (int, error) {
	qb := applyFilters(psql.Select("COUNT(history_id)").From("task_history"), criteria)

	query, args, err := qb.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build Count query: %w", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}

	return total, nil
}
