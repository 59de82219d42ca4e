package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/omlabs/zapbridge/internal/config"
	"github.com/omlabs/zapbridge/internal/handler/dto"
	"github.com/omlabs/zapbridge/internal/repository"
)

// handleSearchHistory lists task history records matching the query
// parameters: status, status_not, search, resource_id, child_id,
// resource_type (comma-separated), orderby, order, limit, offset.
func (h *Handler) handleSearchHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	criteria := repository.TaskSearchCriteria{
		Status:    q.Get("status"),
		StatusNot: q.Get("status_not"),
		Search:    q.Get("search"),
		OrderBy:   q.Get("orderby"),
		Order:     q.Get("order"),
	}

	if raw := q.Get("resource_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "resource_id must be an integer")
			return
		}
		criteria.ResourceID = &id
	}
	if raw := q.Get("child_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "child_id must be an integer")
			return
		}
		criteria.ChildID = &id
	}
	if raw := q.Get("resource_type"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				criteria.ResourceTypes = append(criteria.ResourceTypes, t)
			}
		}
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "limit must be an integer")
			return
		}
		criteria.Limit = limit
	}
	if raw := q.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "offset must be an integer")
			return
		}
		criteria.Offset = offset
	}

	tasks, err := h.taskRepo.Search(ctx, criteria)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	total, err := h.taskRepo.Count(ctx, criteria)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	limit := criteria.Limit
	if limit <= 0 || limit > config.MaxHistoryLimit {
		limit = config.DefaultHistoryLimit
	}

	respondJSON(w, http.StatusOK, dto.TasksListResponse{
		Tasks:  dto.ToTaskResponses(tasks),
		Total:  total,
		Limit:  limit,
		Offset: criteria.Offset,
	})
}

// handleGetHistory retrieves a single task history record.
func (h *Handler) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	historyID, ok := extractID(w, r, "id")
	if !ok {
		return
	}

	task, err := h.taskRepo.GetByID(ctx, historyID)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(task))
}

// handleHistoryStats returns per-webhook trigger counts and
// per-resource-type action counts.
func (h *Handler) handleHistoryStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	triggers, err := h.taskRepo.GetTriggerTaskCounts(ctx)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	actions, err := h.taskRepo.GetActionTaskCounts(ctx)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToStatsResponse(triggers, actions))
}
