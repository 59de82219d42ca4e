package handler

import (
	"context"
	"log/slog"

	"github.com/omlabs/zapbridge/internal/domain"
)

// recordAction writes one action task history record. Unknown resource
// types indicate a missing registry entry and are logged loudly; the
// request that triggered the record has already been answered on its
// own terms.
func (h *Handler) recordAction(ctx context.Context, resourceType string, event domain.Event, resourceID int64, childID *int64) {
	recorder, err := h.registry.Recorder(resourceType)
	if err != nil {
		slog.Error("no task recorder registered for resource type",
			"error", err, "resource_type", resourceType)
		return
	}
	recorder.Record(ctx, event, resourceID, childID, 0)
}

// dispatch enqueues trigger deliveries for a topic, logging rather than
// failing the request when the queue is unavailable.
func (h *Handler) dispatch(ctx context.Context, topic string, resourceID int64) {
	if _, err := h.dispatcher.Dispatch(ctx, topic, resourceID); err != nil {
		slog.Error("failed to dispatch webhook deliveries",
			"error", err, "topic", topic, "resource_id", resourceID)
	}
}
