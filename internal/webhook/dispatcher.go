package webhook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/omlabs/zapbridge/internal/config"
	"github.com/omlabs/zapbridge/internal/domain"
	"github.com/omlabs/zapbridge/internal/repository"
)

// ParentIDKey is the transient key under which a child entity's parent
// ID is stashed ahead of deletion.
func ParentIDKey(resourceType string, resourceID int64) string {
	return fmt.Sprintf("%s_%d_parent_id", resourceType, resourceID)
}

// Dispatcher fans a store event out to every active webhook subscribed
// to its topic by enqueueing one delivery job per webhook.
type Dispatcher struct {
	webhooks   *repository.WebhookRepository
	jobs       *repository.DeliveryJobRepository
	transients *repository.TransientRepository
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(
	webhooks *repository.WebhookRepository,
	jobs *repository.DeliveryJobRepository,
	transients *repository.TransientRepository,
) *Dispatcher {
	return &Dispatcher{webhooks: webhooks, jobs: jobs, transients: transients}
}

// Dispatch enqueues delivery jobs for every active webhook subscribed
// to the topic. Returns the number of jobs enqueued.
func (d *Dispatcher) Dispatch(ctx context.Context, topic string, resourceID int64) (int, error) {
	if !KnownTopic(topic) {
		return 0, fmt.Errorf("%w: %s", domain.ErrInvalidTopic, topic)
	}

	webhooks, err := d.webhooks.ListActiveByTopic(ctx, topic)
	if err != nil {
		return 0, fmt.Errorf("list webhooks for topic %s: %w", topic, err)
	}

	enqueued := 0
	for _, wh := range webhooks {
		job := &domain.DeliveryJob{
			Hook:       domain.HookDeliverWebhook,
			WebhookID:  wh.ID,
			ResourceID: resourceID,
		}
		if err := d.jobs.Enqueue(ctx, job); err != nil {
			return enqueued, fmt.Errorf("enqueue delivery for webhook %d: %w", wh.ID, err)
		}
		enqueued++
	}

	if enqueued > 0 {
		slog.Info("dispatched webhook deliveries",
			"topic", topic,
			"resource_id", resourceID,
			"jobs", enqueued,
		)
	}

	return enqueued, nil
}

// StashParentID records a child entity's parent ID before the child is
// deleted, so the delete-topic delivery can still attribute the child
// to its parent. The stash expires after config.ParentIDCacheTTL.
func (d *Dispatcher) StashParentID(ctx context.Context, resourceType string, resourceID, parentID int64) error {
	key := ParentIDKey(resourceType, resourceID)
	if err := d.transients.Set(ctx, key, fmt.Sprintf("%d", parentID), config.ParentIDCacheTTL); err != nil {
		return fmt.Errorf("stash parent id under %s: %w", key, err)
	}
	return nil
}
