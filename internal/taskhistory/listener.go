package taskhistory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/omlabs/zapbridge/internal/domain"
	"github.com/omlabs/zapbridge/internal/repository"
	"github.com/omlabs/zapbridge/internal/webhook"
)

// errorEnvelope is the REST error shape a failed resource lookup
// serializes into. When a delivery payload parses into this shape the
// payload itself was already an error before it left the service.
type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Status int `json:"status"`
	} `json:"data"`
}

// TriggerListener translates delivery outcomes and job failures into
// task history records. It implements webhook.DeliveryObserver.
type TriggerListener struct {
	registry   *Registry
	webhooks   *repository.WebhookRepository
	jobs       *repository.DeliveryJobRepository
	transients *repository.TransientRepository
}

// NewTriggerListener creates a TriggerListener.
func NewTriggerListener(
	registry *Registry,
	webhooks *repository.WebhookRepository,
	jobs *repository.DeliveryJobRepository,
	transients *repository.TransientRepository,
) *TriggerListener {
	return &TriggerListener{
		registry:   registry,
		webhooks:   webhooks,
		jobs:       jobs,
		transients: transients,
	}
}

// HandleDelivery records one finished delivery attempt. Outcomes for
// webhooks this service no longer knows are skipped. Successes are
// recorded as well as failures so history shows both.
func (l *TriggerListener) HandleDelivery(ctx context.Context, outcome webhook.DeliveryOutcome) error {
	wh, err := l.webhooks.GetByID(ctx, outcome.WebhookID)
	if err != nil {
		if errors.Is(err, domain.ErrWebhookNotFound) {
			return nil
		}
		return fmt.Errorf("load webhook %d: %w", outcome.WebhookID, err)
	}

	recorder, resourceID, childID, err := l.prepareRecorder(ctx, wh, outcome.ResourceID)
	if err != nil {
		return err
	}

	apiErr := classifyOutcome(outcome)
	event := domain.TriggerEvent(wh.Topic, webhook.TopicName(wh.Topic), apiErr)
	task := recorder.Record(ctx, event, resourceID, childID, wh.ID)

	if apiErr != nil {
		if err := l.webhooks.IncrementFailureCount(ctx, wh.ID); err != nil {
			slog.Error("failed to increment webhook failure count",
				"error", err, "webhook_id", wh.ID)
		}
		slog.Error("webhook delivery failed",
			"webhook_id", wh.ID,
			"topic", wh.Topic,
			"resource_id", resourceID,
			"code", apiErr.Code,
			"task_id", task.ID,
		)
	}

	return nil
}

// HandleJobFailure records a delivery job that failed without producing
// an HTTP outcome. The message comes from the supplied cause or, when
// there is none, from the job's last log line.
func (l *TriggerListener) HandleJobFailure(ctx context.Context, jobID int64, cause error) error {
	job, err := l.jobs.GetByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("load job %d: %w", jobID, err)
	}
	if job.Hook != domain.HookDeliverWebhook {
		return nil
	}

	wh, err := l.webhooks.GetByID(ctx, job.WebhookID)
	if err != nil {
		if errors.Is(err, domain.ErrWebhookNotFound) {
			return nil
		}
		return fmt.Errorf("load webhook %d: %w", job.WebhookID, err)
	}

	recorder, resourceID, childID, err := l.prepareRecorder(ctx, wh, job.ResourceID)
	if err != nil {
		return err
	}

	message := "Unknown error"
	if cause != nil {
		message = cause.Error()
	} else if last, ok, logErr := l.jobs.LastLog(ctx, jobID); logErr != nil {
		return fmt.Errorf("load last log for job %d: %w", jobID, logErr)
	} else if ok {
		message = strings.TrimSuffix(last, ".")
	}

	apiErr := domain.NewAPIError("action_scheduler_failure",
		fmt.Sprintf("Delivery job failure: %s. Job ID: %d", message, jobID))
	event := domain.TriggerEvent(wh.Topic, webhook.TopicName(wh.Topic), apiErr)
	task := recorder.Record(ctx, event, resourceID, childID, wh.ID)

	if err := l.webhooks.IncrementFailureCount(ctx, wh.ID); err != nil {
		slog.Error("failed to increment webhook failure count",
			"error", err, "webhook_id", wh.ID)
	}
	slog.Error("webhook delivery job failed",
		"job_id", jobID,
		"webhook_id", wh.ID,
		"topic", wh.Topic,
		"task_id", task.ID,
	)

	return nil
}

// prepareRecorder resolves the recorder and the (parent, child)
// identity for one delivery. Delete topics consult the parent-ID stash
// because the entity row is gone by the time the delivery runs; the
// stash entry is consumed on use.
func (l *TriggerListener) prepareRecorder(ctx context.Context, wh *domain.Webhook, resourceID int64) (*Recorder, int64, *int64, error) {
	resourceType := wh.Resource()

	if wh.IsDeleteTopic() {
		key := webhook.ParentIDKey(resourceType, resourceID)
		value, ok, err := l.transients.Get(ctx, key)
		if err != nil {
			return nil, 0, nil, fmt.Errorf("load parent id stash %s: %w", key, err)
		}
		if ok {
			if err := l.transients.Delete(ctx, key); err != nil {
				slog.Error("failed to delete parent id stash", "error", err, "key", key)
			}
			parentID, err := strconv.ParseInt(value, 10, 64)
			if err == nil {
				recorder, recErr := l.registry.Recorder(resourceType)
				if recErr != nil {
					return nil, 0, nil, recErr
				}
				childID := resourceID
				return recorder, parentID, &childID, nil
			}
			slog.Error("malformed parent id stash", "key", key, "value", value)
		}
	}

	return l.registry.Resolve(ctx, resourceType, resourceID)
}

// classifyOutcome maps a delivery outcome onto one of the three failure
// classes, or nil for a successful delivery.
func classifyOutcome(outcome webhook.DeliveryOutcome) *domain.APIError {
	var envelope errorEnvelope
	if len(outcome.Payload) > 0 &&
		json.Unmarshal(outcome.Payload, &envelope) == nil &&
		envelope.Code != "" && envelope.Message != "" {
		return domain.NewAPIError(envelope.Code,
			fmt.Sprintf("Unexpected trigger payload: %s", envelope.Message))
	}

	if outcome.Err != nil {
		return domain.NewAPIError("http_request_failed",
			fmt.Sprintf("Communication error with zapier.com: %s", outcome.Err.Error()))
	}

	if outcome.Response != nil &&
		(outcome.Response.StatusCode < 200 || outcome.Response.StatusCode >= 303) {
		return domain.NewAPIError("trigger_error_response",
			fmt.Sprintf("Zapier.com returned an unexpected HTTP status code: %d (%s)",
				outcome.Response.StatusCode, outcome.Response.Status))
	}

	return nil
}
