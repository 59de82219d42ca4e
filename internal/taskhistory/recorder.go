package taskhistory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/omlabs/zapbridge/internal/domain"
	"github.com/omlabs/zapbridge/internal/repository"
)

// ResourceInfo describes one recordable resource: its machine-readable
// type and human-readable name, plus the same pair for its child
// concept when it has one (product variations under products, notes
// under orders and subscriptions).
type ResourceInfo struct {
	Type      string
	Name      string
	ChildType string
	ChildName string
}

// Recorder turns an event plus a resource identity into one composed,
// persisted task history record. Message wording is centralized here so
// the six template variants stay consistent across every resource type.
type Recorder struct {
	tasks *repository.TaskRepository
	info  ResourceInfo
}

// NewRecorder creates a Recorder for one resource.
func NewRecorder(tasks *repository.TaskRepository, info ResourceInfo) *Recorder {
	return &Recorder{tasks: tasks, info: info}
}

// Info returns the resource descriptor this recorder writes for.
func (r *Recorder) Info() ResourceInfo {
	return r.info
}

// Record creates, fills and saves one task history record.
//
// A nil childID means the record concerns the resource itself. A
// non-nil childID means it concerns the resource's child concept; the
// pointed-to value may be zero when the child's identity is unknown.
// ResourceID stays the parent identity either way.
//
// A failed insert is logged and not propagated: the audit row is lower
// priority than the operation it describes. The returned task keeps ID
// zero in that case.
func (r *Recorder) Record(ctx context.Context, event domain.Event, resourceID int64, childID *int64, webhookID int64) *domain.Task {
	id := resourceID
	name := r.info.Name
	if childID != nil {
		id = *childID
		name = r.info.ChildName
	}

	task := domain.NewTask()
	task.Status = domain.StatusSuccess
	if event.Err != nil {
		task.Status = event.Err.Code
	}
	task.WebhookID = webhookID
	task.ResourceID = resourceID
	task.ResourceType = r.info.Type
	if childID != nil {
		task.ChildID = *childID
		task.ChildType = r.info.ChildType
	}
	task.EventType = event.Type
	task.EventTopic = event.Topic
	task.Message = ComposeMessage(event, name, id)

	if err := r.tasks.Create(ctx, task); err != nil {
		slog.Error("failed to create task history record",
			"error", err,
			"resource_type", task.ResourceType,
			"resource_id", task.ResourceID,
			"event_topic", task.EventTopic,
		)
	}

	return task
}

// ComposeMessage renders the human-readable task message. The template
// is selected by the event type, success or failure, and whether the
// subject has a known identity.
func ComposeMessage(event domain.Event, name string, id int64) string {
	if event.Type == domain.EventTypeAction {
		if event.Err == nil {
			return fmt.Sprintf("%s %s #%d via <strong>%s</strong> action",
				event.ActionWord, name, id, event.Name)
		}
		if id > 0 {
			return fmt.Sprintf("Error %s %s #%d via <strong>%s</strong> action.<br />%s",
				event.ActionWord, name, id, event.Name, event.Err.Message)
		}
		return fmt.Sprintf("Error %s %s via <strong>%s</strong> action.<br />%s",
			event.ActionWord, name, event.Name, event.Err.Message)
	}

	if event.Err == nil {
		return fmt.Sprintf("Sent %s #%d successfully via <strong>%s</strong> trigger",
			name, id, event.Name)
	}
	return fmt.Sprintf("Error sending %s #%d via <strong>%s</strong> trigger.<br />%s",
		name, id, event.Name, event.Err.Message)
}
