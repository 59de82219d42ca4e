package domain

import "time"

// EventType distinguishes inbound actions from outbound trigger deliveries.
type EventType string

const (
	EventTypeAction  EventType = "action"
	EventTypeTrigger EventType = "trigger"
)

// StatusSuccess is the task status for successful events. Failed events
// store the error code in the status column instead.
const StatusSuccess = "success"

// Task is a single task history record: one row per inbound action or
// outbound trigger delivery, success or failure.
//
// ResourceID always identifies the parent resource, even when the row
// concerns a child entity (an order note row carries the order ID as
// ResourceID and the note ID as ChildID). ChildID is non-zero only when
// ChildType is non-empty. The Message is composed once at write time and
// never regenerated.
type Task struct {
	ID           int64
	Status       string
	DateTime     time.Time
	WebhookID    int64
	ResourceType string
	ResourceID   int64
	ChildType    string
	ChildID      int64
	Message      string
	EventType    EventType
	EventTopic   string
}

// NewTask returns a fresh unsaved Task stamped with the current time.
func NewTask() *Task {
	return &Task{DateTime: time.Now().UTC().Truncate(time.Second)}
}

// IsSuccessful reports whether the recorded event succeeded.
func (t *Task) IsSuccessful() bool {
	return t.Status == StatusSuccess
}
