package domain

import "time"

// JobStatus represents the lifecycle of a delivery job.
type JobStatus string

const (
	JobStatusPending  JobStatus = "pending"
	JobStatusRunning  JobStatus = "running"
	JobStatusComplete JobStatus = "complete"
	JobStatusFailed   JobStatus = "failed"
)

// HookDeliverWebhook is the hook name of webhook delivery jobs. Jobs
// carrying any other hook are ignored by the trigger listener.
const HookDeliverWebhook = "deliver_webhook"

// DeliveryJob is one queued webhook delivery. The worker claims pending
// jobs, delivers the payload and marks the outcome; failures without an
// HTTP outcome (timeouts, panics) are reported to the trigger listener
// through the job failure path.
type DeliveryJob struct {
	ID         int64
	Hook       string
	WebhookID  int64
	ResourceID int64
	Status     JobStatus
	Attempts   int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
