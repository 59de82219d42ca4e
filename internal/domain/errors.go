package domain

import "errors"

// Domain-specific errors for lookup and resolution failures.
var (
	// Task history errors
	ErrTaskNotFound = errors.New("task history record not found")

	// Store resource errors
	ErrOrderNotFound            = errors.New("order not found")
	ErrOrderNoteNotFound        = errors.New("order note not found")
	ErrProductNotFound          = errors.New("product not found")
	ErrSubscriptionNoteNotFound = errors.New("subscription note not found")

	// Webhook errors
	ErrWebhookNotFound = errors.New("webhook not found")

	// Delivery job errors
	ErrJobNotFound   = errors.New("delivery job not found")
	ErrNoPendingJobs = errors.New("no pending delivery jobs")

	// ErrUnknownResourceType indicates a resource type with no registered
	// task recorder. This is an implementation error (a missing registry
	// entry), not a runtime condition, and is never swallowed.
	ErrUnknownResourceType = errors.New("unknown resource type")

	// Validation errors
	ErrInvalidTopic = errors.New("invalid webhook topic")
	ErrInvalidToken = errors.New("invalid authentication token")
)
