package webhook

import "context"

// DeliveryResponse captures the HTTP response of a delivery attempt.
type DeliveryResponse struct {
	StatusCode int
	Status     string
}

// DeliveryOutcome describes one finished delivery attempt: the payload
// that was sent and either an HTTP response or a transport error.
type DeliveryOutcome struct {
	WebhookID  int64
	ResourceID int64
	DeliveryID string
	Payload    []byte
	Response   *DeliveryResponse
	Err        error
}

// DeliveryObserver receives delivery outcomes and job failures. The
// task history trigger listener implements it; the deliverer and worker
// only know the interface.
type DeliveryObserver interface {
	HandleDelivery(ctx context.Context, outcome DeliveryOutcome) error
	HandleJobFailure(ctx context.Context, jobID int64, cause error) error
}
