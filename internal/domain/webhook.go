package domain

import "strings"

// Webhook is a registered outbound subscription. The topic has the
// form "{resource}.{event}", e.g. "order.status_changed_to_processing".
type Webhook struct {
	ID           int64
	Topic        string
	DeliveryURL  string
	Secret       string
	UserID       int64
	FailureCount int
	Active       bool
}

// Resource returns the resource part of the topic ("order" for
// "order.paid"), or an empty string for a malformed topic.
func (w *Webhook) Resource() string {
	resource, _, ok := strings.Cut(w.Topic, ".")
	if !ok {
		return ""
	}
	return resource
}

// EventName returns the event part of the topic ("paid" for
// "order.paid"), or an empty string for a malformed topic.
func (w *Webhook) EventName() string {
	_, event, ok := strings.Cut(w.Topic, ".")
	if !ok {
		return ""
	}
	return event
}

// IsDeleteTopic reports whether the topic describes a deletion, in
// which case the underlying entity is already gone at delivery time.
func (w *Webhook) IsDeleteTopic() bool {
	return strings.Contains(w.Topic, ".deleted")
}
