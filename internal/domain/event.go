package domain

import "strings"

// Event describes one occurrence to be recorded in the task history:
// an inbound create/update action or an outbound trigger delivery.
// Events are constructed via the factory functions below and not
// mutated afterwards.
type Event struct {
	Type  EventType
	Topic string
	Name  string
	// ActionWord is the verb used in action messages ("Created" on
	// success, "creating" on failure). Empty for trigger events.
	ActionWord string
	Err        *APIError
}

// ActionCreate builds an event for an inbound create action.
// Topic is "{resourceType}.create" and the name "Create {Resource Type}".
func ActionCreate(resourceType string, err *APIError) Event {
	e := Event{
		Type:  EventTypeAction,
		Topic: resourceType + ".create",
		Name:  "Create " + ResourceLabel(resourceType),
		Err:   err,
	}
	if e.IsSuccessful() {
		e.ActionWord = "Created"
	} else {
		e.ActionWord = "creating"
	}
	return e
}

// ActionUpdate builds an event for an inbound update action.
func ActionUpdate(resourceType string, err *APIError) Event {
	e := Event{
		Type:  EventTypeAction,
		Topic: resourceType + ".update",
		Name:  "Update " + ResourceLabel(resourceType),
		Err:   err,
	}
	if e.IsSuccessful() {
		e.ActionWord = "Updated"
	} else {
		e.ActionWord = "updating"
	}
	return e
}

// TriggerEvent builds an event for an outbound trigger delivery.
// Topic and name are taken verbatim from the delivering webhook.
func TriggerEvent(webhookTopic, topicName string, err *APIError) Event {
	return Event{
		Type:  EventTypeTrigger,
		Topic: webhookTopic,
		Name:  topicName,
		Err:   err,
	}
}

// IsSuccessful reports whether the event carries no error.
func (e Event) IsSuccessful() bool {
	return e.Err == nil
}

// ResourceLabel converts a machine-readable resource type into its
// human-readable form ("order_note" becomes "Order Note").
func ResourceLabel(resourceType string) string {
	words := strings.Split(resourceType, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
