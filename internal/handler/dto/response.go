package dto

import (
	"time"

	"github.com/omlabs/zapbridge/internal/domain"
	"github.com/omlabs/zapbridge/internal/repository"
)

// TaskResponse represents a single task history record.
type TaskResponse struct {
	HistoryID    int64     `json:"history_id"`
	Status       string    `json:"status"`
	DateTime     time.Time `json:"date_time"`
	WebhookID    int64     `json:"webhook_id"`
	ResourceType string    `json:"resource_type"`
	ResourceID   int64     `json:"resource_id"`
	ChildType    string    `json:"child_type,omitempty"`
	ChildID      int64     `json:"child_id,omitempty"`
	Message      string    `json:"message"`
	EventType    string    `json:"event_type"`
	EventTopic   string    `json:"event_topic"`
	Success      bool      `json:"success"`
}

// TasksListResponse represents the response for GET /history.
type TasksListResponse struct {
	Tasks  []TaskResponse `json:"tasks"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// StatsResponse represents the response for GET /history/stats.
type StatsResponse struct {
	Triggers []TriggerStat `json:"triggers"`
	Actions  []ActionStat  `json:"actions"`
}

// TriggerStat is a per-webhook trigger task count.
type TriggerStat struct {
	WebhookID    int64  `json:"webhook_id"`
	ResourceType string `json:"resource_type"`
	Count        int    `json:"count"`
}

// ActionStat is a per-resource-type action task count.
type ActionStat struct {
	ResourceType string `json:"resource_type"`
	Count        int    `json:"count"`
}

// WebhookResponse represents a webhook subscription.
type WebhookResponse struct {
	ID           int64  `json:"id"`
	Topic        string `json:"topic"`
	DeliveryURL  string `json:"delivery_url"`
	UserID       int64  `json:"user_id"`
	FailureCount int    `json:"failure_count"`
	Active       bool   `json:"active"`
}

// WebhooksListResponse represents the response for GET /webhooks.
type WebhooksListResponse struct {
	Webhooks []WebhookResponse `json:"webhooks"`
}

// ToTaskResponse converts domain.Task to TaskResponse.
func ToTaskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		HistoryID:    task.ID,
		Status:       task.Status,
		DateTime:     task.DateTime,
		WebhookID:    task.WebhookID,
		ResourceType: task.ResourceType,
		ResourceID:   task.ResourceID,
		ChildType:    task.ChildType,
		ChildID:      task.ChildID,
		Message:      task.Message,
		EventType:    string(task.EventType),
		EventTopic:   task.EventTopic,
		Success:      task.IsSuccessful(),
	}
}

// ToTaskResponses converts a slice of tasks.
func ToTaskResponses(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, ToTaskResponse(t))
	}
	return out
}

// ToWebhookResponse converts domain.Webhook to WebhookResponse. The
// secret never leaves the service.
func ToWebhookResponse(w *domain.Webhook) WebhookResponse {
	return WebhookResponse{
		ID:           w.ID,
		Topic:        w.Topic,
		DeliveryURL:  w.DeliveryURL,
		UserID:       w.UserID,
		FailureCount: w.FailureCount,
		Active:       w.Active,
	}
}

// ToStatsResponse converts repository stat rows to a StatsResponse.
func ToStatsResponse(triggers []repository.TriggerTaskCount, actions []repository.ActionTaskCount) StatsResponse {
	resp := StatsResponse{
		Triggers: make([]TriggerStat, 0, len(triggers)),
		Actions:  make([]ActionStat, 0, len(actions)),
	}
	for _, t := range triggers {
		resp.Triggers = append(resp.Triggers, TriggerStat{
			WebhookID:    t.WebhookID,
			ResourceType: t.ResourceType,
			Count:        t.Count,
		})
	}
	for _, a := range actions {
		resp.Actions = append(resp.Actions, ActionStat{
			ResourceType: a.ResourceType,
			Count:        a.Count,
		})
	}
	return resp
}
