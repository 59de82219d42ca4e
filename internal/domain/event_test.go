package domain_test

import (
	"testing"

	"github.com/omlabs/zapbridge/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestActionCreate_Success(t *testing.T) {
	event := domain.ActionCreate("order", nil)

	assert.Equal(t, domain.EventTypeAction, event.Type)
	assert.Equal(t, "order.create", event.Topic)
	assert.Equal(t, "Create Order", event.Name)
	assert.Equal(t, "Created", event.ActionWord)
	assert.True(t, event.IsSuccessful())
}

func TestActionCreate_Failure(t *testing.T) {
	event := domain.ActionCreate("order_note", domain.NewAPIError("rest_invalid_id", "Invalid ID."))

	assert.Equal(t, "order_note.create", event.Topic)
	assert.Equal(t, "Create Order Note", event.Name)
	assert.Equal(t, "creating", event.ActionWord)
	assert.False(t, event.IsSuccessful())
}

func TestActionUpdate(t *testing.T) {
	success := domain.ActionUpdate("product", nil)
	assert.Equal(t, "product.update", success.Topic)
	assert.Equal(t, "Update Product", success.Name)
	assert.Equal(t, "Updated", success.ActionWord)

	failure := domain.ActionUpdate("product", domain.NewAPIError("rest_invalid_id", "Invalid ID."))
	assert.Equal(t, "updating", failure.ActionWord)
}

func TestTriggerEvent(t *testing.T) {
	event := domain.TriggerEvent("order.created", "Order created", nil)

	assert.Equal(t, domain.EventTypeTrigger, event.Type)
	assert.Equal(t, "order.created", event.Topic)
	assert.Equal(t, "Order created", event.Name)
	assert.Empty(t, event.ActionWord)
	assert.True(t, event.IsSuccessful())
}

func TestResourceLabel(t *testing.T) {
	assert.Equal(t, "Order", domain.ResourceLabel("order"))
	assert.Equal(t, "Order Note", domain.ResourceLabel("order_note"))
	assert.Equal(t, "Membership Plan", domain.ResourceLabel("membership_plan"))
	assert.Equal(t, "Product Variation", domain.ResourceLabel("product_variation"))
}

func TestWebhookTopicParts(t *testing.T) {
	w := domain.Webhook{Topic: "order.status_changed_to_processing"}
	assert.Equal(t, "order", w.Resource())
	assert.Equal(t, "status_changed_to_processing", w.EventName())
	assert.False(t, w.IsDeleteTopic())

	deleted := domain.Webhook{Topic: "order_note.deleted"}
	assert.Equal(t, "order_note", deleted.Resource())
	assert.True(t, deleted.IsDeleteTopic())
}

func TestTaskIsSuccessful(t *testing.T) {
	task := domain.NewTask()
	task.Status = domain.StatusSuccess
	assert.True(t, task.IsSuccessful())

	task.Status = "trigger_error_response"
	assert.False(t, task.IsSuccessful())
}
