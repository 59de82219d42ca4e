package webhook

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/omlabs/zapbridge/internal/domain"
	"github.com/omlabs/zapbridge/internal/repository"
)

// restError is the serialized form of a failed resource lookup. It is
// delivered as the payload when the resource cannot be loaded, so the
// receiving end (and the task history listener) can tell the delivery
// carried an error instead of a resource.
type restError struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Data    restErrorData `json:"data"`
}

type restErrorData struct {
	Status int `json:"status"`
}

// PayloadBuilder serializes the payload for one delivery. Delete topics
// get a bare {"id": N} body because the entity row is already gone.
type PayloadBuilder struct {
	orders            *repository.OrderRepository
	orderNotes        *repository.OrderNoteRepository
	products          *repository.ProductRepository
	subscriptionNotes *repository.SubscriptionNoteRepository
}

// NewPayloadBuilder creates a PayloadBuilder.
func NewPayloadBuilder(
	orders *repository.OrderRepository,
	orderNotes *repository.OrderNoteRepository,
	products *repository.ProductRepository,
	subscriptionNotes *repository.SubscriptionNoteRepository,
) *PayloadBuilder {
	return &PayloadBuilder{
		orders:            orders,
		orderNotes:        orderNotes,
		products:          products,
		subscriptionNotes: subscriptionNotes,
	}
}

// Build returns the JSON payload for a delivery of the webhook's topic.
// Lookup failures do not abort the delivery: the payload becomes an
// error document and the delivery proceeds, so the failure still shows
// up in task history.
func (b *PayloadBuilder) Build(ctx context.Context, wh *domain.Webhook, resourceID int64) ([]byte, error) {
	if wh.IsDeleteTopic() {
		return json.Marshal(map[string]int64{"id": resourceID})
	}

	resource, err := b.loadResource(ctx, wh.Resource(), resourceID)
	if err != nil {
		slog.Warn("payload resource lookup failed",
			"error", err,
			"topic", wh.Topic,
			"resource_id", resourceID,
		)
		return json.Marshal(restError{
			Code:    "rest_invalid_id",
			Message: "Invalid ID.",
			Data:    restErrorData{Status: 404},
		})
	}

	return json.Marshal(resource)
}

func (b *PayloadBuilder) loadResource(ctx context.Context, resourceType string, resourceID int64) (any, error) {
	switch resourceType {
	case "order":
		return b.orders.GetByID(ctx, resourceID)
	case "order_note":
		return b.orderNotes.GetByID(ctx, resourceID)
	case "product":
		return b.products.GetByID(ctx, resourceID)
	case "subscription_note":
		return b.subscriptionNotes.GetByID(ctx, resourceID)
	default:
		// Topics without a stored entity deliver the bare identity.
		return map[string]int64{"id": resourceID}, nil
	}
}
