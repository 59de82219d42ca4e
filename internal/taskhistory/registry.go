package taskhistory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/omlabs/zapbridge/internal/domain"
	"github.com/omlabs/zapbridge/internal/repository"
)

// Resource type constants. Webhook topics and action events use these
// as the machine-readable resource identifier.
const (
	ResourceBooking          = "booking"
	ResourceCoupon           = "coupon"
	ResourceCustomer         = "customer"
	ResourceMembershipPlan   = "membership_plan"
	ResourceOrder            = "order"
	ResourceOrderNote        = "order_note"
	ResourceProduct          = "product"
	ResourceSubscription     = "subscription"
	ResourceSubscriptionNote = "subscription_note"
	ResourceUserMembership   = "user_membership"
)

// parentResolver remaps a delivery's resource ID when it identifies a
// child entity: the return values are the parent's ID and the child's
// own ID. Resolvers are failure tolerant: when the child no longer
// exists the original ID is returned with a nil child.
type parentResolver func(ctx context.Context, resourceID int64) (int64, *int64)

type registryEntry struct {
	recorder *Recorder
	resolve  parentResolver
}

// Registry is the closed dispatch table from resource type to recorder
// and parent resolver. It is populated once at startup; a resource type
// missing from it is an implementation error, not a runtime condition.
type Registry struct {
	entries map[string]registryEntry
}

// NewRegistry builds the dispatch table for every supported resource
// type.
func NewRegistry(
	tasks *repository.TaskRepository,
	orderNotes *repository.OrderNoteRepository,
	subscriptionNotes *repository.SubscriptionNoteRepository,
	products *repository.ProductRepository,
) *Registry {
	orderRecorder := NewRecorder(tasks, ResourceInfo{
		Type: ResourceOrder, Name: "Order",
		ChildType: ResourceOrderNote, ChildName: "Order Note",
	})
	productRecorder := NewRecorder(tasks, ResourceInfo{
		Type: ResourceProduct, Name: "Product",
		ChildType: "product_variation", ChildName: "Product Variation",
	})
	subscriptionRecorder := NewRecorder(tasks, ResourceInfo{
		Type: ResourceSubscription, Name: "Subscription",
		ChildType: ResourceSubscriptionNote, ChildName: "Subscription Note",
	})

	entries := map[string]registryEntry{
		ResourceBooking: {recorder: NewRecorder(tasks, ResourceInfo{
			Type: ResourceBooking, Name: "Booking",
		})},
		ResourceCoupon: {recorder: NewRecorder(tasks, ResourceInfo{
			Type: ResourceCoupon, Name: "Coupon",
		})},
		ResourceCustomer: {recorder: NewRecorder(tasks, ResourceInfo{
			Type: ResourceCustomer, Name: "Customer",
		})},
		ResourceMembershipPlan: {recorder: NewRecorder(tasks, ResourceInfo{
			Type: ResourceMembershipPlan, Name: "Membership Plan",
		})},
		ResourceUserMembership: {recorder: NewRecorder(tasks, ResourceInfo{
			Type: ResourceUserMembership, Name: "User Membership",
		})},
		ResourceOrder: {recorder: orderRecorder},
		ResourceOrderNote: {
			recorder: orderRecorder,
			resolve: func(ctx context.Context, resourceID int64) (int64, *int64) {
				note, err := orderNotes.GetByID(ctx, resourceID)
				if err != nil {
					return resourceID, nil
				}
				return note.OrderID, &note.ID
			},
		},
		ResourceProduct: {
			recorder: productRecorder,
			resolve: func(ctx context.Context, resourceID int64) (int64, *int64) {
				product, err := products.GetByID(ctx, resourceID)
				if err != nil || !product.IsVariation() {
					return resourceID, nil
				}
				return product.ParentID, &product.ID
			},
		},
		ResourceSubscription: {recorder: subscriptionRecorder},
		ResourceSubscriptionNote: {
			recorder: subscriptionRecorder,
			resolve: func(ctx context.Context, resourceID int64) (int64, *int64) {
				note, err := subscriptionNotes.GetByID(ctx, resourceID)
				if err != nil {
					return resourceID, nil
				}
				return note.SubscriptionID, &note.ID
			},
		},
	}

	return &Registry{entries: entries}
}

// Recorder returns the task recorder for a resource type.
func (g *Registry) Recorder(resourceType string) (*Recorder, error) {
	entry, ok := g.entries[resourceType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownResourceType, resourceType)
	}
	return entry.recorder, nil
}

// Resolve returns the recorder for a resource type along with the
// resolved parent/child identity for the given resource ID.
func (g *Registry) Resolve(ctx context.Context, resourceType string, resourceID int64) (*Recorder, int64, *int64, error) {
	entry, ok := g.entries[resourceType]
	if !ok {
		return nil, 0, nil, fmt.Errorf("%w: %s", domain.ErrUnknownResourceType, resourceType)
	}

	childID := (*int64)(nil)
	if entry.resolve != nil {
		resolvedID, resolvedChild := entry.resolve(ctx, resourceID)
		if resolvedChild != nil {
			slog.Debug("resolved child resource to parent",
				"resource_type", resourceType,
				"parent_id", resolvedID,
				"child_id", *resolvedChild,
			)
		}
		resourceID = resolvedID
		childID = resolvedChild
	}

	return entry.recorder, resourceID, childID, nil
}
