package webhook

// topicNames maps machine-readable webhook topics to the human-readable
// trigger names shown in task history messages.
var topicNames = map[string]string{
	"order.created":        "Order created",
	"order.updated":        "Order updated",
	"order.deleted":        "Order deleted",
	"order.paid":           "Order paid",
	"order.status_changed": "Order status changed (any status)",

	"order.status_changed_to_pending":    "Order status changed to Pending",
	"order.status_changed_to_processing": "Order status changed to Processing",
	"order.status_changed_to_on-hold":    "Order status changed to On hold",
	"order.status_changed_to_completed":  "Order status changed to Completed",
	"order.status_changed_to_cancelled":  "Order status changed to Cancelled",
	"order.status_changed_to_refunded":   "Order status changed to Refunded",
	"order.status_changed_to_failed":     "Order status changed to Failed",

	"order_note.created": "Order Note created",
	"order_note.deleted": "Order Note deleted",

	"product.created": "Product created",
	"product.updated": "Product updated",
	"product.deleted": "Product deleted",

	"coupon.created": "Coupon created",
	"coupon.updated": "Coupon updated",
	"coupon.deleted": "Coupon deleted",

	"customer.created": "Customer created",
	"customer.updated": "Customer updated",
	"customer.deleted": "Customer deleted",

	"subscription.created":        "Subscription created",
	"subscription.updated":        "Subscription updated",
	"subscription.deleted":        "Subscription deleted",
	"subscription.status_changed": "Subscription status changed (any status)",

	"subscription_note.created": "Subscription Note created",
	"subscription_note.deleted": "Subscription Note deleted",

	"booking.created": "Booking created",
	"booking.updated": "Booking updated",
	"booking.deleted": "Booking deleted",

	"membership_plan.created": "Membership Plan created",
	"membership_plan.updated": "Membership Plan updated",
	"membership_plan.deleted": "Membership Plan deleted",

	"user_membership.created": "User Membership created",
	"user_membership.updated": "User Membership updated",
	"user_membership.deleted": "User Membership deleted",
}

// TopicName returns the human-readable name for a topic, falling back
// to the topic itself for unrecognized topics.
func TopicName(topic string) string {
	if name, ok := topicNames[topic]; ok {
		return name
	}
	return topic
}

// KnownTopic reports whether the topic is one this service can deliver.
func KnownTopic(topic string) bool {
	_, ok := topicNames[topic]
	return ok
}
