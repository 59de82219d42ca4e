package domain

import "time"

// Order is a minimal store order, enough to serve trigger payloads and
// inbound create/update actions.
type Order struct {
	ID         int64     `json:"id"`
	Status     string    `json:"status"`
	Currency   string    `json:"currency"`
	Total      string    `json:"total"`
	CustomerID int64     `json:"customer_id"`
	CreatedAt  time.Time `json:"date_created"`
	UpdatedAt  time.Time `json:"date_modified"`
}

// OrderNote is a note attached to an order. Task history records notes
// under their parent order: the order ID is the resource, the note ID
// the child.
type OrderNote struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"order_id"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"date_created"`
}
