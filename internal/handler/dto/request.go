package dto

// CreateOrderRequest represents the request body for POST /orders.
type CreateOrderRequest struct {
	Status     string `json:"status"`
	Currency   string `json:"currency"`
	Total      string `json:"total"`
	CustomerID int64  `json:"customer_id"`
}

// UpdateOrderRequest represents the request body for PUT /orders/:id.
type UpdateOrderRequest struct {
	Status   *string `json:"status,omitempty"`
	Currency *string `json:"currency,omitempty"`
	Total    *string `json:"total,omitempty"`
}

// CreateOrderNoteRequest represents the request body for POST /orders/:id/notes.
type CreateOrderNoteRequest struct {
	Note string `json:"note"`
}

// CreateProductRequest represents the request body for POST /products.
type CreateProductRequest struct {
	Name     string `json:"name"`
	SKU      string `json:"sku"`
	Price    string `json:"price"`
	ParentID int64  `json:"parent_id,omitempty"`
}

// UpdateProductRequest represents the request body for PUT /products/:id.
type UpdateProductRequest struct {
	Name  *string `json:"name,omitempty"`
	SKU   *string `json:"sku,omitempty"`
	Price *string `json:"price,omitempty"`
}

// CreateWebhookRequest represents the request body for POST /webhooks.
type CreateWebhookRequest struct {
	Topic       string `json:"topic"`
	DeliveryURL string `json:"delivery_url"`
	Secret      string `json:"secret,omitempty"`
	UserID      int64  `json:"user_id,omitempty"`
	Active      *bool  `json:"active,omitempty"`
}
