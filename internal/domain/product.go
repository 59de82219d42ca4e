package domain

import "time"

// Product is a minimal store product. A non-zero ParentID marks a
// variation; task history records variations under the parent product.
type Product struct {
	ID        int64     `json:"id"`
	ParentID  int64     `json:"parent_id"`
	Name      string    `json:"name"`
	SKU       string    `json:"sku"`
	Price     string    `json:"price"`
	CreatedAt time.Time `json:"date_created"`
	UpdatedAt time.Time `json:"date_modified"`
}

// IsVariation reports whether the product is a variation of a parent
// product.
func (p *Product) IsVariation() bool {
	return p.ParentID > 0
}

// SubscriptionNote is a note attached to a subscription, recorded under
// its parent subscription the same way order notes are.
type SubscriptionNote struct {
	ID             int64     `json:"id"`
	SubscriptionID int64     `json:"subscription_id"`
	Note           string    `json:"note"`
	CreatedAt      time.Time `json:"date_created"`
}
