package cart

import (
	"time"

	"github.com/google/uuid"
)

type Item struct {
	ProductID  uuid.UUID `json:"product_id"`
	Name       string    `json:"name"`
	PriceCents int64     `json:"price_cents"`
	Quantity   int       `json:"quantity"`
}

// Cart is the server-authoritative cart snapshot. The client never
// computes totals itself; it replaces the whole snapshot from mutation
// responses.
type Cart struct {
	ID            uuid.UUID `json:"id"`
	Items         []Item    `json:"items"`
	SubtotalCents int64     `json:"subtotal_cents"`
	Currency      string    `json:"currency"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ItemCount sums quantities across all line items.
func (c *Cart) ItemCount() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// Count is the shape cached under the cart-count key so badge-style
// consumers can read it without decoding the full cart.
type Count struct {
	Count int `json:"count"`
}

// AddItemRequest adds a product to the cart.
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// UpdateItemRequest changes the quantity of an existing line item.
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}
