package model

import "time"

// CartItem is a single product line in a stored cart. A cart never holds two
// lines for the same product; adds merge into the existing line instead.
type CartItem struct {
	ProductID string `json:"productId" bson:"product_id"`
	Quantity  int    `json:"quantity" bson:"quantity"`
}

// Cart is the stored cart document, one per subject.
type Cart struct {
	UserID    string     `json:"userId" bson:"user_id"`
	Items     []CartItem `json:"items" bson:"items"`
	CreatedAt time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" bson:"updated_at"`
}

// ItemFor returns the line for the given product, or nil.
func (c *Cart) ItemFor(productID string) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// CartLine is a cart item resolved against the live catalogue for display.
type CartLine struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
	Subtotal  float64 `json:"subtotal"`
}

// CartSummary is the derived view of a cart returned by every cart endpoint.
// Totals are recomputed from the lines on each read and never stored.
type CartSummary struct {
	Items      []CartLine `json:"items"`
	TotalItems int        `json:"totalItems"`
	TotalPrice float64    `json:"totalPrice"`
}

// CartMutationRequest is the payload for cart add/update/remove requests.
type CartMutationRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// MergeCartRequest carries the device-local guest cart submitted at login.
type MergeCartRequest struct {
	Items []CartItem `json:"items"`
}
