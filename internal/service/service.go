package service

import (
	"context"

	"bakehouse/internal/model"
)

// CatalogService resolves products from the live catalogue. The cart and
// order cores treat it as a read-only collaborator: a failed resolution
// rejects the whole containing operation, never a silent skip.
type CatalogService interface {
	// GetAll retrieves products with pagination and an optional category filter.
	GetAll(ctx context.Context, category string, limit, offset int) ([]model.Product, error)

	// GetFeatured retrieves products flagged as featured.
	GetFeatured(ctx context.Context) ([]model.Product, error)

	// GetByID retrieves a single product. Returns nil when absent.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// Resolve returns a point-in-time snapshot of a product, or
	// model.ErrProductNotFound when the identifier does not exist.
	Resolve(ctx context.Context, id string) (model.ProductSnapshot, error)

	// ResolveMany returns snapshots keyed by product ID. IDs that no longer
	// resolve are absent from the map.
	ResolveMany(ctx context.Context, ids []string) (map[string]model.ProductSnapshot, error)
}

// CartService owns the per-subject cart: accumulation, quantity rules, and
// reconciliation of a guest cart into the subject's durable cart at login.
type CartService interface {
	// GetCart returns the derived summary for a subject. Totals are
	// recomputed on every read.
	GetCart(ctx context.Context, userID string) (*model.CartSummary, error)

	// AddItem merges quantity into the subject's line for the product,
	// appending a new line on first add. Fails with ProductNotFound when
	// the product does not exist; the cart is unchanged on failure.
	AddItem(ctx context.Context, userID, productID string, quantity int) (*model.CartSummary, error)

	// UpdateQuantity sets the line quantity. A quantity below one is a
	// silent no-op so UI decrement races at the boundary of one do not
	// delete lines.
	UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*model.CartSummary, error)

	// RemoveItem removes the line for a product. No-op if absent.
	RemoveItem(ctx context.Context, userID, productID string) (*model.CartSummary, error)

	// ClearCart empties the subject's cart.
	ClearCart(ctx context.Context, userID string) (*model.CartSummary, error)

	// MergeGuestCart folds a device-local guest cart into the subject's
	// durable cart: quantities add for lines present on both sides, new
	// lines are copied. Called once per guest-to-authenticated transition.
	MergeGuestCart(ctx context.Context, userID string, guestItems []model.CartItem) (*model.CartSummary, error)
}

// OrderService converts cart snapshots into immutable orders and governs
// the order lifecycle.
type OrderService interface {
	// CreateOrder assembles an order from the subject's current cart,
	// freezing each line's name, image and price at this moment. The total
	// is always computed server-side.
	CreateOrder(ctx context.Context, userID string, req *model.CreateOrderRequest) (*model.Order, error)

	// GetOrder retrieves an order, enforcing owner-or-admin visibility.
	GetOrder(ctx context.Context, id, requesterID string, requesterAdmin bool) (*model.Order, error)

	// ListMine retrieves the subject's orders, newest first.
	ListMine(ctx context.Context, userID string) ([]model.Order, error)

	// ListAll retrieves a page of all orders (admin view, fixed page size).
	ListAll(ctx context.Context, page int) (*model.OrderPage, error)

	// UpdateStatus applies an administrative status transition. Illegal
	// transitions fail with InvalidTransition and leave the order unchanged.
	UpdateStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error)

	// Delete removes an order (admin).
	Delete(ctx context.Context, id string) error
}
