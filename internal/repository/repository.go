package repository

import (
	"context"

	"bakehouse/internal/model"
)

// ProductRepository defines the interface for catalogue data access. The
// cart and order cores only ever read from it.
type ProductRepository interface {
	// GetAll retrieves products with pagination and an optional category filter.
	GetAll(ctx context.Context, category string, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID. Returns nil when absent.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs. Missing IDs are
	// simply absent from the result.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)

	// GetFeatured retrieves products flagged as featured.
	GetFeatured(ctx context.Context) ([]model.Product, error)

	// Count returns the number of products in the catalogue.
	Count(ctx context.Context) (int64, error)

	// InsertMany inserts products. Used by catalogue seeding only.
	InsertMany(ctx context.Context, products []model.Product) error
}

// CartRepository defines the interface for cart document access. Mutations
// are expressed as atomic update-in-place operations so concurrent adds to
// the same product line cannot lose updates.
type CartRepository interface {
	// Get retrieves the cart for a subject. Returns nil when the subject
	// has no cart yet.
	Get(ctx context.Context, userID string) (*model.Cart, error)

	// IncrementItem atomically adds qty to an existing line. Returns false
	// when the cart has no line for the product.
	IncrementItem(ctx context.Context, userID, productID string, qty int) (bool, error)

	// PushItem appends a new line, creating the cart document if needed.
	// Must not duplicate a line that appeared concurrently.
	PushItem(ctx context.Context, userID string, item model.CartItem) error

	// SetItemQuantity atomically sets the quantity of an existing line.
	// Returns false when the cart has no line for the product.
	SetItemQuantity(ctx context.Context, userID, productID string, qty int) (bool, error)

	// RemoveItem removes the line for a product. No-op if absent.
	RemoveItem(ctx context.Context, userID, productID string) error

	// Clear empties the cart. No-op if the subject has no cart.
	Clear(ctx context.Context, userID string) error
}

// OrderRepository defines the interface for order document access.
type OrderRepository interface {
	// Insert persists a new order.
	Insert(ctx context.Context, order *model.Order) error

	// GetByID retrieves an order by its ID. Returns nil when absent.
	GetByID(ctx context.Context, id string) (*model.Order, error)

	// ListByUser retrieves a user's orders, newest first.
	ListByUser(ctx context.Context, userID string) ([]model.Order, error)

	// List retrieves orders across all users, newest first, with the total
	// count for pagination.
	List(ctx context.Context, limit, offset int) ([]model.Order, int64, error)

	// UpdateStatus moves an order from one status to another. The update is
	// conditional on the current status so concurrent transitions cannot
	// both win; returns false when the order was not in the expected status.
	UpdateStatus(ctx context.Context, id string, from, to model.OrderStatus) (bool, error)

	// Delete removes an order. Returns false when absent.
	Delete(ctx context.Context, id string) (bool, error)
}
