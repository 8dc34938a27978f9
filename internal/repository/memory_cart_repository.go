package repository

import (
	"context"
	"sync"
	"time"

	"bakehouse/internal/model"
)

// memoryCartRepository is a mutex-guarded in-memory CartRepository. It backs
// the local (device-bound) cart mode for embedded use and keeps service
// tests free of a running document store.
type memoryCartRepository struct {
	mu    sync.RWMutex
	carts map[string]*model.Cart
}

// NewMemoryCartRepository creates an empty in-memory cart repository.
func NewMemoryCartRepository() CartRepository {
	return &memoryCartRepository{
		carts: make(map[string]*model.Cart),
	}
}

func (r *memoryCartRepository) Get(ctx context.Context, userID string) (*model.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, ok := r.carts[userID]
	if !ok {
		return nil, nil
	}

	// Copy so callers cannot mutate stored state.
	copied := *cart
	copied.Items = append([]model.CartItem(nil), cart.Items...)
	return &copied, nil
}

func (r *memoryCartRepository) IncrementItem(ctx context.Context, userID, productID string, qty int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[userID]
	if !ok {
		return false, nil
	}

	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity += qty
			cart.UpdatedAt = time.Now()
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryCartRepository) PushItem(ctx context.Context, userID string, item model.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	cart, ok := r.carts[userID]
	if !ok {
		r.carts[userID] = &model.Cart{
			UserID:    userID,
			Items:     []model.CartItem{item},
			CreatedAt: now,
			UpdatedAt: now,
		}
		return nil
	}

	for i := range cart.Items {
		if cart.Items[i].ProductID == item.ProductID {
			return ErrLineExists
		}
	}

	cart.Items = append(cart.Items, item)
	cart.UpdatedAt = now
	return nil
}

func (r *memoryCartRepository) SetItemQuantity(ctx context.Context, userID, productID string, qty int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[userID]
	if !ok {
		return false, nil
	}

	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity = qty
			cart.UpdatedAt = time.Now()
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryCartRepository) RemoveItem(ctx context.Context, userID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[userID]
	if !ok {
		return nil
	}

	items := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ProductID != productID {
			items = append(items, item)
		}
	}
	cart.Items = items
	cart.UpdatedAt = time.Now()
	return nil
}

func (r *memoryCartRepository) Clear(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cart, ok := r.carts[userID]; ok {
		cart.Items = []model.CartItem{}
		cart.UpdatedAt = time.Now()
	}
	return nil
}
