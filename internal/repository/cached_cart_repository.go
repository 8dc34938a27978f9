package repository

import (
	"context"
	"errors"

	"bakehouse/internal/cache"
	"bakehouse/internal/model"

	"github.com/rs/zerolog"
)

// cachedCartRepository decorates a CartRepository with a read-through cart
// cache. Reads serve from the cache when possible; every mutation
// invalidates the cached document. Cache failures are logged and ignored so
// the store stays the source of truth.
type cachedCartRepository struct {
	inner  CartRepository
	cache  cache.CartCache
	logger zerolog.Logger
}

// NewCachedCartRepository wraps repo with the given cart cache.
func NewCachedCartRepository(inner CartRepository, c cache.CartCache, logger zerolog.Logger) CartRepository {
	return &cachedCartRepository{
		inner:  inner,
		cache:  c,
		logger: logger.With().Str("repository", "cart-cached").Logger(),
	}
}

func (r *cachedCartRepository) Get(ctx context.Context, userID string) (*model.Cart, error) {
	cart, err := r.cache.Get(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		r.logger.Warn().Err(err).Str("user_id", userID).Msg("cart cache read failed")
	}

	cart, err = r.inner.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if cart != nil {
		if cacheErr := r.cache.Set(ctx, userID, cart); cacheErr != nil {
			r.logger.Warn().Err(cacheErr).Str("user_id", userID).Msg("cart cache write failed")
		}
	}

	return cart, nil
}

func (r *cachedCartRepository) IncrementItem(ctx context.Context, userID, productID string, qty int) (bool, error) {
	matched, err := r.inner.IncrementItem(ctx, userID, productID, qty)
	if err == nil && matched {
		r.invalidate(ctx, userID)
	}
	return matched, err
}

func (r *cachedCartRepository) PushItem(ctx context.Context, userID string, item model.CartItem) error {
	err := r.inner.PushItem(ctx, userID, item)
	if err == nil {
		r.invalidate(ctx, userID)
	}
	return err
}

func (r *cachedCartRepository) SetItemQuantity(ctx context.Context, userID, productID string, qty int) (bool, error) {
	matched, err := r.inner.SetItemQuantity(ctx, userID, productID, qty)
	if err == nil && matched {
		r.invalidate(ctx, userID)
	}
	return matched, err
}

func (r *cachedCartRepository) RemoveItem(ctx context.Context, userID, productID string) error {
	err := r.inner.RemoveItem(ctx, userID, productID)
	if err == nil {
		r.invalidate(ctx, userID)
	}
	return err
}

func (r *cachedCartRepository) Clear(ctx context.Context, userID string) error {
	err := r.inner.Clear(ctx, userID)
	if err == nil {
		r.invalidate(ctx, userID)
	}
	return err
}

func (r *cachedCartRepository) invalidate(ctx context.Context, userID string) {
	if err := r.cache.Delete(ctx, userID); err != nil {
		r.logger.Warn().Err(err).Str("user_id", userID).Msg("cart cache invalidation failed")
	}
}
