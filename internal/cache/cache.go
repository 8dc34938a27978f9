package cache

import (
	"context"
	"errors"

	"bakehouse/internal/model"
)

// CartCache is a best-effort cache of cart documents keyed by subject.
// A cache failure never fails the request; callers fall through to the
// store.
type CartCache interface {
	Get(ctx context.Context, userID string) (*model.Cart, error)
	Set(ctx context.Context, userID string, cart *model.Cart) error
	Delete(ctx context.Context, userID string) error
}

// ErrCacheMiss is returned by Get when the subject has no cached cart.
var ErrCacheMiss = errors.New("cache miss")
