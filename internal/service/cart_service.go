package service

import (
	"context"
	"errors"
	"fmt"

	"bakehouse/internal/model"
	"bakehouse/internal/repository"

	"github.com/rs/zerolog"
)

// cartService implements CartService. All mutations for a subject are
// serialized through a per-subject lock; the repository additionally uses
// atomic update-in-place operators, so concurrent adds from other instances
// merge rather than overwrite.
type cartService struct {
	carts    repository.CartRepository
	catalog  CatalogService
	notifier Notifier
	locks    *subjectLocks
	logger   zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	carts repository.CartRepository,
	catalog CatalogService,
	notifier Notifier,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		carts:    carts,
		catalog:  catalog,
		notifier: notifier,
		locks:    newSubjectLocks(),
		logger:   logger.With().Str("service", "cart").Logger(),
	}
}

// GetCart returns the derived summary for a subject.
func (s *cartService) GetCart(ctx context.Context, userID string) (*model.CartSummary, error) {
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return s.summarize(ctx, userID, cart)
}

// AddItem merges quantity into the subject's line for the product.
func (s *cartService) AddItem(ctx context.Context, userID, productID string, quantity int) (*model.CartSummary, error) {
	if quantity < 1 {
		return nil, model.ErrInvalidQuantity
	}

	// Resolve first so a vanished product rejects the add before the cart
	// is touched.
	snapshot, err := s.catalog.Resolve(ctx, productID)
	if err != nil {
		return nil, err
	}

	lock := s.locks.get(userID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.mergeLine(ctx, userID, model.CartItem{ProductID: productID, Quantity: quantity}); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, Notification{UserID: userID, Action: ActionAdded, Product: snapshot.Name})

	s.logger.Debug().
		Str("user_id", userID).
		Str("product_id", productID).
		Int("quantity", quantity).
		Msg("cart line added")

	return s.GetCart(ctx, userID)
}

// UpdateQuantity sets the line quantity. Quantities below one are silently
// ignored; removal is an explicit operation.
func (s *cartService) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*model.CartSummary, error) {
	if quantity < 1 {
		s.logger.Debug().
			Str("user_id", userID).
			Str("product_id", productID).
			Int("quantity", quantity).
			Msg("ignoring quantity update below one")
		return s.GetCart(ctx, userID)
	}

	lock := s.locks.get(userID)
	lock.Lock()
	defer lock.Unlock()

	matched, err := s.carts.SetItemQuantity(ctx, userID, productID, quantity)
	if err != nil {
		return nil, fmt.Errorf("failed to update quantity: %w", err)
	}

	if matched {
		if snapshot, resolveErr := s.catalog.Resolve(ctx, productID); resolveErr == nil {
			s.notifier.Notify(ctx, Notification{UserID: userID, Action: ActionUpdated, Product: snapshot.Name})
		}
	}

	return s.GetCart(ctx, userID)
}

// RemoveItem removes the line for a product.
func (s *cartService) RemoveItem(ctx context.Context, userID, productID string) (*model.CartSummary, error) {
	lock := s.locks.get(userID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.carts.RemoveItem(ctx, userID, productID); err != nil {
		return nil, fmt.Errorf("failed to remove item: %w", err)
	}

	// Best-effort name resolution; the product may already be gone.
	name := productID
	if snapshot, err := s.catalog.Resolve(ctx, productID); err == nil {
		name = snapshot.Name
	}
	s.notifier.Notify(ctx, Notification{UserID: userID, Action: ActionRemoved, Product: name})

	return s.GetCart(ctx, userID)
}

// ClearCart empties the subject's cart.
func (s *cartService) ClearCart(ctx context.Context, userID string) (*model.CartSummary, error) {
	lock := s.locks.get(userID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.carts.Clear(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	s.notifier.Notify(ctx, Notification{UserID: userID, Action: ActionCleared})

	return &model.CartSummary{Items: []model.CartLine{}}, nil
}

// MergeGuestCart folds the guest cart into the subject's durable cart.
// Guest lines whose product no longer exists are skipped so a stale local
// cart cannot block a login; every other line is merged before returning.
func (s *cartService) MergeGuestCart(ctx context.Context, userID string, guestItems []model.CartItem) (*model.CartSummary, error) {
	lock := s.locks.get(userID)
	lock.Lock()
	defer lock.Unlock()

	merged := 0
	for _, item := range guestItems {
		if item.Quantity < 1 {
			continue
		}

		snapshot, err := s.catalog.Resolve(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, model.ErrProductNotFound) {
				s.logger.Warn().
					Str("user_id", userID).
					Str("product_id", item.ProductID).
					Msg("skipping guest cart line for vanished product")
				continue
			}
			return nil, err
		}

		if err := s.mergeLine(ctx, userID, item); err != nil {
			return nil, err
		}

		merged++
		s.notifier.Notify(ctx, Notification{UserID: userID, Action: ActionMerged, Product: snapshot.Name})
	}

	s.logger.Info().
		Str("user_id", userID).
		Int("guest_lines", len(guestItems)).
		Int("merged", merged).
		Msg("guest cart reconciled")

	return s.GetCart(ctx, userID)
}

// mergeLine adds quantity onto an existing line or appends a new one. The
// push path is guarded against a line appearing concurrently on another
// instance; that race degrades to an increment.
func (s *cartService) mergeLine(ctx context.Context, userID string, item model.CartItem) error {
	matched, err := s.carts.IncrementItem(ctx, userID, item.ProductID, item.Quantity)
	if err != nil {
		return fmt.Errorf("failed to merge cart line: %w", err)
	}
	if matched {
		return nil
	}

	err = s.carts.PushItem(ctx, userID, item)
	if errors.Is(err, repository.ErrLineExists) {
		if _, err = s.carts.IncrementItem(ctx, userID, item.ProductID, item.Quantity); err != nil {
			return fmt.Errorf("failed to merge cart line: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to append cart line: %w", err)
	}
	return nil
}

// summarize resolves cart lines against the live catalogue and recomputes
// totals. Lines whose product has vanished are dropped from the view; the
// stored document is left untouched and checkout still rejects them.
func (s *cartService) summarize(ctx context.Context, userID string, cart *model.Cart) (*model.CartSummary, error) {
	summary := &model.CartSummary{Items: []model.CartLine{}}
	if cart == nil || len(cart.Items) == 0 {
		return summary, nil
	}

	ids := make([]string, len(cart.Items))
	for i, item := range cart.Items {
		ids[i] = item.ProductID
	}

	snapshots, err := s.catalog.ResolveMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cart products: %w", err)
	}

	for _, item := range cart.Items {
		snapshot, ok := snapshots[item.ProductID]
		if !ok {
			s.logger.Warn().
				Str("user_id", userID).
				Str("product_id", item.ProductID).
				Msg("dropping cart line for vanished product from summary")
			continue
		}

		subtotal := snapshot.Price * float64(item.Quantity)
		summary.Items = append(summary.Items, model.CartLine{
			ProductID: item.ProductID,
			Name:      snapshot.Name,
			Price:     snapshot.Price,
			Image:     snapshot.Image,
			Quantity:  item.Quantity,
			Subtotal:  subtotal,
		})
		summary.TotalItems += item.Quantity
		summary.TotalPrice += subtotal
	}

	return summary, nil
}
