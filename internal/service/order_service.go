package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"bakehouse/internal/model"
	"bakehouse/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// adminPageSize is the fixed page size of the administrative order listing.
const adminPageSize = 10

// orderService implements OrderService.
type orderService struct {
	orders  repository.OrderRepository
	carts   repository.CartRepository
	catalog CatalogService
	logger  zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orders repository.OrderRepository,
	carts repository.CartRepository,
	catalog CatalogService,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orders:  orders,
		carts:   carts,
		catalog: catalog,
		logger:  logger.With().Str("service", "order").Logger(),
	}
}

// CreateOrder assembles an immutable order from the subject's current cart.
// Each line's name, image and price are snapshotted here; later catalogue
// changes never affect the order. The total is computed server-side and any
// client-supplied total is ignored.
func (s *orderService) CreateOrder(ctx context.Context, userID string, req *model.CreateOrderRequest) (*model.Order, error) {
	if err := validateOrderRequest(req); err != nil {
		return nil, err
	}

	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, model.ErrCartEmpty
	}

	items := make([]model.OrderItem, 0, len(cart.Items))
	var total float64
	for _, line := range cart.Items {
		snapshot, err := s.catalog.Resolve(ctx, line.ProductID)
		if err != nil {
			// Reject the whole order; no partial order is ever created.
			s.logger.Warn().
				Str("user_id", userID).
				Str("product_id", line.ProductID).
				Err(err).
				Msg("order rejected during product snapshot")
			return nil, err
		}

		items = append(items, model.OrderItem{
			ProductID: snapshot.ProductID,
			Name:      snapshot.Name,
			Image:     snapshot.Image,
			Price:     snapshot.Price,
			Quantity:  line.Quantity,
		})
		total += snapshot.Price * float64(line.Quantity)
	}

	now := time.Now()
	order := &model.Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		Items:           items,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		TotalAmount:     total,
		Status:          model.StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.orders.Insert(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Cart clearing is best-effort cleanup; the order stands even if it
	// fails.
	if err := s.carts.Clear(ctx, userID); err != nil {
		s.logger.Warn().
			Err(err).
			Str("user_id", userID).
			Str("order_id", order.ID).
			Msg("failed to clear cart after order creation")
	}

	s.logger.Info().
		Str("order_id", order.ID).
		Str("user_id", userID).
		Int("item_count", len(items)).
		Float64("total", total).
		Msg("order created")

	return order, nil
}

// GetOrder retrieves an order, enforcing owner-or-admin visibility.
func (s *orderService) GetOrder(ctx context.Context, id, requesterID string, requesterAdmin bool) (*model.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	if order.UserID != requesterID && !requesterAdmin {
		s.logger.Warn().
			Str("order_id", id).
			Str("requester", requesterID).
			Msg("order access denied")
		return nil, model.ErrForbidden
	}

	return order, nil
}

// ListMine retrieves the subject's orders, newest first.
func (s *orderService) ListMine(ctx context.Context, userID string) ([]model.Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	if orders == nil {
		orders = []model.Order{}
	}
	return orders, nil
}

// ListAll retrieves a page of all orders for the admin view.
func (s *orderService) ListAll(ctx context.Context, page int) (*model.OrderPage, error) {
	if page < 1 {
		page = 1
	}

	orders, total, err := s.orders.List(ctx, adminPageSize, adminPageSize*(page-1))
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	if orders == nil {
		orders = []model.Order{}
	}

	return &model.OrderPage{
		Orders: orders,
		Page:   page,
		Pages:  int(math.Ceil(float64(total) / float64(adminPageSize))),
		Total:  total,
	}, nil
}

// UpdateStatus applies an administrative status transition. The underlying
// update is conditional on the current status, so a concurrent transition
// surfaces as InvalidTransition rather than silently overwriting.
func (s *orderService) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, model.NewDomainError(model.ErrCodeValidation,
			fmt.Sprintf("Unknown order status %q", status))
	}

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	if !order.Status.CanTransitionTo(status) {
		s.logger.Warn().
			Str("order_id", id).
			Str("from", string(order.Status)).
			Str("to", string(status)).
			Msg("illegal status transition rejected")
		return nil, model.ErrInvalidTransition
	}

	applied, err := s.orders.UpdateStatus(ctx, id, order.Status, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	if !applied {
		// Lost a race with another transition; the order is no longer in
		// the status we validated against.
		return nil, model.ErrInvalidTransition
	}

	order.Status = status
	order.UpdatedAt = time.Now()

	s.logger.Info().
		Str("order_id", id).
		Str("status", string(status)).
		Msg("order status updated")

	return order, nil
}

// Delete removes an order.
func (s *orderService) Delete(ctx context.Context, id string) error {
	deleted, err := s.orders.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if !deleted {
		return model.ErrOrderNotFound
	}

	s.logger.Info().Str("order_id", id).Msg("order deleted")
	return nil
}

// validateOrderRequest checks the checkout payload. Every shipping field and
// the payment method type are required.
func validateOrderRequest(req *model.CreateOrderRequest) error {
	if req == nil {
		return model.NewDomainError(model.ErrCodeValidation, "Order request is required")
	}

	var missing []string
	addr := req.ShippingAddress
	for field, value := range map[string]string{
		"shippingAddress.name":    addr.Name,
		"shippingAddress.street":  addr.Street,
		"shippingAddress.city":    addr.City,
		"shippingAddress.state":   addr.State,
		"shippingAddress.zipCode": addr.ZipCode,
		"shippingAddress.country": addr.Country,
		"paymentMethod.type":      req.PaymentMethod.Type,
	} {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}

	if len(missing) > 0 {
		// Map iteration order is random; keep the message deterministic.
		sort.Strings(missing)
		return model.NewDomainError(model.ErrCodeValidation,
			"Missing required fields: "+strings.Join(missing, ", "))
	}
	return nil
}
