package service

import (
	"context"
	"sync"
	"testing"

	"bakehouse/internal/model"
	"bakehouse/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCatalog is a map-backed CatalogService for cart and order tests.
// Mutating the Products map between calls simulates live catalogue changes.
type stubCatalog struct {
	mu       sync.Mutex
	Products map[string]model.Product
}

func newStubCatalog(products ...model.Product) *stubCatalog {
	c := &stubCatalog{Products: make(map[string]model.Product)}
	for _, p := range products {
		c.Products[p.ID] = p
	}
	return c
}

func (c *stubCatalog) SetPrice(id string, price float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.Products[id]
	p.Price = price
	c.Products[id] = p
}

func (c *stubCatalog) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.Products, id)
}

func (c *stubCatalog) GetAll(ctx context.Context, category string, limit, offset int) ([]model.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var products []model.Product
	for _, p := range c.Products {
		products = append(products, p)
	}
	return products, nil
}

func (c *stubCatalog) GetFeatured(ctx context.Context) ([]model.Product, error) {
	return nil, nil
}

func (c *stubCatalog) GetByID(ctx context.Context, id string) (*model.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.Products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (c *stubCatalog) Resolve(ctx context.Context, id string) (model.ProductSnapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.Products[id]
	if !ok {
		return model.ProductSnapshot{}, model.ErrProductNotFound
	}
	return p.Snapshot(), nil
}

func (c *stubCatalog) ResolveMany(ctx context.Context, ids []string) (map[string]model.ProductSnapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	snapshots := make(map[string]model.ProductSnapshot)
	for _, id := range ids {
		if p, ok := c.Products[id]; ok {
			snapshots[id] = p.Snapshot()
		}
	}
	return snapshots, nil
}

// recordingNotifier captures emitted notifications.
type recordingNotifier struct {
	mu     sync.Mutex
	events []Notification
}

func (n *recordingNotifier) Notify(_ context.Context, event Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) Events() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification(nil), n.events...)
}

func newCartFixture(products ...model.Product) (CartService, *stubCatalog, *recordingNotifier) {
	catalog := newStubCatalog(products...)
	notifier := &recordingNotifier{}
	svc := NewCartService(repository.NewMemoryCartRepository(), catalog, notifier, zerolog.Nop())
	return svc, catalog, notifier
}

func croissant() model.Product {
	return model.Product{ID: "P-CROISSANT", Name: "Butter Croissant", Price: 3.50, Image: "/img/croissant.jpg"}
}

func sourdough() model.Product {
	return model.Product{ID: "P-SOURDOUGH", Name: "Sourdough Loaf", Price: 6.00, Image: "/img/sourdough.jpg"}
}

func carrotCake() model.Product {
	return model.Product{ID: "P-CARROT", Name: "Carrot Cake", Price: 24.00, Image: "/img/carrot.jpg"}
}

func TestCartService_AddItem_MergesQuantities(t *testing.T) {
	svc, _, _ := newCartFixture(croissant())
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", "P-CROISSANT", 2)
	require.NoError(t, err)

	summary, err := svc.AddItem(ctx, "user-1", "P-CROISSANT", 3)
	require.NoError(t, err)

	require.Len(t, summary.Items, 1)
	assert.Equal(t, 5, summary.Items[0].Quantity)
	assert.Equal(t, 5, summary.TotalItems)
	assert.InDelta(t, 17.50, summary.TotalPrice, 1e-9)
}

func TestCartService_AddItem_ProductNotFound(t *testing.T) {
	svc, _, _ := newCartFixture(croissant())
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", "P-CROISSANT", 1)
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, "user-1", "P-MISSING", 1)
	assert.ErrorIs(t, err, model.ErrProductNotFound)

	// The failed add left the cart untouched.
	summary, err := svc.GetCart(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, "P-CROISSANT", summary.Items[0].ProductID)
}

func TestCartService_AddItem_RejectsNonPositiveQuantity(t *testing.T) {
	svc, _, _ := newCartFixture(croissant())

	_, err := svc.AddItem(context.Background(), "user-1", "P-CROISSANT", 0)
	assert.ErrorIs(t, err, model.ErrInvalidQuantity)

	_, err = svc.AddItem(context.Background(), "user-1", "P-CROISSANT", -4)
	assert.ErrorIs(t, err, model.ErrInvalidQuantity)
}

func TestCartService_UpdateQuantity_FloorIsSilentNoOp(t *testing.T) {
	svc, _, _ := newCartFixture(croissant())
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", "P-CROISSANT", 2)
	require.NoError(t, err)

	for _, quantity := range []int{0, -1, -100} {
		summary, err := svc.UpdateQuantity(ctx, "user-1", "P-CROISSANT", quantity)
		require.NoError(t, err)
		require.Len(t, summary.Items, 1)
		assert.Equal(t, 2, summary.Items[0].Quantity, "quantity %d must not change the line", quantity)
	}
}

func TestCartService_UpdateQuantity_SetsExactValue(t *testing.T) {
	svc, _, _ := newCartFixture(croissant())
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", "P-CROISSANT", 2)
	require.NoError(t, err)

	summary, err := svc.UpdateQuantity(ctx, "user-1", "P-CROISSANT", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, summary.Items[0].Quantity)
	assert.InDelta(t, 24.50, summary.TotalPrice, 1e-9)
}

func TestCartService_UpdateQuantity_UnknownLineIsNoOp(t *testing.T) {
	svc, _, _ := newCartFixture(croissant(), sourdough())
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", "P-CROISSANT", 1)
	require.NoError(t, err)

	summary, err := svc.UpdateQuantity(ctx, "user-1", "P-SOURDOUGH", 5)
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, "P-CROISSANT", summary.Items[0].ProductID)
}

func TestCartService_RemoveItem(t *testing.T) {
	svc, _, _ := newCartFixture(croissant(), sourdough())
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", "P-CROISSANT", 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "user-1", "P-SOURDOUGH", 2)
	require.NoError(t, err)

	summary, err := svc.RemoveItem(ctx, "user-1", "P-CROISSANT")
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, "P-SOURDOUGH", summary.Items[0].ProductID)

	// Removing an absent line is a no-op.
	summary, err = svc.RemoveItem(ctx, "user-1", "P-CROISSANT")
	require.NoError(t, err)
	assert.Len(t, summary.Items, 1)
}

func TestCartService_ClearCart(t *testing.T) {
	svc, _, _ := newCartFixture(croissant())
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", "P-CROISSANT", 3)
	require.NoError(t, err)

	summary, err := svc.ClearCart(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, summary.Items)
	assert.Zero(t, summary.TotalItems)
	assert.Zero(t, summary.TotalPrice)
}

func TestCartService_TotalsRecomputedAfterRemoval(t *testing.T) {
	svc, _, _ := newCartFixture(croissant(), sourdough())
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", "P-CROISSANT", 2)
	require.NoError(t, err)
	summary, err := svc.AddItem(ctx, "user-1", "P-SOURDOUGH", 1)
	require.NoError(t, err)
	assert.InDelta(t, 2*3.50+6.00, summary.TotalPrice, 1e-9)
	assert.Equal(t, 3, summary.TotalItems)

	summary, err = svc.RemoveItem(ctx, "user-1", "P-SOURDOUGH")
	require.NoError(t, err)
	assert.InDelta(t, 7.00, summary.TotalPrice, 1e-9)
	assert.Equal(t, 2, summary.TotalItems)
}

func TestCartService_CartsAreIsolatedPerSubject(t *testing.T) {
	svc, _, _ := newCartFixture(croissant())
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", "P-CROISSANT", 2)
	require.NoError(t, err)

	summary, err := svc.GetCart(ctx, "user-2")
	require.NoError(t, err)
	assert.Empty(t, summary.Items)
}

func TestCartService_MergeGuestCart_Completeness(t *testing.T) {
	svc, _, _ := newCartFixture(croissant(), sourdough(), carrotCake())
	ctx := context.Background()

	// Remote cart: {sourdough:3, carrot:1}
	_, err := svc.AddItem(ctx, "user-1", "P-SOURDOUGH", 3)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "user-1", "P-CARROT", 1)
	require.NoError(t, err)

	// Guest cart: {croissant:2, sourdough:1}
	summary, err := svc.MergeGuestCart(ctx, "user-1", []model.CartItem{
		{ProductID: "P-CROISSANT", Quantity: 2},
		{ProductID: "P-SOURDOUGH", Quantity: 1},
	})
	require.NoError(t, err)

	quantities := make(map[string]int)
	for _, line := range summary.Items {
		quantities[line.ProductID] = line.Quantity
	}
	assert.Equal(t, map[string]int{
		"P-CROISSANT": 2,
		"P-SOURDOUGH": 4,
		"P-CARROT":    1,
	}, quantities)
}

func TestCartService_MergeGuestCart_SkipsVanishedProducts(t *testing.T) {
	svc, _, _ := newCartFixture(croissant())
	ctx := context.Background()

	summary, err := svc.MergeGuestCart(ctx, "user-1", []model.CartItem{
		{ProductID: "P-CROISSANT", Quantity: 1},
		{ProductID: "P-GONE", Quantity: 4},
	})
	require.NoError(t, err)

	require.Len(t, summary.Items, 1)
	assert.Equal(t, "P-CROISSANT", summary.Items[0].ProductID)
}

func TestCartService_MergeGuestCart_IgnoresNonPositiveQuantities(t *testing.T) {
	svc, _, _ := newCartFixture(croissant())

	summary, err := svc.MergeGuestCart(context.Background(), "user-1", []model.CartItem{
		{ProductID: "P-CROISSANT", Quantity: 0},
		{ProductID: "P-CROISSANT", Quantity: -2},
	})
	require.NoError(t, err)
	assert.Empty(t, summary.Items)
}

func TestCartService_SummaryDropsVanishedProducts(t *testing.T) {
	svc, catalog, _ := newCartFixture(croissant(), sourdough())
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", "P-CROISSANT", 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "user-1", "P-SOURDOUGH", 2)
	require.NoError(t, err)

	catalog.Remove("P-SOURDOUGH")

	summary, err := svc.GetCart(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, "P-CROISSANT", summary.Items[0].ProductID)
	assert.InDelta(t, 3.50, summary.TotalPrice, 1e-9)
}

func TestCartService_NotificationsNameTheProduct(t *testing.T) {
	svc, _, notifier := newCartFixture(croissant())
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", "P-CROISSANT", 1)
	require.NoError(t, err)
	_, err = svc.RemoveItem(ctx, "user-1", "P-CROISSANT")
	require.NoError(t, err)

	events := notifier.Events()
	require.Len(t, events, 2)
	assert.Equal(t, ActionAdded, events[0].Action)
	assert.Equal(t, "Butter Croissant", events[0].Product)
	assert.Equal(t, ActionRemoved, events[1].Action)
	assert.Equal(t, "Butter Croissant", events[1].Product)
}

func TestCartService_ConcurrentAddsToSameLine(t *testing.T) {
	svc, _, _ := newCartFixture(croissant())
	ctx := context.Background()

	const workers = 20
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.AddItem(ctx, "user-1", "P-CROISSANT", 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	summary, err := svc.GetCart(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, workers, summary.Items[0].Quantity)
}

func TestCartService_ConcurrentAddDuringMergeIsNotLost(t *testing.T) {
	svc, _, _ := newCartFixture(croissant(), sourdough())
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := svc.MergeGuestCart(ctx, "user-1", []model.CartItem{
			{ProductID: "P-SOURDOUGH", Quantity: 2},
		})
		assert.NoError(t, err)
	}()
	go func() {
		defer wg.Done()
		_, err := svc.AddItem(ctx, "user-1", "P-CROISSANT", 1)
		assert.NoError(t, err)
	}()
	wg.Wait()

	summary, err := svc.GetCart(ctx, "user-1")
	require.NoError(t, err)

	quantities := make(map[string]int)
	for _, line := range summary.Items {
		quantities[line.ProductID] = line.Quantity
	}
	assert.Equal(t, map[string]int{"P-SOURDOUGH": 2, "P-CROISSANT": 1}, quantities)
}
