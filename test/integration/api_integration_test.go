package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bakehouse/internal/auth"
	"bakehouse/internal/handler"
	"bakehouse/internal/model"
	"bakehouse/internal/repository"
	"bakehouse/internal/router"
	"bakehouse/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupAPI wires the full HTTP stack over the test database.
func setupAPI(t *testing.T, testDB *TestDB) (http.Handler, *auth.TokenManager) {
	t.Helper()

	logger := zerolog.Nop()

	productRepo := repository.NewProductRepository(testDB.DB, logger)
	cartRepo := repository.NewCartRepository(testDB.DB, logger)
	orderRepo := repository.NewOrderRepository(testDB.DB, logger)

	catalogService := service.NewCatalogService(productRepo, logger)
	cartService := service.NewCartService(cartRepo, catalogService, service.NopNotifier{}, logger)
	orderService := service.NewOrderService(orderRepo, cartRepo, catalogService, logger)

	tokens := auth.NewTokenManager("integration-test-secret", time.Hour)

	mux := router.New(
		handler.NewProductHandler(catalogService, logger),
		handler.NewCartHandler(cartService, logger),
		handler.NewOrderHandler(orderService, logger),
		tokens,
		logger,
	)

	return mux, tokens
}

func doRequest(t *testing.T, mux http.Handler, method, target, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

func checkoutBody() map[string]interface{} {
	return map[string]interface{}{
		"shippingAddress": map[string]string{
			"name":    "Maya Patel",
			"street":  "12 Rye Lane",
			"city":    "Portland",
			"state":   "OR",
			"zipCode": "97201",
			"country": "USA",
		},
		"paymentMethod": map[string]string{"type": "card", "last4": "4242"},
	}
}

func TestAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	mux, tokens := setupAPI(t, testDB)

	customerToken, err := tokens.Generate("user-1", "maya@example.com", "customer")
	require.NoError(t, err)
	adminToken, err := tokens.Generate("admin-1", "admin@example.com", auth.RoleAdmin)
	require.NoError(t, err)

	t.Run("health check", func(t *testing.T) {
		rec := doRequest(t, mux, http.MethodGet, "/health", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("catalogue is public", func(t *testing.T) {
		CleanupDB(t, testDB.DB)
		SeedProducts(t, testDB.DB)

		rec := doRequest(t, mux, http.MethodGet, "/api/products", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		var products []model.Product
		decodeBody(t, rec, &products)
		assert.Len(t, products, 5)
	})

	t.Run("cart requires authentication", func(t *testing.T) {
		rec := doRequest(t, mux, http.MethodGet, "/api/cart", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("cart add merge and checkout flow", func(t *testing.T) {
		CleanupDB(t, testDB.DB)
		SeedProducts(t, testDB.DB)

		// Add the same product twice; quantities merge into one line.
		rec := doRequest(t, mux, http.MethodPost, "/api/cart/add", customerToken,
			map[string]interface{}{"productId": "P001", "quantity": 2})
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doRequest(t, mux, http.MethodPost, "/api/cart/add", customerToken,
			map[string]interface{}{"productId": "P001", "quantity": 1})
		require.Equal(t, http.StatusOK, rec.Code)

		var summary model.CartSummary
		decodeBody(t, rec, &summary)
		require.Len(t, summary.Items, 1)
		assert.Equal(t, 3, summary.Items[0].Quantity)
		assert.InDelta(t, 3*3.50, summary.TotalPrice, 1e-9)

		// Merge a guest cart captured before login.
		rec = doRequest(t, mux, http.MethodPost, "/api/cart/merge", customerToken,
			map[string]interface{}{"items": []map[string]interface{}{
				{"productId": "P001", "quantity": 1},
				{"productId": "P002", "quantity": 2},
			}})
		require.Equal(t, http.StatusOK, rec.Code)
		decodeBody(t, rec, &summary)
		require.Len(t, summary.Items, 2)
		assert.Equal(t, 6, summary.TotalItems)

		// Checkout freezes prices and clears the cart.
		rec = doRequest(t, mux, http.MethodPost, "/api/orders", customerToken, checkoutBody())
		require.Equal(t, http.StatusCreated, rec.Code)

		var order model.Order
		decodeBody(t, rec, &order)
		assert.Equal(t, model.StatusPending, order.Status)
		assert.InDelta(t, 4*3.50+2*6.00, order.TotalAmount, 1e-9)

		rec = doRequest(t, mux, http.MethodGet, "/api/cart", customerToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		decodeBody(t, rec, &summary)
		assert.Empty(t, summary.Items)

		// A second checkout from the now empty cart is rejected.
		rec = doRequest(t, mux, http.MethodPost, "/api/orders", customerToken, checkoutBody())
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "CART_EMPTY")
	})

	t.Run("order visibility and lifecycle", func(t *testing.T) {
		CleanupDB(t, testDB.DB)
		SeedProducts(t, testDB.DB)

		rec := doRequest(t, mux, http.MethodPost, "/api/cart/add", customerToken,
			map[string]interface{}{"productId": "P003", "quantity": 1})
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doRequest(t, mux, http.MethodPost, "/api/orders", customerToken, checkoutBody())
		require.Equal(t, http.StatusCreated, rec.Code)

		var order model.Order
		decodeBody(t, rec, &order)

		// The owner and the admin can read the order.
		rec = doRequest(t, mux, http.MethodGet, "/api/orders/"+order.ID, customerToken, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		rec = doRequest(t, mux, http.MethodGet, "/api/orders/"+order.ID, adminToken, nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		// Another customer cannot.
		strangerToken, err := tokens.Generate("user-2", "sam@example.com", "customer")
		require.NoError(t, err)
		rec = doRequest(t, mux, http.MethodGet, "/api/orders/"+order.ID, strangerToken, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		// Admin routes reject customers.
		rec = doRequest(t, mux, http.MethodGet, "/api/orders", customerToken, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		// The status machine only moves forward.
		rec = doRequest(t, mux, http.MethodPut, "/api/orders/"+order.ID+"/status", adminToken,
			map[string]string{"status": "processing"})
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = doRequest(t, mux, http.MethodPut, "/api/orders/"+order.ID+"/status", adminToken,
			map[string]string{"status": "completed"})
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = doRequest(t, mux, http.MethodPut, "/api/orders/"+order.ID+"/status", adminToken,
			map[string]string{"status": "processing"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "INVALID_TRANSITION")

		// The listing shows the order with its final status.
		rec = doRequest(t, mux, http.MethodGet, "/api/orders?page=1", adminToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var page model.OrderPage
		decodeBody(t, rec, &page)
		assert.Equal(t, int64(1), page.Total)
		require.Len(t, page.Orders, 1)
		assert.Equal(t, model.StatusCompleted, page.Orders[0].Status)
	})

	t.Run("my orders", func(t *testing.T) {
		CleanupDB(t, testDB.DB)
		SeedProducts(t, testDB.DB)

		for i := 0; i < 2; i++ {
			rec := doRequest(t, mux, http.MethodPost, "/api/cart/add", customerToken,
				map[string]interface{}{"productId": fmt.Sprintf("P00%d", i+1), "quantity": 1})
			require.Equal(t, http.StatusOK, rec.Code)

			rec = doRequest(t, mux, http.MethodPost, "/api/orders", customerToken, checkoutBody())
			require.Equal(t, http.StatusCreated, rec.Code)
		}

		rec := doRequest(t, mux, http.MethodGet, "/api/orders/mine", customerToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var orders []model.Order
		decodeBody(t, rec, &orders)
		assert.Len(t, orders, 2)
	})

	t.Run("unknown product rejected at cart add", func(t *testing.T) {
		rec := doRequest(t, mux, http.MethodPost, "/api/cart/add", customerToken,
			map[string]interface{}{"productId": "ghost", "quantity": 1})
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "PRODUCT_NOT_FOUND")
	})
}
