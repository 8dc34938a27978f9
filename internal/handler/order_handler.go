package handler

import (
	"net/http"
	"strconv"

	"bakehouse/internal/middleware"
	"bakehouse/internal/model"
	"bakehouse/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// OrderHandler handles order HTTP requests.
type OrderHandler struct {
	orders service.OrderService
	logger zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(orders service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		logger: logger.With().Str("handler", "order").Logger(),
	}
}

// Create handles POST /api/orders requests.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	var req model.CreateOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	order, err := h.orders.CreateOrder(r.Context(), claims.UserID, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// GetByID handles GET /api/orders/{id} requests.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "order ID is required", h.logger)
		return
	}

	order, err := h.orders.GetOrder(r.Context(), id, claims.UserID, claims.IsAdmin())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// ListMine handles GET /api/orders/mine requests.
func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	orders, err := h.orders.ListMine(r.Context(), claims.UserID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// List handles GET /api/orders?page=N requests (admin).
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	page := 1
	if v := r.URL.Query().Get("page"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			page = parsed
		}
	}

	result, err := h.orders.ListAll(r.Context(), page)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// UpdateStatus handles PUT /api/orders/{id}/status requests (admin).
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "order ID is required", h.logger)
		return
	}

	var req model.UpdateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// Delete handles DELETE /api/orders/{id} requests (admin).
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "order ID is required", h.logger)
		return
	}

	if err := h.orders.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "order removed"})
}
