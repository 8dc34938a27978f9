package handler

import (
	"net/http"

	"bakehouse/internal/middleware"
	"bakehouse/internal/model"
	"bakehouse/internal/service"

	"github.com/rs/zerolog"
)

// CartHandler handles cart HTTP requests. Every route requires an
// authenticated subject; the guest cart never reaches these endpoints and
// is only seen once, through Merge, at login.
type CartHandler struct {
	carts  service.CartService
	logger zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(carts service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		carts:  carts,
		logger: logger.With().Str("handler", "cart").Logger(),
	}
}

// Get handles GET /api/cart requests.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	summary, err := h.carts.GetCart(r.Context(), claims.UserID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// Add handles POST /api/cart/add requests. A missing quantity defaults to
// one.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	var req model.CartMutationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if req.ProductID == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "productId is required", h.logger)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	summary, err := h.carts.AddItem(r.Context(), claims.UserID, req.ProductID, req.Quantity)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// Update handles PUT /api/cart/update requests.
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	var req model.CartMutationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if req.ProductID == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "productId is required", h.logger)
		return
	}

	summary, err := h.carts.UpdateQuantity(r.Context(), claims.UserID, req.ProductID, req.Quantity)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// Remove handles DELETE /api/cart/remove requests.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	var req model.CartMutationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if req.ProductID == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "productId is required", h.logger)
		return
	}

	summary, err := h.carts.RemoveItem(r.Context(), claims.UserID, req.ProductID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// Clear handles DELETE /api/cart/clear requests.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	summary, err := h.carts.ClearCart(r.Context(), claims.UserID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// Merge handles POST /api/cart/merge requests, submitted once at login with
// the device-local guest cart. A successful response means every guest line
// is durably merged; the client then discards its local copy.
func (h *CartHandler) Merge(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	var req model.MergeCartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	summary, err := h.carts.MergeGuestCart(r.Context(), claims.UserID, req.Items)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
