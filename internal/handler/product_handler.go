package handler

import (
	"net/http"
	"strconv"

	"bakehouse/internal/model"
	"bakehouse/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// ProductHandler handles catalogue HTTP requests.
type ProductHandler struct {
	catalog service.CatalogService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(catalog service.CatalogService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// GetAll handles GET /api/products requests.
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := 20
	if v := query.Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}

	offset := 0
	if v := query.Get("page"); v != "" {
		if page, err := strconv.Atoi(v); err == nil && page > 1 {
			offset = (page - 1) * limit
		}
	}

	products, err := h.catalog.GetAll(r.Context(), query.Get("category"), limit, offset)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if products == nil {
		products = []model.Product{}
	}

	writeJSON(w, http.StatusOK, products)
}

// GetFeatured handles GET /api/products/featured requests.
func (h *ProductHandler) GetFeatured(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.GetFeatured(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if products == nil {
		products = []model.Product{}
	}

	writeJSON(w, http.StatusOK, products)
}

// GetByID handles GET /api/products/{id} requests.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "product ID is required", h.logger)
		return
	}

	product, err := h.catalog.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if product == nil {
		writeError(w, http.StatusNotFound, model.ErrCodeProductNotFound, "Product not found", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}
