package router

import (
	"net/http"
	"time"

	"bakehouse/internal/auth"
	"bakehouse/internal/handler"
	"bakehouse/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// New creates the HTTP router with all routes and middleware configured.
// Catalogue reads are public; cart and order routes require a bearer token,
// and administrative order routes additionally require the admin role.
func New(
	productHandler *handler.ProductHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	tokens *auth.TokenManager,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)
	r.Use(middleware.RequestTimeout(10 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", productHandler.GetAll)
		r.Get("/featured", productHandler.GetFeatured)
		r.Get("/{id}", productHandler.GetByID)
	})

	r.Route("/api/cart", func(r chi.Router) {
		r.Use(middleware.BearerAuth(tokens, logger))
		r.Get("/", cartHandler.Get)
		r.Post("/add", cartHandler.Add)
		r.Put("/update", cartHandler.Update)
		r.Delete("/remove", cartHandler.Remove)
		r.Delete("/clear", cartHandler.Clear)
		r.Post("/merge", cartHandler.Merge)
	})

	r.Route("/api/orders", func(r chi.Router) {
		r.Use(middleware.BearerAuth(tokens, logger))
		r.Post("/", orderHandler.Create)
		r.Get("/mine", orderHandler.ListMine)
		r.Get("/{id}", orderHandler.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminOnly(logger))
			r.Get("/", orderHandler.List)
			r.Put("/{id}/status", orderHandler.UpdateStatus)
			r.Delete("/{id}", orderHandler.Delete)
		})
	})

	return r
}
