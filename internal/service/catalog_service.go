package service

import (
	"context"
	"fmt"

	"bakehouse/internal/model"
	"bakehouse/internal/repository"

	"github.com/rs/zerolog"
)

// catalogService implements CatalogService on top of the product repository.
type catalogService struct {
	products repository.ProductRepository
	logger   zerolog.Logger
}

// NewCatalogService creates a new catalogue service.
func NewCatalogService(products repository.ProductRepository, logger zerolog.Logger) CatalogService {
	return &catalogService{
		products: products,
		logger:   logger.With().Str("service", "catalog").Logger(),
	}
}

// GetAll retrieves products with pagination and an optional category filter.
func (s *catalogService) GetAll(ctx context.Context, category string, limit, offset int) ([]model.Product, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	products, err := s.products.GetAll(ctx, category, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// GetFeatured retrieves products flagged as featured.
func (s *catalogService) GetFeatured(ctx context.Context) ([]model.Product, error) {
	products, err := s.products.GetFeatured(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list featured products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product.
func (s *catalogService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

// Resolve returns a point-in-time snapshot of a product.
func (s *catalogService) Resolve(ctx context.Context, id string) (model.ProductSnapshot, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return model.ProductSnapshot{}, fmt.Errorf("failed to resolve product: %w", err)
	}
	if product == nil {
		return model.ProductSnapshot{}, model.ErrProductNotFound
	}
	return product.Snapshot(), nil
}

// ResolveMany returns snapshots keyed by product ID.
func (s *catalogService) ResolveMany(ctx context.Context, ids []string) (map[string]model.ProductSnapshot, error) {
	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve products: %w", err)
	}

	snapshots := make(map[string]model.ProductSnapshot, len(products))
	for i := range products {
		snapshots[products[i].ID] = products[i].Snapshot()
	}
	return snapshots, nil
}
