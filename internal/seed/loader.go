// Package seed loads product fixtures into an empty catalogue at startup.
// Fixtures come from a local JSON file or from a gzipped object in S3; the
// running system never writes back to either source.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"bakehouse/internal/model"
	"bakehouse/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Loader reads product fixtures from a backing source.
type Loader interface {
	Load(ctx context.Context) ([]model.Product, error)
}

// fileLoader reads fixtures from a local JSON file.
type fileLoader struct {
	path   string
	logger zerolog.Logger
}

// NewFileLoader creates a loader for a local fixture file.
func NewFileLoader(path string, logger zerolog.Logger) Loader {
	return &fileLoader{
		path:   path,
		logger: logger.With().Str("component", "file-seed-loader").Logger(),
	}
}

// Load reads and decodes the fixture file.
func (l *fileLoader) Load(ctx context.Context) ([]model.Product, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file %s: %w", l.path, err)
	}

	products, err := decodeProducts(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode fixture file %s: %w", l.path, err)
	}

	l.logger.Info().
		Str("path", l.path).
		Int("count", len(products)).
		Msg("loaded product fixtures from file")

	return products, nil
}

// decodeProducts parses fixture JSON and fills in server-side fields that
// fixtures may omit.
func decodeProducts(data []byte) ([]model.Product, error) {
	var products []model.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, err
	}

	now := time.Now()
	for i := range products {
		if products[i].ID == "" {
			products[i].ID = uuid.NewString()
		}
		if products[i].CreatedAt.IsZero() {
			products[i].CreatedAt = now
		}
		if products[i].UpdatedAt.IsZero() {
			products[i].UpdatedAt = now
		}
	}
	return products, nil
}

// Run seeds the catalogue from the loader when it is empty. A non-empty
// catalogue is left untouched.
func Run(ctx context.Context, loader Loader, products repository.ProductRepository, logger zerolog.Logger) error {
	count, err := products.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to check catalogue size: %w", err)
	}
	if count > 0 {
		logger.Debug().Int64("count", count).Msg("catalogue already populated, skipping seed")
		return nil
	}

	fixtures, err := loader.Load(ctx)
	if err != nil {
		return err
	}
	if len(fixtures) == 0 {
		logger.Warn().Msg("fixture source is empty, nothing to seed")
		return nil
	}

	if err := products.InsertMany(ctx, fixtures); err != nil {
		return fmt.Errorf("failed to seed catalogue: %w", err)
	}

	logger.Info().Int("count", len(fixtures)).Msg("catalogue seeded")
	return nil
}
