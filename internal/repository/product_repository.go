package repository

import (
	"context"
	"errors"
	"fmt"

	"bakehouse/internal/database"
	"bakehouse/internal/model"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// productRepository implements ProductRepository backed by MongoDB.
type productRepository struct {
	collection *mongo.Collection
	logger     zerolog.Logger
}

// NewProductRepository creates a new MongoDB-backed product repository.
func NewProductRepository(db *mongo.Database, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		collection: db.Collection(database.ProductsCollection),
		logger:     logger.With().Str("repository", "product").Logger(),
	}
}

// GetAll retrieves products with pagination and an optional category filter.
func (r *productRepository) GetAll(ctx context.Context, category string, limit, offset int) ([]model.Product, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error().Err(err).Str("category", category).Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []model.Product
	if err := cursor.All(ctx, &products); err != nil {
		r.logger.Error().Err(err).Msg("failed to decode products")
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			r.logger.Debug().Str("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &product, nil
}

// GetByIDs retrieves multiple products by their IDs.
func (r *productRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		r.logger.Error().Err(err).Int("id_count", len(ids)).Msg("failed to query products by IDs")
		return nil, fmt.Errorf("failed to query products by IDs: %w", err)
	}
	defer cursor.Close(ctx)

	var products []model.Product
	if err := cursor.All(ctx, &products); err != nil {
		r.logger.Error().Err(err).Msg("failed to decode products")
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	return products, nil
}

// GetFeatured retrieves products flagged as featured.
func (r *productRepository) GetFeatured(ctx context.Context) ([]model.Product, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"featured": true})
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query featured products")
		return nil, fmt.Errorf("failed to query featured products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []model.Product
	if err := cursor.All(ctx, &products); err != nil {
		r.logger.Error().Err(err).Msg("failed to decode products")
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	return products, nil
}

// Count returns the number of products in the catalogue.
func (r *productRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to count products")
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// InsertMany inserts products, used by catalogue seeding.
func (r *productRepository) InsertMany(ctx context.Context, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}

	docs := make([]interface{}, len(products))
	for i := range products {
		docs[i] = products[i]
	}

	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		r.logger.Error().Err(err).Int("count", len(products)).Msg("failed to insert products")
		return fmt.Errorf("failed to insert products: %w", err)
	}

	r.logger.Info().Int("count", len(products)).Msg("products inserted")
	return nil
}
