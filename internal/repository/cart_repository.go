package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bakehouse/internal/database"
	"bakehouse/internal/model"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// cartRepository implements CartRepository backed by MongoDB. One document
// per subject, keyed by a unique user_id index. Line mutations use atomic
// update operators so concurrent requests from multiple tabs or devices
// cannot lose updates to the same line.
type cartRepository struct {
	collection *mongo.Collection
	logger     zerolog.Logger
}

// NewCartRepository creates a new MongoDB-backed cart repository.
func NewCartRepository(db *mongo.Database, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		collection: db.Collection(database.CartsCollection),
		logger:     logger.With().Str("repository", "cart").Logger(),
	}
}

// Get retrieves the cart for a subject.
func (r *cartRepository) Get(ctx context.Context, userID string) (*model.Cart, error) {
	var cart model.Cart
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}

	return &cart, nil
}

// IncrementItem atomically adds qty to the existing line for a product.
func (r *cartRepository) IncrementItem(ctx context.Context, userID, productID string, qty int) (bool, error) {
	filter := bson.M{
		"user_id":          userID,
		"items.product_id": productID,
	}
	update := bson.M{
		"$inc": bson.M{"items.$.quantity": qty},
		"$set": bson.M{"updated_at": time.Now()},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		r.logger.Error().Err(err).
			Str("user_id", userID).
			Str("product_id", productID).
			Msg("failed to increment cart line")
		return false, fmt.Errorf("failed to increment cart line: %w", err)
	}

	return result.MatchedCount > 0, nil
}

// PushItem appends a new line, creating the cart document on first add. The
// filter excludes carts that already hold the product, so a line that
// appeared concurrently trips the unique user_id index instead of being
// duplicated; callers fall back to IncrementItem on that signal.
func (r *cartRepository) PushItem(ctx context.Context, userID string, item model.CartItem) error {
	now := time.Now()
	filter := bson.M{
		"user_id":          userID,
		"items.product_id": bson.M{"$ne": item.ProductID},
	}
	update := bson.M{
		"$push":        bson.M{"items": item},
		"$set":         bson.M{"updated_at": now},
		"$setOnInsert": bson.M{"created_at": now},
	}
	opts := options.Update().SetUpsert(true)

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrLineExists
		}
		r.logger.Error().Err(err).
			Str("user_id", userID).
			Str("product_id", item.ProductID).
			Msg("failed to push cart line")
		return fmt.Errorf("failed to push cart line: %w", err)
	}

	return nil
}

// SetItemQuantity atomically sets the quantity of an existing line.
func (r *cartRepository) SetItemQuantity(ctx context.Context, userID, productID string, qty int) (bool, error) {
	filter := bson.M{
		"user_id":          userID,
		"items.product_id": productID,
	}
	update := bson.M{
		"$set": bson.M{
			"items.$.quantity": qty,
			"updated_at":       time.Now(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		r.logger.Error().Err(err).
			Str("user_id", userID).
			Str("product_id", productID).
			Msg("failed to set cart line quantity")
		return false, fmt.Errorf("failed to set cart line quantity: %w", err)
	}

	return result.MatchedCount > 0, nil
}

// RemoveItem removes the line for a product.
func (r *cartRepository) RemoveItem(ctx context.Context, userID, productID string) error {
	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$pull": bson.M{"items": bson.M{"product_id": productID}},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	if _, err := r.collection.UpdateOne(ctx, filter, update); err != nil {
		r.logger.Error().Err(err).
			Str("user_id", userID).
			Str("product_id", productID).
			Msg("failed to remove cart line")
		return fmt.Errorf("failed to remove cart line: %w", err)
	}

	return nil
}

// Clear empties the cart.
func (r *cartRepository) Clear(ctx context.Context, userID string) error {
	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$set": bson.M{
			"items":      []model.CartItem{},
			"updated_at": time.Now(),
		},
	}

	if _, err := r.collection.UpdateOne(ctx, filter, update); err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}

// ErrLineExists signals that PushItem raced with another writer that already
// created the line; the caller should retry with IncrementItem.
var ErrLineExists = errors.New("cart line already exists")
