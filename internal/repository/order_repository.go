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

// orderRepository implements OrderRepository backed by MongoDB.
type orderRepository struct {
	collection *mongo.Collection
	logger     zerolog.Logger
}

// NewOrderRepository creates a new MongoDB-backed order repository.
func NewOrderRepository(db *mongo.Database, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		collection: db.Collection(database.OrdersCollection),
		logger:     logger.With().Str("repository", "order").Logger(),
	}
}

// Insert persists a new order.
func (r *orderRepository) Insert(ctx context.Context, order *model.Order) error {
	if _, err := r.collection.InsertOne(ctx, order); err != nil {
		r.logger.Error().Err(err).Str("order_id", order.ID).Msg("failed to insert order")
		return fmt.Errorf("failed to insert order: %w", err)
	}

	r.logger.Debug().Str("order_id", order.ID).Msg("order inserted")
	return nil
}

// GetByID retrieves an order by its ID.
func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	var order model.Order
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			r.logger.Debug().Str("order_id", id).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	return &order, nil
}

// ListByUser retrieves a user's orders, newest first.
func (r *orderRepository) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query user orders")
		return nil, fmt.Errorf("failed to query user orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []model.Order
	if err := cursor.All(ctx, &orders); err != nil {
		r.logger.Error().Err(err).Msg("failed to decode orders")
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}

	return orders, nil
}

// List retrieves orders across all users with the total count.
func (r *orderRepository) List(ctx context.Context, limit, offset int) ([]model.Order, int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to count orders")
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, 0, fmt.Errorf("failed to query orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []model.Order
	if err := cursor.All(ctx, &orders); err != nil {
		r.logger.Error().Err(err).Msg("failed to decode orders")
		return nil, 0, fmt.Errorf("failed to decode orders: %w", err)
	}

	return orders, total, nil
}

// UpdateStatus moves an order between statuses. Conditional on the current
// status so two concurrent transitions cannot both succeed.
func (r *orderRepository) UpdateStatus(ctx context.Context, id string, from, to model.OrderStatus) (bool, error) {
	filter := bson.M{"_id": id, "status": from}
	update := bson.M{
		"$set": bson.M{
			"status":     to,
			"updated_at": time.Now(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		r.logger.Error().Err(err).
			Str("order_id", id).
			Str("from", string(from)).
			Str("to", string(to)).
			Msg("failed to update order status")
		return false, fmt.Errorf("failed to update order status: %w", err)
	}

	return result.MatchedCount > 0, nil
}

// Delete removes an order.
func (r *orderRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id).Msg("failed to delete order")
		return false, fmt.Errorf("failed to delete order: %w", err)
	}

	return result.DeletedCount > 0, nil
}
