package database

import (
	"context"
	"fmt"

	"bakehouse/internal/config"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names used by the repositories.
const (
	ProductsCollection = "products"
	CartsCollection    = "carts"
	OrdersCollection   = "orders"
)

// Connect establishes a MongoDB connection and verifies it with a ping.
// The returned client must be disconnected by the caller on shutdown.
func Connect(ctx context.Context, cfg config.Mongo, logger zerolog.Logger) (*mongo.Client, *mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ConnectTimeout).
		SetMaxPoolSize(100).
		SetMinPoolSize(10)

	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, clientOpts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.Info().
		Str("database", cfg.Database).
		Msg("connected to MongoDB")

	return client, client.Database(cfg.Database), nil
}

// EnsureIndexes creates the indexes the repositories rely on. Safe to call
// on every startup; Mongo treats existing identical indexes as a no-op.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	cartIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := db.Collection(CartsCollection).Indexes().CreateMany(ctx, cartIndexes); err != nil {
		return fmt.Errorf("failed to create cart indexes: %w", err)
	}

	orderIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
	}
	if _, err := db.Collection(OrdersCollection).Indexes().CreateMany(ctx, orderIndexes); err != nil {
		return fmt.Errorf("failed to create order indexes: %w", err)
	}

	productIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "category", Value: 1}},
		},
	}
	if _, err := db.Collection(ProductsCollection).Indexes().CreateMany(ctx, productIndexes); err != nil {
		return fmt.Errorf("failed to create product indexes: %w", err)
	}

	return nil
}
