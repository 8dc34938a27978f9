package integration

import (
	"context"
	"testing"
	"time"

	"bakehouse/internal/config"
	"bakehouse/internal/database"
	"bakehouse/internal/model"

	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *mongodb.MongoDBContainer
	Client    *mongo.Client
	DB        *mongo.Database
}

// SetupTestDB starts a MongoDB test container and connects to it.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	if err != nil {
		t.Fatalf("failed to start mongo container: %v", err)
	}

	uri, err := mongoContainer.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	cfg := config.Mongo{
		URI:            uri,
		Database:       "bakehouse_test",
		ConnectTimeout: 30 * time.Second,
		QueryTimeout:   10 * time.Second,
	}

	client, db, err := database.Connect(ctx, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to connect to mongo: %v", err)
	}

	if err := database.EnsureIndexes(ctx, db); err != nil {
		t.Fatalf("failed to ensure indexes: %v", err)
	}

	t.Cleanup(func() {
		if err := client.Disconnect(ctx); err != nil {
			t.Logf("failed to disconnect client: %v", err)
		}
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: mongoContainer,
		Client:    client,
		DB:        db,
	}
}

// SeedProducts inserts test catalogue data.
func SeedProducts(t *testing.T, db *mongo.Database) []model.Product {
	t.Helper()

	now := time.Now()
	products := []model.Product{
		{ID: "P001", Name: "Butter Croissant", Price: 3.50, Image: "/img/croissant.jpg", Category: []string{"pastries"}, Featured: true, CountInStock: 40, CreatedAt: now, UpdatedAt: now},
		{ID: "P002", Name: "Sourdough Loaf", Price: 6.00, Image: "/img/sourdough.jpg", Category: []string{"bread"}, CountInStock: 20, CreatedAt: now, UpdatedAt: now},
		{ID: "P003", Name: "Carrot Cake", Price: 24.00, Image: "/img/carrot.jpg", Category: []string{"cakes"}, Featured: true, CountInStock: 5, CreatedAt: now, UpdatedAt: now},
		{ID: "P004", Name: "Cinnamon Roll", Price: 4.25, Image: "/img/cinnamon.jpg", Category: []string{"pastries"}, CountInStock: 30, CreatedAt: now, UpdatedAt: now},
		{ID: "P005", Name: "Rye Bread", Price: 5.50, Image: "/img/rye.jpg", Category: []string{"bread"}, CountInStock: 15, CreatedAt: now, UpdatedAt: now},
	}

	docs := make([]interface{}, len(products))
	for i := range products {
		docs[i] = products[i]
	}

	ctx := context.Background()
	if _, err := db.Collection(database.ProductsCollection).InsertMany(ctx, docs); err != nil {
		t.Fatalf("failed to seed products: %v", err)
	}

	return products
}

// CleanupDB removes all data from the test collections.
func CleanupDB(t *testing.T, db *mongo.Database) {
	t.Helper()

	ctx := context.Background()
	for _, name := range []string{
		database.ProductsCollection,
		database.CartsCollection,
		database.OrdersCollection,
	} {
		if _, err := db.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			t.Logf("failed to clean collection %s: %v", name, err)
		}
	}
}
