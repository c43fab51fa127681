// Package mongostore implements the store contract on MongoDB. Every
// operation is a single-document command, so it relies only on MongoDB's
// per-document atomicity.
package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shopfront/internal/store"
)

const (
	colUsers     = "users"
	colProducts  = "products"
	colCarts     = "carts"
	colWishlists = "wishlists"
	colOrders    = "orders"
)

func Connect(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client.Database(database), nil
}

// NewStore builds the store over db. Call CreateIndexes once at startup.
func NewStore(db *mongo.Database) *store.Store {
	return &store.Store{
		Users:     &userRepository{collection: db.Collection(colUsers)},
		Products:  &productRepository{collection: db.Collection(colProducts)},
		Carts:     &cartRepository{collection: db.Collection(colCarts)},
		Wishlists: &wishlistRepository{collection: db.Collection(colWishlists)},
		Orders:    &orderRepository{collection: db.Collection(colOrders)},
		Close:     func(ctx context.Context) error { return db.Client().Disconnect(ctx) },
	}
}

func CreateIndexes(ctx context.Context, db *mongo.Database) error {
	// Emails are stored lower-cased by the auth service, so a plain unique
	// index is enough.
	specs := map[string][]mongo.IndexModel{
		colUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		colCarts: {
			{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		colWishlists: {
			{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		colOrders: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
	}
	for col, models := range specs {
		if _, err := db.Collection(col).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", col, err)
		}
	}
	return nil
}
