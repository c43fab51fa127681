package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shopfront/internal/domain"
	"shopfront/internal/store"
)

type wishlistRepository struct {
	collection *mongo.Collection
}

func (r *wishlistRepository) Get(ctx context.Context, userID string) (*domain.Wishlist, error) {
	var w domain.Wishlist
	if err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&w); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get wishlist: %w", err)
	}
	return &w, nil
}

func (r *wishlistRepository) Add(ctx context.Context, userID, productID string) (*domain.Wishlist, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After).SetUpsert(true)
	update := bson.M{
		"$addToSet": bson.M{"products": productID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	}

	var w domain.Wishlist
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"user_id": userID}, update, opts).Decode(&w)
	if mongo.IsDuplicateKeyError(err) {
		// lost a concurrent upsert; the document exists now
		err = r.collection.FindOneAndUpdate(ctx, bson.M{"user_id": userID}, update, opts).Decode(&w)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to add wishlist item: %w", err)
	}
	return &w, nil
}

func (r *wishlistRepository) Remove(ctx context.Context, userID, productID string) (*domain.Wishlist, error) {
	var w domain.Wishlist
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"user_id": userID},
		bson.M{
			"$pull": bson.M{"products": productID},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&w)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to remove wishlist item: %w", err)
	}
	return &w, nil
}
