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

type cartRepository struct {
	collection *mongo.Collection
}

func (r *cartRepository) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	var cart domain.Cart
	if err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return &cart, nil
}

// AddLine first tries an in-place $inc on an existing line with room left
// under domain.MaxLineQuantity, then a $push that upserts the cart. Two
// concurrent first-adds can collide on the unique user_id index; the loser
// retries and lands on the $inc path.
func (r *cartRepository) AddLine(ctx context.Context, userID, productID string, qty int) (*domain.Cart, error) {
	if qty > domain.MaxLineQuantity {
		return nil, store.ErrQuantityLimit
	}
	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	room := domain.MaxLineQuantity - qty

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		now := time.Now().UTC()

		var cart domain.Cart
		err := r.collection.FindOneAndUpdate(ctx,
			bson.M{"user_id": userID, "items": bson.M{"$elemMatch": bson.M{
				"product_id": productID,
				"quantity":   bson.M{"$lte": room},
			}}},
			bson.M{
				"$inc": bson.M{"items.$.quantity": qty},
				"$set": bson.M{"updated_at": now},
			},
			after,
		).Decode(&cart)
		if err == nil {
			return &cart, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("failed to increment cart line: %w", err)
		}

		full, err := r.collection.CountDocuments(ctx, bson.M{"user_id": userID, "items": bson.M{"$elemMatch": bson.M{
			"product_id": productID,
			"quantity":   bson.M{"$gt": room},
		}}})
		if err != nil {
			return nil, fmt.Errorf("failed to check cart line: %w", err)
		}
		if full > 0 {
			return nil, store.ErrQuantityLimit
		}

		err = r.collection.FindOneAndUpdate(ctx,
			bson.M{"user_id": userID, "items.product_id": bson.M{"$ne": productID}},
			bson.M{
				"$push": bson.M{"items": domain.CartLine{ProductID: productID, Quantity: qty}},
				"$set":  bson.M{"updated_at": now},
			},
			options.FindOneAndUpdate().SetReturnDocument(options.After).SetUpsert(true),
		).Decode(&cart)
		if err == nil {
			return &cart, nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("failed to add cart line: %w", err)
		}
		lastErr = err
	}
	return nil, fmt.Errorf("failed to add cart line: %w", lastErr)
}

func (r *cartRepository) RemoveLine(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	var cart domain.Cart
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"user_id": userID},
		bson.M{
			"$pull": bson.M{"items": bson.M{"product_id": productID}},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to remove cart line: %w", err)
	}
	return &cart, nil
}

// TakeLines swaps a non-empty items array for an empty one and hands back the
// previous document, so only one concurrent caller can observe the lines.
func (r *cartRepository) TakeLines(ctx context.Context, userID string) ([]domain.CartLine, error) {
	var prev domain.Cart
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"user_id": userID, "items.0": bson.M{"$exists": true}},
		bson.M{"$set": bson.M{"items": []domain.CartLine{}, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.Before),
	).Decode(&prev)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return []domain.CartLine{}, nil
		}
		return nil, fmt.Errorf("failed to take cart lines: %w", err)
	}
	return prev.Lines, nil
}

func (r *cartRepository) RestoreLines(ctx context.Context, userID string, lines []domain.CartLine) error {
	for _, l := range lines {
		_, err := r.AddLine(ctx, userID, l.ProductID, min(l.Quantity, domain.MaxLineQuantity))
		if errors.Is(err, store.ErrQuantityLimit) {
			err = r.clampLine(ctx, userID, l.ProductID)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// clampLine sets an existing line to domain.MaxLineQuantity.
func (r *cartRepository) clampLine(ctx context.Context, userID, productID string) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"user_id": userID, "items.product_id": productID},
		bson.M{
			"$set": bson.M{"items.$.quantity": domain.MaxLineQuantity, "updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to clamp cart line: %w", err)
	}
	return nil
}
