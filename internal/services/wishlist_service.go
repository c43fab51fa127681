package services

import (
	"context"
	"errors"
	"fmt"

	"shopfront/internal/domain"
	"shopfront/internal/store"
	"shopfront/internal/validate"
)

type WishlistService struct {
	Lists store.Wishlists
	Prods store.Products
}

func NewWishlistService(lists store.Wishlists, prods store.Products) *WishlistService {
	return &WishlistService{Lists: lists, Prods: prods}
}

func (s *WishlistService) Get(ctx context.Context, userID string) ([]domain.Product, error) {
	w, err := s.Lists.Get(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return []domain.Product{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get wishlist: %w", err)
	}
	return s.products(ctx, w)
}

// Add saves productID once; repeated adds are no-ops.
func (s *WishlistService) Add(ctx context.Context, userID, productID string) ([]domain.Product, error) {
	if !validate.Present(productID) {
		return nil, invalid("productId is required")
	}
	id, ok := validate.ID(productID)
	if !ok {
		return nil, notFound("product not found")
	}
	if _, err := s.Prods.Get(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("product not found")
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	w, err := s.Lists.Add(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("add wishlist item: %w", err)
	}
	return s.products(ctx, w)
}

func (s *WishlistService) Remove(ctx context.Context, userID, productID string) ([]domain.Product, error) {
	w, err := s.Lists.Remove(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("wishlist not found")
		}
		return nil, fmt.Errorf("remove wishlist item: %w", err)
	}
	return s.products(ctx, w)
}

// products resolves the saved ids, skipping products that no longer exist.
func (s *WishlistService) products(ctx context.Context, w *domain.Wishlist) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(w.ProductIDs))
	if len(w.ProductIDs) == 0 {
		return out, nil
	}
	found, err := s.Prods.GetMany(ctx, w.ProductIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve products: %w", err)
	}
	for _, id := range w.ProductIDs {
		if p, ok := found[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}
