package services

import (
	"context"
	"errors"
	"fmt"

	"shopfront/internal/domain"
	"shopfront/internal/store"
	"shopfront/internal/validate"
)

type CartService struct {
	Carts store.Carts
	Prods store.Products
}

func NewCartService(carts store.Carts, prods store.Products) *CartService {
	return &CartService{Carts: carts, Prods: prods}
}

// Get returns the resolved lines of the user's cart, empty when the user has
// no cart yet.
func (s *CartService) Get(ctx context.Context, userID string) ([]domain.Item, error) {
	cart, err := s.Carts.Get(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return []domain.Item{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return resolve(ctx, s.Prods, cart.Lines)
}

// Add increments the line for productID by qty, creating the cart and line as
// needed. Stock is not checked.
func (s *CartService) Add(ctx context.Context, userID, productID string, qty int) ([]domain.Item, error) {
	if !validate.Present(productID) || qty == 0 {
		return nil, invalid("productId and quantity are required")
	}
	if !validate.Qty(qty) {
		return nil, invalid(fmt.Sprintf("quantity must be between 1 and %d", domain.MaxLineQuantity))
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
	cart, err := s.Carts.AddLine(ctx, userID, id, qty)
	if errors.Is(err, store.ErrQuantityLimit) {
		return nil, invalid(fmt.Sprintf("a cart line holds at most %d units", domain.MaxLineQuantity))
	}
	if err != nil {
		return nil, fmt.Errorf("add cart line: %w", err)
	}
	return resolve(ctx, s.Prods, cart.Lines)
}

// Remove drops the line for productID. Removing a product that is not in the
// cart succeeds without change; a user without any cart gets ErrNotFound.
func (s *CartService) Remove(ctx context.Context, userID, productID string) ([]domain.Item, error) {
	cart, err := s.Carts.RemoveLine(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("cart not found")
		}
		return nil, fmt.Errorf("remove cart line: %w", err)
	}
	return resolve(ctx, s.Prods, cart.Lines)
}
