package services

import (
	"context"
	"errors"
	"fmt"

	"shopfront/internal/domain"
	"shopfront/internal/store"
	"shopfront/internal/validate"
)

type CatalogService struct {
	Prods store.Products
}

func NewCatalogService(prods store.Products) *CatalogService {
	return &CatalogService{Prods: prods}
}

func (s *CatalogService) List(ctx context.Context) ([]domain.Product, error) {
	return s.Prods.List(ctx)
}

func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Product, error) {
	id, ok := validate.ID(id)
	if !ok {
		return nil, notFound("product not found")
	}
	p, err := s.Prods.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("product not found")
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Search matches q against product names only. A blank query yields no
// results rather than the whole catalog.
func (s *CatalogService) Search(ctx context.Context, q string) ([]domain.Product, error) {
	q, ok := validate.Q(q)
	if !ok {
		return []domain.Product{}, nil
	}
	return s.Prods.SearchName(ctx, q)
}

// resolve joins lines with current catalog data, keeping line order.
func resolve(ctx context.Context, prods store.Products, lines []domain.CartLine) ([]domain.Item, error) {
	items := make([]domain.Item, 0, len(lines))
	if len(lines) == 0 {
		return items, nil
	}
	ids := make([]string, len(lines))
	for i, l := range lines {
		ids[i] = l.ProductID
	}
	found, err := prods.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve products: %w", err)
	}
	for _, l := range lines {
		it := domain.Item{ProductID: l.ProductID, Quantity: l.Quantity}
		if p, ok := found[l.ProductID]; ok {
			it.Product = &p
		}
		items = append(items, it)
	}
	return items, nil
}
