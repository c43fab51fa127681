// Package seed fills an empty catalog with demo products.
package seed

import (
	"context"
	"errors"
	"fmt"

	"shopfront/internal/domain"
	"shopfront/internal/store"
)

// DemoProducts is the catalog written by Catalog. Prices are in cents.
var DemoProducts = []domain.Product{
	{ID: "gbc-001", Name: "Game Boy Color", Description: "Handheld console, tested and cleaned", Price: 12999, Stock: 8, Image: "products/gbc-001.jpg"},
	{ID: "nes-001", Name: "NES Console", Description: "Classic 8-bit console with one controller", Price: 19900, Stock: 5, Image: "products/nes-001.jpg"},
	{ID: "snes-001", Name: "Super Nintendo Console", Description: "16-bit console with controller", Price: 19900, Stock: 7, Image: "products/snes-001.jpg"},
	{ID: "radio-001", Name: "Philco 1939 Radio", Description: "Vintage vacuum tube radio", Price: 34950, Stock: 2, Image: "products/radio-001.jpg"},
	{ID: "radio-zenith-500", Name: "Zenith Royal 500 Transistor Radio", Description: "Pocket radio, works with a 9V battery", Price: 8900, Stock: 5, Image: "products/radio-zenith-500.jpg"},
}

// Catalog inserts DemoProducts when the products collection is empty. It
// reports how many products were written.
func Catalog(ctx context.Context, prods store.Products) (int, error) {
	n, err := prods.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	if n > 0 {
		return 0, nil
	}
	written := 0
	for _, p := range DemoProducts {
		p := p
		if err := prods.Insert(ctx, &p); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				continue
			}
			return written, fmt.Errorf("insert %s: %w", p.ID, err)
		}
		written++
	}
	return written, nil
}
