// Package store defines the document-store contract shared by the SQLite
// (repos) and MongoDB (mongostore) backends. Each method touches a single
// collection and is atomic per document.
package store

import (
	"context"
	"errors"

	"shopfront/internal/domain"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate key")
	// ErrQuantityLimit means an add would push a cart line past
	// domain.MaxLineQuantity. The cart is left unchanged.
	ErrQuantityLimit = errors.New("line quantity limit reached")
)

type Users interface {
	Create(ctx context.Context, u *domain.User) error
	ByEmail(ctx context.Context, email string) (*domain.User, error)
	ByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

type Products interface {
	Insert(ctx context.Context, p *domain.Product) error
	Get(ctx context.Context, id string) (*domain.Product, error)
	// GetMany returns the products found for ids keyed by id. Missing ids are
	// absent from the map.
	GetMany(ctx context.Context, ids []string) (map[string]domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	// SearchName matches q as a literal, case-insensitive substring of the
	// product name.
	SearchName(ctx context.Context, q string) ([]domain.Product, error)
	Count(ctx context.Context) (int64, error)
}

type Carts interface {
	// Get returns ErrNotFound when the user has never had a cart.
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	// AddLine upserts the cart and increments the line for productID by qty,
	// appending the line when absent. It returns ErrQuantityLimit instead of
	// exceeding domain.MaxLineQuantity.
	AddLine(ctx context.Context, userID, productID string, qty int) (*domain.Cart, error)
	// RemoveLine returns ErrNotFound when no cart exists.
	RemoveLine(ctx context.Context, userID, productID string) (*domain.Cart, error)
	// TakeLines empties the cart in one atomic step and returns the lines it
	// held. A missing cart yields no lines.
	TakeLines(ctx context.Context, userID string) ([]domain.CartLine, error)
	// RestoreLines merges lines back into the cart, adding quantities and
	// clamping each line at domain.MaxLineQuantity.
	RestoreLines(ctx context.Context, userID string, lines []domain.CartLine) error
}

type Wishlists interface {
	Get(ctx context.Context, userID string) (*domain.Wishlist, error)
	// Add upserts the wishlist and adds productID with set semantics.
	Add(ctx context.Context, userID, productID string) (*domain.Wishlist, error)
	// Remove returns ErrNotFound when no wishlist exists.
	Remove(ctx context.Context, userID, productID string) (*domain.Wishlist, error)
}

type Orders interface {
	Create(ctx context.Context, o *domain.Order) error
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
}

// Store bundles the five collections plus lifecycle.
type Store struct {
	Users     Users
	Products  Products
	Carts     Carts
	Wishlists Wishlists
	Orders    Orders
	Close     func(ctx context.Context) error
}
