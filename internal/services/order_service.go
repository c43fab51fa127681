package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/bits"
	"time"

	"shopfront/internal/domain"
	"shopfront/internal/store"

	"github.com/google/uuid"
)

type OrderService struct {
	Carts  store.Carts
	Orders store.Orders
	Prods  store.Products
	now    func() time.Time
}

func NewOrderService(carts store.Carts, orders store.Orders, prods store.Products) *OrderService {
	return &OrderService{Carts: carts, Orders: orders, Prods: prods, now: time.Now}
}

// Checkout turns the user's cart into an order priced at current catalog
// prices and leaves the cart empty.
//
// The cart lines are taken (cart emptied) in one atomic store operation
// before anything else, so two concurrent checkouts cannot both see the same
// lines. If pricing or writing the order fails afterwards, the lines are put
// back into the cart.
func (s *OrderService) Checkout(ctx context.Context, userID string) (*domain.OrderView, error) {
	lines, err := s.Carts.TakeLines(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("take cart lines: %w", err)
	}
	if len(lines) == 0 {
		return nil, &Error{Kind: ErrEmptyCart, Msg: "cart is empty"}
	}

	ids := make([]string, len(lines))
	for i, l := range lines {
		ids[i] = l.ProductID
	}
	found, err := s.Prods.GetMany(ctx, ids)
	if err != nil {
		return nil, s.restore(ctx, userID, lines, fmt.Errorf("price cart: %w", err))
	}

	var total int64
	items := make([]domain.Item, 0, len(lines))
	for _, l := range lines {
		p, ok := found[l.ProductID]
		if !ok {
			return nil, s.restore(ctx, userID, lines, notFound("product "+l.ProductID+" is no longer available"))
		}
		sub, ok := lineTotal(p.Price, l.Quantity)
		if !ok || total > math.MaxInt64-sub {
			return nil, s.restore(ctx, userID, lines, invalid("order total is too large"))
		}
		total += sub
		items = append(items, domain.Item{ProductID: l.ProductID, Product: &p, Quantity: l.Quantity})
	}

	order := &domain.Order{
		ID:        uuid.NewString(),
		UserID:    userID,
		Lines:     lines,
		Total:     total,
		Status:    domain.OrderStatusProcessing,
		CreatedAt: s.now().UTC(),
	}
	if err := s.Orders.Create(ctx, order); err != nil {
		return nil, s.restore(ctx, userID, lines, fmt.Errorf("create order: %w", err))
	}
	return view(order, items), nil
}

// History lists the user's orders, newest first.
func (s *OrderService) History(ctx context.Context, userID string) ([]domain.OrderView, error) {
	orders, err := s.Orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return s.views(ctx, orders)
}

func (s *OrderService) ListAll(ctx context.Context) ([]domain.OrderView, error) {
	orders, err := s.Orders.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return s.views(ctx, orders)
}

func (s *OrderService) restore(ctx context.Context, userID string, lines []domain.CartLine, cause error) error {
	if err := s.Carts.RestoreLines(context.WithoutCancel(ctx), userID, lines); err != nil {
		return errors.Join(cause, fmt.Errorf("restore cart lines: %w", err))
	}
	return cause
}

func (s *OrderService) views(ctx context.Context, orders []domain.Order) ([]domain.OrderView, error) {
	out := make([]domain.OrderView, 0, len(orders))
	if len(orders) == 0 {
		return out, nil
	}
	seen := map[string]bool{}
	var ids []string
	for _, o := range orders {
		for _, l := range o.Lines {
			if !seen[l.ProductID] {
				seen[l.ProductID] = true
				ids = append(ids, l.ProductID)
			}
		}
	}
	found, err := s.Prods.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve products: %w", err)
	}
	for i := range orders {
		o := &orders[i]
		items := make([]domain.Item, 0, len(o.Lines))
		for _, l := range o.Lines {
			it := domain.Item{ProductID: l.ProductID, Quantity: l.Quantity}
			if p, ok := found[l.ProductID]; ok {
				it.Product = &p
			}
			items = append(items, it)
		}
		out = append(out, *view(o, items))
	}
	return out, nil
}

// lineTotal returns price*qty and false when either is negative or the
// product does not fit in an int64.
func lineTotal(price int64, qty int) (int64, bool) {
	if price < 0 || qty < 0 {
		return 0, false
	}
	hi, lo := bits.Mul64(uint64(price), uint64(qty))
	if hi != 0 || lo > math.MaxInt64 {
		return 0, false
	}
	return int64(lo), true
}

func view(o *domain.Order, items []domain.Item) *domain.OrderView {
	return &domain.OrderView{
		ID:        o.ID,
		UserID:    o.UserID,
		Items:     items,
		Total:     o.Total,
		Status:    o.Status,
		CreatedAt: o.CreatedAt,
	}
}
