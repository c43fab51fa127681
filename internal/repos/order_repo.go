package repos

import (
	"context"
	"fmt"
	"time"

	"shopfront/internal/domain"

	"github.com/jmoiron/sqlx"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

type orderRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Total     int64     `db:"total"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}

type orderItemRow struct {
	OrderID   string `db:"order_id"`
	ProductID string `db:"product_id"`
	Quantity  int    `db:"quantity"`
}

// Create writes the order header and its lines in one transaction.
func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now()
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
	  INSERT INTO orders(id, user_id, total, status, created_at)
	  VALUES(?, ?, ?, ?, ?)
	`, o.ID, o.UserID, o.Total, o.Status, o.CreatedAt); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	for _, l := range o.Lines {
		if _, err := tx.ExecContext(ctx, `
		  INSERT INTO order_items(order_id, product_id, quantity)
		  VALUES(?, ?, ?)
		`, o.ID, l.ProductID, l.Quantity); err != nil {
			return fmt.Errorf("insert order line: %w", err)
		}
	}
	return tx.Commit()
}

// ListByUser returns the user's orders, newest first.
func (r *OrderRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	var rows []orderRow
	if err := r.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, total, status, created_at
		FROM orders
		WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC
	`, userID); err != nil {
		return nil, err
	}
	return r.withLines(ctx, rows)
}

func (r *OrderRepo) List(ctx context.Context) ([]domain.Order, error) {
	var rows []orderRow
	if err := r.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, total, status, created_at
		FROM orders
		ORDER BY rowid
	`); err != nil {
		return nil, err
	}
	return r.withLines(ctx, rows)
}

func (r *OrderRepo) withLines(ctx context.Context, rows []orderRow) ([]domain.Order, error) {
	out := make([]domain.Order, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	ids := make([]string, len(rows))
	for i, o := range rows {
		ids[i] = o.ID
	}
	q, args, err := sqlx.In(`
		SELECT order_id, product_id, quantity
		FROM order_items
		WHERE order_id IN (?)
		ORDER BY rowid
	`, ids)
	if err != nil {
		return nil, err
	}
	var items []orderItemRow
	if err := r.db.SelectContext(ctx, &items, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	lines := make(map[string][]domain.CartLine, len(rows))
	for _, it := range items {
		lines[it.OrderID] = append(lines[it.OrderID], domain.CartLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	for _, o := range rows {
		ls := lines[o.ID]
		if ls == nil {
			ls = []domain.CartLine{}
		}
		out = append(out, domain.Order{
			ID: o.ID, UserID: o.UserID, Lines: ls, Total: o.Total, Status: o.Status, CreatedAt: o.CreatedAt,
		})
	}
	return out, nil
}
