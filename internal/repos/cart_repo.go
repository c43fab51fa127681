package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shopfront/internal/domain"
	"shopfront/internal/store"

	"github.com/jmoiron/sqlx"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

type cartRow struct {
	UserID    string    `db:"user_id"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r *CartRepo) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	return loadCart(ctx, r.db, userID)
}

func (r *CartRepo) AddLine(ctx context.Context, userID, productID string, qty int) (*domain.Cart, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if err := touchCart(ctx, tx, userID); err != nil {
		return nil, err
	}
	if err := upsertLine(ctx, tx, userID, productID, qty); err != nil {
		return nil, err
	}
	cart, err := loadCart(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	return cart, tx.Commit()
}

func (r *CartRepo) RemoveLine(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `UPDATE carts SET updated_at=? WHERE user_id=?`, now(), userID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, store.ErrNotFound
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id=? AND product_id=?`, userID, productID); err != nil {
		return nil, err
	}
	cart, err := loadCart(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	return cart, tx.Commit()
}

func (r *CartRepo) TakeLines(ctx context.Context, userID string) ([]domain.CartLine, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	lines, err := selectLines(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return lines, nil
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id=?`, userID); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE carts SET updated_at=? WHERE user_id=?`, now(), userID); err != nil {
		return nil, err
	}
	return lines, tx.Commit()
}

func (r *CartRepo) RestoreLines(ctx context.Context, userID string, lines []domain.CartLine) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := touchCart(ctx, tx, userID); err != nil {
		return err
	}
	for _, l := range lines {
		if err := mergeLine(ctx, tx, userID, l.ProductID, l.Quantity); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func touchCart(ctx context.Context, tx *sqlx.Tx, userID string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO carts(user_id, updated_at) VALUES(?, ?)
		ON CONFLICT(user_id) DO UPDATE SET updated_at = excluded.updated_at
	`, userID, now())
	return err
}

// upsertLine adds qty to the line, leaving it untouched and returning
// store.ErrQuantityLimit when the sum would pass domain.MaxLineQuantity.
func upsertLine(ctx context.Context, tx *sqlx.Tx, userID, productID string, qty int) error {
	if qty > domain.MaxLineQuantity {
		return store.ErrQuantityLimit
	}
	res, err := tx.ExecContext(ctx, `
		INSERT INTO cart_items(user_id, product_id, quantity)
		VALUES(?, ?, ?)
		ON CONFLICT(user_id, product_id) DO UPDATE
		SET quantity = cart_items.quantity + excluded.quantity
		WHERE cart_items.quantity + excluded.quantity <= ?
	`, userID, productID, qty, domain.MaxLineQuantity)
	if err != nil {
		return fmt.Errorf("upsert cart line %s: %w", productID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrQuantityLimit
	}
	return nil
}

// mergeLine adds qty to the line, clamping at domain.MaxLineQuantity.
func mergeLine(ctx context.Context, tx *sqlx.Tx, userID, productID string, qty int) error {
	qty = min(qty, domain.MaxLineQuantity)
	_, err := tx.ExecContext(ctx, `
		INSERT INTO cart_items(user_id, product_id, quantity)
		VALUES(?, ?, ?)
		ON CONFLICT(user_id, product_id) DO UPDATE
		SET quantity = MIN(cart_items.quantity + excluded.quantity, ?)
	`, userID, productID, qty, domain.MaxLineQuantity)
	if err != nil {
		return fmt.Errorf("merge cart line %s: %w", productID, err)
	}
	return nil
}

func selectLines(ctx context.Context, q sqlx.QueryerContext, userID string) ([]domain.CartLine, error) {
	lines := []domain.CartLine{}
	err := sqlx.SelectContext(ctx, q, &lines, `
	  SELECT product_id, quantity FROM cart_items
	  WHERE user_id = ?
	  ORDER BY rowid
	`, userID)
	return lines, err
}

func loadCart(ctx context.Context, q sqlx.QueryerContext, userID string) (*domain.Cart, error) {
	var row cartRow
	if err := sqlx.GetContext(ctx, q, &row, `SELECT user_id, updated_at FROM carts WHERE user_id = ?`, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	lines, err := selectLines(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	return &domain.Cart{UserID: row.UserID, Lines: lines, UpdatedAt: row.UpdatedAt}, nil
}
