package repos

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"shopfront/internal/domain"
	"shopfront/internal/store"

	"github.com/jmoiron/sqlx"
)

type WishlistRepo struct{ db *sqlx.DB }

func NewWishlistRepo(db *sqlx.DB) *WishlistRepo { return &WishlistRepo{db: db} }

func (r *WishlistRepo) Get(ctx context.Context, userID string) (*domain.Wishlist, error) {
	return loadWishlist(ctx, r.db, userID)
}

func (r *WishlistRepo) Add(ctx context.Context, userID, productID string) (*domain.Wishlist, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO wishlists(user_id, updated_at) VALUES(?, ?)
		ON CONFLICT(user_id) DO UPDATE SET updated_at = excluded.updated_at
	`, userID, now()); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `
	  INSERT INTO wishlist_items(user_id, product_id)
	  VALUES(?, ?)
	  ON CONFLICT(user_id, product_id) DO NOTHING
	`, userID, productID); err != nil {
		return nil, err
	}
	w, err := loadWishlist(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	return w, tx.Commit()
}

func (r *WishlistRepo) Remove(ctx context.Context, userID, productID string) (*domain.Wishlist, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `UPDATE wishlists SET updated_at=? WHERE user_id=?`, now(), userID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, store.ErrNotFound
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM wishlist_items WHERE user_id=? AND product_id=?`, userID, productID); err != nil {
		return nil, err
	}
	w, err := loadWishlist(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	return w, tx.Commit()
}

func loadWishlist(ctx context.Context, q sqlx.QueryerContext, userID string) (*domain.Wishlist, error) {
	var updated time.Time
	if err := sqlx.GetContext(ctx, q, &updated, `SELECT updated_at FROM wishlists WHERE user_id=?`, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	ids := []string{}
	if err := sqlx.SelectContext(ctx, q, &ids, `
	  SELECT product_id FROM wishlist_items
	  WHERE user_id = ?
	  ORDER BY rowid
	`, userID); err != nil {
		return nil, err
	}
	return &domain.Wishlist{UserID: userID, ProductIDs: ids, UpdatedAt: updated}, nil
}
