package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shopfront/internal/domain"
	"shopfront/internal/store"

	"github.com/jmoiron/sqlx"
)

const userCols = `id,name,email,password_hash,is_admin,created_at`

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now()
	}
	_, err := r.DB.ExecContext(ctx, `INSERT INTO users(`+userCols+`) VALUES(?,?,?,?,?,?)`,
		u.ID, u.Name, u.Email, u.Hash, u.IsAdmin, u.CreatedAt)
	if isUniqueViolation(err) {
		return store.ErrDuplicate
	}
	return err
}

func (r *UserRepo) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.one(ctx, `SELECT `+userCols+` FROM users WHERE LOWER(email)=LOWER(?)`, email)
}

func (r *UserRepo) ByID(ctx context.Context, id string) (*domain.User, error) {
	return r.one(ctx, `SELECT `+userCols+` FROM users WHERE id=?`, id)
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	out := []domain.User{}
	if err := r.DB.SelectContext(ctx, &out, `SELECT `+userCols+` FROM users ORDER BY rowid`); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}

func (r *UserRepo) one(ctx context.Context, q string, arg any) (*domain.User, error) {
	var u domain.User
	if err := r.DB.GetContext(ctx, &u, q, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
