package repos

import (
	"context"
	"database/sql/driver"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"shopfront/internal/store"
)

func init() {
	// SQLite's LOWER only folds ASCII; fold(x) lower-cases full Unicode.
	sqlite.MustRegisterDeterministicScalarFunction("fold", 1, fold)
}

func fold(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

// OpenDB opens (or creates) the SQLite database at dsn and ensures the schema.
// ":memory:" gives a private throwaway database, handy in tests.
func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// One connection: keeps :memory: databases shared and serialises writers.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewStore exposes db through the store contract.
func NewStore(db *sqlx.DB) *store.Store {
	return &store.Store{
		Users:     NewUserRepo(db),
		Products:  NewProductRepo(db),
		Carts:     NewCartRepo(db),
		Wishlists: NewWishlistRepo(db),
		Orders:    NewOrderRepo(db),
		Close:     func(context.Context) error { return db.Close() },
	}
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  is_admin INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

-- Products
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  price INTEGER NOT NULL,
  stock INTEGER NOT NULL DEFAULT 0,
  image TEXT NOT NULL DEFAULT '',
  created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_products_name ON products(LOWER(name));

-- Carts: one per user, lines kept in insertion (rowid) order
CREATE TABLE IF NOT EXISTS carts(
  user_id TEXT PRIMARY KEY,
  updated_at DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS cart_items(
  user_id TEXT NOT NULL REFERENCES carts(user_id) ON DELETE CASCADE,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  PRIMARY KEY (user_id, product_id)
);

-- Wishlists
CREATE TABLE IF NOT EXISTS wishlists(
  user_id TEXT PRIMARY KEY,
  updated_at DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS wishlist_items(
  user_id TEXT NOT NULL REFERENCES wishlists(user_id) ON DELETE CASCADE,
  product_id TEXT NOT NULL,
  PRIMARY KEY (user_id, product_id)
);

-- Orders (immutable once written)
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  total INTEGER NOT NULL,
  status TEXT NOT NULL,
  created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id, created_at);
CREATE TABLE IF NOT EXISTS order_items(
  order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  PRIMARY KEY (order_id, product_id)
);
`
	_, err := db.Exec(schema)
	return err
}

func now() time.Time { return time.Now().UTC() }

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		c := se.Code()
		return c == sqlite3.SQLITE_CONSTRAINT_UNIQUE || c == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}
