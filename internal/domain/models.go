package domain

import "time"

// OrderStatusProcessing is the status every order is created with. No handler
// transitions it.
const OrderStatusProcessing = "Processing"

// MaxLineQuantity caps the accumulated quantity of a single cart line.
const MaxLineQuantity = 10000

type User struct {
	ID        string    `db:"id" bson:"_id" json:"id"`
	Name      string    `db:"name" bson:"name" json:"name"`
	Email     string    `db:"email" bson:"email" json:"email"`
	Hash      string    `db:"password_hash" bson:"password_hash" json:"-"`
	IsAdmin   bool      `db:"is_admin" bson:"is_admin" json:"isAdmin"`
	CreatedAt time.Time `db:"created_at" bson:"created_at" json:"createdAt"`
}

// Product prices are in minor currency units (cents).
type Product struct {
	ID          string    `db:"id" bson:"_id" json:"id"`
	Name        string    `db:"name" bson:"name" json:"name"`
	Description string    `db:"description" bson:"description" json:"description"`
	Price       int64     `db:"price" bson:"price" json:"price"`
	Stock       int       `db:"stock" bson:"stock" json:"stock"`
	Image       string    `db:"image" bson:"image" json:"image"`
	CreatedAt   time.Time `db:"created_at" bson:"created_at" json:"createdAt"`
}

type CartLine struct {
	ProductID string `db:"product_id" bson:"product_id" json:"productId"`
	Quantity  int    `db:"quantity" bson:"quantity" json:"quantity"`
}

type Cart struct {
	UserID    string     `bson:"user_id" json:"userId"`
	Lines     []CartLine `bson:"items" json:"items"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updatedAt"`
}

type Wishlist struct {
	UserID     string    `bson:"user_id" json:"userId"`
	ProductIDs []string  `bson:"products" json:"products"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updatedAt"`
}

// Order is a snapshot of a cart at checkout. Per-line prices are not kept,
// only the aggregate total.
type Order struct {
	ID        string     `bson:"_id" json:"id"`
	UserID    string     `bson:"user_id" json:"userId"`
	Lines     []CartLine `bson:"items" json:"items"`
	Total     int64      `bson:"total" json:"total"`
	Status    string     `bson:"status" json:"status"`
	CreatedAt time.Time  `bson:"created_at" json:"createdAt"`
}

// Item is a cart or order line with its product resolved against the catalog.
// Product is nil when the referenced product no longer exists.
type Item struct {
	ProductID string   `json:"productId"`
	Product   *Product `json:"product"`
	Quantity  int      `json:"quantity"`
}

type OrderView struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Items     []Item    `json:"items"`
	Total     int64     `json:"total"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}
