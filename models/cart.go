package models

import "time"

// CartItem is a server-side cart row. The (user_id, product_id) pair is
// unique: one row per product identity, quantities aggregate on add.
type CartItem struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	ProductID int       `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ApiCartItem is the wire shape a cart line is served as.
type ApiCartItem struct {
	ProductID int    `json:"product_id"`
	Name      string `json:"name"`
	Price     int    `json:"price"`
	Quantity  int    `json:"quantity"`
	Avatar    string `json:"avatar"`
	Category  string `json:"category,omitempty"`
	Unit      string `json:"unit,omitempty"`
}
