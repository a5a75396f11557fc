package models

import "time"

type Order struct {
	ID            int       `json:"id"`
	OrderNumber   string    `json:"order_number"`
	UserID        int       `json:"user_id"`
	FullName      string    `json:"full_name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Status        string    `json:"status"`
	Subtotal      int       `json:"subtotal"`
	DeliveryFee   int       `json:"delivery_fee"`
	Total         int       `json:"total"`
	PaymentMethod string    `json:"payment_method"`
	PaymentStatus string    `json:"payment_status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type OrderItem struct {
	ID        int `json:"id"`
	OrderID   int `json:"order_id"`
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
	Price     int `json:"price"`
}

type OrderAddress struct {
	ID           int     `json:"id"`
	OrderID      int     `json:"order_id"`
	Street       string  `json:"street"`
	City         string  `json:"city"`
	District     string  `json:"district"`
	PostalCode   string  `json:"postal_code"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	Instructions string  `json:"instructions"`
}
