package models

type RegisterRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=6"`
	FullName string `json:"full_name" form:"full_name" binding:"required,min=3"`
	Phone    string `json:"phone" form:"phone" binding:"omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

type AddCartItemRequest struct {
	ProductID int `json:"product_id" binding:"required,gt=0"`
	Quantity  int `json:"quantity" binding:"omitempty,gte=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type CreateOrderAddressRequest struct {
	Street       string          `json:"street" binding:"required"`
	City         string          `json:"city" binding:"required"`
	District     string          `json:"district" binding:"required"`
	PostalCode   string          `json:"postal_code"`
	Coordinates  CoordinatesBody `json:"coordinates"`
	Instructions string          `json:"instructions"`
}

type CoordinatesBody struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type CreateOrderItemRequest struct {
	ProductID int `json:"product_id" binding:"required,gt=0"`
	Quantity  int `json:"quantity" binding:"required,gte=1"`
	Price     int `json:"price" binding:"gte=0"`
}

type CreateOrderRequest struct {
	FullName      string                      `json:"full_name" binding:"required"`
	Email         string                      `json:"email" binding:"required,email"`
	Phone         string                      `json:"phone" binding:"required"`
	Address       []CreateOrderAddressRequest `json:"address" binding:"required,min=1,dive"`
	Items         []CreateOrderItemRequest    `json:"items" binding:"required,min=1,dive"`
	Subtotal      int                         `json:"subtotal" binding:"gte=0"`
	DeliveryFee   int                         `json:"delivery_fee" binding:"gte=0"`
	Total         int                         `json:"total" binding:"gte=0"`
	PaymentMethod string                      `json:"payment_method" binding:"required"`
	PaymentStatus string                      `json:"payment_status"`
}

type CreateProductRequest struct {
	Name        string `json:"name" form:"name" binding:"required"`
	Description string `json:"description" form:"description"`
	CategoryID  int    `json:"category_id" form:"category_id" binding:"required"`
	Price       int    `json:"price" form:"price" binding:"required,gte=0"`
	Stock       int    `json:"stock" form:"stock" binding:"gte=0"`
	Avatar      string `json:"avatar" form:"avatar"`
	Unit        string `json:"unit" form:"unit"`
}

type UpdateProductRequest struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
	CategoryID  int    `json:"category_id" form:"category_id"`
	Price       int    `json:"price" form:"price"`
	Stock       int    `json:"stock" form:"stock"`
	Avatar      string `json:"avatar" form:"avatar"`
	Unit        string `json:"unit" form:"unit"`
	IsActive    bool   `json:"is_active" form:"is_active"`
}
