package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"edu-store/cart"
)

type OrderAddress struct {
	Street       string           `json:"street"`
	City         string           `json:"city"`
	District     string           `json:"district"`
	PostalCode   string           `json:"postal_code"`
	Coordinates  cart.Coordinates `json:"coordinates"`
	Instructions string           `json:"instructions"`
}

type OrderLine struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
	Price     int `json:"price"`
}

type OrderPayload struct {
	FullName      string         `json:"full_name"`
	Email         string         `json:"email"`
	Phone         string         `json:"phone"`
	Address       []OrderAddress `json:"address"`
	Items         []OrderLine    `json:"items"`
	Subtotal      int            `json:"subtotal"`
	DeliveryFee   int            `json:"delivery_fee"`
	Total         int            `json:"total"`
	PaymentMethod string         `json:"payment_method"`
	PaymentStatus string         `json:"payment_status"`
}

// BuildOrderPayload assembles the order-creation request from the cart
// lines, the delivery details, and the settled payment.
func BuildOrderPayload(items []cart.Item, details cart.DeliveryDetails, payment PaymentDetails) OrderPayload {
	lines := make([]OrderLine, 0, len(items))
	subtotal := 0
	for _, item := range items {
		lines = append(lines, OrderLine{ProductID: item.ID, Quantity: item.Quantity, Price: item.Price})
		subtotal += item.Price * item.Quantity
	}

	status := payment.Status
	if status == "" {
		status = "paid"
	}

	return OrderPayload{
		FullName: details.FullName,
		Email:    details.Email,
		Phone:    details.Phone,
		Address: []OrderAddress{{
			Street:       details.Address,
			City:         details.City,
			District:     details.District,
			PostalCode:   details.PostalCode,
			Coordinates:  details.Coordinates,
			Instructions: details.Instructions,
		}},
		Items:         lines,
		Subtotal:      subtotal,
		DeliveryFee:   details.DeliveryFee,
		Total:         subtotal + details.DeliveryFee,
		PaymentMethod: payment.Method,
		PaymentStatus: status,
	}
}

// OrderCreationError reports a failed order POST. The checkout stays in
// Payment and the cart is untouched, so the caller can retry safely.
type OrderCreationError struct {
	Err error
}

func (e *OrderCreationError) Error() string {
	return fmt.Sprintf("order creation failed: %v", e.Err)
}

func (e *OrderCreationError) Unwrap() error { return e.Err }

// OrderClient posts the final order. One call, one order: the server
// either creates the whole order or nothing.
type OrderClient interface {
	CreateOrder(ctx context.Context, token string, payload OrderPayload) (int, error)
}

// HTTPOrderClient implements OrderClient against POST /api/orders.
type HTTPOrderClient struct {
	baseURL string
	http    *http.Client
}

func NewOrderClient(baseURL string, httpClient *http.Client) *HTTPOrderClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPOrderClient{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (c *HTTPOrderClient) CreateOrder(ctx context.Context, token string, payload OrderPayload) (int, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, &OrderCreationError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/orders", bytes.NewReader(data))
	if err != nil {
		return 0, &OrderCreationError{Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, &OrderCreationError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return 0, &OrderCreationError{Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var result struct {
		OrderID int `json:"order_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, &OrderCreationError{Err: err}
	}
	if result.OrderID <= 0 {
		return 0, &OrderCreationError{Err: fmt.Errorf("missing order_id in response")}
	}
	return result.OrderID, nil
}
