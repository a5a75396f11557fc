package cart

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Remote is the server-side cart surface the reconciler talks to in bound
// mode.
type Remote interface {
	FetchCart(ctx context.Context, token string) ([]Item, error)
	AddItem(ctx context.Context, token string, productID, quantity int) error
	RemoveItem(ctx context.Context, token string, productID int) error
	UpdateItem(ctx context.Context, token string, productID, quantity int) error
}

// apiCartItem is the wire shape of one server cart line.
type apiCartItem struct {
	ProductID int    `json:"product_id"`
	Name      string `json:"name"`
	Price     int    `json:"price"`
	Quantity  int    `json:"quantity"`
	Avatar    string `json:"avatar"`
	Category  string `json:"category,omitempty"`
	Unit      string `json:"unit,omitempty"`
}

// toItem maps the wire shape onto a cart line. Wire payloads are validated
// here and never trusted past this boundary.
func (a apiCartItem) toItem() (Item, error) {
	if a.ProductID <= 0 {
		return Item{}, fmt.Errorf("invalid product_id %d", a.ProductID)
	}
	if a.Quantity < 1 {
		return Item{}, fmt.Errorf("invalid quantity %d for product %d", a.Quantity, a.ProductID)
	}
	if a.Price < 0 {
		return Item{}, fmt.Errorf("negative price for product %d", a.ProductID)
	}
	return Item{
		ID:       a.ProductID,
		Name:     a.Name,
		Price:    a.Price,
		Quantity: a.Quantity,
		Image:    a.Avatar,
		Category: a.Category,
		Unit:     a.Unit,
	}, nil
}

// Client implements Remote against the storefront API with bearer-token
// authentication.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (c *Client) do(ctx context.Context, token, method, path string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.http.Do(req)
}

func (c *Client) FetchCart(ctx context.Context, token string) ([]Item, error) {
	resp, err := c.do(ctx, token, http.MethodGet, "/api/cart", nil)
	if err != nil {
		return nil, &NetworkError{Op: "fetch cart", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &NetworkError{Op: "fetch cart", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var payload struct {
		Cart []apiCartItem `json:"cart"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &NetworkError{Op: "fetch cart", Err: err}
	}

	items := make([]Item, 0, len(payload.Cart))
	for _, line := range payload.Cart {
		item, err := line.toItem()
		if err != nil {
			return nil, &NetworkError{Op: "fetch cart", Err: err}
		}
		items = append(items, item)
	}
	return items, nil
}

func (c *Client) AddItem(ctx context.Context, token string, productID, quantity int) error {
	body := map[string]int{"product_id": productID, "quantity": quantity}
	return c.mutate(ctx, token, http.MethodPost, "/api/cart/add", body, "add item")
}

func (c *Client) RemoveItem(ctx context.Context, token string, productID int) error {
	path := fmt.Sprintf("/api/cart/remove/%d", productID)
	return c.mutate(ctx, token, http.MethodDelete, path, nil, "remove item")
}

func (c *Client) UpdateItem(ctx context.Context, token string, productID, quantity int) error {
	path := fmt.Sprintf("/api/cart/%d", productID)
	return c.mutate(ctx, token, http.MethodPut, path, map[string]int{"quantity": quantity}, "update item")
}

func (c *Client) mutate(ctx context.Context, token, method, path string, body interface{}, op string) error {
	resp, err := c.do(ctx, token, method, path, body)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &NetworkError{Op: op, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}
	return nil
}
