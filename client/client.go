// Package client is the storefront's API client, used by the CLI and the
// bulk uploader. It owns the session token and the bridge between the
// client-local cart and the order endpoint.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"storefront/cart"
	"storefront/models"
)

type Client struct {
	base  string
	http  *http.Client
	token string
}

func New(base string) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken restores a previously issued session token.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) Token() string {
	return c.token
}

// APIError carries the server's message field alongside the status code, so
// callers can surface it verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(data, &apiErr)
		return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Message}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

type Session struct {
	Message string `json:"message"`
	User    struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Email   string `json:"email"`
		IsAdmin bool   `json:"isAdmin"`
	} `json:"user"`
	Token string `json:"token"`
}

func (c *Client) Register(ctx context.Context, name, email, password string) (*Session, error) {
	var session Session
	err := c.do(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"name": name, "email": email, "password": password,
	}, &session)
	if err != nil {
		return nil, err
	}
	c.token = session.Token
	return &session, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var session Session
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email": email, "password": password,
	}, &session)
	if err != nil {
		return nil, err
	}
	c.token = session.Token
	return &session, nil
}

func (c *Client) Products(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.do(ctx, http.MethodGet, "/api/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) Product(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := c.do(ctx, http.MethodGet, "/api/products/"+id, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// AddToCart fetches the live product and clamps the requested quantity
// against current stock before touching the local cart. The cart itself does
// not enforce the clamp on later quantity edits; checkout re-validates.
func (c *Client) AddToCart(ctx context.Context, crt *cart.Cart, productID string, quantity int) error {
	product, err := c.Product(ctx, productID)
	if err != nil {
		return err
	}
	if quantity > product.Stock {
		return fmt.Errorf("cannot add more than available stock (%d)", product.Stock)
	}
	return crt.AddItem(*product, quantity)
}

type orderItemPayload struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

type PlacedOrder struct {
	Order   models.Order `json:"order"`
	Message string       `json:"message"`
}

// Checkout submits the cart's lines as an order and clears the cart on
// success, mirroring the browser flow.
func (c *Client) Checkout(ctx context.Context, crt *cart.Cart, shipping models.ShippingInfo) (*PlacedOrder, error) {
	lines := crt.Lines()
	if len(lines) == 0 {
		return nil, fmt.Errorf("your cart is empty")
	}

	items := make([]orderItemPayload, 0, len(lines))
	for _, line := range lines {
		items = append(items, orderItemPayload{
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
		})
	}

	payload := map[string]interface{}{
		"orderItems":   items,
		"shippingInfo": shipping,
		"totalPrice":   crt.TotalPrice(),
	}

	var placed PlacedOrder
	if err := c.do(ctx, http.MethodPost, "/api/orders", payload, &placed); err != nil {
		return nil, err
	}

	if err := crt.Clear(); err != nil {
		return &placed, fmt.Errorf("order placed but failed to clear cart: %w", err)
	}
	return &placed, nil
}

// MyOrders returns the caller's orders as raw JSON objects; product
// references arrive expanded by the server.
func (c *Client) MyOrders(ctx context.Context) ([]map[string]interface{}, error) {
	var orders []map[string]interface{}
	if err := c.do(ctx, http.MethodGet, "/api/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) AllOrders(ctx context.Context) ([]map[string]interface{}, error) {
	var orders []map[string]interface{}
	if err := c.do(ctx, http.MethodGet, "/api/orders/all", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, orderID, status string) (*models.Order, error) {
	var order models.Order
	err := c.do(ctx, http.MethodPut, "/api/orders/"+orderID+"/status", map[string]string{
		"status": status,
	}, &order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) CreateProduct(ctx context.Context, product models.Product) (*models.Product, error) {
	var resp struct {
		Message string         `json:"message"`
		Product models.Product `json:"product"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/products", product, &resp); err != nil {
		return nil, err
	}
	return &resp.Product, nil
}
