// Package client talks to the store API on behalf of a customer and keeps
// the customer's own order book.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"petcare-store/internal/apperr"
	"petcare-store/internal/models"
	"petcare-store/internal/payment"

	"github.com/shopspring/decimal"
)

// APIError is a non-2xx answer from the store API
type APIError struct {
	StatusCode int
	Message    string
	Violations []apperr.Violation
}

func (e *APIError) Error() string {
	if len(e.Violations) > 0 {
		parts := make([]string, 0, len(e.Violations))
		for _, v := range e.Violations {
			parts = append(parts, fmt.Sprintf("%s: %s", v.Path, v.Message))
		}
		return fmt.Sprintf("api error %d: %s (%s)", e.StatusCode, e.Message, strings.Join(parts, "; "))
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client is a store API client
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the API at baseURL
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ListProducts returns the catalog, filtered by category when set
func (c *Client) ListProducts(ctx context.Context, category models.Category) ([]models.Product, error) {
	path := "/api/products"
	if category != "" {
		path += "?category=" + url.QueryEscape(string(category))
	}
	var products []models.Product
	if err := c.do(ctx, http.MethodGet, path, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// QuoteShipping prices a parcel to pincode
func (c *Client) QuoteShipping(ctx context.Context, pincode string, weight, orderValue decimal.Decimal) (*models.ShippingQuote, error) {
	req := models.ShippingQuoteRequest{Pincode: pincode, Weight: &weight, OrderValue: &orderValue}
	var quote models.ShippingQuote
	if err := c.do(ctx, http.MethodPost, "/api/shipping/calculate", req, &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}

// CreateOrder submits an order
func (c *Client) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, http.MethodPost, "/api/orders", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders returns every order the store holds
func (c *Client) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder fetches one order
func (c *Client) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders/"+url.PathEscape(id), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// PaymentMethods returns the checkout payment options
func (c *Client) PaymentMethods(ctx context.Context) (map[string]payment.Method, error) {
	var body struct {
		Methods map[string]payment.Method `json:"methods"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/payments/payment-methods", nil, &body); err != nil {
		return nil, err
	}
	return body.Methods, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var errBody struct {
			Message string             `json:"message"`
			Errors  []apperr.Violation `json:"errors"`
		}
		if json.Unmarshal(raw, &errBody) == nil && errBody.Message != "" {
			apiErr.Message = errBody.Message
			apiErr.Violations = errBody.Errors
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
