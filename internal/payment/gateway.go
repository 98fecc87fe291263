package payment

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when a create-order request names none
const DefaultCurrency = "INR"

// DefaultRazorpayURL is the gateway's REST base URL
const DefaultRazorpayURL = "https://api.razorpay.com/v1"

// OrderRequest asks the gateway to open a payment order. Amount is in
// rupees; the gateway is sent paise.
type OrderRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency,omitempty"`
	Receipt  string          `json:"receipt,omitempty"`
}

// GatewayOrder is the gateway's view of a payment order
type GatewayOrder struct {
	ID         string `json:"id"`
	Entity     string `json:"entity"`
	Amount     int64  `json:"amount"`
	AmountPaid int64  `json:"amount_paid"`
	AmountDue  int64  `json:"amount_due"`
	Currency   string `json:"currency"`
	Receipt    string `json:"receipt"`
	Status     string `json:"status"`
	Attempts   int    `json:"attempts"`
	CreatedAt  int64  `json:"created_at"`
}

// Gateway opens payment orders
type Gateway interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*GatewayOrder, error)
}

// ToPaise converts a rupee amount to whole paise
func ToPaise(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func withDefaults(req OrderRequest, now time.Time) OrderRequest {
	if req.Currency == "" {
		req.Currency = DefaultCurrency
	}
	if req.Receipt == "" {
		req.Receipt = fmt.Sprintf("receipt_%d", now.UnixMilli())
	}
	return req
}

// RazorpayClient creates orders through the Razorpay REST API
type RazorpayClient struct {
	keyID      string
	keySecret  string
	baseURL    string
	httpClient *http.Client
}

// NewRazorpayClient creates a gateway client authenticated with the key pair
func NewRazorpayClient(keyID, keySecret, baseURL string) *RazorpayClient {
	if baseURL == "" {
		baseURL = DefaultRazorpayURL
	}
	return &RazorpayClient{
		keyID:      keyID,
		keySecret:  keySecret,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type razorpayOrderBody struct {
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	Receipt        string `json:"receipt"`
	PaymentCapture int    `json:"payment_capture"`
}

type razorpayError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateOrder opens an auto-capture order on the gateway
func (c *RazorpayClient) CreateOrder(ctx context.Context, req OrderRequest) (*GatewayOrder, error) {
	req = withDefaults(req, time.Now())

	body, err := json.Marshal(razorpayOrderBody{
		Amount:         ToPaise(req.Amount),
		Currency:       req.Currency,
		Receipt:        req.Receipt,
		PaymentCapture: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal gateway order: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build gateway request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var gwErr razorpayError
		if json.Unmarshal(raw, &gwErr) == nil && gwErr.Error.Description != "" {
			return nil, fmt.Errorf("gateway rejected order (%d %s): %s", resp.StatusCode, gwErr.Error.Code, gwErr.Error.Description)
		}
		return nil, fmt.Errorf("gateway rejected order: status %d", resp.StatusCode)
	}

	var order GatewayOrder
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, fmt.Errorf("failed to decode gateway order: %w", err)
	}
	return &order, nil
}

// StubGateway fabricates gateway orders locally. It stands in for the
// real gateway when no credentials are configured.
type StubGateway struct {
	Now func() time.Time
}

// CreateOrder returns a created order with a random order_ id
func (g *StubGateway) CreateOrder(ctx context.Context, req OrderRequest) (*GatewayOrder, error) {
	now := time.Now()
	if g.Now != nil {
		now = g.Now()
	}
	req = withDefaults(req, now)

	suffix := make([]byte, 7)
	if _, err := rand.Read(suffix); err != nil {
		return nil, fmt.Errorf("failed to generate order id: %w", err)
	}

	amount := ToPaise(req.Amount)
	return &GatewayOrder{
		ID:        "order_" + hex.EncodeToString(suffix),
		Entity:    "order",
		Amount:    amount,
		AmountDue: amount,
		Currency:  req.Currency,
		Receipt:   req.Receipt,
		Status:    "created",
		CreatedAt: now.Unix(),
	}, nil
}
