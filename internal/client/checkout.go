package client

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"petcare-store/internal/lifecycle"
	"petcare-store/internal/models"
	"petcare-store/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	// DefaultCountry is sent for every shipping address
	DefaultCountry = "India"
	// FallbackProductID stands in for cart lines without a catalog id
	FallbackProductID = "66b1f1a5e5c123456789abce"

	confirmedMessage      = "Order confirmed successfully"
	confirmedLocalMessage = "Order confirmed successfully (stored locally)"
)

// OrderAPI submits orders to the store. *Client implements it.
type OrderAPI interface {
	CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.Order, error)
}

// Checkout places drafts with the store and tracks the result locally
type Checkout struct {
	api     OrderAPI
	tracker *lifecycle.Tracker
	userID  string
	now     func() time.Time
	random  func(n int) int
	logger  *zap.Logger
}

// NewCheckout creates a checkout submitting as userID
func NewCheckout(api OrderAPI, tracker *lifecycle.Tracker, userID string) *Checkout {
	return &Checkout{
		api:     api,
		tracker: tracker,
		userID:  userID,
		now:     time.Now,
		random:  rand.Intn,
		logger:  util.GetLogger(),
	}
}

// PlaceOrder submits draft once. When the store accepts it the tracked
// order takes the server id and creation time; on any failure it is kept
// under a local id instead. Only a failed local save is returned.
func (c *Checkout) PlaceOrder(ctx context.Context, draft lifecycle.Draft) (*lifecycle.Order, error) {
	var order *lifecycle.Order

	saved, err := c.api.CreateOrder(ctx, OrderRequest(draft, c.userID))
	if err == nil {
		order = lifecycle.NewOrder(saved.ID, draft, saved.CreatedAt, confirmedMessage)
	} else {
		c.logger.Warn("Order submission failed, storing locally", zap.Error(err))
		now := c.now().UTC()
		order = lifecycle.NewOrder(c.localID(now), draft, now, confirmedLocalMessage)
	}

	if err := c.tracker.Add(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}
	return order, nil
}

// localID is "SP" + unix millis + a number in [0, 9999]
func (c *Checkout) localID(now time.Time) string {
	return fmt.Sprintf("SP%d%d", now.UnixMilli(), c.random(10000))
}

// OrderRequest maps a draft onto the store's order payload. Tax is
// always zero; shipping and total come from the draft as shown.
func OrderRequest(draft lifecycle.Draft, userID string) models.CreateOrderRequest {
	items := make([]models.OrderItemInput, 0, len(draft.Items))
	for _, item := range draft.Items {
		price := item.Price
		product := strings.TrimSpace(item.ID)
		if !models.IsValidID(product) {
			product = FallbackProductID
		}
		items = append(items, models.OrderItemInput{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    &price,
			Product:  product,
		})
	}

	tax := decimal.Zero
	shipping := draft.Pricing.Shipping
	total := draft.Pricing.Total

	return models.CreateOrderRequest{
		User:       userID,
		OrderItems: items,
		ShippingAddress: &models.ShippingAddressInput{
			Address:    draft.Address.AddressLine1,
			City:       draft.Address.City,
			PostalCode: draft.Address.PinCode,
			Country:    DefaultCountry,
		},
		PaymentMethod: draft.PaymentMethod,
		TaxPrice:      &tax,
		ShippingPrice: &shipping,
		TotalPrice:    &total,
	}
}
