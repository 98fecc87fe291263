package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"petcare-store/internal/models"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidTransition is returned for a move the timeline does not allow
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrOrderNotFound is returned when no tracked order has the id
	ErrOrderNotFound = errors.New("order not found")
)

// Item is one cart line
type Item struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// Address is the delivery address as the customer entered it
type Address struct {
	FullName     string `json:"fullName,omitempty"`
	Phone        string `json:"phone,omitempty"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state,omitempty"`
	PinCode      string `json:"pinCode"`
}

// Pricing is the breakdown shown at checkout
type Pricing struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

// Draft is a checkout that has not been placed yet
type Draft struct {
	Items         []Item               `json:"items"`
	Address       Address              `json:"address"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod"`
	Pricing       Pricing              `json:"pricing"`
}

// HistoryEntry records one stage change
type HistoryEntry struct {
	Status    Status    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// Order is a placed order as tracked by the customer
type Order struct {
	ID string `json:"id"`
	Draft
	CreatedAt     time.Time      `json:"createdAt"`
	Status        Status         `json:"status"`
	StatusHistory []HistoryEntry `json:"statusHistory"`
}

// NewOrder starts an order at confirmed with a single history entry
func NewOrder(id string, draft Draft, createdAt time.Time, message string) *Order {
	return &Order{
		ID:        id,
		Draft:     draft,
		CreatedAt: createdAt,
		Status:    StatusConfirmed,
		StatusHistory: []HistoryEntry{
			{Status: StatusConfirmed, Timestamp: createdAt, Message: message},
		},
	}
}

// Advance moves the order to its next stage. On a terminal stage nothing
// changes and it reports false.
func (o *Order) Advance(message string, now time.Time) bool {
	next, ok := o.Status.Next()
	if !ok {
		return false
	}
	o.record(next, message, now)
	return true
}

// Transition moves the order to to, which must be the next stage or
// cancelled.
func (o *Order) Transition(to Status, message string, now time.Time) error {
	if to == StatusCancelled {
		return o.Cancel(message, now)
	}
	next, ok := o.Status.Next()
	if !ok || next != to {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, to)
	}
	o.record(to, message, now)
	return nil
}

// Cancel moves a non-terminal order to cancelled
func (o *Order) Cancel(message string, now time.Time) error {
	if o.Status.Terminal() {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, StatusCancelled)
	}
	o.record(StatusCancelled, message, now)
	return nil
}

func (o *Order) record(to Status, message string, now time.Time) {
	if message == "" {
		message = DefaultMessage(to)
	}
	o.Status = to
	o.StatusHistory = append(o.StatusHistory, HistoryEntry{Status: to, Timestamp: now, Message: message})
}

// ReachedAt returns when the order first entered s
func (o *Order) ReachedAt(s Status) (time.Time, bool) {
	for _, h := range o.StatusHistory {
		if h.Status == s {
			return h.Timestamp, true
		}
	}
	return time.Time{}, false
}

func (o Order) clone() Order {
	o.Items = append([]Item(nil), o.Items...)
	o.StatusHistory = append([]HistoryEntry(nil), o.StatusHistory...)
	return o
}
