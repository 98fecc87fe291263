// Package lifecycle tracks the delivery stage of orders on the customer's
// side. It is kept apart from the server's isPaid/isDelivered flags.
package lifecycle

import "strings"

// Status is a delivery stage
type Status string

const (
	StatusConfirmed      Status = "confirmed"
	StatusPreparing      Status = "preparing"
	StatusShipped        Status = "shipped"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

var timeline = []Status{
	StatusConfirmed,
	StatusPreparing,
	StatusShipped,
	StatusOutForDelivery,
	StatusDelivered,
}

// Timeline returns the linear stages in order. Cancelled is not on it.
func Timeline() []Status {
	return append([]Status(nil), timeline...)
}

// Next returns the single stage that may follow s. It reports false for
// the terminal stages and for unknown values.
func (s Status) Next() (Status, bool) {
	switch s {
	case StatusConfirmed:
		return StatusPreparing, true
	case StatusPreparing:
		return StatusShipped, true
	case StatusShipped:
		return StatusOutForDelivery, true
	case StatusOutForDelivery:
		return StatusDelivered, true
	case StatusDelivered, StatusCancelled:
		return "", false
	default:
		return "", false
	}
}

// Valid reports whether s is a known stage
func (s Status) Valid() bool {
	return s == StatusCancelled || s.Index() >= 0
}

// Terminal reports whether no transition leaves s
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Index is the position of s on the timeline, or -1
func (s Status) Index() int {
	for i, st := range timeline {
		if st == s {
			return i
		}
	}
	return -1
}

// Label is s with underscores turned into spaces
func (s Status) Label() string {
	return strings.ReplaceAll(string(s), "_", " ")
}

// DefaultMessage is the history message used when none is given
func DefaultMessage(s Status) string {
	return "Order " + s.Label()
}

// Info is how a stage is presented to the customer
type Info struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

var statusInfo = map[Status]Info{
	StatusConfirmed:      {"✅", "Order Confirmed", "Your order has been confirmed and is being prepared."},
	StatusPreparing:      {"📦", "Preparing Order", "We are carefully preparing your pet supplies."},
	StatusShipped:        {"🚚", "Order Shipped", "Your order is on its way to your address."},
	StatusOutForDelivery: {"🛵", "Out for Delivery", "Your order is out for delivery and will arrive soon."},
	StatusDelivered:      {"🎉", "Order Delivered", "Your order has been delivered successfully."},
	StatusCancelled:      {"❌", "Order Cancelled", "This order has been cancelled."},
}

// InfoFor returns the display info for s, falling back to confirmed for
// unknown stages.
func InfoFor(s Status) Info {
	if info, ok := statusInfo[s]; ok {
		return info
	}
	return statusInfo[StatusConfirmed]
}
