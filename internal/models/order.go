package models

import (
	"database/sql/driver"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how the customer intends to pay
type PaymentMethod string

const (
	PaymentMethodCreditCard     PaymentMethod = "credit-card"
	PaymentMethodPayPal         PaymentMethod = "paypal"
	PaymentMethodStripe         PaymentMethod = "stripe"
	PaymentMethodCashOnDelivery PaymentMethod = "cash-on-delivery"
	PaymentMethodCOD            PaymentMethod = "cod"
)

// PaymentMethods lists every accepted payment method
var PaymentMethods = []PaymentMethod{
	PaymentMethodCreditCard,
	PaymentMethodPayPal,
	PaymentMethodStripe,
	PaymentMethodCashOnDelivery,
	PaymentMethodCOD,
}

// Valid reports whether m is one of PaymentMethods
func (m PaymentMethod) Valid() bool {
	for _, known := range PaymentMethods {
		if m == known {
			return true
		}
	}
	return false
}

// OrderItem is one line of an order. Price is the unit price at the time
// of ordering; Product is not checked against the catalog.
type OrderItem struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Product  string          `json:"product"`
}

// OrderItems is stored as a single JSON column
type OrderItems []OrderItem

func (items OrderItems) Value() (driver.Value, error) {
	if items == nil {
		items = OrderItems{}
	}
	return valueJSON([]OrderItem(items))
}

func (items *OrderItems) Scan(src interface{}) error {
	return scanJSON(src, (*[]OrderItem)(items))
}

// ShippingAddress is where an order is delivered
type ShippingAddress struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

func (a ShippingAddress) Value() (driver.Value, error) {
	return valueJSON(a)
}

func (a *ShippingAddress) Scan(src interface{}) error {
	type plain ShippingAddress
	return scanJSON(src, (*plain)(a))
}

// PaymentResult is what the payer's gateway reported. It is set only when
// the order is marked paid.
type PaymentResult struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	UpdateTime   string `json:"update_time"`
	EmailAddress string `json:"email_address"`
}

func (r PaymentResult) Value() (driver.Value, error) {
	return valueJSON(r)
}

func (r *PaymentResult) Scan(src interface{}) error {
	type plain PaymentResult
	return scanJSON(src, (*plain)(r))
}

// Order represents a persisted customer order
type Order struct {
	ID              string          `db:"id" json:"_id"`
	User            string          `db:"user_id" json:"user"`
	OrderItems      OrderItems      `db:"order_items" json:"orderItems"`
	ShippingAddress ShippingAddress `db:"shipping_address" json:"shippingAddress"`
	PaymentMethod   PaymentMethod   `db:"payment_method" json:"paymentMethod"`
	TaxPrice        decimal.Decimal `db:"tax_price" json:"taxPrice"`
	ShippingPrice   decimal.Decimal `db:"shipping_price" json:"shippingPrice"`
	TotalPrice      decimal.Decimal `db:"total_price" json:"totalPrice"`
	IsPaid          bool            `db:"is_paid" json:"isPaid"`
	PaidAt          *time.Time      `db:"paid_at" json:"paidAt,omitempty"`
	PaymentResult   *PaymentResult  `db:"payment_result" json:"paymentResult,omitempty"`
	IsDelivered     bool            `db:"is_delivered" json:"isDelivered"`
	DeliveredAt     *time.Time      `db:"delivered_at" json:"deliveredAt,omitempty"`
	CreatedAt       time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updatedAt"`
}

// MarkPaid flags the order as paid at now. Calling it again overwrites
// paidAt and the payment result; isPaid never goes back to false.
func (o *Order) MarkPaid(result PaymentResult, now time.Time) {
	o.IsPaid = true
	o.PaidAt = &now
	o.PaymentResult = &result
	o.UpdatedAt = now
}

// CreateOrderRequest is the payload accepted by POST /api/orders.
// totalPrice is trusted as sent; it is only checked for sign.
type CreateOrderRequest struct {
	User            string                `json:"user" validate:"objectid"`
	OrderItems      []OrderItemInput      `json:"orderItems" validate:"required,min=1,dive"`
	ShippingAddress *ShippingAddressInput `json:"shippingAddress"`
	PaymentMethod   PaymentMethod         `json:"paymentMethod" validate:"paymentmethod"`
	TaxPrice        *decimal.Decimal      `json:"taxPrice" validate:"required,min=0"`
	ShippingPrice   *decimal.Decimal      `json:"shippingPrice" validate:"required,min=0"`
	TotalPrice      *decimal.Decimal      `json:"totalPrice" validate:"required,min=0"`
}

// OrderItemInput is one requested order line
type OrderItemInput struct {
	Name     string           `json:"name" validate:"min=1,max=200"`
	Quantity int              `json:"quantity" validate:"min=1,max=100"`
	Price    *decimal.Decimal `json:"price" validate:"required,min=0"`
	Product  string           `json:"product" validate:"objectid"`
}

// ShippingAddressInput is the requested delivery address
type ShippingAddressInput struct {
	Address    string `json:"address" validate:"min=5,max=500"`
	City       string `json:"city" validate:"min=2,max=100"`
	PostalCode string `json:"postalCode" validate:"postalcode"`
	Country    string `json:"country" validate:"min=2,max=100"`
}

// Normalize trims every free-text field of the request. A missing
// address becomes an empty one so each address rule reports on its own.
func (r CreateOrderRequest) Normalize() CreateOrderRequest {
	r.User = strings.TrimSpace(r.User)
	if r.OrderItems != nil {
		items := make([]OrderItemInput, len(r.OrderItems))
		for i, item := range r.OrderItems {
			item.Name = strings.TrimSpace(item.Name)
			item.Product = strings.TrimSpace(item.Product)
			items[i] = item
		}
		r.OrderItems = items
	}
	var addr ShippingAddressInput
	if r.ShippingAddress != nil {
		addr = *r.ShippingAddress
	}
	addr.Address = strings.TrimSpace(addr.Address)
	addr.City = strings.TrimSpace(addr.City)
	addr.PostalCode = strings.TrimSpace(addr.PostalCode)
	addr.Country = strings.TrimSpace(addr.Country)
	r.ShippingAddress = &addr
	return r
}

// ToOrder builds an unpaid, undelivered order from a validated request
func (r CreateOrderRequest) ToOrder() *Order {
	order := &Order{
		User:          r.User,
		OrderItems:    make(OrderItems, 0, len(r.OrderItems)),
		PaymentMethod: r.PaymentMethod,
		TaxPrice:      decimalOrZero(r.TaxPrice),
		ShippingPrice: decimalOrZero(r.ShippingPrice),
		TotalPrice:    decimalOrZero(r.TotalPrice),
	}
	for _, item := range r.OrderItems {
		order.OrderItems = append(order.OrderItems, OrderItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    decimalOrZero(item.Price),
			Product:  item.Product,
		})
	}
	if r.ShippingAddress != nil {
		order.ShippingAddress = ShippingAddress(*r.ShippingAddress)
	}
	return order
}

// PayOrderRequest is the payload accepted by PUT /api/orders/:id/pay
type PayOrderRequest struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	UpdateTime   string `json:"update_time"`
	EmailAddress string `json:"email_address"`
}

func decimalOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
