package mongostore

import (
	"fmt"
	"time"

	"petcare-store/internal/models"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type productDoc struct {
	ID          primitive.ObjectID   `bson:"_id"`
	Name        string               `bson:"name"`
	Description string               `bson:"description"`
	Price       primitive.Decimal128 `bson:"price"`
	Category    string               `bson:"category"`
	Brand       string               `bson:"brand"`
	Stock       int                  `bson:"stock"`
	Rating      primitive.Decimal128 `bson:"rating"`
	NumReviews  int                  `bson:"numReviews"`
	Image       string               `bson:"image"`
	CreatedAt   time.Time            `bson:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt"`
}

type orderItemDoc struct {
	Name     string               `bson:"name"`
	Quantity int                  `bson:"quantity"`
	Price    primitive.Decimal128 `bson:"price"`
	Product  primitive.ObjectID   `bson:"product"`
}

type addressDoc struct {
	Address    string `bson:"address"`
	City       string `bson:"city"`
	PostalCode string `bson:"postalCode"`
	Country    string `bson:"country"`
}

type paymentResultDoc struct {
	ID           string `bson:"id"`
	Status       string `bson:"status"`
	UpdateTime   string `bson:"update_time"`
	EmailAddress string `bson:"email_address"`
}

type orderDoc struct {
	ID              primitive.ObjectID   `bson:"_id"`
	User            primitive.ObjectID   `bson:"user"`
	OrderItems      []orderItemDoc       `bson:"orderItems"`
	ShippingAddress addressDoc           `bson:"shippingAddress"`
	PaymentMethod   string               `bson:"paymentMethod"`
	TaxPrice        primitive.Decimal128 `bson:"taxPrice"`
	ShippingPrice   primitive.Decimal128 `bson:"shippingPrice"`
	TotalPrice      primitive.Decimal128 `bson:"totalPrice"`
	IsPaid          bool                 `bson:"isPaid"`
	PaidAt          *time.Time           `bson:"paidAt,omitempty"`
	PaymentResult   *paymentResultDoc    `bson:"paymentResult,omitempty"`
	IsDelivered     bool                 `bson:"isDelivered"`
	DeliveredAt     *time.Time           `bson:"deliveredAt,omitempty"`
	CreatedAt       time.Time            `bson:"createdAt"`
	UpdatedAt       time.Time            `bson:"updatedAt"`
}

type dayRangeDoc struct {
	Min int `bson:"min"`
	Max int `bson:"max"`
}

type zoneDoc struct {
	ID                    primitive.ObjectID   `bson:"_id"`
	Name                  string               `bson:"name"`
	Type                  string               `bson:"type"`
	Areas                 []string             `bson:"areas"`
	BaseRate              primitive.Decimal128 `bson:"baseRate"`
	PerKgRate             primitive.Decimal128 `bson:"perKgRate"`
	FreeShippingThreshold primitive.Decimal128 `bson:"freeShippingThreshold"`
	EstimatedDays         dayRangeDoc          `bson:"estimatedDays"`
	CreatedAt             time.Time            `bson:"createdAt"`
	UpdatedAt             time.Time            `bson:"updatedAt"`
}

type userDoc struct {
	ID           primitive.ObjectID `bson:"_id"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

type eventDoc struct {
	ID          string    `bson:"_id"`
	EventType   string    `bson:"eventType"`
	ProcessedAt time.Time `bson:"processedAt"`
}

// decimalCodec converts between decimal.Decimal and BSON Decimal128
// without rounding, keeping the first value that cannot be carried.
type decimalCodec struct {
	err error
}

func (c *decimalCodec) to(field string, d decimal.Decimal) primitive.Decimal128 {
	v, ok := primitive.ParseDecimal128FromBigInt(d.Coefficient(), int(d.Exponent()))
	if !ok && c.err == nil {
		c.err = fmt.Errorf("%s %s does not fit a decimal128", field, d.String())
	}
	return v
}

func (c *decimalCodec) from(field string, v primitive.Decimal128) decimal.Decimal {
	bi, exp, err := v.BigInt()
	if err != nil {
		if c.err == nil {
			c.err = fmt.Errorf("stored %s %s is not a number: %w", field, v.String(), err)
		}
		return decimal.Zero
	}
	return decimal.NewFromBigInt(bi, int32(exp))
}

// objectIDOf parses a hex id; unparsable ids map to the zero id which
// never matches a stored document.
func objectIDOf(id string) primitive.ObjectID {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID
	}
	return oid
}

func newProductDoc(p *models.Product) (productDoc, error) {
	var c decimalCodec
	doc := productDoc{
		ID:          objectIDOf(p.ID),
		Name:        p.Name,
		Description: p.Description,
		Price:       c.to("price", p.Price),
		Category:    string(p.Category),
		Brand:       p.Brand,
		Stock:       p.Stock,
		Rating:      c.to("rating", p.Rating),
		NumReviews:  p.NumReviews,
		Image:       p.Image,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	return doc, c.err
}

func (d productDoc) model() (models.Product, error) {
	var c decimalCodec
	p := models.Product{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Price:       c.from("price", d.Price),
		Category:    models.Category(d.Category),
		Brand:       d.Brand,
		Stock:       d.Stock,
		Rating:      c.from("rating", d.Rating),
		NumReviews:  d.NumReviews,
		Image:       d.Image,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	return p, c.err
}

func newOrderDoc(o *models.Order) (orderDoc, error) {
	var c decimalCodec
	doc := orderDoc{
		ID:              objectIDOf(o.ID),
		User:            objectIDOf(o.User),
		OrderItems:      make([]orderItemDoc, 0, len(o.OrderItems)),
		ShippingAddress: addressDoc(o.ShippingAddress),
		PaymentMethod:   string(o.PaymentMethod),
		TaxPrice:        c.to("taxPrice", o.TaxPrice),
		ShippingPrice:   c.to("shippingPrice", o.ShippingPrice),
		TotalPrice:      c.to("totalPrice", o.TotalPrice),
		IsPaid:          o.IsPaid,
		PaidAt:          o.PaidAt,
		IsDelivered:     o.IsDelivered,
		DeliveredAt:     o.DeliveredAt,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	for _, item := range o.OrderItems {
		doc.OrderItems = append(doc.OrderItems, orderItemDoc{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    c.to("orderItems.price", item.Price),
			Product:  objectIDOf(item.Product),
		})
	}
	if o.PaymentResult != nil {
		r := paymentResultDoc(*o.PaymentResult)
		doc.PaymentResult = &r
	}
	return doc, c.err
}

func (d orderDoc) model() (models.Order, error) {
	var c decimalCodec
	o := models.Order{
		ID:              d.ID.Hex(),
		User:            d.User.Hex(),
		OrderItems:      make(models.OrderItems, 0, len(d.OrderItems)),
		ShippingAddress: models.ShippingAddress(d.ShippingAddress),
		PaymentMethod:   models.PaymentMethod(d.PaymentMethod),
		TaxPrice:        c.from("taxPrice", d.TaxPrice),
		ShippingPrice:   c.from("shippingPrice", d.ShippingPrice),
		TotalPrice:      c.from("totalPrice", d.TotalPrice),
		IsPaid:          d.IsPaid,
		PaidAt:          d.PaidAt,
		IsDelivered:     d.IsDelivered,
		DeliveredAt:     d.DeliveredAt,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
	for _, item := range d.OrderItems {
		o.OrderItems = append(o.OrderItems, models.OrderItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    c.from("orderItems.price", item.Price),
			Product:  item.Product.Hex(),
		})
	}
	if d.PaymentResult != nil {
		r := models.PaymentResult(*d.PaymentResult)
		o.PaymentResult = &r
	}
	return o, c.err
}

func newZoneDoc(z *models.ShippingZone) (zoneDoc, error) {
	var c decimalCodec
	doc := zoneDoc{
		ID:                    objectIDOf(z.ID),
		Name:                  z.Name,
		Type:                  string(z.Type),
		Areas:                 append([]string{}, z.Areas...),
		BaseRate:              c.to("baseRate", z.BaseRate),
		PerKgRate:             c.to("perKgRate", z.PerKgRate),
		FreeShippingThreshold: c.to("freeShippingThreshold", z.FreeShippingThreshold),
		EstimatedDays:         dayRangeDoc(z.EstimatedDays),
		CreatedAt:             z.CreatedAt,
		UpdatedAt:             z.UpdatedAt,
	}
	return doc, c.err
}

func (d zoneDoc) model() (models.ShippingZone, error) {
	var c decimalCodec
	z := models.ShippingZone{
		ID:                    d.ID.Hex(),
		Name:                  d.Name,
		Type:                  models.ZoneType(d.Type),
		Areas:                 models.AreaList(d.Areas),
		BaseRate:              c.from("baseRate", d.BaseRate),
		PerKgRate:             c.from("perKgRate", d.PerKgRate),
		FreeShippingThreshold: c.from("freeShippingThreshold", d.FreeShippingThreshold),
		EstimatedDays:         models.DayRange(d.EstimatedDays),
		CreatedAt:             d.CreatedAt,
		UpdatedAt:             d.UpdatedAt,
	}
	return z, c.err
}
