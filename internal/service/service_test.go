package service

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"petcare-store/internal/apperr"
	"petcare-store/internal/models"
	"petcare-store/internal/payment"
	"petcare-store/internal/store"
	"petcare-store/internal/util"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	util.SetLogger(zap.NewNop())
	os.Exit(m.Run())
}

type recordingPublisher struct {
	mu       sync.Mutex
	created  []*models.OrderCreatedEvent
	paid     []*models.OrderPaidEvent
	verified []*models.PaymentVerifiedEvent
	err      error
}

func (p *recordingPublisher) PublishOrderCreated(ctx context.Context, e *models.OrderCreatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created = append(p.created, e)
	return p.err
}

func (p *recordingPublisher) PublishOrderPaid(ctx context.Context, e *models.OrderPaidEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paid = append(p.paid, e)
	return p.err
}

func (p *recordingPublisher) PublishPaymentVerified(ctx context.Context, e *models.PaymentVerifiedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.verified = append(p.verified, e)
	return p.err
}

type mapCache struct {
	mu    sync.Mutex
	items map[string][]byte
	gets  int
}

func newMapCache() *mapCache {
	return &mapCache{items: make(map[string][]byte)}
}

func (c *mapCache) GetJSON(ctx context.Context, key string, dst interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	raw, ok := c.items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c *mapCache) SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = raw
	return nil
}

func (c *mapCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.items, k)
	}
	return nil
}

func (c *mapCache) DeletePrefix(ctx context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.items {
		if strings.HasPrefix(k, prefix) {
			delete(c.items, k)
		}
	}
	return nil
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func intPtr(i int) *int { return &i }

func validOrderRequest() models.CreateOrderRequest {
	return models.CreateOrderRequest{
		User: models.NewID(),
		OrderItems: []models.OrderItemInput{
			{Name: "Premium Dog Food", Quantity: 2, Price: dec("25.99"), Product: models.NewID()},
		},
		ShippingAddress: &models.ShippingAddressInput{
			Address: "12 Park Street", City: "Kolkata", PostalCode: "700016", Country: "India",
		},
		PaymentMethod: models.PaymentMethodCashOnDelivery,
		TaxPrice:      dec("0"),
		ShippingPrice: dec("40"),
		TotalPrice:    dec("91.98"),
	}
}

func TestCreateOrder(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewOrderService(store.NewMemoryStore(), pub)

	order, err := svc.CreateOrder(context.Background(), validOrderRequest())

	require.NoError(t, err)
	assert.True(t, models.IsValidID(order.ID))
	assert.False(t, order.IsPaid)
	assert.False(t, order.IsDelivered)
	assert.Nil(t, order.PaidAt)
	assert.True(t, order.TotalPrice.Equal(decimal.RequireFromString("91.98")))

	require.Len(t, pub.created, 1)
	assert.Equal(t, order.ID, pub.created[0].OrderID)
	assert.Equal(t, 1, pub.created[0].ItemCount)
}

func TestCreateOrderKeepsMismatchedTotal(t *testing.T) {
	svc := NewOrderService(store.NewMemoryStore(), nil)
	req := validOrderRequest()
	req.TotalPrice = dec("5")

	order, err := svc.CreateOrder(context.Background(), req)

	require.NoError(t, err)
	assert.True(t, order.TotalPrice.Equal(decimal.NewFromInt(5)))
}

func TestCreateOrderValidationNeverReachesStore(t *testing.T) {
	repo := store.NewMemoryStore()
	svc := NewOrderService(repo, nil)
	req := validOrderRequest()
	req.OrderItems = nil

	_, err := svc.CreateOrder(context.Background(), req)

	require.True(t, apperr.Is(err, apperr.KindValidation))
	appErr := apperr.From(err)
	require.NotEmpty(t, appErr.Violations)
	assert.Equal(t, "orderItems", appErr.Violations[0].Path)

	orders, _ := repo.ListOrders(context.Background())
	assert.Empty(t, orders)
}

func TestCreateOrderPublishFailureIsIgnored(t *testing.T) {
	svc := NewOrderService(store.NewMemoryStore(), &recordingPublisher{err: errors.New("kafka down")})

	_, err := svc.CreateOrder(context.Background(), validOrderRequest())

	assert.NoError(t, err)
}

func TestCreateOrderDuplicatesAllowed(t *testing.T) {
	svc := NewOrderService(store.NewMemoryStore(), nil)
	req := validOrderRequest()

	a, err := svc.CreateOrder(context.Background(), req)
	require.NoError(t, err)
	b, err := svc.CreateOrder(context.Background(), req)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	orders, err := svc.ListOrders(context.Background())
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}

func TestGetOrder(t *testing.T) {
	svc := NewOrderService(store.NewMemoryStore(), nil)
	created, err := svc.CreateOrder(context.Background(), validOrderRequest())
	require.NoError(t, err)

	got, err := svc.GetOrder(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.GetOrder(context.Background(), models.NewID())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Equal(t, "Order not found", apperr.From(err).Message)

	_, err = svc.GetOrder(context.Background(), "not-an-id")
	require.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Equal(t, "id", apperr.From(err).Violations[0].Path)
}

func TestMarkPaid(t *testing.T) {
	repo := store.NewMemoryStore()
	pub := &recordingPublisher{}
	svc := NewOrderService(repo, pub)
	created, err := svc.CreateOrder(context.Background(), validOrderRequest())
	require.NoError(t, err)

	details := models.PayOrderRequest{ID: "PAY-1", Status: "COMPLETED", UpdateTime: "2024-08-01T10:00:00Z", EmailAddress: "payer@example.com"}
	paid, err := svc.MarkPaid(context.Background(), created.ID, details)

	require.NoError(t, err)
	assert.True(t, paid.IsPaid)
	require.NotNil(t, paid.PaidAt)
	assert.False(t, paid.PaidAt.Before(paid.CreatedAt))
	assert.Equal(t, models.PaymentResult(details), *paid.PaymentResult)
	require.Len(t, pub.paid, 1)

	// a second payment stays paid and overwrites the result
	again, err := svc.MarkPaid(context.Background(), created.ID, models.PayOrderRequest{ID: "PAY-2"})
	require.NoError(t, err)
	assert.True(t, again.IsPaid)
	assert.Equal(t, "PAY-2", again.PaymentResult.ID)

	stored, err := repo.GetOrderByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsPaid)
}

func TestMarkPaidClampsToCreatedAt(t *testing.T) {
	repo := store.NewMemoryStore()
	future := time.Now().Add(time.Hour)
	repo.SetClock(func() time.Time { return future })
	svc := NewOrderService(repo, nil)
	created, err := svc.CreateOrder(context.Background(), validOrderRequest())
	require.NoError(t, err)

	paid, err := svc.MarkPaid(context.Background(), created.ID, models.PayOrderRequest{ID: "p"})

	require.NoError(t, err)
	assert.False(t, paid.PaidAt.Before(created.CreatedAt))
}

func TestMarkPaidNotFound(t *testing.T) {
	svc := NewOrderService(store.NewMemoryStore(), nil)

	_, err := svc.MarkPaid(context.Background(), models.NewID(), models.PayOrderRequest{})

	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func validProductRequest() models.CreateProductRequest {
	return models.CreateProductRequest{
		Name:        "  Catnip Mouse  ",
		Description: "Soft plush mouse stuffed with organic catnip",
		Price:       dec("199"),
		Category:    models.CategoryCats,
		Brand:       " Kong ",
		Stock:       intPtr(10),
	}
}

func TestCreateProductTrimsAndDefaults(t *testing.T) {
	svc := NewProductService(store.NewMemoryStore(), nil, time.Minute)

	p, err := svc.CreateProduct(context.Background(), validProductRequest())

	require.NoError(t, err)
	assert.Equal(t, "Catnip Mouse", p.Name)
	assert.Equal(t, "Kong", p.Brand)
	assert.True(t, p.Rating.IsZero())
	assert.Zero(t, p.NumReviews)
	assert.Equal(t, "", p.Image)
}

func TestProductListCachedAndInvalidated(t *testing.T) {
	cache := newMapCache()
	svc := NewProductService(store.NewMemoryStore(), cache, time.Minute)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, validProductRequest())
	require.NoError(t, err)

	cats, err := svc.ListProducts(ctx, models.CategoryCats)
	require.NoError(t, err)
	assert.Len(t, cats, 1)
	assert.Contains(t, cache.items, productListKey(models.CategoryCats))

	_, err = svc.CreateProduct(ctx, validProductRequest())
	require.NoError(t, err)
	assert.NotContains(t, cache.items, productListKey(models.CategoryCats))

	cats, err = svc.ListProducts(ctx, models.CategoryCats)
	require.NoError(t, err)
	assert.Len(t, cats, 2)

	dogs, err := svc.ListProducts(ctx, models.CategoryDogs)
	require.NoError(t, err)
	assert.Empty(t, dogs)
}

func TestGetProduct(t *testing.T) {
	cache := newMapCache()
	svc := NewProductService(store.NewMemoryStore(), cache, time.Minute)
	ctx := context.Background()
	p, err := svc.CreateProduct(ctx, validProductRequest())
	require.NoError(t, err)

	got, err := svc.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	cached, err := svc.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Name, cached.Name)

	_, err = svc.GetProduct(ctx, models.NewID())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = svc.GetProduct(ctx, "bad")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func seededShipping(t *testing.T, cache Cache) *ShippingService {
	t.Helper()
	repo := store.NewMemoryStore()
	require.NoError(t, store.Seed(context.Background(), repo))
	return NewShippingService(repo, cache, time.Minute)
}

func TestQuoteLocalAndNational(t *testing.T) {
	svc := seededShipping(t, nil)
	ctx := context.Background()

	local, err := svc.Quote(ctx, models.ShippingQuoteRequest{Pincode: "700001", Weight: dec("2"), OrderValue: dec("500")})
	require.NoError(t, err)
	assert.Equal(t, models.ZoneLocal, local.ZoneType)
	assert.Equal(t, "West Bengal Local", local.Zone)
	assert.True(t, decimal.NewFromInt(60).Equal(local.Cost))
	assert.False(t, local.FreeShipping)

	national, err := svc.Quote(ctx, models.ShippingQuoteRequest{Pincode: "110001", Weight: dec("1"), OrderValue: dec("2500")})
	require.NoError(t, err)
	assert.Equal(t, models.ZoneNational, national.ZoneType)
	assert.True(t, national.Cost.IsZero())
	assert.True(t, national.FreeShipping)
}

func TestQuoteValidation(t *testing.T) {
	svc := seededShipping(t, nil)

	_, err := svc.Quote(context.Background(), models.ShippingQuoteRequest{Pincode: "7000", Weight: dec("1"), OrderValue: dec("1")})

	require.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Equal(t, "pincode", apperr.From(err).Violations[0].Path)
}

func TestQuoteZoneNotFound(t *testing.T) {
	svc := NewShippingService(store.NewMemoryStore(), nil, time.Minute)

	_, err := svc.Quote(context.Background(), models.ShippingQuoteRequest{Pincode: "700001", Weight: dec("1"), OrderValue: dec("1")})

	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Equal(t, "Shipping zone not found", apperr.From(err).Message)
}

func TestQuoteUsesCachedZone(t *testing.T) {
	cache := newMapCache()
	svc := seededShipping(t, cache)
	ctx := context.Background()
	req := models.ShippingQuoteRequest{Pincode: "700001", Weight: dec("1"), OrderValue: dec("1")}

	_, err := svc.Quote(ctx, req)
	require.NoError(t, err)
	require.Len(t, cache.items, 1)

	svc.repo = store.NewMemoryStore()
	q, err := svc.Quote(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "West Bengal Local", q.Zone)
}

func TestListZones(t *testing.T) {
	zones, err := seededShipping(t, nil).ListZones(context.Background())
	require.NoError(t, err)
	assert.Len(t, zones, 3)
}

const testSecret = "rzp_test_secret"

func TestVerifyPayment(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewPaymentService(&payment.StubGateway{}, testSecret, pub)
	orderID := models.NewID()

	err := svc.VerifyPayment(context.Background(), VerifyPaymentRequest{
		RazorpayOrderID:   "order_1",
		RazorpayPaymentID: "pay_1",
		RazorpaySignature: payment.Sign(testSecret, "order_1", "pay_1"),
		OrderID:           orderID,
		Email:             "payer@example.com",
	})

	require.NoError(t, err)
	require.Len(t, pub.verified, 1)
	assert.Equal(t, orderID, pub.verified[0].OrderID)
	assert.Equal(t, "pay_1", pub.verified[0].GatewayPaymentID)
}

func TestVerifyPaymentWithoutOrderPublishesNothing(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewPaymentService(&payment.StubGateway{}, testSecret, pub)

	err := svc.VerifyPayment(context.Background(), VerifyPaymentRequest{
		RazorpayOrderID:   "order_1",
		RazorpayPaymentID: "pay_1",
		RazorpaySignature: payment.Sign(testSecret, "order_1", "pay_1"),
	})

	require.NoError(t, err)
	assert.Empty(t, pub.verified)
}

func TestVerifyPaymentMismatch(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewPaymentService(&payment.StubGateway{}, testSecret, pub)

	err := svc.VerifyPayment(context.Background(), VerifyPaymentRequest{
		RazorpayOrderID:   "order_1",
		RazorpayPaymentID: "pay_1",
		RazorpaySignature: payment.Sign("wrong", "order_1", "pay_1"),
		OrderID:           models.NewID(),
	})

	assert.True(t, apperr.Is(err, apperr.KindSignatureMismatch))
	assert.Empty(t, pub.verified)
}

func TestVerifyPaymentWithoutSecretIsInternal(t *testing.T) {
	svc := NewPaymentService(&payment.StubGateway{}, "", nil)

	err := svc.VerifyPayment(context.Background(), VerifyPaymentRequest{RazorpaySignature: "x"})

	assert.True(t, apperr.Is(err, apperr.KindInternal))
}

func TestCreatePaymentOrder(t *testing.T) {
	svc := NewPaymentService(&payment.StubGateway{}, testSecret, nil)

	order, err := svc.CreatePaymentOrder(context.Background(), CreatePaymentOrderRequest{Amount: dec("91.98")})
	require.NoError(t, err)
	assert.Equal(t, int64(9198), order.Amount)
	assert.Equal(t, "INR", order.Currency)
	assert.True(t, strings.HasPrefix(order.Receipt, "receipt_"))

	_, err = svc.CreatePaymentOrder(context.Background(), CreatePaymentOrderRequest{})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

type failingGateway struct{}

func (failingGateway) CreateOrder(ctx context.Context, req payment.OrderRequest) (*payment.GatewayOrder, error) {
	return nil, errors.New("gateway unavailable")
}

func TestCreatePaymentOrderGatewayFailure(t *testing.T) {
	svc := NewPaymentService(failingGateway{}, testSecret, nil)

	_, err := svc.CreatePaymentOrder(context.Background(), CreatePaymentOrderRequest{Amount: dec("10")})

	assert.True(t, apperr.Is(err, apperr.KindInternal))
}

func TestRegisterUser(t *testing.T) {
	svc := NewUserService(store.NewMemoryStore())
	svc.bcryptCost = bcrypt.MinCost

	user, err := svc.Register(context.Background(), models.RegisterUserRequest{
		Name: "Asha Roy", Email: "  Asha@Example.COM ", Password: "Str0ng!Pass",
	})

	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", user.Email)
	assert.NotEqual(t, "Str0ng!Pass", user.PasswordHash)
	assert.True(t, CheckPassword(user, "Str0ng!Pass"))

	_, err = svc.Register(context.Background(), models.RegisterUserRequest{
		Name: "Other", Email: "asha@example.com", Password: "Str0ng!Pass",
	})
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Equal(t, "User already exists", apperr.From(err).Message)
}

func TestRegisterUserWeakPassword(t *testing.T) {
	svc := NewUserService(store.NewMemoryStore())

	_, err := svc.Register(context.Background(), models.RegisterUserRequest{
		Name: "Asha", Email: "asha@example.com", Password: "password",
	})

	require.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Equal(t, "password", apperr.From(err).Violations[0].Path)
}

func TestReconcilerMarksOrderPaidOnce(t *testing.T) {
	repo := store.NewMemoryStore()
	pub := &recordingPublisher{}
	orders := NewOrderService(repo, pub)
	reconciler := NewPaymentReconciler(repo, orders)
	ctx := context.Background()

	created, err := orders.CreateOrder(ctx, validOrderRequest())
	require.NoError(t, err)

	event := &models.PaymentVerifiedEvent{
		BaseEvent:        models.NewBaseEvent(models.EventTypePaymentVerified),
		OrderID:          created.ID,
		GatewayOrderID:   "order_1",
		GatewayPaymentID: "pay_1",
		EmailAddress:     "payer@example.com",
	}
	require.NoError(t, reconciler.HandlePaymentVerified(ctx, event))
	require.NoError(t, reconciler.HandlePaymentVerified(ctx, event))

	got, err := repo.GetOrderByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPaid)
	assert.Equal(t, "pay_1", got.PaymentResult.ID)
	assert.Equal(t, PaymentStatusCaptured, got.PaymentResult.Status)
	assert.Equal(t, "payer@example.com", got.PaymentResult.EmailAddress)
	assert.Len(t, pub.paid, 1)
}

func TestReconcilerDropsUnknownOrder(t *testing.T) {
	repo := store.NewMemoryStore()
	reconciler := NewPaymentReconciler(repo, NewOrderService(repo, nil))
	ctx := context.Background()
	event := &models.PaymentVerifiedEvent{
		BaseEvent: models.NewBaseEvent(models.EventTypePaymentVerified),
		OrderID:   models.NewID(),
	}

	require.NoError(t, reconciler.HandlePaymentVerified(ctx, event))

	done, err := repo.IsEventProcessed(ctx, event.EventID)
	require.NoError(t, err)
	assert.True(t, done)
}

func TestDirectPublisherReconcilesInProcess(t *testing.T) {
	repo := store.NewMemoryStore()
	direct := NewDirectPublisher()
	orders := NewOrderService(repo, direct)
	direct.OnPaymentVerified(NewPaymentReconciler(repo, orders).HandlePaymentVerified)
	payments := NewPaymentService(&payment.StubGateway{}, testSecret, direct)
	ctx := context.Background()

	created, err := orders.CreateOrder(ctx, validOrderRequest())
	require.NoError(t, err)

	require.NoError(t, payments.VerifyPayment(ctx, VerifyPaymentRequest{
		RazorpayOrderID:   "order_9",
		RazorpayPaymentID: "pay_9",
		RazorpaySignature: payment.Sign(testSecret, "order_9", "pay_9"),
		OrderID:           created.ID,
	}))

	got, err := orders.GetOrder(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPaid)
}
