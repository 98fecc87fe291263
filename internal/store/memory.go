package store

import (
	"context"
	"sync"
	"time"

	"petcare-store/internal/models"
)

// MemoryStore is a Repository held in process memory. Records are kept in
// insertion order and copied on the way in and out.
type MemoryStore struct {
	mu       sync.RWMutex
	now      func() time.Time
	products []models.Product
	orders   []models.Order
	zones    []models.ShippingZone
	users    map[string]models.User
	events   map[string]string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:    time.Now,
		users:  make(map[string]models.User),
		events: make(map[string]string),
	}
}

// SetClock replaces the timestamp source
func (m *MemoryStore) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

func (m *MemoryStore) Ping(ctx context.Context) error { return nil }

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) CreateProduct(ctx context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p.ID == "" {
		p.ID = models.NewID()
	}
	now := m.now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	m.products = append(m.products, *p)
	return nil
}

func (m *MemoryStore) ListProducts(ctx context.Context, category models.Category) ([]models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	products := []models.Product{}
	for _, p := range m.products {
		if category == "" || p.Category == category {
			products = append(products, p)
		}
	}
	return products, nil
}

func (m *MemoryStore) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.products {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) CountProducts(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.products), nil
}

func (m *MemoryStore) CreateOrder(ctx context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if order.ID == "" {
		order.ID = models.NewID()
	}
	now := m.now().UTC()
	order.CreatedAt, order.UpdatedAt = now, now
	m.orders = append(m.orders, copyOrder(*order))
	return nil
}

func (m *MemoryStore) ListOrders(ctx context.Context) ([]models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	orders := make([]models.Order, 0, len(m.orders))
	for _, o := range m.orders {
		orders = append(orders, copyOrder(o))
	}
	return orders, nil
}

func (m *MemoryStore) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, o := range m.orders {
		if o.ID == id {
			found := copyOrder(o)
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) UpdateOrder(ctx context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, o := range m.orders {
		if o.ID == order.ID {
			order.UpdatedAt = m.now().UTC()
			m.orders[i] = copyOrder(*order)
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryStore) CreateShippingZone(ctx context.Context, zone *models.ShippingZone) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if zone.ID == "" {
		zone.ID = models.NewID()
	}
	now := m.now().UTC()
	zone.CreatedAt, zone.UpdatedAt = now, now
	z := *zone
	z.Areas = append(models.AreaList(nil), zone.Areas...)
	m.zones = append(m.zones, z)
	return nil
}

func (m *MemoryStore) ListShippingZones(ctx context.Context) ([]models.ShippingZone, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	zones := make([]models.ShippingZone, len(m.zones))
	copy(zones, m.zones)
	return zones, nil
}

func (m *MemoryStore) GetShippingZoneByType(ctx context.Context, zt models.ZoneType) (*models.ShippingZone, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, z := range m.zones {
		if z.Type == zt {
			found := z
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.users[user.Email]; taken {
		return ErrDuplicate
	}
	if user.ID == "" {
		user.ID = models.NewID()
	}
	now := m.now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	m.users[user.Email] = *user
	return nil
}

func (m *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[email]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (m *MemoryStore) IsEventProcessed(ctx context.Context, eventID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.events[eventID]
	return ok, nil
}

func (m *MemoryStore) MarkEventProcessed(ctx context.Context, eventID, eventType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[eventID]; !ok {
		m.events[eventID] = eventType
	}
	return nil
}

func copyOrder(o models.Order) models.Order {
	o.OrderItems = append(models.OrderItems(nil), o.OrderItems...)
	if o.PaidAt != nil {
		t := *o.PaidAt
		o.PaidAt = &t
	}
	if o.DeliveredAt != nil {
		t := *o.DeliveredAt
		o.DeliveredAt = &t
	}
	if o.PaymentResult != nil {
		r := *o.PaymentResult
		o.PaymentResult = &r
	}
	return o
}

var (
	_ Repository = (*Store)(nil)
	_ Repository = (*MemoryStore)(nil)
)
