package lifecycle

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Tracker is the customer's order book, newest first
type Tracker struct {
	mu     sync.Mutex
	store  Store
	orders []Order
	now    func() time.Time
}

// NewTracker loads the current list from store
func NewTracker(ctx context.Context, store Store) (*Tracker, error) {
	orders, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &Tracker{store: store, orders: orders, now: time.Now}, nil
}

// Add puts order at the front of the list and saves
func (t *Tracker) Add(ctx context.Context, order *Order) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.orders = append([]Order{order.clone()}, t.orders...)
	return t.store.Save(ctx, t.orders)
}

// List returns every tracked order, newest first
func (t *Tracker) List() []Order {
	t.mu.Lock()
	defer t.mu.Unlock()
	return cloneAll(t.orders)
}

// Get finds an order by id, ignoring case
func (t *Tracker) Get(id string) (*Order, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(id)
	if i < 0 {
		return nil, ErrOrderNotFound
	}
	o := t.orders[i].clone()
	return &o, nil
}

// Advance moves the order to its next stage and saves. The bool is false
// when the order was already terminal; nothing is written then.
func (t *Tracker) Advance(ctx context.Context, id, message string) (*Order, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(id)
	if i < 0 {
		return nil, false, ErrOrderNotFound
	}

	prev := t.orders[i]
	o := prev.clone()
	if !o.Advance(message, t.now().UTC()) {
		return &o, false, nil
	}
	t.orders[i] = o
	if err := t.store.Save(ctx, t.orders); err != nil {
		t.orders[i] = prev
		return nil, false, err
	}
	out := o.clone()
	return &out, true, nil
}

// Cancel cancels a non-terminal order and saves
func (t *Tracker) Cancel(ctx context.Context, id, message string) (*Order, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(id)
	if i < 0 {
		return nil, ErrOrderNotFound
	}

	prev := t.orders[i]
	o := prev.clone()
	if err := o.Cancel(message, t.now().UTC()); err != nil {
		return nil, err
	}
	t.orders[i] = o
	if err := t.store.Save(ctx, t.orders); err != nil {
		t.orders[i] = prev
		return nil, err
	}
	out := o.clone()
	return &out, nil
}

func (t *Tracker) indexOf(id string) int {
	id = strings.TrimSpace(id)
	for i, o := range t.orders {
		if strings.EqualFold(o.ID, id) {
			return i
		}
	}
	return -1
}
