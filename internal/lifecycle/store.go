package lifecycle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"petcare-store/internal/util"

	"go.uber.org/zap"
)

// Store holds the tracked order list. The whole list is read and written
// at once; concurrent writers overwrite each other.
type Store interface {
	Load(ctx context.Context) ([]Order, error)
	Save(ctx context.Context, orders []Order) error
}

// MemoryStore keeps the list in process
type MemoryStore struct {
	mu     sync.Mutex
	orders []Order
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(ctx context.Context) ([]Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneAll(m.orders), nil
}

func (m *MemoryStore) Save(ctx context.Context, orders []Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = cloneAll(orders)
	return nil
}

// FileStore keeps the list as a JSON array in a file
type FileStore struct {
	path   string
	logger *zap.Logger
}

// NewFileStore stores orders at path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, logger: util.GetLogger()}
}

// DefaultPath is ~/.petcare/orders.json
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".petcare", "orders.json"), nil
}

// Load reads the list. A missing file is an empty list; an unreadable one
// is deleted and treated as empty.
func (f *FileStore) Load(ctx context.Context) ([]Order, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []Order{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.path, err)
	}

	var orders []Order
	if err := json.Unmarshal(raw, &orders); err != nil {
		f.logger.Warn("Discarding corrupt order file", zap.String("path", f.path), zap.Error(err))
		if rmErr := os.Remove(f.path); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to remove corrupt %s: %w", f.path, rmErr)
		}
		return []Order{}, nil
	}
	if orders == nil {
		orders = []Order{}
	}
	return orders, nil
}

// Save replaces the file contents with orders
func (f *FileStore) Save(ctx context.Context, orders []Order) error {
	if orders == nil {
		orders = []Order{}
	}
	raw, err := json.MarshalIndent(orders, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode orders: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(f.path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".orders-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write orders: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}

func cloneAll(orders []Order) []Order {
	out := make([]Order, len(orders))
	for i, o := range orders {
		out[i] = o.clone()
	}
	return out
}
