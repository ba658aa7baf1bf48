package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/avignatattva/storefront/internal/domain"
)

// ErrCartNotFound is returned by Storage.Load for unknown carts
var ErrCartNotFound = errors.New("cart not found")

// Storage keeps cart snapshots outside the process. The store writes the
// full item list after every change; it never reads back totals it did not compute.
type Storage interface {
	Load(ctx context.Context, cartID string) ([]domain.CartItem, error)
	Save(ctx context.Context, cartID string, items []domain.CartItem) error
	Delete(ctx context.Context, cartID string) error
	// Purge removes carts not saved since before, except the ids in keep,
	// and returns how many went
	Purge(ctx context.Context, before time.Time, keep []string) (int, error)
	Close() error
}

type memoryEntry struct {
	items     []domain.CartItem
	updatedAt time.Time
}

// MemoryStorage process-local storage, the default
type MemoryStorage struct {
	mu    sync.RWMutex
	carts map[string]memoryEntry
	now   func() time.Time
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{carts: make(map[string]memoryEntry), now: time.Now}
}

func (m *MemoryStorage) Load(_ context.Context, cartID string) ([]domain.CartItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.carts[cartID]
	if !ok {
		return nil, ErrCartNotFound
	}
	return cloneItems(e.items), nil
}

func (m *MemoryStorage) Save(_ context.Context, cartID string, items []domain.CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[cartID] = memoryEntry{items: cloneItems(items), updatedAt: m.now()}
	return nil
}

func (m *MemoryStorage) Delete(_ context.Context, cartID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, cartID)
	return nil
}

func (m *MemoryStorage) Purge(_ context.Context, before time.Time, keep []string) (int, error) {
	skip := keepSet(keep)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.carts {
		if _, ok := skip[id]; !ok && e.updatedAt.Before(before) {
			delete(m.carts, id)
			n++
		}
	}
	return n, nil
}

func (m *MemoryStorage) Close() error {
	return nil
}

func keepSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
