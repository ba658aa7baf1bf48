package cart

import (
	"context"
	"sync"

	"github.com/asaskevich/EventBus"
	"github.com/avignatattva/storefront/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const topicChanged = "cart:changed"

// Snapshot is what subscribers receive after every change
type Snapshot struct {
	CartID        string            `json:"cartId"`
	Items         []domain.CartItem `json:"items"`
	TotalQuantity int               `json:"totalQuantity"`
	TotalPrice    decimal.Decimal   `json:"totalPrice"`
}

// Store owns the state of one visitor cart. All mutation goes through
// AddToCart, UpdateQuantity, RemoveFromCart and ClearCart; each one swaps in a
// freshly built item slice, so readers never see a partially applied change.
type Store struct {
	id      string
	storage Storage

	mu    sync.Mutex
	items []domain.CartItem

	// serialises whole mutations, persistence and notification included
	commitMu sync.Mutex
	bus      EventBus.Bus
}

// NewStore creates an empty cart. storage may be nil.
func NewStore(id string, storage Storage) *Store {
	return &Store{
		id:      id,
		storage: storage,
		items:   []domain.CartItem{},
		bus:     EventBus.New(),
	}
}

// restoreStore rebuilds a cart from persisted items without writing them back
func restoreStore(id string, storage Storage, items []domain.CartItem) *Store {
	s := NewStore(id, storage)
	s.items = normalize(items)
	return s
}

// ID returns the cart id
func (s *Store) ID() string {
	return s.id
}

// AddToCart adds quantity units of entity in the given variation. An existing
// line for the same item type, entity and variation is incremented instead of
// duplicated. A non-positive quantity is ignored.
func (s *Store) AddToCart(entity domain.Purchasable, variation domain.Variation, itemType domain.ItemType, quantity int) {
	if entity == nil || quantity <= 0 {
		return
	}
	key := CartItemID(itemType, entity.EntityID(), variation.Name)

	s.mutate(func(items []domain.CartItem) ([]domain.CartItem, bool) {
		next := make([]domain.CartItem, 0, len(items)+1)
		found := false
		for _, it := range items {
			if it.CartItemID == key {
				it = withQuantity(it, it.Quantity+quantity)
				found = true
			}
			next = append(next, it)
		}
		if !found {
			next = append(next, withQuantity(domain.CartItem{
				ID:                entity.EntityID(),
				CartItemID:        key,
				Name:              entity.DisplayName(),
				ImageURL:          entity.Image(),
				SelectedVariation: variation,
				ItemType:          itemType,
			}, quantity))
		}
		return next, true
	})
}

// UpdateQuantity sets the quantity of a line. Zero or less removes it.
// Unknown ids are ignored.
func (s *Store) UpdateQuantity(cartItemID string, quantity int) {
	if quantity <= 0 {
		s.RemoveFromCart(cartItemID)
		return
	}
	s.mutate(func(items []domain.CartItem) ([]domain.CartItem, bool) {
		if indexOf(items, cartItemID) < 0 {
			return items, false
		}
		next := make([]domain.CartItem, len(items))
		for i, it := range items {
			if it.CartItemID == cartItemID {
				it = withQuantity(it, quantity)
			}
			next[i] = it
		}
		return next, true
	})
}

// RemoveFromCart drops a line. Unknown ids are ignored.
func (s *Store) RemoveFromCart(cartItemID string) {
	s.mutate(func(items []domain.CartItem) ([]domain.CartItem, bool) {
		if indexOf(items, cartItemID) < 0 {
			return items, false
		}
		next := make([]domain.CartItem, 0, len(items)-1)
		for _, it := range items {
			if it.CartItemID != cartItemID {
				next = append(next, it)
			}
		}
		return next, true
	})
}

// ClearCart empties the cart
func (s *Store) ClearCart() {
	s.mutate(func(items []domain.CartItem) ([]domain.CartItem, bool) {
		return []domain.CartItem{}, true
	})
}

// Items returns a copy of the lines in insertion order
func (s *Store) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.items)
}

// Item returns a single line by id
func (s *Store) Item(cartItemID string) (domain.CartItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := indexOf(s.items, cartItemID); i >= 0 {
		return s.items[i], true
	}
	return domain.CartItem{}, false
}

// TotalQuantity sums the quantities of all lines
func (s *Store) TotalQuantity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalQuantity(s.items)
}

// TotalPrice sums the line totals
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalPrice(s.items)
}

// Snapshot returns items and totals read under one lock
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers fn to be called with a snapshot after every change.
// fn runs synchronously on the mutating goroutine. It may read the cart but
// must not mutate it.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	if err := s.bus.Subscribe(topicChanged, fn); err != nil {
		zap.L().Error("cart subscribe failed", zap.String("cart_id", s.id), zap.Error(err))
		return func() {}
	}
	return func() {
		_ = s.bus.Unsubscribe(topicChanged, fn)
	}
}

// mutate applies fn to the current items. fn must not modify the slice it is
// given; it returns the replacement and whether anything changed.
// commitMu is always taken before mu and held until the change is saved and
// published; mu only guards the swap, so readers never wait on storage.
func (s *Store) mutate(fn func(items []domain.CartItem) ([]domain.CartItem, bool)) {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	s.mu.Lock()
	next, changed := fn(s.items)
	if !changed {
		s.mu.Unlock()
		return
	}
	s.items = next
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if s.storage != nil {
		if err := s.storage.Save(context.Background(), s.id, snap.Items); err != nil {
			zap.L().Error("cart save failed", zap.String("cart_id", s.id), zap.Error(err))
		}
	}
	s.bus.Publish(topicChanged, snap)
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		CartID:        s.id,
		Items:         cloneItems(s.items),
		TotalQuantity: totalQuantity(s.items),
		TotalPrice:    totalPrice(s.items),
	}
}

func totalQuantity(items []domain.CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

func totalPrice(items []domain.CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.TotalPrice)
	}
	return sum
}

func indexOf(items []domain.CartItem, cartItemID string) int {
	for i := range items {
		if items[i].CartItemID == cartItemID {
			return i
		}
	}
	return -1
}

func cloneItems(items []domain.CartItem) []domain.CartItem {
	out := make([]domain.CartItem, len(items))
	copy(out, items)
	return out
}
