package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
)

// Registry maps visitor sessions to their cart stores. Carts not touched for
// longer than the idle window are treated as ended sessions and evicted.
type Registry struct {
	storage Storage
	node    *snowflake.Node
	now     func() time.Time

	mu    sync.Mutex
	carts map[string]*Store
	seen  map[string]time.Time
}

// NewRegistry nodeID must be in the snowflake node range (0-1023)
func NewRegistry(storage Storage, nodeID int64) (*Registry, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}
	if storage == nil {
		storage = NewMemoryStorage()
	}
	return &Registry{
		storage: storage,
		node:    node,
		now:     time.Now,
		carts:   make(map[string]*Store),
		seen:    make(map[string]time.Time),
	}, nil
}

// Storage returns the backing storage
func (r *Registry) Storage() Storage {
	return r.storage
}

// Create starts a new empty cart with a fresh id
func (r *Registry) Create(_ context.Context) *Store {
	s := NewStore(r.node.Generate().String(), r.storage)
	r.mu.Lock()
	r.carts[s.ID()] = s
	r.seen[s.ID()] = r.now()
	r.mu.Unlock()
	return s
}

// Get returns the cart with the given id, restoring it from storage if it is
// not in memory. The bool is false for unknown ids.
func (r *Registry) Get(ctx context.Context, id string) (*Store, bool) {
	if id == "" {
		return nil, false
	}
	if s, ok := r.cached(id); ok {
		return s, true
	}
	items, err := r.storage.Load(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrCartNotFound) {
			zap.L().Warn("cart restore failed", zap.String("cart_id", id), zap.Error(err))
		}
		return nil, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// a concurrent Get may have restored it while storage was read
	if s, ok := r.carts[id]; ok {
		r.seen[id] = r.now()
		return s, true
	}
	s := restoreStore(id, r.storage, items)
	r.carts[id] = s
	r.seen[id] = r.now()
	return s, true
}

func (r *Registry) cached(id string) (*Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.carts[id]
	if ok {
		r.seen[id] = r.now()
	}
	return s, ok
}

// GetOrCreate returns the cart for id, or a new cart when id is empty or unknown
func (r *Registry) GetOrCreate(ctx context.Context, id string) *Store {
	if s, ok := r.Get(ctx, id); ok {
		return s
	}
	return r.Create(ctx)
}

// Drop ends a cart session explicitly
func (r *Registry) Drop(ctx context.Context, id string) {
	r.mu.Lock()
	delete(r.carts, id)
	delete(r.seen, id)
	r.mu.Unlock()
	if err := r.storage.Delete(ctx, id); err != nil {
		zap.L().Error("cart delete failed", zap.String("cart_id", id), zap.Error(err))
	}
}

// Len number of carts held in memory
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.carts)
}

// EvictIdle ends every cart idle for longer than ttl, both in memory and in
// storage, and returns the number of in-memory carts evicted. Carts still live
// in memory are never purged from storage, however old their last save.
func (r *Registry) EvictIdle(ctx context.Context, ttl time.Duration) int {
	cutoff := r.now().Add(-ttl)

	r.mu.Lock()
	var stale []string
	for id, at := range r.seen {
		if at.Before(cutoff) {
			stale = append(stale, id)
		}
	}
	for _, id := range stale {
		delete(r.carts, id)
		delete(r.seen, id)
	}
	live := make([]string, 0, len(r.carts))
	for id := range r.carts {
		live = append(live, id)
	}
	r.mu.Unlock()

	for _, id := range stale {
		if err := r.storage.Delete(ctx, id); err != nil {
			zap.L().Error("cart delete failed", zap.String("cart_id", id), zap.Error(err))
		}
	}
	purged, err := r.storage.Purge(ctx, cutoff, live)
	if err != nil {
		zap.L().Error("cart purge failed", zap.Error(err))
	}
	if len(stale) > 0 || purged > 0 {
		zap.L().Info("idle carts evicted", zap.Int("memory", len(stale)), zap.Int("storage", purged))
	}
	return len(stale)
}
