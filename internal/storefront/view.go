package storefront

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrSuperseded is returned by StoreView.Search when a newer search started
// before this one finished. The displayed state is left to the newer search.
var ErrSuperseded = errors.New("storefront: superseded by a newer search")

const storeKey = "store"

// StoreView is the store page as one visitor sees it
type StoreView struct {
	svc    *Service
	latest *Latest

	mu      sync.RWMutex
	current StorePage
}

func NewStoreView(svc *Service) *StoreView {
	return &StoreView{svc: svc, latest: NewLatest()}
}

// Search fetches the page for q and makes it the displayed state if no newer
// search was started meanwhile. On a fetch error the displayed state is kept
// and the error returned; calling Search again retries.
func (v *StoreView) Search(ctx context.Context, q string) (StorePage, error) {
	ticket := v.latest.Begin(storeKey)
	page, err := v.svc.Store(ctx, q)
	if err != nil {
		return v.Current(), err
	}
	applied := v.latest.Commit(ticket, func() {
		v.mu.Lock()
		v.current = page
		v.mu.Unlock()
	})
	if !applied {
		zap.L().Debug("stale store search dropped", zap.String("query", q))
		return page, ErrSuperseded
	}
	return page, nil
}

// Current returns the displayed state
func (v *StoreView) Current() StorePage {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.current
}

// Views keeps one StoreView per visitor
type Views struct {
	svc *Service
	now func() time.Time

	mu    sync.Mutex
	views map[string]*StoreView
	seen  map[string]time.Time
}

func NewViews(svc *Service) *Views {
	return &Views{
		svc:   svc,
		now:   time.Now,
		views: make(map[string]*StoreView),
		seen:  make(map[string]time.Time),
	}
}

// Get returns the visitor's view, creating it on first use
func (vs *Views) Get(visitor string) *StoreView {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	v, ok := vs.views[visitor]
	if !ok {
		v = NewStoreView(vs.svc)
		vs.views[visitor] = v
	}
	vs.seen[visitor] = vs.now()
	return v
}

// Len number of live views
func (vs *Views) Len() int {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	return len(vs.views)
}

// EvictIdle drops views not used for longer than ttl
func (vs *Views) EvictIdle(ttl time.Duration) int {
	cutoff := vs.now().Add(-ttl)
	vs.mu.Lock()
	defer vs.mu.Unlock()
	n := 0
	for visitor, at := range vs.seen {
		if at.Before(cutoff) {
			delete(vs.views, visitor)
			delete(vs.seen, visitor)
			n++
		}
	}
	return n
}
