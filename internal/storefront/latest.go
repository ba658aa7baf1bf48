package storefront

import "sync"

// Ticket identifies one request issued under a Latest key
type Ticket struct {
	key string
	seq uint64
}

// Latest discards results that arrive after a newer request for the same key
// was started, so a slow answer never overwrites a faster, newer one.
type Latest struct {
	mu  sync.Mutex
	seq map[string]uint64
}

func NewLatest() *Latest {
	return &Latest{seq: make(map[string]uint64)}
}

// Begin issues a ticket newer than every previous ticket for key
func (l *Latest) Begin(key string) Ticket {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq[key]++
	return Ticket{key: key, seq: l.seq[key]}
}

// IsLatest reports whether no newer ticket was issued for t's key
func (l *Latest) IsLatest(t Ticket) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.seq[t.key] == t.seq
}

// Commit runs apply only when t is still the latest ticket for its key.
// apply runs under the guard's lock and must not call back into l.
func (l *Latest) Commit(t Ticket, apply func()) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.seq[t.key] != t.seq {
		return false
	}
	apply()
	return true
}
