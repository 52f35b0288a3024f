package cart

import "sync"

// identityLocks serializes cart mutations per identity key so two
// concurrent operations on the same cart cannot interleave their
// read-modify-write cycles. Entries are kept for the process lifetime;
// cardinality is bounded by distinct identities seen.
type identityLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newIdentityLocks() *identityLocks {
	return &identityLocks{locks: make(map[string]*sync.Mutex)}
}

// acquire locks the mutex for key and returns its unlock func.
func (l *identityLocks) acquire(key string) func() {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
