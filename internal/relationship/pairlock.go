// internal/relationship/pairlock.go
package relationship

import (
	"bytes"
	"sync"

	"github.com/google/uuid"
)

// pairKey identifies an unordered user pair. lo/hi are the two ids in
// byte order, so (a,b) and (b,a) map to the same key.
type pairKey struct {
	lo, hi uuid.UUID
}

func keyFor(a, b uuid.UUID) pairKey {
	if bytes.Compare(a[:], b[:]) > 0 {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

// pairLocks hands out one mutex per unordered user pair. It serializes
// concurrent responses on the same pair so both callers see a consistent
// pair of edges before committing.
type pairLocks struct {
	mu    sync.Mutex
	locks map[pairKey]*sync.Mutex
}

func newPairLocks() *pairLocks {
	return &pairLocks{
		locks: make(map[pairKey]*sync.Mutex),
	}
}

// Lock acquires the mutex for the pair {a, b} and returns its unlock func.
func (p *pairLocks) Lock(a, b uuid.UUID) func() {
	key := keyFor(a, b)

	p.mu.Lock()
	l, ok := p.locks[key]
	if !ok {
		l = &sync.Mutex{}
		p.locks[key] = l
	}
	p.mu.Unlock()

	l.Lock()
	return l.Unlock
}
