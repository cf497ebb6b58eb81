package settlement

import "sync"

// PairLock serializes settlements per user pair. Two concurrent runs over the
// same pair would otherwise plan against the same snapshot and double-consume
// records; the store's guarded updates would catch that, but serializing here
// turns a client-visible conflict into a short wait.
//
// The key is order-normalized, so A settling with B and B settling with A
// contend on the same lock.
type PairLock struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewPairLock creates an empty lock table.
func NewPairLock() *PairLock {
	return &PairLock{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for the (a, b) pair and returns its unlock func.
// Locks are never evicted; the table is bounded by the number of user pairs
// that ever settled.
func (p *PairLock) Lock(a, b string) func() {
	if b < a {
		a, b = b, a
	}
	key := a + "\x00" + b

	p.mu.Lock()
	m, ok := p.locks[key]
	if !ok {
		m = &sync.Mutex{}
		p.locks[key] = m
	}
	p.mu.Unlock()

	m.Lock()
	return m.Unlock
}
