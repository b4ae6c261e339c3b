package lock

import (
	"context"
	"sync"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
)

// MemoryLocker is a keyed mutex for single-process deployments
type MemoryLocker struct {
	mu    sync.Mutex
	slots map[string]*slot
	wait  time.Duration
}

type slot struct {
	ch   chan struct{}
	refs int
}

// NewMemoryLocker creates a MemoryLocker that waits at most wait for a busy key
func NewMemoryLocker(wait time.Duration) *MemoryLocker {
	if wait <= 0 {
		wait = 5 * time.Second
	}
	return &MemoryLocker{
		slots: make(map[string]*slot),
		wait:  wait,
	}
}

// Obtain blocks until key is free, the wait time elapses or ctx ends
func (l *MemoryLocker) Obtain(ctx context.Context, key string) (Lock, error) {
	s := l.acquireSlot(key)

	timer := time.NewTimer(l.wait)
	defer timer.Stop()

	select {
	case s.ch <- struct{}{}:
		return &memoryLock{locker: l, key: key, slot: s}, nil
	case <-timer.C:
		l.releaseSlot(key, s)
		return nil, shared.ErrConcurrencyConflict
	case <-ctx.Done():
		l.releaseSlot(key, s)
		return nil, ctx.Err()
	}
}

func (l *MemoryLocker) acquireSlot(key string) *slot {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	return s
}

func (l *MemoryLocker) releaseSlot(key string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}

// size reports how many keys are tracked
func (l *MemoryLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}

type memoryLock struct {
	locker *MemoryLocker
	key    string
	slot   *slot
	once   sync.Once
}

// Release frees the key; calling it again is a no-op
func (m *memoryLock) Release(context.Context) error {
	m.once.Do(func() {
		<-m.slot.ch
		m.locker.releaseSlot(m.key, m.slot)
	})
	return nil
}

var _ Locker = (*MemoryLocker)(nil)
