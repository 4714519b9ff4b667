// Package limiter bounds how many downloads transfer at the same time.
package limiter

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// ErrCapacity is returned for a capacity below one.
var ErrCapacity = errors.New("limiter capacity must be at least 1")

// Limiter is a counting gate of fixed capacity. Waiters are admitted in
// arrival order by the underlying semaphore.
type Limiter struct {
	sem      *semaphore.Weighted
	capacity int64
	inFlight int64
}

// New returns a limiter admitting at most capacity holders.
func New(capacity int) (*Limiter, error) {
	if capacity < 1 {
		return nil, ErrCapacity
	}
	return &Limiter{
		sem:      semaphore.NewWeighted(int64(capacity)),
		capacity: int64(capacity),
	}, nil
}

// Acquire blocks until a slot is free or ctx is done.
func (l *Limiter) Acquire(ctx context.Context) (*Slot, error) {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	atomic.AddInt64(&l.inFlight, 1)
	return &Slot{l: l}, nil
}

// Capacity returns the configured number of slots.
func (l *Limiter) Capacity() int { return int(l.capacity) }

// InFlight returns the number of slots currently held.
func (l *Limiter) InFlight() int { return int(atomic.LoadInt64(&l.inFlight)) }

// Slot is one admission permit. Release is safe to call more than once.
type Slot struct {
	l    *Limiter
	once sync.Once
}

// Release returns the slot to the limiter.
func (s *Slot) Release() {
	s.once.Do(func() {
		atomic.AddInt64(&s.l.inFlight, -1)
		s.l.sem.Release(1)
	})
}
