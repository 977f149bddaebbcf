// Package poll runs data fetches off the render goroutine.
//
// A Source starts at most one fetch at a time and publishes the result
// through an atomic pointer, so the render loop reads the latest snapshot
// without ever blocking on I/O.
package poll

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"codeberg.org/mutker/cutiepi/internal/logger"
)

// Fetcher produces a new snapshot. prev is the last published value, or nil.
type Fetcher[T any] func(ctx context.Context, prev *T) (*T, error)

// FailureFunc derives the value to publish after a failed fetch.
// Returning nil keeps the previous value untouched.
type FailureFunc[T any] func(prev *T, err error) *T

type Source[T any] struct {
	name      string
	fetch     Fetcher[T]
	onFailure FailureFunc[T]
	timeout   time.Duration

	latest   atomic.Pointer[T]
	lastErr  atomic.Pointer[error]
	inFlight atomic.Bool
	started  time.Time
	wg       sync.WaitGroup
}

type Option[T any] func(*Source[T])

// WithTimeout bounds every fetch.
func WithTimeout[T any](d time.Duration) Option[T] {
	return func(s *Source[T]) {
		s.timeout = d
	}
}

// WithFailure sets the value published when a fetch fails.
func WithFailure[T any](fn FailureFunc[T]) Option[T] {
	return func(s *Source[T]) {
		s.onFailure = fn
	}
}

func New[T any](name string, fetch Fetcher[T], opts ...Option[T]) *Source[T] {
	s := &Source[T]{name: name, fetch: fetch}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Source[T]) Name() string {
	return s.name
}

// Latest returns the most recent snapshot, or nil before the first success.
func (s *Source[T]) Latest() *T {
	return s.latest.Load()
}

// Err returns the error of the last completed fetch, nil after a success.
func (s *Source[T]) Err() error {
	if e := s.lastErr.Load(); e != nil {
		return *e
	}

	return nil
}

// Busy reports whether a fetch is running.
func (s *Source[T]) Busy() bool {
	return s.inFlight.Load()
}

// Due reports whether interval has passed since the last fetch started.
// Only the goroutine that calls Refresh may call Due.
func (s *Source[T]) Due(now time.Time, interval time.Duration) bool {
	if s.inFlight.Load() {
		return false
	}

	return s.started.IsZero() || now.Sub(s.started) >= interval
}

// Refresh starts a fetch unless one is already running.
func (s *Source[T]) Refresh(ctx context.Context, now time.Time) bool {
	if !s.inFlight.CompareAndSwap(false, true) {
		return false
	}
	s.started = now
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()
		defer s.inFlight.Store(false)
		s.run(ctx)
	}()

	return true
}

// MaybeRefresh starts a fetch when one is due.
func (s *Source[T]) MaybeRefresh(ctx context.Context, now time.Time, interval time.Duration) bool {
	if !s.Due(now, interval) {
		return false
	}

	return s.Refresh(ctx, now)
}

// Wait blocks until the running fetch, if any, has finished.
func (s *Source[T]) Wait() {
	s.wg.Wait()
}

func (s *Source[T]) run(ctx context.Context) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	begin := time.Now()
	prev := s.latest.Load()
	next, err := s.fetch(ctx, prev)
	if err != nil {
		s.lastErr.Store(&err)
		logger.Debug().Err(err).Str("source", s.name).Msg("fetch failed")
		if s.onFailure != nil {
			if v := s.onFailure(prev, err); v != nil {
				s.latest.Store(v)
			}
		}
		return
	}

	s.lastErr.Store(nil)
	if next != nil {
		s.latest.Store(next)
	}
	logger.Debug().Str("source", s.name).Dur("took", time.Since(begin)).Msg("fetched")
}
