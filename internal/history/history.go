// Package history keeps the recent query history shown on the graph screen.
package history

import (
	"sync"
	"time"
)

// DefaultSize is one graph bar per retained bucket.
const DefaultSize = 48

// Sample is one history bucket.
type Sample struct {
	Time    time.Time
	Total   int
	Blocked int
}

// Buffer is a fixed-capacity circular buffer of samples in chronological order.
// It is safe for concurrent use.
type Buffer struct {
	mu    sync.RWMutex
	data  []Sample
	head  int
	count int
}

// New creates a buffer holding at most size samples.
func New(size int) *Buffer {
	if size <= 0 {
		size = DefaultSize
	}

	return &Buffer{data: make([]Sample, size)}
}

// Push records s and reports whether the buffer changed.
// A sample newer than the newest is appended, evicting the oldest when full.
// A sample with the newest timestamp replaces it. Older samples are dropped.
func (b *Buffer) Push(s Sample) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.count > 0 {
		last := (b.head - 1 + len(b.data)) % len(b.data)
		switch newest := b.data[last].Time; {
		case s.Time.Equal(newest):
			b.data[last] = s
			return true
		case s.Time.Before(newest):
			return false
		}
	}

	b.data[b.head] = s
	b.head = (b.head + 1) % len(b.data)
	if b.count < len(b.data) {
		b.count++
	}

	return true
}

// Merge pushes every sample in order and reports whether anything changed.
func (b *Buffer) Merge(samples []Sample) bool {
	changed := false
	for _, s := range samples {
		if b.Push(s) {
			changed = true
		}
	}

	return changed
}

// Samples returns the retained samples, oldest first.
func (b *Buffer) Samples() []Sample {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Sample, b.count)
	start := (b.head - b.count + len(b.data)) % len(b.data)
	for i := range out {
		out[i] = b.data[(start+i)%len(b.data)]
	}

	return out
}

func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.count
}

func (b *Buffer) Cap() int {
	return len(b.data)
}

// Max returns the largest total or blocked count retained, at least 1.
func (b *Buffer) Max() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	m := 1
	for i := 0; i < b.count; i++ {
		s := b.data[(b.head-1-i+2*len(b.data))%len(b.data)]
		m = max(m, s.Total, s.Blocked)
	}

	return m
}
