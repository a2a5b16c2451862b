package utils

import (
	"sync"
	"time"
)

// Throttle enforces a minimum interval between consecutive operations. It is
// the politeness delay between fetches: unconditional, not error-triggered.
type Throttle struct {
	mu          sync.Mutex
	minInterval time.Duration
	lastRequest time.Time
}

// NewThrottle creates a Throttle with the given minimum interval in
// milliseconds. A non-positive interval disables waiting.
func NewThrottle(intervalMs int) *Throttle {
	return &Throttle{minInterval: time.Duration(intervalMs) * time.Millisecond}
}

// Wait blocks until at least the minimum interval has passed since the
// previous call. The first call never blocks.
func (t *Throttle) Wait() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.lastRequest.IsZero() {
		elapsed := time.Since(t.lastRequest)
		if elapsed < t.minInterval {
			time.Sleep(t.minInterval - elapsed)
		}
	}
	t.lastRequest = time.Now()
}

// URLSet is a thread-safe set for tracking visited URLs.
type URLSet struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

// NewURLSet creates an empty URLSet.
func NewURLSet() *URLSet {
	return &URLSet{seen: make(map[string]struct{})}
}

// Add returns true if the URL was newly added, false if already present.
func (s *URLSet) Add(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.seen[url]; exists {
		return false
	}
	s.seen[url] = struct{}{}
	return true
}

// Contains returns true if the URL has already been visited.
func (s *URLSet) Contains(url string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.seen[url]
	return exists
}

// Size returns the number of unique URLs tracked.
func (s *URLSet) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen)
}
