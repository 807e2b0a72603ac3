package telemetry

import (
	"sync"
	"sync/atomic"
)

// CounterSet is a concurrency-safe Metrics implementation backed by named
// atomic counters.
type CounterSet struct {
	mu       sync.RWMutex
	counters map[string]*atomic.Uint64
}

// NewCounterSet constructs an empty counter set.
func NewCounterSet() *CounterSet {
	return &CounterSet{counters: make(map[string]*atomic.Uint64)}
}

func (c *CounterSet) counter(key string) *atomic.Uint64 {
	c.mu.RLock()
	counter, ok := c.counters[key]
	c.mu.RUnlock()
	if ok {
		return counter
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if counter, ok = c.counters[key]; ok {
		return counter
	}
	counter = &atomic.Uint64{}
	c.counters[key] = counter
	return counter
}

// Add increments the named counter.
func (c *CounterSet) Add(key string, delta uint64) {
	if c == nil {
		return
	}
	c.counter(key).Add(delta)
}

// Store overwrites the named counter with a gauge-style value.
func (c *CounterSet) Store(key string, value uint64) {
	if c == nil {
		return
	}
	c.counter(key).Store(value)
}

// Load reads the named counter, zero when absent.
func (c *CounterSet) Load(key string) uint64 {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	counter, ok := c.counters[key]
	c.mu.RUnlock()
	if !ok {
		return 0
	}
	return counter.Load()
}

// Snapshot copies every counter for diagnostics exposure.
func (c *CounterSet) Snapshot() map[string]uint64 {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	snapshot := make(map[string]uint64, len(c.counters))
	for key, counter := range c.counters {
		snapshot[key] = counter.Load()
	}
	return snapshot
}

var _ Metrics = (*CounterSet)(nil)
