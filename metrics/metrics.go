// Package metrics implements a small in-process metrics collector for the
// proving pipeline: named counters and duration observations. All methods
// are safe for concurrent use.
package metrics

import (
	"sync"
	"time"
)

// DurationStats summarizes the observations recorded under one name.
type DurationStats struct {
	Count uint64
	Total time.Duration
	Max   time.Duration
}

// Collector aggregates counters and duration observations.
type Collector struct {
	mu        sync.RWMutex
	counters  map[string]uint64
	durations map[string]DurationStats
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{
		counters:  make(map[string]uint64),
		durations: make(map[string]DurationStats),
	}
}

// Inc increments the named counter by one. A nil collector is a no-op, so
// instrumented code does not need to branch on whether metrics are wired.
func (c *Collector) Inc(name string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.counters[name]++
	c.mu.Unlock()
}

// Observe records a duration under the given name.
func (c *Collector) Observe(name string, d time.Duration) {
	if c == nil {
		return
	}
	c.mu.Lock()
	s := c.durations[name]
	s.Count++
	s.Total += d
	if d > s.Max {
		s.Max = d
	}
	c.durations[name] = s
	c.mu.Unlock()
}

// Count returns the current value of the named counter.
func (c *Collector) Count(name string) uint64 {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.counters[name]
}

// Duration returns the stats recorded under the given name.
func (c *Collector) Duration(name string) DurationStats {
	if c == nil {
		return DurationStats{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.durations[name]
}

// Snapshot returns a copy of all counters.
func (c *Collector) Snapshot() map[string]uint64 {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]uint64, len(c.counters))
	for k, v := range c.counters {
		out[k] = v
	}
	return out
}
