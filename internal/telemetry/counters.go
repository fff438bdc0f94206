package telemetry

import (
	"sort"
	"sync"
)

// Counters is an in-process Metrics implementation. Add accumulates, Store
// overwrites; Snapshot copies the current values.
type Counters struct {
	mu     sync.Mutex
	values map[string]uint64
}

func NewCounters() *Counters {
	return &Counters{values: make(map[string]uint64)}
}

func (c *Counters) Add(key string, delta uint64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	if c.values == nil {
		c.values = make(map[string]uint64)
	}
	c.values[key] += delta
	c.mu.Unlock()
}

func (c *Counters) Store(key string, value uint64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	if c.values == nil {
		c.values = make(map[string]uint64)
	}
	c.values[key] = value
	c.mu.Unlock()
}

func (c *Counters) Snapshot() map[string]uint64 {
	if c == nil {
		return map[string]uint64{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	snapshot := make(map[string]uint64, len(c.values))
	for k, v := range c.values {
		snapshot[k] = v
	}
	return snapshot
}

// Keys lists the recorded metric names in sorted order.
func (c *Counters) Keys() []string {
	snapshot := c.Snapshot()
	keys := make([]string, 0, len(snapshot))
	for k := range snapshot {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var _ Metrics = (*Counters)(nil)
