package inference

import "sync"

// valueCache maps a raw cell string to the label index it was last
// classified as. It is shared by every column of a run.
type valueCache struct {
	mu sync.RWMutex
	m  map[string]int
}

func newValueCache() *valueCache {
	return &valueCache{m: make(map[string]int)}
}

func (c *valueCache) lookup(value string) (int, bool) {
	c.mu.RLock()
	label, ok := c.m[value]
	c.mu.RUnlock()
	return label, ok
}

func (c *valueCache) store(value string, label int) {
	c.mu.Lock()
	c.m[value] = label
	c.mu.Unlock()
}

func (c *valueCache) reset() {
	c.mu.Lock()
	clear(c.m)
	c.mu.Unlock()
}

func (c *valueCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}
