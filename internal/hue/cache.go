package hue

import "sync"

// Cache memoizes ForLabel. Entries are pure functions of their key, so they
// never need invalidation and are safe to share between unrelated callers.
type Cache struct {
	mu     sync.RWMutex
	colors map[string]HSL
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{colors: make(map[string]HSL)}
}

// ForLabel returns the memoized color for label.
func (c *Cache) ForLabel(label string) HSL {
	if c == nil {
		return ForLabel(label)
	}
	c.mu.RLock()
	color, ok := c.colors[label]
	c.mu.RUnlock()
	if ok {
		return color
	}

	color = ForLabel(label)
	c.mu.Lock()
	if c.colors == nil {
		c.colors = make(map[string]HSL)
	}
	c.colors[label] = color
	c.mu.Unlock()
	return color
}

// Len reports how many labels are memoized.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.colors)
}
