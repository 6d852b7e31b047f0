package cache

import (
	"sync"

	"github.com/viant/digestius/document"
)

// Entries holds read documents keyed by corpus relative path, so that a
// corpus is read once and reused by every tier.
type Entries struct {
	data map[string]*document.Entry
	sync.RWMutex
}

// NewEntries creates an empty cache
func NewEntries() *Entries {
	return &Entries{data: make(map[string]*document.Entry)}
}

// Get returns a cached entry
func (c *Entries) Get(id string) (*document.Entry, bool) {
	c.RLock()
	defer c.RUnlock()
	v, ok := c.data[id]
	return v, ok
}

// Put stores an entry under its ID
func (c *Entries) Put(entry *document.Entry) {
	c.Lock()
	defer c.Unlock()
	c.data[entry.ID] = entry
}

// Changed reports whether hash differs from the cached entry hash (or the entry is new)
func (c *Entries) Changed(id string, hash uint64) bool {
	c.RLock()
	defer c.RUnlock()
	prev, ok := c.data[id]
	return !ok || prev.Hash != hash || prev.Failed()
}

// Retain drops entries whose IDs are not in ids and returns how many were dropped
func (c *Entries) Retain(ids map[string]bool) int {
	c.Lock()
	defer c.Unlock()
	dropped := 0
	for id := range c.data {
		if !ids[id] {
			delete(c.data, id)
			dropped++
		}
	}
	return dropped
}

// Len returns the number of entries
func (c *Entries) Len() int {
	c.RLock()
	defer c.RUnlock()
	return len(c.data)
}
