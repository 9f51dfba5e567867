package cache

import (
	"sync"

	"github.com/andalus/go-taraweeh-monitor/internal/core/model"
)

// TextCache holds ayah text for the session, keyed by (surahNumber, ayah).
//
// The cache doubles as the in-flight guard: a fetch for a key is not
// re-issued while one is already outstanding, and a settled result (including
// "unavailable") is never re-fetched. The cache is owned by its component and
// passed by reference; it is cleared on Day/Part change.
type TextCache struct {
	mu       sync.RWMutex
	entries  map[model.TextKey]model.AyahText
	inflight map[model.TextKey]bool
}

// NewTextCache creates an empty TextCache.
func NewTextCache() *TextCache {
	return &TextCache{
		entries:  make(map[model.TextKey]model.AyahText),
		inflight: make(map[model.TextKey]bool),
	}
}

// Get returns the cached text for a key, if settled.
func (c *TextCache) Get(key model.TextKey) (model.AyahText, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	text, ok := c.entries[key]
	return text, ok
}

// BeginFetch reports whether the caller should start a fetch for the key.
// It returns false when the key is already settled or a fetch is outstanding,
// and marks the key in-flight otherwise.
func (c *TextCache) BeginFetch(key model.TextKey) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; ok {
		return false
	}
	if c.inflight[key] {
		return false
	}
	c.inflight[key] = true
	return true
}

// Settle stores the fetch outcome and clears the in-flight mark. Failed
// fetches settle as unavailable so the display degrades without retry storms.
func (c *TextCache) Settle(key model.TextKey, text model.AyahText) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = text
	delete(c.inflight, key)
}

// Clear drops all entries and in-flight marks. Called on Day/Part change.
func (c *TextCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[model.TextKey]model.AyahText)
	c.inflight = make(map[model.TextKey]bool)
}

// Len returns the number of settled entries.
func (c *TextCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
