// Package session keeps one reconciled record snapshot per user so
// mutations patch the in-memory set instead of re-listing the store.
package session

import (
	"sync"

	"github.com/pocketlist/pocket-todo/internal/todo"
)

// Cache maps user ids to their current State. Snapshots are written only
// from confirmed store responses; a failed mutation never reaches Apply,
// so the cached value stays exactly as it was.
type Cache struct {
	mu     sync.RWMutex
	states map[string]todo.State
}

// NewCache creates an empty cache
func NewCache() *Cache {
	return &Cache{states: make(map[string]todo.State)}
}

// Get returns the snapshot for userID if one has been loaded
func (c *Cache) Get(userID string) (todo.State, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.states[userID]
	return s, ok
}

// Put replaces the snapshot for userID, e.g. after a full list
func (c *Cache) Put(userID string, s todo.State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.states[userID] = s
}

// Apply runs one reconciliation transition against the cached snapshot.
// If no snapshot is loaded it does nothing; the next list will rebuild it.
func (c *Cache) Apply(userID string, transition func(todo.State) todo.State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.states[userID]
	if !ok {
		return
	}
	c.states[userID] = transition(s)
}

// Drop discards the snapshot for userID
func (c *Cache) Drop(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.states, userID)
}
