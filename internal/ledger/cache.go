package ledger

import (
	"sync"

	"github.com/houseledger/backend/internal/models"
)

// Cache memoizes the last successful read of the entries worksheet.
// It holds exactly one snapshot, shared by all viewers in the process,
// and is explicitly invalidated by the service after every write.
// There is no expiry.
type Cache struct {
	mu      sync.Mutex
	entries []models.Entry
	valid   bool
}

// Get returns the cached snapshot, if any.
func (c *Cache) Get() ([]models.Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.valid {
		return nil, false
	}
	return c.entries, true
}

// Set stores a fresh snapshot.
func (c *Cache) Set(entries []models.Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = entries
	c.valid = true
}

// Invalidate drops the snapshot so the next load hits the store.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
	c.valid = false
}
