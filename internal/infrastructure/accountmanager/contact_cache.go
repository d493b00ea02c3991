package accountmanager

import (
	"sync"

	"walletsync/internal/domain/entities"
)

// InMemoryContactCache keeps the latest display name seen for each address.
// Safe for concurrent use.
type InMemoryContactCache struct {
	mu       sync.RWMutex
	contacts map[string]entities.NamedAccount
}

func NewInMemoryContactCache() *InMemoryContactCache {
	return &InMemoryContactCache{contacts: map[string]entities.NamedAccount{}}
}

func (c *InMemoryContactCache) CacheNamedAccounts(accounts []entities.NamedAccount) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, a := range accounts {
		c.contacts[a.Addr] = a
	}
}

func (c *InMemoryContactCache) Lookup(addr string) (entities.NamedAccount, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	contact, ok := c.contacts[addr]
	return contact, ok
}
