package out

import (
	"walletsync/internal/domain/entities"
)

// ContactCache holds display names for addresses the account has interacted
// with. Updated from the snapshot's named accounts before listeners run, so
// listeners observe a consistent cache.
type ContactCache interface {
	CacheNamedAccounts(accounts []entities.NamedAccount)

	// Lookup returns the cached entry for a canonical address.
	Lookup(addr string) (entities.NamedAccount, bool)
}
