package out

import (
	"walletsync/internal/application/dto"
)

// NetworkStatusTracker records sync outcomes and exposes the derived
// online/offline state. Independent of the account snapshot.
type NetworkStatusTracker interface {
	RecordSuccess()
	RecordFailure()

	// Seed overwrites the failure counter, used when the initial
	// from-scratch sync fails and the offline banner must persist.
	Seed(state dto.NetworkState)

	Snapshot() dto.NetworkState
}
