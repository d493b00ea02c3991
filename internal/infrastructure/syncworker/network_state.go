package syncworker

import (
	"sync"

	"walletsync/internal/application/dto"
)

// A sync attempt can fail a few times in a row on flaky mobile networks
// without the wallet actually being offline.
const offlineAfterFailures = 3

// NetworkStateTracker derives the online/offline banner state from
// consecutive sync failures. Safe for concurrent use.
type NetworkStateTracker struct {
	mu    sync.Mutex
	state dto.NetworkState
}

func NewNetworkStateTracker() *NetworkStateTracker {
	return &NetworkStateTracker{
		state: dto.NetworkState{Status: dto.NetworkOnline},
	}
}

func (t *NetworkStateTracker) RecordSuccess() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = dto.NetworkState{Status: dto.NetworkOnline, SyncAttemptsFailed: 0}
}

func (t *NetworkStateTracker) RecordFailure() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.SyncAttemptsFailed++
	if t.state.SyncAttemptsFailed > offlineAfterFailures {
		t.state.Status = dto.NetworkOffline
	} else {
		t.state.Status = dto.NetworkOnline
	}
}

func (t *NetworkStateTracker) Seed(state dto.NetworkState) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = state
}

func (t *NetworkStateTracker) Snapshot() dto.NetworkState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}
