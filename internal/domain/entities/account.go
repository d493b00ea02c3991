package entities

import (
	"math/big"

	valueobjects "walletsync/internal/domain/value_objects"
)

// ChainGasConstants are the current fee and paymaster parameters for the
// home chain, refreshed on every sync.
type ChainGasConstants struct {
	MaxFeePerGas         string `json:"maxFeePerGas"`
	MaxPriorityFeePerGas string `json:"maxPriorityFeePerGas"`
	EstimatedFee         int64  `json:"estimatedFee"`
	PaymasterAddress     string `json:"paymasterAddress"`
	PreVerificationGas   string `json:"preVerificationGas"`
}

// RecommendedExchange is an onramp suggestion surfaced to the user.
type RecommendedExchange struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// SuggestedAction is a dismissible server-driven prompt.
type SuggestedAction struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
}

// Account is the wallet's on-device knowledge: identity, sync cursors and
// the synced collections. It is an immutable snapshot; every change goes
// through whole-snapshot replacement.
type Account struct {
	// Identity.
	EnclaveKeyName  string
	EnclavePubKey   string
	Name            string
	Address         string
	HomeChainID     int64
	HomeCoinAddress string

	// Sync cursors. LastFinalizedBlock <= LastBlock always holds.
	LastBlock          int64
	LastBlockTimestamp int64
	LastBalance        *big.Int
	LastFinalizedBlock int64

	// Collections, insertion-ordered.
	RecentTransfers    []TransferOp
	TrackedRequests    []TrackedRequest
	PendingNotes       []PendingNote
	NamedAccounts      []NamedAccount
	AccountKeys        []AccountKey
	PendingKeyRotation []KeyRotation

	ChainGasConstants    ChainGasConstants
	RecommendedExchanges []RecommendedExchange
	SuggestedActions     []SuggestedAction
	DismissedActionIDs   []string

	PushToken string
}

// ToNamedAccount is the account as seen by its counterparties.
func (a Account) ToNamedAccount() NamedAccount {
	return NamedAccount{Addr: a.Address, Name: a.Name}
}

// HasPendingOps reports whether any local state still awaits confirmation:
// an unconfirmed transfer or an in-flight key rotation.
func (a Account) HasPendingOps() bool {
	for _, t := range a.RecentTransfers {
		if t.Status == valueobjects.OpStatusPending {
			return true
		}
	}
	return len(a.PendingKeyRotation) > 0
}

// DismissAction records a dismissed suggested-action id, deduplicated.
func (a Account) DismissAction(id string) Account {
	for _, existing := range a.DismissedActionIDs {
		if existing == id {
			return a
		}
	}
	a.DismissedActionIDs = append(append([]string{}, a.DismissedActionIDs...), id)
	return a
}
