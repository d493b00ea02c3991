package entities

import (
	valueobjects "walletsync/internal/domain/value_objects"
)

// TransferOp is one token movement touching the account: a plain transfer or
// a payment-link leg. Pending ops have no block coordinates yet; once the op
// is observed onchain the tx/block/log fields and the op hash are filled in.
type TransferOp struct {
	Type   valueobjects.OpType   `json:"type"`
	Status valueobjects.OpStatus `json:"status"`

	From   string `json:"from"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`

	// Estimated wall-clock seconds, derived from the block number for
	// confirmed ops, local creation time for pending ones.
	Timestamp int64 `json:"timestamp"`

	FeeAmount     int64  `json:"feeAmount,omitempty"`
	NonceMetadata string `json:"nonceMetadata,omitempty"`

	TxHash      string `json:"txHash,omitempty"`
	BlockNumber *int64 `json:"blockNumber,omitempty"`
	BlockHash   string `json:"blockHash,omitempty"`
	LogIndex    *int64 `json:"logIndex,omitempty"`
	OpHash      string `json:"opHash,omitempty"`
}

// SameOp reports whether two ops refer to the same user operation. Identity
// is the op hash when both sides carry one; ops without a hash never match.
func (t TransferOp) SameOp(other TransferOp) bool {
	return t.OpHash != "" && t.OpHash == other.OpHash
}

// FindSameOp returns the first op in ops sharing opHash, or nil.
func FindSameOp(opHash string, ops []TransferOp) *TransferOp {
	if opHash == "" {
		return nil
	}
	for i := range ops {
		if ops[i].OpHash == opHash {
			return &ops[i]
		}
	}
	return nil
}

// TrackedRequest is a payment request sent from this account.
type TrackedRequest struct {
	RequestID string `json:"requestId"`
	Amount    int64  `json:"amount"`
}
