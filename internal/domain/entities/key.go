package entities

import (
	valueobjects "walletsync/internal/domain/value_objects"
)

// AccountKey is a device public key authorized on the wallet contract. Slot
// is the stable identity; RemovedAtBlock is set once the key is revoked.
type AccountKey struct {
	Slot           int64  `json:"slot"`
	PubKey         string `json:"pubKey"`
	AddedAtBlock   int64  `json:"addedAt"`
	RemovedAtBlock *int64 `json:"removedAt,omitempty"`
}

// KeyRotation is an in-flight add or remove of a device key. It is cleared
// once the confirmed key list reflects the intended outcome.
type KeyRotation struct {
	RotationType valueobjects.KeyRotationType `json:"rotationType"`
	Slot         int64                        `json:"slot"`
}

// Resolved reports whether keys already reflect the rotation's outcome.
func (r KeyRotation) Resolved(keys []AccountKey) bool {
	slotPresent := false
	for _, k := range keys {
		if k.Slot == r.Slot {
			slotPresent = true
			break
		}
	}

	if r.RotationType == valueobjects.KeyRotationAdd {
		return slotPresent
	}
	return !slotPresent
}
