package entities

import (
	valueobjects "walletsync/internal/domain/value_objects"
)

// NamedAccount pairs an address with its registered name, when one exists.
type NamedAccount struct {
	Addr string `json:"addr"`
	Name string `json:"name,omitempty"`
}

// DisplayName is the registered name, falling back to the raw address.
func (a NamedAccount) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.Addr
}

// Note is a claimable balance controlled by a single-use keypair. The
// ephemeral owner address is its identity. Dollars is fixed at creation;
// Seq numbers the sender's notes in creation order starting at 0.
type Note struct {
	Status         valueobjects.NoteStatus `json:"status"`
	EphemeralOwner string                  `json:"ephemeralOwner"`
	Sender         NamedAccount            `json:"sender"`
	Claimer        *NamedAccount           `json:"claimer,omitempty"`
	Dollars        string                  `json:"dollars"`
	Amount         int64                   `json:"amount"`
	Seq            int64                   `json:"seq"`
}

// PendingNote is a payment link created locally, kept on the snapshot until
// it is confirmed redeemed.
type PendingNote struct {
	EphemeralOwner string `json:"ephemeralOwner"`
	PreviewSender  string `json:"previewSender"`
	PreviewDollars string `json:"previewDollars"`
}
