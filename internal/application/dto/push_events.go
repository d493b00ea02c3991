package dto

import (
	"walletsync/internal/domain/entities"
)

// PushEventBatch is one fire-and-forget delivery to a downstream listener
// (push notifier, webhook). Exactly one of the payload slices is set,
// matching Kind. Receivers must not mutate payload objects.
type PushEventBatch struct {
	DeliveryID string           `json:"deliveryId"`
	Kind       string           `json:"kind"` // "transfer" | "note-status"
	Transfers  []TransferLogRow `json:"transfers,omitempty"`
	Notes      []entities.Note  `json:"notes,omitempty"`
}

const (
	PushEventKindTransfer   = "transfer"
	PushEventKindNoteStatus = "note-status"
)
