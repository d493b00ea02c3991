package dto

import (
	apperrors "walletsync/internal/shared_kernel/errors"
)

// NoteLink locates a payment link from a deep link. Two encodings exist:
// the ephemeral owner address directly, or (sender, per-sender sequence
// number). Both resolve to the same note record.
type NoteLink struct {
	Type string `json:"type"` // "note" | "notev2"

	// Type "note".
	EphemeralOwner string `json:"ephemeralOwner,omitempty"`

	// Type "notev2".
	Sender string `json:"sender,omitempty"`
	Seq    int64  `json:"seq,omitempty"`
}

const (
	NoteLinkByOwner     = "note"
	NoteLinkBySenderSeq = "notev2"
)

// Validate checks the tag and the fields the tag requires.
func (l NoteLink) Validate() *apperrors.AppError {
	switch l.Type {
	case NoteLinkByOwner:
		if l.EphemeralOwner == "" {
			return apperrors.NewValidation(
				"note_link_owner_required",
				"note link requires an ephemeral owner address",
				nil,
			)
		}
		return nil
	case NoteLinkBySenderSeq:
		if l.Sender == "" || l.Seq < 0 {
			return apperrors.NewValidation(
				"note_link_sender_seq_required",
				"note link requires a sender and a non-negative seq",
				map[string]any{"sender": l.Sender, "seq": l.Seq},
			)
		}
		return nil
	default:
		return apperrors.NewValidation(
			"note_link_type_invalid",
			"note link type is invalid",
			map[string]any{"type": l.Type},
		)
	}
}
