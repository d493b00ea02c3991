package valueobjects

import apperrors "walletsync/internal/shared_kernel/errors"

// NoteStatus is the lifecycle state of an ephemeral payment link.
// claimed and cancelled are terminal.
type NoteStatus string

const (
	NoteStatusConfirmed NoteStatus = "confirmed"
	NoteStatusClaimed   NoteStatus = "claimed"
	NoteStatusCancelled NoteStatus = "cancelled"
)

func ParseNoteStatus(raw string) (NoteStatus, *apperrors.AppError) {
	switch raw {
	case string(NoteStatusConfirmed):
		return NoteStatusConfirmed, nil
	case string(NoteStatusClaimed):
		return NoteStatusClaimed, nil
	case string(NoteStatusCancelled):
		return NoteStatusCancelled, nil
	default:
		return "", apperrors.NewInternal(
			"note_status_invalid",
			"note status is invalid",
			map[string]any{"status": raw},
		)
	}
}

func (s NoteStatus) IsTerminal() bool {
	return s == NoteStatusClaimed || s == NoteStatusCancelled
}

func (s NoteStatus) String() string {
	return string(s)
}

// KeyRotationType is the direction of an in-flight device-key change.
type KeyRotationType string

const (
	KeyRotationAdd    KeyRotationType = "add"
	KeyRotationRemove KeyRotationType = "remove"
)

func ParseKeyRotationType(raw string) (KeyRotationType, *apperrors.AppError) {
	switch raw {
	case string(KeyRotationAdd):
		return KeyRotationAdd, nil
	case string(KeyRotationRemove):
		return KeyRotationRemove, nil
	default:
		return "", apperrors.NewInternal(
			"key_rotation_type_invalid",
			"key rotation type is invalid",
			map[string]any{"type": raw},
		)
	}
}

func (t KeyRotationType) String() string {
	return string(t)
}
