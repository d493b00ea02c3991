package use_cases

import (
	"context"

	"walletsync/internal/application/dto"
	portsin "walletsync/internal/application/ports/in"
	"walletsync/internal/domain/entities"
	valueobjects "walletsync/internal/domain/value_objects"
	apperrors "walletsync/internal/shared_kernel/errors"
)

// NoteSource is the slice of the note indexer the link resolver needs.
type NoteSource interface {
	GetNoteStatus(ephemeralOwner string) (entities.Note, bool)
	GetNoteBySenderSeq(sender string, seq int64) (entities.Note, bool)
}

type getNoteByLinkUseCase struct {
	notes NoteSource
}

func NewGetNoteByLinkUseCase(notes NoteSource) portsin.GetNoteByLinkUseCase {
	return &getNoteByLinkUseCase{notes: notes}
}

func (u *getNoteByLinkUseCase) Execute(ctx context.Context, link dto.NoteLink) (entities.Note, *apperrors.AppError) {
	if u.notes == nil {
		return entities.Note{}, apperrors.NewInternal(
			"note_source_missing",
			"note source is required",
			nil,
		)
	}
	if appErr := link.Validate(); appErr != nil {
		return entities.Note{}, appErr
	}

	switch link.Type {
	case dto.NoteLinkByOwner:
		owner, appErr := valueobjects.NormalizeAddress(link.EphemeralOwner)
		if appErr != nil {
			return entities.Note{}, appErr
		}
		note, ok := u.notes.GetNoteStatus(owner)
		if !ok {
			return entities.Note{}, apperrors.NewNotFound(
				"note_not_found",
				"no note exists at the linked ephemeral owner",
				map[string]any{"ephemeral_owner": owner},
			)
		}
		return note, nil

	case dto.NoteLinkBySenderSeq:
		sender, appErr := valueobjects.NormalizeAddress(link.Sender)
		if appErr != nil {
			return entities.Note{}, appErr
		}
		note, ok := u.notes.GetNoteBySenderSeq(sender, link.Seq)
		if !ok {
			return entities.Note{}, apperrors.NewNotFound(
				"note_not_found",
				"no note exists for the linked sender and seq",
				map[string]any{"sender": sender, "seq": link.Seq},
			)
		}
		return note, nil

	default:
		return entities.Note{}, apperrors.NewValidation(
			"note_link_type_invalid",
			"note link type is invalid",
			map[string]any{"type": link.Type},
		)
	}
}
