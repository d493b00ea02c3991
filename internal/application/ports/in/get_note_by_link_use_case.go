package in

import (
	"context"

	"walletsync/internal/application/dto"
	"walletsync/internal/domain/entities"
	apperrors "walletsync/internal/shared_kernel/errors"
)

// GetNoteByLinkUseCase resolves a deep-link note locator, either encoding,
// to the underlying note record.
type GetNoteByLinkUseCase interface {
	Execute(ctx context.Context, link dto.NoteLink) (entities.Note, *apperrors.AppError)
}
