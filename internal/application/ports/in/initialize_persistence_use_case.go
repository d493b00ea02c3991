package in

import (
	"context"

	"walletsync/internal/application/dto"
	apperrors "walletsync/internal/shared_kernel/errors"
)

type InitializePersistenceUseCase interface {
	Execute(ctx context.Context, command dto.InitializePersistenceCommand) *apperrors.AppError
}
