package in

import (
	"context"

	"walletsync/internal/application/dto"
	apperrors "walletsync/internal/shared_kernel/errors"
)

type GetHealthUseCase interface {
	Execute(ctx context.Context, command dto.GetHealthCommand) (dto.HealthOutput, *apperrors.AppError)
}
