package use_cases

import (
	"context"

	"walletsync/internal/application/dto"
	portsin "walletsync/internal/application/ports/in"
	"walletsync/internal/domain/value_objects"
	apperrors "walletsync/internal/shared_kernel/errors"
)

type getHealthUseCase struct{}

func NewGetHealthUseCase() portsin.GetHealthUseCase {
	return &getHealthUseCase{}
}

func (u *getHealthUseCase) Execute(_ context.Context, _ dto.GetHealthCommand) (dto.HealthOutput, *apperrors.AppError) {
	status := valueobjects.NewHealthyStatus()

	return dto.HealthOutput{
		Status: status.String(),
	}, nil
}
