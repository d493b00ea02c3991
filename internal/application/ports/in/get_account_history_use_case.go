package in

import (
	"context"

	"walletsync/internal/application/dto"
	apperrors "walletsync/internal/shared_kernel/errors"
)

type GetAccountHistoryUseCase interface {
	Execute(ctx context.Context, query dto.AccountHistoryQuery) (dto.AccountHistoryResult, *apperrors.AppError)
}
