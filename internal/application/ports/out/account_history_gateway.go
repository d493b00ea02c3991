package out

import (
	"context"

	"walletsync/internal/application/dto"
	apperrors "walletsync/internal/shared_kernel/errors"
)

// AccountHistoryGateway is the client-side view of the backend history RPC.
type AccountHistoryGateway interface {
	GetAccountHistory(
		ctx context.Context,
		query dto.AccountHistoryQuery,
	) (dto.AccountHistoryResult, *apperrors.AppError)
}
