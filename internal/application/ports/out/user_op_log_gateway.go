package out

import (
	"context"

	"walletsync/internal/application/dto"
	apperrors "walletsync/internal/shared_kernel/errors"
)

// UserOpLogGateway resolves the user-operation event tied to a transfer log.
// The operation event follows its inner logs within the same transaction, so
// the match is the next op event after logIndex in txHash.
type UserOpLogGateway interface {
	FetchUserOpLog(
		ctx context.Context,
		txHash string,
		logIndex int64,
	) (dto.UserOpLog, bool, *apperrors.AppError)
}
