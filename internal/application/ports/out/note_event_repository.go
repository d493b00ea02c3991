package out

import (
	"context"

	"walletsync/internal/application/dto"
	apperrors "walletsync/internal/shared_kernel/errors"
)

// NoteEventRepository reads payment-link creation and redemption logs.
type NoteEventRepository interface {
	// ListCreated returns creation logs within the inclusive block range,
	// ordered by (block, tx index, log index) ascending.
	ListCreated(
		ctx context.Context,
		chainID int64,
		fromBlock int64,
		toBlock int64,
	) ([]dto.NoteCreatedRow, *apperrors.AppError)

	// ListRedeemed returns redemption logs within the inclusive block range,
	// ordered by (block, tx index, log index) ascending.
	ListRedeemed(
		ctx context.Context,
		chainID int64,
		fromBlock int64,
		toBlock int64,
	) ([]dto.NoteRedeemedRow, *apperrors.AppError)
}
