package out

import (
	"context"

	"walletsync/internal/application/dto"
	apperrors "walletsync/internal/shared_kernel/errors"
)

// TransferLogRepository reads canonical transfer rows produced by the
// squared reduction pass.
type TransferLogRepository interface {
	// ListTokenTransfers returns rows for token within the inclusive block
	// range, ordered by (block, tx index, log index) ascending.
	ListTokenTransfers(
		ctx context.Context,
		chainID int64,
		token string,
		fromBlock int64,
		toBlock int64,
	) ([]dto.TransferLogRow, *apperrors.AppError)
}
