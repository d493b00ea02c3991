package out

import (
	"context"
	"math/big"

	apperrors "walletsync/internal/shared_kernel/errors"
)

// BalanceReaderGateway performs point-in-time token balance reads against
// the chain. Not derived from the indexed log, which may be incomplete for
// addresses not yet filtered in.
type BalanceReaderGateway interface {
	BalanceAt(ctx context.Context, addr string, blockNumber int64) (*big.Int, *apperrors.AppError)
}
