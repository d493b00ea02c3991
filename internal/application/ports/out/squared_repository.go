package out

import (
	"context"

	apperrors "walletsync/internal/shared_kernel/errors"
)

// SquaredRepository is the storage surface of the squared reduction pass:
// raw generic-indexer tables in, compact canonical transfer table out.
type SquaredRepository interface {
	// MaxCanonicalBlock returns the highest block present in the canonical
	// transfer table for the chain; ok is false when the table is empty.
	MaxCanonicalBlock(ctx context.Context, chainID int64) (maxBlock int64, ok bool, appErr *apperrors.AppError)

	// MaxRawBlock returns the highest block referenced by the raw transfer
	// tables for the chain; ok is false when both are empty.
	MaxRawBlock(ctx context.Context, chainID int64) (maxBlock int64, ok bool, appErr *apperrors.AppError)

	// BackfillBlocks inserts block metadata rows for any block referenced by
	// raw native or token transfer logs in range that lacks one, deriving
	// block_ts = genesisTS + block_num * blockTimeSecs. Returns rows added.
	BackfillBlocks(ctx context.Context, chainID, fromBlock, toBlock, genesisTS int64) (int64, *apperrors.AppError)

	// DeleteUntrackedTransfers removes raw log rows in range that touch no
	// tracked account on either side. Returns rows deleted.
	DeleteUntrackedTransfers(ctx context.Context, chainID, fromBlock, toBlock int64) (int64, *apperrors.AppError)

	// InsertCanonicalTransfers copies surviving raw rows into the canonical
	// table with deterministic sort indexes and conflict-do-nothing keyed on
	// (chain, block, tx index, sort index). Returns rows inserted.
	InsertCanonicalTransfers(ctx context.Context, chainID, fromBlock, toBlock, genesisTS int64) (int64, *apperrors.AppError)
}
