package indexers

import (
	"context"
	"log"
	"time"

	portsout "walletsync/internal/application/ports/out"
	apperrors "walletsync/internal/shared_kernel/errors"
)

type SquaredIndexerConfig struct {
	ChainID          int64
	GenesisTimestamp int64
}

// SquaredIndexer filters the generic chain indexer's raw transfer tables
// down to rows touching tracked accounts, producing the compact canonical
// transfer table everything downstream reads. Reduce is idempotent and
// re-runnable for the same range.
type SquaredIndexer struct {
	cfg    SquaredIndexerConfig
	repo   portsout.SquaredRepository
	logger *log.Logger
}

func NewSquaredIndexer(cfg SquaredIndexerConfig, repo portsout.SquaredRepository, logger *log.Logger) *SquaredIndexer {
	return &SquaredIndexer{cfg: cfg, repo: repo, logger: logger}
}

// Reduce runs one reduction pass over the inclusive block range: backfill
// block metadata, delete raw rows touching no tracked account, insert the
// survivors into the canonical table. Skips when the canonical table is
// already at or past toBlock.
func (x *SquaredIndexer) Reduce(ctx context.Context, fromBlock, toBlock int64) *apperrors.AppError {
	startedAt := time.Now()

	maxBlock, ok, appErr := x.repo.MaxCanonicalBlock(ctx, x.cfg.ChainID)
	if appErr != nil {
		return appErr
	}
	if ok && maxBlock >= toBlock {
		if x.logger != nil {
			x.logger.Printf("squared reduce already done from_block=%d to_block=%d max_block=%d", fromBlock, toBlock, maxBlock)
		}
		return nil
	}

	blocksAdded, appErr := x.repo.BackfillBlocks(ctx, x.cfg.ChainID, fromBlock, toBlock, x.cfg.GenesisTimestamp)
	if appErr != nil {
		return appErr
	}

	deleted, appErr := x.repo.DeleteUntrackedTransfers(ctx, x.cfg.ChainID, fromBlock, toBlock)
	if appErr != nil {
		return appErr
	}

	inserted, appErr := x.repo.InsertCanonicalTransfers(ctx, x.cfg.ChainID, fromBlock, toBlock, x.cfg.GenesisTimestamp)
	if appErr != nil {
		return appErr
	}

	if x.logger != nil {
		x.logger.Printf(
			"squared reduce from_block=%d to_block=%d blocks_added=%d raw_deleted=%d canonical_inserted=%d latency_ms=%d",
			fromBlock, toBlock, blocksAdded, deleted, inserted, time.Since(startedAt).Milliseconds(),
		)
	}

	return nil
}
