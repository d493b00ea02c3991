package squared

import (
	"context"
	"database/sql"

	portsout "walletsync/internal/application/ports/out"
	apperrors "walletsync/internal/shared_kernel/errors"
)

// Repository implements the squared reduction over the raw transfer tables
// written by the generic chain indexer: app.native_transfers and
// app.token_transfers in, app.canonical_transfers out.
type Repository struct {
	db *sql.DB

	// Synthetic block timestamps are genesis_ts + block_num * blockTime.
	blockTimeSecs int64
}

var _ portsout.SquaredRepository = (*Repository)(nil)

func NewRepository(db *sql.DB, blockTimeSecs int64) *Repository {
	return &Repository{db: db, blockTimeSecs: blockTimeSecs}
}

func (r *Repository) MaxCanonicalBlock(ctx context.Context, chainID int64) (int64, bool, *apperrors.AppError) {
	const query = `SELECT MAX(block_num) FROM app.canonical_transfers WHERE chain_id = $1`

	var maxBlock sql.NullInt64
	if err := r.db.QueryRowContext(ctx, query, chainID).Scan(&maxBlock); err != nil {
		return 0, false, apperrors.NewInternal(
			"canonical_max_block_query_failed",
			"failed to query canonical transfer high-water mark",
			map[string]any{"error": err.Error()},
		)
	}
	return maxBlock.Int64, maxBlock.Valid, nil
}

func (r *Repository) MaxRawBlock(ctx context.Context, chainID int64) (int64, bool, *apperrors.AppError) {
	const query = `
SELECT GREATEST(
  (SELECT MAX(block_num) FROM app.native_transfers WHERE chain_id = $1),
  (SELECT MAX(block_num) FROM app.token_transfers WHERE chain_id = $1)
)
`

	var maxBlock sql.NullInt64
	if err := r.db.QueryRowContext(ctx, query, chainID).Scan(&maxBlock); err != nil {
		return 0, false, apperrors.NewInternal(
			"raw_max_block_query_failed",
			"failed to query raw transfer high-water mark",
			map[string]any{"error": err.Error()},
		)
	}
	return maxBlock.Int64, maxBlock.Valid, nil
}

func (r *Repository) BackfillBlocks(
	ctx context.Context,
	chainID, fromBlock, toBlock, genesisTS int64,
) (int64, *apperrors.AppError) {
	const nativeQuery = `
INSERT INTO app.blocks (chain_id, block_num, block_hash, block_ts)
SELECT DISTINCT
  chain_id,
  block_num,
  block_hash,
  block_num * $4 + $5 AS block_ts
FROM app.native_transfers
WHERE chain_id = $1
  AND block_num BETWEEN $2 AND $3
ON CONFLICT (chain_id, block_num) DO NOTHING
`
	const tokenQuery = `
INSERT INTO app.blocks (chain_id, block_num, block_hash, block_ts)
SELECT DISTINCT
  chain_id,
  block_num,
  block_hash,
  block_num * $4 + $5 AS block_ts
FROM app.token_transfers
WHERE chain_id = $1
  AND block_num BETWEEN $2 AND $3
ON CONFLICT (chain_id, block_num) DO NOTHING
`

	total := int64(0)
	for _, query := range []string{nativeQuery, tokenQuery} {
		result, err := r.db.ExecContext(ctx, query, chainID, fromBlock, toBlock, r.blockTimeSecs, genesisTS)
		if err != nil {
			return total, apperrors.NewInternal(
				"blocks_backfill_failed",
				"failed to backfill block metadata",
				map[string]any{"error": err.Error()},
			)
		}
		if affected, affErr := result.RowsAffected(); affErr == nil {
			total += affected
		}
	}
	return total, nil
}

func (r *Repository) DeleteUntrackedTransfers(
	ctx context.Context,
	chainID, fromBlock, toBlock int64,
) (int64, *apperrors.AppError) {
	const nativeQuery = `
DELETE FROM app.native_transfers
WHERE chain_id = $1
  AND block_num BETWEEN $2 AND $3
  AND f NOT IN (SELECT addr FROM app.names)
  AND t NOT IN (SELECT addr FROM app.names)
`
	const tokenQuery = `
DELETE FROM app.token_transfers
WHERE chain_id = $1
  AND block_num BETWEEN $2 AND $3
  AND f NOT IN (SELECT addr FROM app.names)
  AND t NOT IN (SELECT addr FROM app.names)
`

	total := int64(0)
	for _, query := range []string{nativeQuery, tokenQuery} {
		result, err := r.db.ExecContext(ctx, query, chainID, fromBlock, toBlock)
		if err != nil {
			return total, apperrors.NewInternal(
				"untracked_transfer_delete_failed",
				"failed to delete untracked raw transfers",
				map[string]any{"error": err.Error()},
			)
		}
		if affected, affErr := result.RowsAffected(); affErr == nil {
			total += affected
		}
	}
	return total, nil
}

func (r *Repository) InsertCanonicalTransfers(
	ctx context.Context,
	chainID, fromBlock, toBlock, genesisTS int64,
) (int64, *apperrors.AppError) {
	// Token rows sort at log_idx * 2, native rows at trace_idx * 2 + 1:
	// deterministic order within a block, stable across re-runs.
	const query = `
INSERT INTO app.canonical_transfers (
  chain_id,
  block_num,
  block_hash,
  block_ts,
  tx_idx,
  tx_hash,
  sort_idx,
  token,
  f,
  t,
  amount
)
SELECT
  chain_id,
  block_num,
  block_hash,
  block_num * $4 + $5 AS block_ts,
  tx_idx,
  tx_hash,
  trace_idx * 2 + 1 AS sort_idx,
  NULL AS token,
  f,
  t,
  amount
FROM app.native_transfers
WHERE chain_id = $1
  AND block_num BETWEEN $2 AND $3
UNION ALL
SELECT
  chain_id,
  block_num,
  block_hash,
  block_num * $4 + $5 AS block_ts,
  tx_idx,
  tx_hash,
  log_idx * 2 AS sort_idx,
  token,
  f,
  t,
  amount
FROM app.token_transfers
WHERE chain_id = $1
  AND block_num BETWEEN $2 AND $3
ON CONFLICT (chain_id, block_num, tx_idx, sort_idx) DO NOTHING
`

	result, err := r.db.ExecContext(ctx, query, chainID, fromBlock, toBlock, r.blockTimeSecs, genesisTS)
	if err != nil {
		return 0, apperrors.NewInternal(
			"canonical_transfer_insert_failed",
			"failed to insert canonical transfers",
			map[string]any{"error": err.Error()},
		)
	}
	inserted, affErr := result.RowsAffected()
	if affErr != nil {
		return 0, nil
	}
	return inserted, nil
}
