package noteevent

import (
	"context"
	"database/sql"

	"walletsync/internal/application/dto"
	portsout "walletsync/internal/application/ports/out"
	apperrors "walletsync/internal/shared_kernel/errors"
)

// Repository reads payment-link lifecycle events shoveled from chain logs.
type Repository struct {
	db *sql.DB
}

var _ portsout.NoteEventRepository = (*Repository)(nil)

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListCreated(
	ctx context.Context,
	chainID int64,
	fromBlock int64,
	toBlock int64,
) ([]dto.NoteCreatedRow, *apperrors.AppError) {
	const query = `
SELECT
  chain_id,
  block_num,
  tx_idx,
  tx_hash,
  log_idx,
  f,
  ephemeral_owner,
  amount
FROM app.note_created
WHERE chain_id = $1
  AND block_num BETWEEN $2 AND $3
ORDER BY block_num ASC, tx_idx ASC, log_idx ASC
`

	rows, err := r.db.QueryContext(ctx, query, chainID, fromBlock, toBlock)
	if err != nil {
		return nil, apperrors.NewInternal(
			"note_created_query_failed",
			"failed to query note creation events",
			map[string]any{"error": err.Error()},
		)
	}
	defer rows.Close()

	out := make([]dto.NoteCreatedRow, 0)
	for rows.Next() {
		var row dto.NoteCreatedRow
		if scanErr := rows.Scan(
			&row.ChainID,
			&row.BlockNumber,
			&row.TxIndex,
			&row.TxHash,
			&row.LogIndex,
			&row.From,
			&row.EphemeralOwner,
			&row.Amount,
		); scanErr != nil {
			return nil, apperrors.NewInternal(
				"note_created_scan_failed",
				"failed to scan note creation row",
				map[string]any{"error": scanErr.Error()},
			)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternal(
			"note_created_rows_failed",
			"failed while iterating note creation events",
			map[string]any{"error": err.Error()},
		)
	}
	return out, nil
}

func (r *Repository) ListRedeemed(
	ctx context.Context,
	chainID int64,
	fromBlock int64,
	toBlock int64,
) ([]dto.NoteRedeemedRow, *apperrors.AppError) {
	const query = `
SELECT
  chain_id,
  block_num,
  tx_idx,
  tx_hash,
  log_idx,
  f,
  redeemer,
  ephemeral_owner,
  amount
FROM app.note_redeemed
WHERE chain_id = $1
  AND block_num BETWEEN $2 AND $3
ORDER BY block_num ASC, tx_idx ASC, log_idx ASC
`

	rows, err := r.db.QueryContext(ctx, query, chainID, fromBlock, toBlock)
	if err != nil {
		return nil, apperrors.NewInternal(
			"note_redeemed_query_failed",
			"failed to query note redemption events",
			map[string]any{"error": err.Error()},
		)
	}
	defer rows.Close()

	out := make([]dto.NoteRedeemedRow, 0)
	for rows.Next() {
		var row dto.NoteRedeemedRow
		if scanErr := rows.Scan(
			&row.ChainID,
			&row.BlockNumber,
			&row.TxIndex,
			&row.TxHash,
			&row.LogIndex,
			&row.From,
			&row.Redeemer,
			&row.EphemeralOwner,
			&row.Amount,
		); scanErr != nil {
			return nil, apperrors.NewInternal(
				"note_redeemed_scan_failed",
				"failed to scan note redemption row",
				map[string]any{"error": scanErr.Error()},
			)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternal(
			"note_redeemed_rows_failed",
			"failed while iterating note redemption events",
			map[string]any{"error": err.Error()},
		)
	}
	return out, nil
}
