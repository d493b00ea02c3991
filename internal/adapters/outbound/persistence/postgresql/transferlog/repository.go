package transferlog

import (
	"context"
	"database/sql"

	"walletsync/internal/application/dto"
	portsout "walletsync/internal/application/ports/out"
	apperrors "walletsync/internal/shared_kernel/errors"
)

// Repository reads the canonical transfer table produced by the squared
// reduction pass.
type Repository struct {
	db *sql.DB
}

var _ portsout.TransferLogRepository = (*Repository)(nil)

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListTokenTransfers(
	ctx context.Context,
	chainID int64,
	token string,
	fromBlock int64,
	toBlock int64,
) ([]dto.TransferLogRow, *apperrors.AppError) {
	// Token rows carry sort_idx = log_idx * 2; native rows are odd and
	// carry no log index.
	const query = `
SELECT
  chain_id,
  block_num,
  block_hash,
  tx_idx,
  tx_hash,
  sort_idx / 2 AS log_idx,
  token,
  f,
  t,
  amount
FROM app.canonical_transfers
WHERE chain_id = $1
  AND token = $2
  AND block_num BETWEEN $3 AND $4
ORDER BY block_num ASC, tx_idx ASC, sort_idx ASC
`

	rows, err := r.db.QueryContext(ctx, query, chainID, token, fromBlock, toBlock)
	if err != nil {
		return nil, apperrors.NewInternal(
			"transfer_log_query_failed",
			"failed to query canonical transfers",
			map[string]any{"error": err.Error()},
		)
	}
	defer rows.Close()

	out := make([]dto.TransferLogRow, 0)
	for rows.Next() {
		var row dto.TransferLogRow
		if scanErr := rows.Scan(
			&row.ChainID,
			&row.BlockNumber,
			&row.BlockHash,
			&row.TxIndex,
			&row.TxHash,
			&row.LogIndex,
			&row.Token,
			&row.From,
			&row.To,
			&row.Amount,
		); scanErr != nil {
			return nil, apperrors.NewInternal(
				"transfer_log_scan_failed",
				"failed to scan canonical transfer row",
				map[string]any{"error": scanErr.Error()},
			)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternal(
			"transfer_log_rows_failed",
			"failed while iterating canonical transfers",
			map[string]any{"error": err.Error()},
		)
	}
	return out, nil
}
