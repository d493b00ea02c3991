package oplog

import (
	"context"
	"database/sql"
	stderrors "errors"

	"walletsync/internal/application/dto"
	portsout "walletsync/internal/application/ports/out"
	apperrors "walletsync/internal/shared_kernel/errors"
)

// ReadModel resolves the user-operation event belonging to a transfer log.
// The bundler contract emits the op event after the transfer logs of the
// same operation, so the match is the next op event in the transaction.
type ReadModel struct {
	db      *sql.DB
	chainID int64
}

var _ portsout.UserOpLogGateway = (*ReadModel)(nil)

func NewReadModel(db *sql.DB, chainID int64) *ReadModel {
	return &ReadModel{db: db, chainID: chainID}
}

func (r *ReadModel) FetchUserOpLog(
	ctx context.Context,
	txHash string,
	logIndex int64,
) (dto.UserOpLog, bool, *apperrors.AppError) {
	const query = `
SELECT op_hash, op_nonce
FROM app.user_op_logs
WHERE chain_id = $1
  AND tx_hash = $2
  AND log_idx > $3
ORDER BY log_idx ASC
LIMIT 1
`

	var op dto.UserOpLog
	err := r.db.QueryRowContext(ctx, query, r.chainID, txHash, logIndex).Scan(&op.OpHash, &op.Nonce)
	if stderrors.Is(err, sql.ErrNoRows) {
		return dto.UserOpLog{}, false, nil
	}
	if err != nil {
		return dto.UserOpLog{}, false, apperrors.NewInternal(
			"user_op_log_query_failed",
			"failed to query user op log",
			map[string]any{"error": err.Error(), "tx_hash": txHash, "log_idx": logIndex},
		)
	}
	return op, true, nil
}
