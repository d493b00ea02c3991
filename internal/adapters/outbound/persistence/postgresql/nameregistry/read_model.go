package nameregistry

import (
	"context"
	"database/sql"
	stderrors "errors"

	portsout "walletsync/internal/application/ports/out"
	"walletsync/internal/domain/entities"
	apperrors "walletsync/internal/shared_kernel/errors"
)

// ReadModel resolves addresses against the onchain name registry mirror.
type ReadModel struct {
	db *sql.DB
}

var _ portsout.NameRegistryGateway = (*ReadModel)(nil)
var _ portsout.KeyRegistryGateway = (*ReadModel)(nil)

func NewReadModel(db *sql.DB) *ReadModel {
	return &ReadModel{db: db}
}

// GetNamedAccount resolves addr; an unregistered address is a valid
// counterparty and resolves with an empty name.
func (r *ReadModel) GetNamedAccount(ctx context.Context, addr string) (entities.NamedAccount, *apperrors.AppError) {
	const query = `SELECT name FROM app.names WHERE addr = $1`

	named := entities.NamedAccount{Addr: addr}
	err := r.db.QueryRowContext(ctx, query, addr).Scan(&named.Name)
	if stderrors.Is(err, sql.ErrNoRows) {
		return named, nil
	}
	if err != nil {
		return entities.NamedAccount{}, apperrors.NewInternal(
			"name_lookup_failed",
			"failed to look up account name",
			map[string]any{"error": err.Error(), "addr": addr},
		)
	}
	return named, nil
}

func (r *ReadModel) IsTracked(ctx context.Context, addr string) (bool, *apperrors.AppError) {
	const query = `SELECT EXISTS (SELECT 1 FROM app.names WHERE addr = $1)`

	var tracked bool
	if err := r.db.QueryRowContext(ctx, query, addr).Scan(&tracked); err != nil {
		return false, apperrors.NewInternal(
			"name_tracked_query_failed",
			"failed to check tracked address",
			map[string]any{"error": err.Error(), "addr": addr},
		)
	}
	return tracked, nil
}

// ListAccountKeys returns every key slot ever authorized on the wallet,
// removed slots included, ordered by slot.
func (r *ReadModel) ListAccountKeys(ctx context.Context, addr string) ([]entities.AccountKey, *apperrors.AppError) {
	const query = `
SELECT slot, pubkey, added_at_block, removed_at_block
FROM app.account_keys
WHERE addr = $1
ORDER BY slot ASC
`

	rows, err := r.db.QueryContext(ctx, query, addr)
	if err != nil {
		return nil, apperrors.NewInternal(
			"account_keys_query_failed",
			"failed to query account keys",
			map[string]any{"error": err.Error(), "addr": addr},
		)
	}
	defer rows.Close()

	out := make([]entities.AccountKey, 0)
	for rows.Next() {
		var (
			key            entities.AccountKey
			removedAtBlock sql.NullInt64
		)
		if scanErr := rows.Scan(&key.Slot, &key.PubKey, &key.AddedAtBlock, &removedAtBlock); scanErr != nil {
			return nil, apperrors.NewInternal(
				"account_keys_scan_failed",
				"failed to scan account key row",
				map[string]any{"error": scanErr.Error()},
			)
		}
		if removedAtBlock.Valid {
			removed := removedAtBlock.Int64
			key.RemovedAtBlock = &removed
		}
		out = append(out, key)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternal(
			"account_keys_rows_failed",
			"failed while iterating account keys",
			map[string]any{"error": err.Error()},
		)
	}
	return out, nil
}
