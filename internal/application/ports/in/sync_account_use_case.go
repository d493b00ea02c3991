package in

import (
	"context"

	"walletsync/internal/domain/entities"
	apperrors "walletsync/internal/shared_kernel/errors"
)

// SyncAccountUseCase pulls authoritative history and merges it into the
// current snapshot.
type SyncAccountUseCase interface {
	// Execute runs one fetch+merge attempt. Transient failures are absorbed;
	// callers only see the boolean outcome.
	Execute(ctx context.Context, reason string, fromScratch bool) bool

	// Hydrate fills in a newly created or newly paired account from a first
	// full sync, without touching the current snapshot.
	Hydrate(ctx context.Context, account entities.Account) (entities.Account, *apperrors.AppError)
}
