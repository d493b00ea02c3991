package out

import (
	"context"

	"walletsync/internal/domain/entities"
	apperrors "walletsync/internal/shared_kernel/errors"
)

// AccountStateAccessor is the sanctioned surface over the process-wide
// current-account snapshot. Implemented by the account manager.
type AccountStateAccessor interface {
	// Current returns the loaded snapshot; ok is false pre-onboarding or
	// after sign-out.
	Current() (account entities.Account, ok bool)

	// SetCurrent atomically replaces the snapshot, persists it and notifies
	// listeners. A nil account clears local state.
	SetCurrent(ctx context.Context, account *entities.Account) *apperrors.AppError
}
