package out

import (
	"context"

	apperrors "walletsync/internal/shared_kernel/errors"
)

// AccountStore persists the serialized account snapshot blob on device.
type AccountStore interface {
	// Load returns the stored blob; ok is false when none exists.
	Load(ctx context.Context) (blob []byte, ok bool, appErr *apperrors.AppError)

	// Save replaces the stored blob. Must survive process restart.
	Save(ctx context.Context, blob []byte) *apperrors.AppError
}
