package out

import (
	"context"

	"walletsync/internal/domain/entities"
	apperrors "walletsync/internal/shared_kernel/errors"
)

// NameRegistryGateway resolves addresses to registered account names. An
// unregistered address resolves to a NamedAccount with an empty name, not an
// error.
type NameRegistryGateway interface {
	GetNamedAccount(ctx context.Context, addr string) (entities.NamedAccount, *apperrors.AppError)

	// IsTracked reports whether addr belongs to a registered account.
	IsTracked(ctx context.Context, addr string) (bool, *apperrors.AppError)
}

// KeyRegistryGateway lists the device keys currently authorized on a wallet
// contract, including removed slots with their removal block.
type KeyRegistryGateway interface {
	ListAccountKeys(ctx context.Context, addr string) ([]entities.AccountKey, *apperrors.AppError)
}
