package out

import (
	"context"

	"walletsync/internal/application/dto"
	apperrors "walletsync/internal/shared_kernel/errors"
)

// PushEventGateway delivers typed event batches to a downstream listener
// endpoint. Fire-and-forget: no acknowledgement or backpressure signal.
type PushEventGateway interface {
	PushEvents(ctx context.Context, batch dto.PushEventBatch) *apperrors.AppError
}
