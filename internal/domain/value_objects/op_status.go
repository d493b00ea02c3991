package valueobjects

import apperrors "walletsync/internal/shared_kernel/errors"

// OpStatus tracks a transfer operation from local submission to finality.
type OpStatus string

const (
	OpStatusPending   OpStatus = "pending"
	OpStatusConfirmed OpStatus = "confirmed"
	OpStatusFinalized OpStatus = "finalized"
	OpStatusFailed    OpStatus = "failed"
)

func ParseOpStatus(raw string) (OpStatus, *apperrors.AppError) {
	switch raw {
	case string(OpStatusPending):
		return OpStatusPending, nil
	case string(OpStatusConfirmed):
		return OpStatusConfirmed, nil
	case string(OpStatusFinalized):
		return OpStatusFinalized, nil
	case string(OpStatusFailed):
		return OpStatusFailed, nil
	default:
		return "", apperrors.NewInternal(
			"op_status_invalid",
			"op status is invalid",
			map[string]any{"status": raw},
		)
	}
}

func (s OpStatus) String() string {
	return string(s)
}

// OpType distinguishes plain transfers from payment-link legs.
type OpType string

const (
	OpTypeTransfer   OpType = "transfer"
	OpTypeCreateLink OpType = "createLink"
	OpTypeClaimLink  OpType = "claimLink"
)

func ParseOpType(raw string) (OpType, *apperrors.AppError) {
	switch raw {
	case string(OpTypeTransfer):
		return OpTypeTransfer, nil
	case string(OpTypeCreateLink):
		return OpTypeCreateLink, nil
	case string(OpTypeClaimLink):
		return OpTypeClaimLink, nil
	default:
		return "", apperrors.NewInternal(
			"op_type_invalid",
			"op type is invalid",
			map[string]any{"type": raw},
		)
	}
}

func (t OpType) String() string {
	return string(t)
}
