package valueobjects

import (
	"fmt"
	"math/big"
	"strings"

	apperrors "walletsync/internal/shared_kernel/errors"
)

// TokenDecimals is fixed for the home stablecoin.
const TokenDecimals = 6

// DollarsFromUnits renders token smallest-units as a dollar string with two
// decimal places, e.g. 1_230_000 -> "1.23".
func DollarsFromUnits(units int64) string {
	negative := units < 0
	if negative {
		units = -units
	}

	cents := units / 10_000 // 10^TokenDecimals / 100
	out := fmt.Sprintf("%d.%02d", cents/100, cents%100)
	if negative {
		return "-" + out
	}
	return out
}

// ParseBalance parses a base-10 integer string in token smallest-units.
func ParseBalance(raw string) (*big.Int, *apperrors.AppError) {
	trimmed := strings.TrimSpace(raw)
	value, ok := new(big.Int).SetString(trimmed, 10)
	if !ok {
		return nil, apperrors.NewValidation(
			"invalid_request",
			"balance must be a base-10 integer string",
			map[string]any{"balance": raw},
		)
	}

	return value, nil
}
