package valueobjects

import (
	"regexp"
	"strings"
)

// A user-operation nonce is 32 bytes: the upper 16 bytes are wallet metadata
// (purpose type byte plus identifier), the lower 16 bytes a random key. The
// metadata classifies the op, e.g. plain send vs fulfilling a request.
var nonce32Pattern = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

const (
	NonceTypeSend            byte = 0x00
	NonceTypeRequestResponse byte = 0x01
	NonceTypeCreateNote      byte = 0x02
	NonceTypeClaimNote       byte = 0x03
)

// NonceMetadataFromNonce extracts the metadata half of a 32-byte nonce.
// Returns false for anything that is not a well-formed nonce.
func NonceMetadataFromNonce(nonceHex string) (string, bool) {
	trimmed := strings.TrimSpace(nonceHex)
	if !nonce32Pattern.MatchString(trimmed) {
		return "", false
	}

	return "0x" + strings.ToLower(trimmed[2:34]), true
}

// NonceMetadataType reads the purpose byte from extracted metadata.
func NonceMetadataType(metadataHex string) (byte, bool) {
	trimmed := strings.ToLower(strings.TrimSpace(metadataHex))
	if !strings.HasPrefix(trimmed, "0x") || len(trimmed) < 4 {
		return 0, false
	}

	var value byte
	for _, ch := range trimmed[2:4] {
		switch {
		case ch >= '0' && ch <= '9':
			value = value<<4 | byte(ch-'0')
		case ch >= 'a' && ch <= 'f':
			value = value<<4 | byte(ch-'a'+10)
		default:
			return 0, false
		}
	}

	return value, true
}
