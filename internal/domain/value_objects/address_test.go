//go:build !integration

package valueobjects

import "testing"

func TestToEIP55ChecksumKnownFixtures(t *testing.T) {
	testCases := []struct {
		canonical string
		expected  string
	}{
		{
			canonical: "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed",
			expected:  "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		},
		{
			canonical: "0xfb6916095ca1df60bb79ce92ce3ea74c37c5d359",
			expected:  "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
		},
		{
			canonical: "0xdbf03b407c01e7cd3cbea99509d93f8dddc8c6fb",
			expected:  "0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB",
		},
	}

	for _, testCase := range testCases {
		actual, appErr := ToEIP55Checksum(testCase.canonical)
		if appErr != nil {
			t.Fatalf("expected no error for %s, got %+v", testCase.canonical, appErr)
		}
		if actual != testCase.expected {
			t.Fatalf("expected %s, got %s", testCase.expected, actual)
		}
	}
}

func TestNormalizeAddressLowercases(t *testing.T) {
	canonical, appErr := NormalizeAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if canonical != "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed" {
		t.Fatalf("unexpected canonical address: %s", canonical)
	}
}

func TestNormalizeAddressRejectsMalformed(t *testing.T) {
	for _, raw := range []string{"", "0x1234", "5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", "0xzz6916095ca1df60bb79ce92ce3ea74c37c5d359"} {
		if _, appErr := NormalizeAddress(raw); appErr == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestNormalizeHash(t *testing.T) {
	canonical, appErr := NormalizeHash("0xAB96a25b9a4a2f2a4954b25c3b695c5bd66dcd00a07d2554d5a89d2b2db24b52")
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if canonical != "0xab96a25b9a4a2f2a4954b25c3b695c5bd66dcd00a07d2554d5a89d2b2db24b52" {
		t.Fatalf("unexpected canonical hash: %s", canonical)
	}

	if _, appErr := NormalizeHash("0x1234"); appErr == nil {
		t.Fatalf("expected error for short hash")
	}
}

func TestDollarsFromUnits(t *testing.T) {
	testCases := []struct {
		units    int64
		expected string
	}{
		{units: 0, expected: "0.00"},
		{units: 1_230_000, expected: "1.23"},
		{units: 5_000_000, expected: "5.00"},
		{units: 19_990, expected: "0.01"},
		{units: -2_500_000, expected: "-2.50"},
	}

	for _, testCase := range testCases {
		if actual := DollarsFromUnits(testCase.units); actual != testCase.expected {
			t.Fatalf("units %d: expected %s, got %s", testCase.units, testCase.expected, actual)
		}
	}
}

func TestNonceMetadataFromNonce(t *testing.T) {
	nonce := "0x02000000000000000000000000000001a2b3c4d5e6f708192a3b4c5d6e7f8091"
	metadata, ok := NonceMetadataFromNonce(nonce)
	if !ok {
		t.Fatalf("expected metadata for well-formed nonce")
	}
	if metadata != "0x02000000000000000000000000000001" {
		t.Fatalf("unexpected metadata: %s", metadata)
	}

	nonceType, ok := NonceMetadataType(metadata)
	if !ok || nonceType != NonceTypeCreateNote {
		t.Fatalf("expected createNote nonce type, got %d ok=%t", nonceType, ok)
	}

	if _, ok := NonceMetadataFromNonce("0x1234"); ok {
		t.Fatalf("expected no metadata for malformed nonce")
	}
}

func TestParseNoteStatusTerminal(t *testing.T) {
	confirmed, appErr := ParseNoteStatus("confirmed")
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if confirmed.IsTerminal() {
		t.Fatalf("confirmed must not be terminal")
	}

	for _, raw := range []string{"claimed", "cancelled"} {
		status, appErr := ParseNoteStatus(raw)
		if appErr != nil {
			t.Fatalf("expected no error for %s, got %+v", raw, appErr)
		}
		if !status.IsTerminal() {
			t.Fatalf("%s must be terminal", raw)
		}
	}

	if _, appErr := ParseNoteStatus("redeemed"); appErr == nil {
		t.Fatalf("expected error for unknown status")
	}
}
