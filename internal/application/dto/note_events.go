package dto

// NoteCreatedRow is one note-creation log loaded from storage, ordered by
// (block, tx index, log index).
type NoteCreatedRow struct {
	ChainID        int64
	BlockNumber    int64
	TxIndex        int64
	TxHash         string
	LogIndex       int64
	From           string
	EphemeralOwner string
	Amount         int64
}

// NoteRedeemedRow is one note-redemption log loaded from storage.
type NoteRedeemedRow struct {
	ChainID        int64
	BlockNumber    int64
	TxIndex        int64
	TxHash         string
	LogIndex       int64
	From           string
	Redeemer       string
	EphemeralOwner string
	Amount         int64
}

// NoteEventKind is which note event occurred at a log coordinate.
type NoteEventKind string

const (
	NoteEventCreate NoteEventKind = "create"
	NoteEventClaim  NoteEventKind = "claim"
)
