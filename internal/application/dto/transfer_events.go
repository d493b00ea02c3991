package dto

// TransferLogRow is one canonical transfer row as stored by the squared
// reduction pass. Token is empty for native-asset transfers.
type TransferLogRow struct {
	ChainID     int64
	BlockNumber int64
	BlockHash   string
	TxIndex     int64
	TxHash      string
	LogIndex    int64
	Token       string
	From        string
	To          string
	Amount      int64
}

// Touches reports whether addr appears on either side of the transfer.
func (r TransferLogRow) Touches(addr string) bool {
	return r.From == addr || r.To == addr
}

// FilterTransfersQuery selects indexed transfers touching Address.
// SinceBlockNum bounds by block number when > 0; TxHashes, when non-nil,
// restricts to those transactions.
type FilterTransfersQuery struct {
	Address       string
	SinceBlockNum int64
	TxHashes      []string
}

// UserOpLog is the user-operation event associated with a transfer log,
// resolved by (txHash, logIndex) coordinate.
type UserOpLog struct {
	OpHash string
	Nonce  string
}
