package dto

import (
	"walletsync/internal/domain/entities"
)

// AccountHistoryQuery is the history-fetch RPC request.
type AccountHistoryQuery struct {
	Address       string `json:"address"`
	SinceBlockNum int64  `json:"sinceBlockNum"`
}

// AccountHistoryResult is the authoritative history since SinceBlockNum.
// LastBalance is a base-10 integer string in token smallest-units.
type AccountHistoryResult struct {
	Address       string `json:"address"`
	SinceBlockNum int64  `json:"sinceBlockNum"`

	LastBlock          int64  `json:"lastBlock"`
	LastBlockTimestamp int64  `json:"lastBlockTimestamp"`
	LastFinalizedBlock int64  `json:"lastFinalizedBlock"`
	LastBalance        string `json:"lastBalance"`

	TransferLogs  []entities.TransferOp   `json:"transferLogs"`
	NamedAccounts []entities.NamedAccount `json:"namedAccounts"`
	AccountKeys   []entities.AccountKey   `json:"accountKeys"`

	ChainGasConstants    entities.ChainGasConstants     `json:"chainGasConstants"`
	RecommendedExchanges []entities.RecommendedExchange `json:"recommendedExchanges,omitempty"`
	SuggestedActions     []entities.SuggestedAction     `json:"suggestedActions,omitempty"`
}
