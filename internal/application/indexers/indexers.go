// Package indexers holds the backend indexing cores: the squared reduction
// pass over raw chain tables, the coin transfer indexer and the payment-link
// note indexer. Each instance is driven by an external polling worker with
// monotonically advancing, non-overlapping block windows; a single ingestion
// runs at a time per instance while lookups may run concurrently.
package indexers

import "strconv"

// timestampForBlock estimates wall-clock seconds for a block number using
// the chain's fixed block time.
func timestampForBlock(genesisTS, blockTimeSecs, blockNumber int64) int64 {
	return genesisTS + blockNumber*blockTimeSecs
}

// logCoordinateKey is the deterministic composite key for a
// (txHash, logIndex) coordinate. Using an encoded string rather than a
// struct keeps map lookups by freshly constructed coordinates explicit.
func logCoordinateKey(txHash string, logIndex int64) string {
	return txHash + ":" + strconv.FormatInt(logIndex, 10)
}
