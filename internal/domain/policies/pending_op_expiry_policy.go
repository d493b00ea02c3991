package policies

// A locally sent op that has not confirmed within this window of chain time
// is considered expired and dropped on merge.
const pendingOpDeadlineSecs = 120

// PendingOpAlive reports whether a pending op sent at opTimestamp should
// still be carried on the snapshot given the chain head timestamp. Both
// values are unix seconds.
func PendingOpAlive(opTimestamp, lastBlockTimestamp int64) bool {
	return opTimestamp+pendingOpDeadlineSecs > lastBlockTimestamp
}
