package indexers

import (
	"context"
	"log"
	"math/big"
	"sync"
	"time"

	"walletsync/internal/application/dto"
	portsout "walletsync/internal/application/ports/out"
	"walletsync/internal/domain/entities"
	valueobjects "walletsync/internal/domain/value_objects"
	apperrors "walletsync/internal/shared_kernel/errors"
)

// TransferListener receives exactly the newly ingested batch, not the full
// history. Listeners must not mutate received rows.
type TransferListener func(batch []dto.TransferLogRow)

type CoinIndexerConfig struct {
	ChainID          int64
	TokenAddress     string
	PaymasterAddress string
	GenesisTimestamp int64
	BlockTimeSecs    int64
}

// CoinIndexer tracks transfers of the home token. It keeps an append-only
// in-memory log of canonical transfer rows and answers "all transfers
// touching address X" queries with paymaster fees attributed.
type CoinIndexer struct {
	cfg       CoinIndexerConfig
	transfers portsout.TransferLogRepository
	userOps   portsout.UserOpLogGateway
	balances  portsout.BalanceReaderGateway
	logger    *log.Logger

	mu             sync.RWMutex
	all            []dto.TransferLogRow
	listeners      map[int]TransferListener
	nextListenerID int
}

func NewCoinIndexer(
	cfg CoinIndexerConfig,
	transfers portsout.TransferLogRepository,
	userOps portsout.UserOpLogGateway,
	balances portsout.BalanceReaderGateway,
	logger *log.Logger,
) *CoinIndexer {
	return &CoinIndexer{
		cfg:       cfg,
		transfers: transfers,
		userOps:   userOps,
		balances:  balances,
		logger:    logger,
		listeners: map[int]TransferListener{},
	}
}

// Ingest loads all canonical rows for the tracked token in the inclusive
// block range, appends them to the in-memory log and notifies listeners
// with the new batch.
func (x *CoinIndexer) Ingest(ctx context.Context, fromBlock, toBlock int64) *apperrors.AppError {
	startedAt := time.Now()
	rows, appErr := x.transfers.ListTokenTransfers(ctx, x.cfg.ChainID, x.cfg.TokenAddress, fromBlock, toBlock)
	if appErr != nil {
		return appErr
	}

	x.mu.Lock()
	x.all = append(x.all, rows...)
	listeners := make([]TransferListener, 0, len(x.listeners))
	for _, l := range x.listeners {
		listeners = append(listeners, l)
	}
	x.mu.Unlock()

	if x.logger != nil {
		x.logger.Printf(
			"coin ingest from_block=%d to_block=%d loaded=%d latency_ms=%d",
			fromBlock, toBlock, len(rows), time.Since(startedAt).Milliseconds(),
		)
	}

	for _, l := range listeners {
		l(rows)
	}

	return nil
}

// AddListener subscribes to newly ingested transfer batches and returns a
// handle for RemoveListener.
func (x *CoinIndexer) AddListener(listener TransferListener) int {
	x.mu.Lock()
	defer x.mu.Unlock()
	id := x.nextListenerID
	x.nextListenerID++
	x.listeners[id] = listener
	return id
}

func (x *CoinIndexer) RemoveListener(id int) {
	x.mu.Lock()
	defer x.mu.Unlock()
	delete(x.listeners, id)
}

// PipeAllTransfers invokes listener with all past transfers, then
// subscribes it for new ones.
func (x *CoinIndexer) PipeAllTransfers(listener TransferListener) int {
	x.mu.Lock()
	history := make([]dto.TransferLogRow, len(x.all))
	copy(history, x.all)
	id := x.nextListenerID
	x.nextListenerID++
	x.listeners[id] = listener
	x.mu.Unlock()

	listener(history)
	return id
}

// FilterTransfers returns all indexed transfers touching the queried
// address as operation events: status confirmed, timestamps estimated from
// block numbers, op hash and nonce metadata resolved per log, paymaster
// legs netted into fee amounts and dropped from the output.
func (x *CoinIndexer) FilterTransfers(
	ctx context.Context,
	query dto.FilterTransfersQuery,
) ([]entities.TransferOp, *apperrors.AppError) {
	x.mu.RLock()
	relevant := make([]dto.TransferLogRow, 0)
	for _, row := range x.all {
		if !row.Touches(query.Address) {
			continue
		}
		if query.SinceBlockNum > 0 && row.BlockNumber < query.SinceBlockNum {
			continue
		}
		relevant = append(relevant, row)
	}
	x.mu.RUnlock()

	if query.TxHashes != nil {
		wanted := make(map[string]struct{}, len(query.TxHashes))
		for _, h := range query.TxHashes {
			wanted[h] = struct{}{}
		}
		kept := relevant[:0]
		for _, row := range relevant {
			if _, ok := wanted[row.TxHash]; ok {
				kept = append(kept, row)
			}
		}
		relevant = kept
	}

	withPaymaster := make([]entities.TransferOp, 0, len(relevant))
	for _, row := range relevant {
		op, appErr := x.toTransferOp(ctx, row)
		if appErr != nil {
			return nil, appErr
		}
		withPaymaster = append(withPaymaster, op)
	}

	return x.attachFeeAmounts(withPaymaster), nil
}

// GetBalanceAt reads the token balance of addr as of a block height.
func (x *CoinIndexer) GetBalanceAt(ctx context.Context, addr string, blockNumber int64) (*big.Int, *apperrors.AppError) {
	return x.balances.BalanceAt(ctx, addr, blockNumber)
}

// toTransferOp populates the per-log properties of an operation event.
// Fees span multiple logs and are attached separately.
func (x *CoinIndexer) toTransferOp(ctx context.Context, row dto.TransferLogRow) (entities.TransferOp, *apperrors.AppError) {
	blockNumber := row.BlockNumber
	logIndex := row.LogIndex

	op := entities.TransferOp{
		Type:        valueobjects.OpTypeTransfer,
		Status:      valueobjects.OpStatusConfirmed,
		From:        row.From,
		To:          row.To,
		Amount:      row.Amount,
		Timestamp:   timestampForBlock(x.cfg.GenesisTimestamp, x.cfg.BlockTimeSecs, row.BlockNumber),
		TxHash:      row.TxHash,
		BlockNumber: &blockNumber,
		BlockHash:   row.BlockHash,
		LogIndex:    &logIndex,
	}

	userOp, found, appErr := x.userOps.FetchUserOpLog(ctx, row.TxHash, row.LogIndex)
	if appErr != nil {
		return entities.TransferOp{}, appErr
	}
	if found {
		op.OpHash = userOp.OpHash
		if metadata, ok := valueobjects.NonceMetadataFromNonce(userOp.Nonce); ok {
			op.NonceMetadata = metadata
		}
	}

	return op, nil
}

// attachFeeAmounts nets amounts flowing into the paymaster as fees (and out
// of it as refunds) per op hash, drops the paymaster legs and attaches the
// net fee to each remaining event sharing the op hash.
func (x *CoinIndexer) attachFeeAmounts(ops []entities.TransferOp) []entities.TransferOp {
	feeByOpHash := make(map[string]int64)
	for _, op := range ops {
		if op.OpHash == "" {
			continue
		}
		switch x.cfg.PaymasterAddress {
		case op.To:
			feeByOpHash[op.OpHash] += op.Amount
		case op.From:
			feeByOpHash[op.OpHash] -= op.Amount
		}
	}

	out := make([]entities.TransferOp, 0, len(ops))
	for _, op := range ops {
		if op.From == x.cfg.PaymasterAddress || op.To == x.cfg.PaymasterAddress {
			continue
		}
		op.FeeAmount = feeByOpHash[op.OpHash]
		out = append(out, op)
	}

	return out
}
