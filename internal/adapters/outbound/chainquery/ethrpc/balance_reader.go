package ethrpc

import (
	"context"
	"log"
	"math/big"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	portsout "walletsync/internal/application/ports/out"
	apperrors "walletsync/internal/shared_kernel/errors"
)

// balanceOf(address)
var balanceOfSelector = []byte{0x70, 0xa0, 0x82, 0x31}

// BalanceReader reads ERC-20 balances at a fixed block height over
// JSON-RPC. Balances always come from the chain, never from the indexed
// transfer log.
type BalanceReader struct {
	client  *ethclient.Client
	token   common.Address
	timeout time.Duration
	logger  *log.Logger
}

var _ portsout.BalanceReaderGateway = (*BalanceReader)(nil)

func NewBalanceReader(
	rpcURL string,
	tokenAddr string,
	timeout time.Duration,
	logger *log.Logger,
) (*BalanceReader, *apperrors.AppError) {
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, apperrors.NewInternal(
			"rpc_dial_failed",
			"failed to dial chain rpc endpoint",
			map[string]any{"error": err.Error()},
		)
	}

	return &BalanceReader{
		client:  client,
		token:   common.HexToAddress(tokenAddr),
		timeout: timeout,
		logger:  logger,
	}, nil
}

func (r *BalanceReader) BalanceAt(
	ctx context.Context,
	addr string,
	blockNumber int64,
) (*big.Int, *apperrors.AppError) {
	callCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	data := make([]byte, 0, 4+32)
	data = append(data, balanceOfSelector...)
	data = append(data, common.LeftPadBytes(common.HexToAddress(addr).Bytes(), 32)...)

	msg := ethereum.CallMsg{
		To:   &r.token,
		Data: data,
	}

	result, err := r.client.CallContract(callCtx, msg, big.NewInt(blockNumber))
	if err != nil {
		if r.logger != nil {
			r.logger.Printf("balance read failed addr=%s block=%d error=%v", addr, blockNumber, err)
		}
		return nil, apperrors.NewInternal(
			"balance_read_failed",
			"failed to read token balance",
			map[string]any{"error": err.Error(), "addr": addr, "block": blockNumber},
		)
	}

	if len(result) == 0 {
		return nil, apperrors.NewInternal(
			"balance_read_empty",
			"token balance call returned no data",
			map[string]any{"addr": addr, "block": blockNumber},
		)
	}

	return new(big.Int).SetBytes(result), nil
}

// Close releases the underlying RPC connection.
func (r *BalanceReader) Close() {
	r.client.Close()
}
