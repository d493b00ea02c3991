package use_cases

import (
	"context"
	"math/big"

	"walletsync/internal/application/dto"
	portsin "walletsync/internal/application/ports/in"
	portsout "walletsync/internal/application/ports/out"
	"walletsync/internal/domain/entities"
	valueobjects "walletsync/internal/domain/value_objects"
	apperrors "walletsync/internal/shared_kernel/errors"
)

// TransferLogSource is the slice of the coin indexer the history RPC needs.
type TransferLogSource interface {
	FilterTransfers(ctx context.Context, query dto.FilterTransfersQuery) ([]entities.TransferOp, *apperrors.AppError)
	GetBalanceAt(ctx context.Context, addr string, blockNumber int64) (*big.Int, *apperrors.AppError)
}

// GetAccountHistoryConfig carries the chain parameters and the
// server-driven extras attached to every history response.
type GetAccountHistoryConfig struct {
	ChainID          int64
	GenesisTimestamp int64
	BlockTimeSecs    int64
	FinalityDepth    int64

	GasConstants         entities.ChainGasConstants
	RecommendedExchanges []entities.RecommendedExchange
	SuggestedActions     []entities.SuggestedAction
}

type getAccountHistoryUseCase struct {
	cfg       GetAccountHistoryConfig
	transfers TransferLogSource
	squared   portsout.SquaredRepository
	names     portsout.NameRegistryGateway
	keys      portsout.KeyRegistryGateway
}

func NewGetAccountHistoryUseCase(
	cfg GetAccountHistoryConfig,
	transfers TransferLogSource,
	squared portsout.SquaredRepository,
	names portsout.NameRegistryGateway,
	keys portsout.KeyRegistryGateway,
) portsin.GetAccountHistoryUseCase {
	return &getAccountHistoryUseCase{
		cfg:       cfg,
		transfers: transfers,
		squared:   squared,
		names:     names,
		keys:      keys,
	}
}

func (u *getAccountHistoryUseCase) Execute(
	ctx context.Context,
	query dto.AccountHistoryQuery,
) (dto.AccountHistoryResult, *apperrors.AppError) {
	if u.transfers == nil || u.squared == nil || u.names == nil || u.keys == nil {
		return dto.AccountHistoryResult{}, apperrors.NewInternal(
			"account_history_dependencies_missing",
			"account history use case is not fully wired",
			nil,
		)
	}

	address, appErr := valueobjects.NormalizeAddress(query.Address)
	if appErr != nil {
		return dto.AccountHistoryResult{}, appErr
	}
	if query.SinceBlockNum < 0 {
		return dto.AccountHistoryResult{}, apperrors.NewValidation(
			"since_block_num_invalid",
			"sinceBlockNum must be non-negative",
			map[string]any{"since_block_num": query.SinceBlockNum},
		)
	}

	lastBlock, ok, appErr := u.squared.MaxCanonicalBlock(ctx, u.cfg.ChainID)
	if appErr != nil {
		return dto.AccountHistoryResult{}, appErr
	}
	if !ok {
		return dto.AccountHistoryResult{}, apperrors.NewInternal(
			"canonical_index_empty",
			"no canonical transfer history has been indexed yet",
			map[string]any{"chain_id": u.cfg.ChainID},
		)
	}

	lastFinalizedBlock := lastBlock - u.cfg.FinalityDepth
	if lastFinalizedBlock < 0 {
		lastFinalizedBlock = 0
	}

	balance, appErr := u.transfers.GetBalanceAt(ctx, address, lastBlock)
	if appErr != nil {
		return dto.AccountHistoryResult{}, appErr
	}

	transferLogs, appErr := u.transfers.FilterTransfers(ctx, dto.FilterTransfersQuery{
		Address:       address,
		SinceBlockNum: query.SinceBlockNum,
	})
	if appErr != nil {
		return dto.AccountHistoryResult{}, appErr
	}

	namedAccounts, appErr := u.resolveCounterparties(ctx, address, transferLogs)
	if appErr != nil {
		return dto.AccountHistoryResult{}, appErr
	}

	accountKeys, appErr := u.keys.ListAccountKeys(ctx, address)
	if appErr != nil {
		return dto.AccountHistoryResult{}, appErr
	}

	return dto.AccountHistoryResult{
		Address:            address,
		SinceBlockNum:      query.SinceBlockNum,
		LastBlock:          lastBlock,
		LastBlockTimestamp: u.cfg.GenesisTimestamp + lastBlock*u.cfg.BlockTimeSecs,
		LastFinalizedBlock: lastFinalizedBlock,
		LastBalance:        balance.String(),

		TransferLogs:  transferLogs,
		NamedAccounts: namedAccounts,
		AccountKeys:   accountKeys,

		ChainGasConstants:    u.cfg.GasConstants,
		RecommendedExchanges: u.cfg.RecommendedExchanges,
		SuggestedActions:     u.cfg.SuggestedActions,
	}, nil
}

// resolveCounterparties names every address appearing in the transfer set,
// deduplicated in first-appearance order, self first.
func (u *getAccountHistoryUseCase) resolveCounterparties(
	ctx context.Context,
	self string,
	ops []entities.TransferOp,
) ([]entities.NamedAccount, *apperrors.AppError) {
	seen := map[string]struct{}{self: {}}
	addrs := []string{self}
	for _, op := range ops {
		for _, addr := range []string{op.From, op.To} {
			if _, dup := seen[addr]; dup {
				continue
			}
			seen[addr] = struct{}{}
			addrs = append(addrs, addr)
		}
	}

	out := make([]entities.NamedAccount, 0, len(addrs))
	for _, addr := range addrs {
		named, appErr := u.names.GetNamedAccount(ctx, addr)
		if appErr != nil {
			return nil, appErr
		}
		out = append(out, named)
	}
	return out, nil
}
