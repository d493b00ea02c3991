package use_cases

import (
	"context"
	"log"
	"math/big"
	"sort"
	"strconv"
	"strings"

	"walletsync/internal/application/dto"
	portsin "walletsync/internal/application/ports/in"
	portsout "walletsync/internal/application/ports/out"
	"walletsync/internal/domain/entities"
	"walletsync/internal/domain/policies"
	valueobjects "walletsync/internal/domain/value_objects"
	apperrors "walletsync/internal/shared_kernel/errors"
)

// Failure count seeded when the very first from-scratch sync fails, so the
// offline banner shows immediately instead of after three more ticks.
const initialSyncFailureSeed = 3

type syncAccountUseCase struct {
	accounts portsout.AccountStateAccessor
	history  portsout.AccountHistoryGateway
	network  portsout.NetworkStatusTracker
	logger   *log.Logger
}

func NewSyncAccountUseCase(
	accounts portsout.AccountStateAccessor,
	history portsout.AccountHistoryGateway,
	network portsout.NetworkStatusTracker,
	logger *log.Logger,
) portsin.SyncAccountUseCase {
	return &syncAccountUseCase{
		accounts: accounts,
		history:  history,
		network:  network,
		logger:   logger,
	}
}

func (u *syncAccountUseCase) Execute(ctx context.Context, reason string, fromScratch bool) bool {
	old, ok := u.accounts.Current()
	if !ok {
		u.logf("sync skipped reason=%s detail=no_account", reason)
		return false
	}

	sinceBlockNum := int64(0)
	if !fromScratch {
		sinceBlockNum = old.LastFinalizedBlock
		if sinceBlockNum < 0 {
			sinceBlockNum = 0
		}
	}

	result, balance, appErr := u.fetchValidated(ctx, old.Address, sinceBlockNum)
	if appErr != nil {
		if fromScratch {
			u.network.Seed(dto.NetworkState{
				Status:             dto.NetworkOffline,
				SyncAttemptsFailed: initialSyncFailureSeed,
			})
		} else {
			u.network.RecordFailure()
		}
		u.logf("sync failed reason=%s from_scratch=%t code=%s", reason, fromScratch, appErr.Code)
		return false
	}
	u.network.RecordSuccess()

	// The fetch suspended; re-read the snapshot and discard a stale result
	// rather than merge over a different account.
	current, ok := u.accounts.Current()
	if !ok || current.Address != old.Address {
		u.logf("sync discarded reason=%s detail=account_changed_in_flight", reason)
		return false
	}

	merged, applied := applySync(current, result, balance)
	if !applied {
		u.logf(
			"sync discarded reason=%s detail=finality_regression local=%d remote=%d",
			reason, current.LastFinalizedBlock, result.LastFinalizedBlock,
		)
		return true
	}

	if setErr := u.accounts.SetCurrent(ctx, &merged); setErr != nil {
		u.logf("sync failed reason=%s code=%s", reason, setErr.Code)
		return false
	}

	u.logf(
		"sync applied reason=%s from_scratch=%t since_block=%d last_block=%d transfers=%d",
		reason, fromScratch, sinceBlockNum, merged.LastBlock, len(merged.RecentTransfers),
	)
	return true
}

func (u *syncAccountUseCase) Hydrate(ctx context.Context, account entities.Account) (entities.Account, *apperrors.AppError) {
	result, balance, appErr := u.fetchValidated(ctx, account.Address, 0)
	if appErr != nil {
		return entities.Account{}, appErr
	}
	u.network.RecordSuccess()

	merged, _ := applySync(account, result, balance)
	return merged, nil
}

func (u *syncAccountUseCase) fetchValidated(
	ctx context.Context,
	address string,
	sinceBlockNum int64,
) (dto.AccountHistoryResult, *big.Int, *apperrors.AppError) {
	result, appErr := u.history.GetAccountHistory(ctx, dto.AccountHistoryQuery{
		Address:       address,
		SinceBlockNum: sinceBlockNum,
	})
	if appErr != nil {
		return dto.AccountHistoryResult{}, nil, appErr
	}

	if appErr := validateHistoryResult(address, sinceBlockNum, result); appErr != nil {
		return dto.AccountHistoryResult{}, nil, appErr
	}
	balance, appErr := valueobjects.ParseBalance(result.LastBalance)
	if appErr != nil {
		return dto.AccountHistoryResult{}, nil, appErr
	}
	return result, balance, nil
}

// validateHistoryResult rejects responses that do not answer the question
// asked. A mismatch is treated the same as a transport failure.
func validateHistoryResult(address string, sinceBlockNum int64, result dto.AccountHistoryResult) *apperrors.AppError {
	details := map[string]any{"address": address, "since_block_num": sinceBlockNum}
	switch {
	case result.Address != address:
		details["result_address"] = result.Address
		return apperrors.NewValidation("history_address_mismatch", "history response is for a different address", details)
	case result.SinceBlockNum != sinceBlockNum:
		details["result_since_block_num"] = result.SinceBlockNum
		return apperrors.NewValidation("history_since_block_mismatch", "history response answers a different range", details)
	case result.LastBlock < result.SinceBlockNum:
		details["last_block"] = result.LastBlock
		return apperrors.NewValidation("history_last_block_behind", "history last block is behind the requested range", details)
	case result.LastBlockTimestamp <= 0:
		return apperrors.NewValidation("history_timestamp_missing", "history last block timestamp is missing", details)
	case !strings.HasPrefix(result.ChainGasConstants.PaymasterAddress, "0x") ||
		len(result.ChainGasConstants.PaymasterAddress)%2 != 0:
		details["paymaster_address"] = result.ChainGasConstants.PaymasterAddress
		return apperrors.NewValidation("history_paymaster_malformed", "history paymaster address is malformed", details)
	}
	return nil
}

// applySync merges a validated history result into a snapshot. Pure; the
// second return is false when the result moved finality backwards and was
// discarded.
func applySync(old entities.Account, result dto.AccountHistoryResult, balance *big.Int) (entities.Account, bool) {
	if result.LastFinalizedBlock < old.LastFinalizedBlock {
		return old, false
	}

	// Transfers settled at or before the requested block are trusted as-is.
	// Pending ops are held aside for re-attachment; the rest is re-derived
	// from the result.
	oldSettled := make([]entities.TransferOp, 0, len(old.RecentTransfers))
	oldPending := make([]entities.TransferOp, 0)
	settledCoords := map[string]struct{}{}
	for _, t := range old.RecentTransfers {
		switch {
		case t.BlockNumber != nil && *t.BlockNumber <= result.SinceBlockNum:
			oldSettled = append(oldSettled, t)
			if t.LogIndex != nil {
				settledCoords[transferCoordinate(*t.BlockNumber, *t.LogIndex)] = struct{}{}
			}
		case t.Status == valueobjects.OpStatusPending:
			oldPending = append(oldPending, t)
		}
	}

	// The result range is inclusive of sinceBlockNum, so logs at the
	// boundary block may repeat transfers just kept above.
	fetched := make([]entities.TransferOp, 0, len(result.TransferLogs))
	for _, t := range result.TransferLogs {
		if t.BlockNumber != nil && t.LogIndex != nil {
			if _, dup := settledCoords[transferCoordinate(*t.BlockNumber, *t.LogIndex)]; dup {
				continue
			}
		}
		fetched = append(fetched, t)
	}
	sort.SliceStable(fetched, func(i, j int) bool {
		bi, bj := blockNumberOf(fetched[i]), blockNumberOf(fetched[j])
		if bi != bj {
			return bi < bj
		}
		return logIndexOf(fetched[i]) < logIndexOf(fetched[j])
	})

	merged := append(oldSettled, fetched...)
	for i := range merged {
		if merged[i].BlockNumber != nil && *merged[i].BlockNumber <= result.LastFinalizedBlock {
			merged[i].Status = valueobjects.OpStatusFinalized
		}
	}

	for _, p := range oldPending {
		if entities.FindSameOp(p.OpHash, merged) != nil {
			continue
		}
		if policies.PendingOpAlive(p.Timestamp, result.LastBlockTimestamp) {
			merged = append(merged, p)
		}
	}

	next := old
	next.RecentTransfers = merged
	next.NamedAccounts = mergeNamedAccounts(old.NamedAccounts, result.NamedAccounts, result.SinceBlockNum)
	next.PendingKeyRotation = unresolvedRotations(old.PendingKeyRotation, result.AccountKeys)

	next.LastBlock = result.LastBlock
	next.LastBlockTimestamp = result.LastBlockTimestamp
	next.LastFinalizedBlock = result.LastFinalizedBlock
	next.LastBalance = balance
	next.AccountKeys = result.AccountKeys
	next.ChainGasConstants = result.ChainGasConstants
	next.RecommendedExchanges = result.RecommendedExchanges
	next.SuggestedActions = filterDismissedActions(result.SuggestedActions, old.DismissedActionIDs)

	return next, true
}

func mergeNamedAccounts(old, fetched []entities.NamedAccount, sinceBlockNum int64) []entities.NamedAccount {
	if sinceBlockNum == 0 {
		return fetched
	}
	out := append([]entities.NamedAccount{}, old...)
	known := make(map[string]struct{}, len(old))
	for _, a := range old {
		known[a.Addr] = struct{}{}
	}
	for _, a := range fetched {
		if _, dup := known[a.Addr]; dup {
			continue
		}
		known[a.Addr] = struct{}{}
		out = append(out, a)
	}
	return out
}

func unresolvedRotations(rotations []entities.KeyRotation, keys []entities.AccountKey) []entities.KeyRotation {
	out := make([]entities.KeyRotation, 0, len(rotations))
	for _, r := range rotations {
		if !r.Resolved(keys) {
			out = append(out, r)
		}
	}
	return out
}

func filterDismissedActions(actions []entities.SuggestedAction, dismissed []string) []entities.SuggestedAction {
	if len(actions) == 0 || len(dismissed) == 0 {
		return actions
	}
	dismissedSet := make(map[string]struct{}, len(dismissed))
	for _, id := range dismissed {
		dismissedSet[id] = struct{}{}
	}
	out := make([]entities.SuggestedAction, 0, len(actions))
	for _, a := range actions {
		if _, drop := dismissedSet[a.ID]; drop {
			continue
		}
		out = append(out, a)
	}
	return out
}

func transferCoordinate(blockNumber, logIndex int64) string {
	return strconv.FormatInt(blockNumber, 10) + ":" + strconv.FormatInt(logIndex, 10)
}

func blockNumberOf(t entities.TransferOp) int64 {
	if t.BlockNumber == nil {
		return 0
	}
	return *t.BlockNumber
}

func logIndexOf(t entities.TransferOp) int64 {
	if t.LogIndex == nil {
		return 0
	}
	return *t.LogIndex
}

func (u *syncAccountUseCase) logf(format string, args ...any) {
	if u.logger != nil {
		u.logger.Printf(format, args...)
	}
}
