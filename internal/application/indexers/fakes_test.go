//go:build !integration

package indexers

import (
	"context"
	"math/big"

	"walletsync/internal/application/dto"
	"walletsync/internal/domain/entities"
	apperrors "walletsync/internal/shared_kernel/errors"
)

type fakeTransferLogRepository struct {
	rows  []dto.TransferLogRow
	calls [][2]int64
	err   *apperrors.AppError
}

func (f *fakeTransferLogRepository) ListTokenTransfers(
	_ context.Context,
	_ int64,
	_ string,
	fromBlock int64,
	toBlock int64,
) ([]dto.TransferLogRow, *apperrors.AppError) {
	f.calls = append(f.calls, [2]int64{fromBlock, toBlock})
	if f.err != nil {
		return nil, f.err
	}

	out := []dto.TransferLogRow{}
	for _, row := range f.rows {
		if row.BlockNumber >= fromBlock && row.BlockNumber <= toBlock {
			out = append(out, row)
		}
	}
	return out, nil
}

type fakeUserOpLogGateway struct {
	// keyed by txHash:logIndex
	ops map[string]dto.UserOpLog
}

func (f *fakeUserOpLogGateway) FetchUserOpLog(
	_ context.Context,
	txHash string,
	logIndex int64,
) (dto.UserOpLog, bool, *apperrors.AppError) {
	op, ok := f.ops[logCoordinateKey(txHash, logIndex)]
	return op, ok, nil
}

type fakeBalanceReader struct {
	balance *big.Int
	lastArg struct {
		addr  string
		block int64
	}
}

func (f *fakeBalanceReader) BalanceAt(_ context.Context, addr string, blockNumber int64) (*big.Int, *apperrors.AppError) {
	f.lastArg.addr = addr
	f.lastArg.block = blockNumber
	if f.balance == nil {
		return big.NewInt(0), nil
	}
	return f.balance, nil
}

type fakeNoteEventRepository struct {
	created  []dto.NoteCreatedRow
	redeemed []dto.NoteRedeemedRow
}

func (f *fakeNoteEventRepository) ListCreated(
	_ context.Context,
	_ int64,
	fromBlock int64,
	toBlock int64,
) ([]dto.NoteCreatedRow, *apperrors.AppError) {
	out := []dto.NoteCreatedRow{}
	for _, row := range f.created {
		if row.BlockNumber >= fromBlock && row.BlockNumber <= toBlock {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeNoteEventRepository) ListRedeemed(
	_ context.Context,
	_ int64,
	fromBlock int64,
	toBlock int64,
) ([]dto.NoteRedeemedRow, *apperrors.AppError) {
	out := []dto.NoteRedeemedRow{}
	for _, row := range f.redeemed {
		if row.BlockNumber >= fromBlock && row.BlockNumber <= toBlock {
			out = append(out, row)
		}
	}
	return out, nil
}

type fakeNameRegistry struct {
	names map[string]string
}

func (f *fakeNameRegistry) GetNamedAccount(_ context.Context, addr string) (entities.NamedAccount, *apperrors.AppError) {
	return entities.NamedAccount{Addr: addr, Name: f.names[addr]}, nil
}

func (f *fakeNameRegistry) IsTracked(_ context.Context, addr string) (bool, *apperrors.AppError) {
	_, ok := f.names[addr]
	return ok, nil
}

type fakeSquaredRepository struct {
	maxCanonical    int64
	hasCanonical    bool
	backfillCalls   int
	deleteCalls     int
	insertCalls     int
	insertedPerCall int64
}

func (f *fakeSquaredRepository) MaxCanonicalBlock(_ context.Context, _ int64) (int64, bool, *apperrors.AppError) {
	return f.maxCanonical, f.hasCanonical, nil
}

func (f *fakeSquaredRepository) MaxRawBlock(_ context.Context, _ int64) (int64, bool, *apperrors.AppError) {
	return 0, false, nil
}

func (f *fakeSquaredRepository) BackfillBlocks(_ context.Context, _, _, _, _ int64) (int64, *apperrors.AppError) {
	f.backfillCalls++
	return 0, nil
}

func (f *fakeSquaredRepository) DeleteUntrackedTransfers(_ context.Context, _, _, _ int64) (int64, *apperrors.AppError) {
	f.deleteCalls++
	return 0, nil
}

func (f *fakeSquaredRepository) InsertCanonicalTransfers(_ context.Context, _, fromBlock, toBlock, _ int64) (int64, *apperrors.AppError) {
	f.insertCalls++
	if f.insertedPerCall > 0 {
		inserted := f.insertedPerCall
		f.insertedPerCall = 0
		f.hasCanonical = true
		f.maxCanonical = toBlock
		return inserted, nil
	}
	f.hasCanonical = true
	f.maxCanonical = toBlock
	return toBlock - fromBlock + 1, nil
}
