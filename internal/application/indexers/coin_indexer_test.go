//go:build !integration

package indexers

import (
	"context"
	"testing"

	"walletsync/internal/application/dto"
	valueobjects "walletsync/internal/domain/value_objects"
)

const (
	testToken     = "0x00000000000000000000000000000000000000cc"
	testPaymaster = "0x00000000000000000000000000000000000000fa"
	addrA         = "0x00000000000000000000000000000000000000aa"
	addrB         = "0x00000000000000000000000000000000000000bb"
	addrC         = "0x00000000000000000000000000000000000000c1"
	txHash1       = "0x1111111111111111111111111111111111111111111111111111111111111111"
	txHash2       = "0x2222222222222222222222222222222222222222222222222222222222222222"
	opHashH       = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
)

func newTestCoinIndexer(repo *fakeTransferLogRepository, ops *fakeUserOpLogGateway) *CoinIndexer {
	if ops == nil {
		ops = &fakeUserOpLogGateway{ops: map[string]dto.UserOpLog{}}
	}
	return NewCoinIndexer(
		CoinIndexerConfig{
			ChainID:          84532,
			TokenAddress:     testToken,
			PaymasterAddress: testPaymaster,
			GenesisTimestamp: 1_700_000_000,
			BlockTimeSecs:    2,
		},
		repo,
		ops,
		&fakeBalanceReader{},
		nil,
	)
}

func TestCoinIndexerIngestNotifiesNewBatchOnly(t *testing.T) {
	repo := &fakeTransferLogRepository{
		rows: []dto.TransferLogRow{
			{BlockNumber: 5, TxHash: txHash1, LogIndex: 0, Token: testToken, From: addrA, To: addrB, Amount: 100},
			{BlockNumber: 11, TxHash: txHash2, LogIndex: 0, Token: testToken, From: addrB, To: addrA, Amount: 40},
		},
	}
	indexer := newTestCoinIndexer(repo, nil)

	var batches [][]dto.TransferLogRow
	indexer.AddListener(func(batch []dto.TransferLogRow) {
		batches = append(batches, batch)
	})

	if appErr := indexer.Ingest(context.Background(), 0, 10); appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if appErr := indexer.Ingest(context.Background(), 11, 20); appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}

	if len(batches) != 2 {
		t.Fatalf("expected 2 batches, got %d", len(batches))
	}
	if len(batches[0]) != 1 || batches[0][0].BlockNumber != 5 {
		t.Fatalf("unexpected first batch: %+v", batches[0])
	}
	if len(batches[1]) != 1 || batches[1][0].BlockNumber != 11 {
		t.Fatalf("unexpected second batch: %+v", batches[1])
	}
}

func TestCoinIndexerPipeAllTransfersReplaysHistory(t *testing.T) {
	repo := &fakeTransferLogRepository{
		rows: []dto.TransferLogRow{
			{BlockNumber: 3, TxHash: txHash1, LogIndex: 0, Token: testToken, From: addrA, To: addrB, Amount: 7},
		},
	}
	indexer := newTestCoinIndexer(repo, nil)
	if appErr := indexer.Ingest(context.Background(), 0, 10); appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}

	var got []dto.TransferLogRow
	indexer.PipeAllTransfers(func(batch []dto.TransferLogRow) {
		got = append(got, batch...)
	})

	if len(got) != 1 || got[0].Amount != 7 {
		t.Fatalf("expected replayed history, got %+v", got)
	}
}

func TestCoinIndexerFilterTransfersAttachesFeeAndDropsPaymaster(t *testing.T) {
	// One user op, three logs: A->B principal, B->paymaster fee,
	// paymaster->B zero refund.
	repo := &fakeTransferLogRepository{
		rows: []dto.TransferLogRow{
			{BlockNumber: 9, TxHash: txHash1, LogIndex: 1, Token: testToken, From: addrA, To: addrB, Amount: 500},
			{BlockNumber: 9, TxHash: txHash1, LogIndex: 2, Token: testToken, From: addrB, To: testPaymaster, Amount: 30},
			{BlockNumber: 9, TxHash: txHash1, LogIndex: 3, Token: testToken, From: testPaymaster, To: addrB, Amount: 0},
		},
	}
	ops := &fakeUserOpLogGateway{ops: map[string]dto.UserOpLog{
		logCoordinateKey(txHash1, 1): {OpHash: opHashH, Nonce: "0x0000000000000000000000000000000000000000000000000000000000000000"},
		logCoordinateKey(txHash1, 2): {OpHash: opHashH},
		logCoordinateKey(txHash1, 3): {OpHash: opHashH},
	}}
	indexer := newTestCoinIndexer(repo, ops)
	if appErr := indexer.Ingest(context.Background(), 0, 10); appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}

	events, appErr := indexer.FilterTransfers(context.Background(), dto.FilterTransfersQuery{Address: addrB})
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}

	if len(events) != 1 {
		t.Fatalf("expected paymaster legs dropped, got %d events", len(events))
	}
	event := events[0]
	if event.FeeAmount != 30 {
		t.Fatalf("expected net fee 30, got %d", event.FeeAmount)
	}
	if event.OpHash != opHashH {
		t.Fatalf("expected op hash attached, got %q", event.OpHash)
	}
	if event.Status != valueobjects.OpStatusConfirmed {
		t.Fatalf("expected confirmed status, got %s", event.Status)
	}
	if event.Timestamp != 1_700_000_000+9*2 {
		t.Fatalf("unexpected estimated timestamp %d", event.Timestamp)
	}
}

func TestCoinIndexerFilterTransfersBounds(t *testing.T) {
	repo := &fakeTransferLogRepository{
		rows: []dto.TransferLogRow{
			{BlockNumber: 5, TxHash: txHash1, LogIndex: 0, Token: testToken, From: addrA, To: addrB, Amount: 1},
			{BlockNumber: 15, TxHash: txHash2, LogIndex: 0, Token: testToken, From: addrB, To: addrC, Amount: 2},
			{BlockNumber: 20, TxHash: txHash1, LogIndex: 9, Token: testToken, From: addrC, To: addrA, Amount: 3},
		},
	}
	indexer := newTestCoinIndexer(repo, nil)
	if appErr := indexer.Ingest(context.Background(), 0, 30); appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}

	since, appErr := indexer.FilterTransfers(context.Background(), dto.FilterTransfersQuery{Address: addrB, SinceBlockNum: 10})
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if len(since) != 1 || since[0].Amount != 2 {
		t.Fatalf("expected only the block-15 transfer, got %+v", since)
	}

	byTx, appErr := indexer.FilterTransfers(context.Background(), dto.FilterTransfersQuery{
		Address:  addrA,
		TxHashes: []string{txHash1},
	})
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if len(byTx) != 2 {
		t.Fatalf("expected both txHash1 transfers touching addrA, got %+v", byTx)
	}
}

func TestCoinIndexerGetBalanceAtDelegates(t *testing.T) {
	reader := &fakeBalanceReader{}
	indexer := NewCoinIndexer(
		CoinIndexerConfig{ChainID: 84532, TokenAddress: testToken, PaymasterAddress: testPaymaster},
		&fakeTransferLogRepository{},
		&fakeUserOpLogGateway{ops: map[string]dto.UserOpLog{}},
		reader,
		nil,
	)

	if _, appErr := indexer.GetBalanceAt(context.Background(), addrA, 42); appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if reader.lastArg.addr != addrA || reader.lastArg.block != 42 {
		t.Fatalf("expected delegated point read, got %+v", reader.lastArg)
	}
}
