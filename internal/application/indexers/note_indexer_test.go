//go:build !integration

package indexers

import (
	"context"
	"log"
	"os"
	"testing"

	"walletsync/internal/application/dto"
	"walletsync/internal/domain/entities"
	valueobjects "walletsync/internal/domain/value_objects"
	apperrors "walletsync/internal/shared_kernel/errors"
)

func newTestNoteIndexer(events *fakeNoteEventRepository, names *fakeNameRegistry) *NoteIndexer {
	return NewNoteIndexer(
		NoteIndexerConfig{ChainID: 84532},
		events,
		names,
		log.New(os.Stderr, "[note-indexer-test] ", log.LstdFlags),
	)
}

func TestNoteIndexerCreateAssignsPerSenderSeq(t *testing.T) {
	ownerX := "0x1000000000000000000000000000000000000001"
	ownerY := "0x1000000000000000000000000000000000000002"
	ownerZ := "0x1000000000000000000000000000000000000003"

	events := &fakeNoteEventRepository{
		created: []dto.NoteCreatedRow{
			{BlockNumber: 5, TxIndex: 0, TxHash: txHash1, LogIndex: 1, From: addrA, EphemeralOwner: ownerX, Amount: 1_500_000},
			{BlockNumber: 5, TxIndex: 1, TxHash: txHash2, LogIndex: 3, From: addrA, EphemeralOwner: ownerY, Amount: 2_000_000},
			{BlockNumber: 6, TxIndex: 0, TxHash: txHash2, LogIndex: 7, From: addrB, EphemeralOwner: ownerZ, Amount: 2_000_000},
		},
	}
	names := &fakeNameRegistry{names: map[string]string{addrA: "alice", addrB: "bob"}}
	indexer := newTestNoteIndexer(events, names)

	var batch []entities.Note
	indexer.AddListener(func(notes []entities.Note) { batch = notes })

	if appErr := indexer.Ingest(context.Background(), 0, 10); appErr != nil {
		t.Fatalf("ingest: %v", appErr)
	}
	if len(batch) != 3 {
		t.Fatalf("expected 3 notes in batch, got %d", len(batch))
	}

	noteX, ok := indexer.GetNoteStatus(ownerX)
	if !ok {
		t.Fatalf("note at %s not found", ownerX)
	}
	if noteX.Seq != 0 {
		t.Fatalf("first note from alice: seq = %d, want 0", noteX.Seq)
	}
	if noteX.Status != valueobjects.NoteStatusConfirmed {
		t.Fatalf("status = %s, want %s", noteX.Status, valueobjects.NoteStatusConfirmed)
	}
	if noteX.Sender.Name != "alice" {
		t.Fatalf("sender name = %q, want alice", noteX.Sender.Name)
	}
	if noteX.Dollars != "1.50" {
		t.Fatalf("dollars = %q, want 1.50", noteX.Dollars)
	}

	noteY, ok := indexer.GetNoteStatus(ownerY)
	if !ok || noteY.Seq != 1 {
		t.Fatalf("second note from alice: seq = %d, want 1", noteY.Seq)
	}
	noteZ, ok := indexer.GetNoteStatus(ownerZ)
	if !ok || noteZ.Seq != 0 {
		t.Fatalf("first note from bob: seq = %d, want 0", noteZ.Seq)
	}

	bySeq, ok := indexer.GetNoteBySenderSeq(addrA, 1)
	if !ok || bySeq.EphemeralOwner != ownerY {
		t.Fatalf("GetNoteBySenderSeq(alice, 1) = %q, want %q", bySeq.EphemeralOwner, ownerY)
	}
	if _, ok := indexer.GetNoteBySenderSeq(addrA, 2); ok {
		t.Fatal("GetNoteBySenderSeq(alice, 2) should not resolve")
	}

	byCoord, kind, ok := indexer.GetNoteByLogCoordinate(txHash2, 3)
	if !ok || byCoord.EphemeralOwner != ownerY || kind != dto.NoteEventCreate {
		t.Fatalf("GetNoteByLogCoordinate = (%q, %q, %v), want (%q, create, true)", byCoord.EphemeralOwner, kind, ok, ownerY)
	}
}

func TestNoteIndexerRedeemClaimedAndCancelled(t *testing.T) {
	ownerX := "0x1000000000000000000000000000000000000001"
	ownerY := "0x1000000000000000000000000000000000000002"

	events := &fakeNoteEventRepository{
		created: []dto.NoteCreatedRow{
			{BlockNumber: 5, TxHash: txHash1, LogIndex: 1, From: addrA, EphemeralOwner: ownerX, Amount: 1_500_000},
			{BlockNumber: 5, TxHash: txHash1, LogIndex: 3, From: addrA, EphemeralOwner: ownerY, Amount: 2_000_000},
		},
		redeemed: []dto.NoteRedeemedRow{
			{BlockNumber: 8, TxHash: txHash2, LogIndex: 2, From: addrA, Redeemer: addrB, EphemeralOwner: ownerX, Amount: 1_500_000},
			{BlockNumber: 9, TxHash: txHash2, LogIndex: 5, From: addrA, Redeemer: addrA, EphemeralOwner: ownerY, Amount: 2_000_000},
		},
	}
	names := &fakeNameRegistry{names: map[string]string{addrA: "alice", addrB: "bob"}}
	indexer := newTestNoteIndexer(events, names)

	var batch []entities.Note
	indexer.AddListener(func(notes []entities.Note) { batch = notes })

	if appErr := indexer.Ingest(context.Background(), 0, 10); appErr != nil {
		t.Fatalf("ingest: %v", appErr)
	}

	// Creations come before redemptions in the batch.
	if len(batch) != 4 {
		t.Fatalf("expected 4 notes in batch, got %d", len(batch))
	}
	if batch[0].Status != valueobjects.NoteStatusConfirmed || batch[2].Status == valueobjects.NoteStatusConfirmed {
		t.Fatal("batch must carry creations before redemptions")
	}

	claimed, _ := indexer.GetNoteStatus(ownerX)
	if claimed.Status != valueobjects.NoteStatusClaimed {
		t.Fatalf("redeemed by a third party: status = %s, want %s", claimed.Status, valueobjects.NoteStatusClaimed)
	}
	if claimed.Claimer == nil || claimed.Claimer.Name != "bob" {
		t.Fatalf("claimer = %+v, want bob", claimed.Claimer)
	}

	cancelled, _ := indexer.GetNoteStatus(ownerY)
	if cancelled.Status != valueobjects.NoteStatusCancelled {
		t.Fatalf("redeemed by the sender: status = %s, want %s", cancelled.Status, valueobjects.NoteStatusCancelled)
	}

	_, kind, ok := indexer.GetNoteByLogCoordinate(txHash2, 2)
	if !ok || kind != dto.NoteEventClaim {
		t.Fatalf("redemption coordinate kind = %q, want claim", kind)
	}
}

func TestNoteIndexerIntegrityErrors(t *testing.T) {
	ownerX := "0x1000000000000000000000000000000000000001"
	names := &fakeNameRegistry{names: map[string]string{addrA: "alice", addrB: "bob"}}

	t.Run("duplicate creation", func(t *testing.T) {
		events := &fakeNoteEventRepository{
			created: []dto.NoteCreatedRow{
				{BlockNumber: 5, TxHash: txHash1, LogIndex: 1, From: addrA, EphemeralOwner: ownerX, Amount: 1_000_000},
				{BlockNumber: 6, TxHash: txHash2, LogIndex: 1, From: addrB, EphemeralOwner: ownerX, Amount: 1_000_000},
			},
		}
		indexer := newTestNoteIndexer(events, names)
		appErr := indexer.Ingest(context.Background(), 0, 10)
		if !apperrors.IsIntegrity(appErr) {
			t.Fatalf("expected integrity error, got %v", appErr)
		}
		if appErr.Code != "note_duplicate_creation" {
			t.Fatalf("code = %q, want note_duplicate_creation", appErr.Code)
		}
	})

	t.Run("unknown redemption leaves state untouched", func(t *testing.T) {
		events := &fakeNoteEventRepository{
			redeemed: []dto.NoteRedeemedRow{
				{BlockNumber: 8, TxHash: txHash2, LogIndex: 2, From: addrA, Redeemer: addrB, EphemeralOwner: ownerX, Amount: 1_000_000},
			},
		}
		indexer := newTestNoteIndexer(events, names)
		appErr := indexer.Ingest(context.Background(), 0, 10)
		if !apperrors.IsIntegrity(appErr) || appErr.Code != "note_redeemed_unknown" {
			t.Fatalf("expected note_redeemed_unknown, got %v", appErr)
		}
		if _, ok := indexer.GetNoteStatus(ownerX); ok {
			t.Fatal("failed redemption must not create a note")
		}
		if _, _, ok := indexer.GetNoteByLogCoordinate(txHash2, 2); ok {
			t.Fatal("failed redemption must not record a log coordinate")
		}
	})

	t.Run("terminal redemption", func(t *testing.T) {
		events := &fakeNoteEventRepository{
			created: []dto.NoteCreatedRow{
				{BlockNumber: 5, TxHash: txHash1, LogIndex: 1, From: addrA, EphemeralOwner: ownerX, Amount: 1_000_000},
			},
			redeemed: []dto.NoteRedeemedRow{
				{BlockNumber: 8, TxHash: txHash2, LogIndex: 2, From: addrA, Redeemer: addrB, EphemeralOwner: ownerX, Amount: 1_000_000},
				{BlockNumber: 9, TxHash: txHash2, LogIndex: 4, From: addrA, Redeemer: addrC, EphemeralOwner: ownerX, Amount: 1_000_000},
			},
		}
		indexer := newTestNoteIndexer(events, names)
		appErr := indexer.Ingest(context.Background(), 0, 10)
		if !apperrors.IsIntegrity(appErr) || appErr.Code != "note_redeemed_terminal" {
			t.Fatalf("expected note_redeemed_terminal, got %v", appErr)
		}
	})

	t.Run("amount mismatch", func(t *testing.T) {
		events := &fakeNoteEventRepository{
			created: []dto.NoteCreatedRow{
				{BlockNumber: 5, TxHash: txHash1, LogIndex: 1, From: addrA, EphemeralOwner: ownerX, Amount: 1_000_000},
			},
			redeemed: []dto.NoteRedeemedRow{
				{BlockNumber: 8, TxHash: txHash2, LogIndex: 2, From: addrA, Redeemer: addrB, EphemeralOwner: ownerX, Amount: 999_999},
			},
		}
		indexer := newTestNoteIndexer(events, names)
		appErr := indexer.Ingest(context.Background(), 0, 10)
		if !apperrors.IsIntegrity(appErr) || appErr.Code != "note_redeemed_amount_mismatch" {
			t.Fatalf("expected note_redeemed_amount_mismatch, got %v", appErr)
		}
		note, _ := indexer.GetNoteStatus(ownerX)
		if note.Status != valueobjects.NoteStatusConfirmed {
			t.Fatalf("failed redemption must leave the note confirmed, got %s", note.Status)
		}
	})
}
