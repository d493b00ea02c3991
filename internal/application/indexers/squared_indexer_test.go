//go:build !integration

package indexers

import (
	"context"
	"log"
	"os"
	"testing"
)

func newTestSquaredIndexer(repo *fakeSquaredRepository) *SquaredIndexer {
	return NewSquaredIndexer(
		SquaredIndexerConfig{ChainID: 84532, GenesisTimestamp: 1_700_000_000},
		repo,
		log.New(os.Stderr, "[squared-indexer-test] ", log.LstdFlags),
	)
}

func TestSquaredIndexerReduceRunsAllSteps(t *testing.T) {
	repo := &fakeSquaredRepository{}
	indexer := newTestSquaredIndexer(repo)

	if appErr := indexer.Reduce(context.Background(), 0, 100); appErr != nil {
		t.Fatalf("reduce: %v", appErr)
	}
	if repo.backfillCalls != 1 || repo.deleteCalls != 1 || repo.insertCalls != 1 {
		t.Fatalf("calls = backfill %d delete %d insert %d, want 1 each",
			repo.backfillCalls, repo.deleteCalls, repo.insertCalls)
	}
	if !repo.hasCanonical || repo.maxCanonical != 100 {
		t.Fatalf("canonical high-water = (%d, %v), want (100, true)", repo.maxCanonical, repo.hasCanonical)
	}
}

func TestSquaredIndexerReduceSkipsWhenAlreadyDone(t *testing.T) {
	repo := &fakeSquaredRepository{maxCanonical: 100, hasCanonical: true}
	indexer := newTestSquaredIndexer(repo)

	if appErr := indexer.Reduce(context.Background(), 0, 100); appErr != nil {
		t.Fatalf("reduce: %v", appErr)
	}
	if repo.backfillCalls != 0 || repo.deleteCalls != 0 || repo.insertCalls != 0 {
		t.Fatalf("skip must not touch the repository, calls = backfill %d delete %d insert %d",
			repo.backfillCalls, repo.deleteCalls, repo.insertCalls)
	}
}

func TestSquaredIndexerReduceIsIdempotent(t *testing.T) {
	repo := &fakeSquaredRepository{}
	indexer := newTestSquaredIndexer(repo)

	if appErr := indexer.Reduce(context.Background(), 0, 50); appErr != nil {
		t.Fatalf("first reduce: %v", appErr)
	}
	if appErr := indexer.Reduce(context.Background(), 0, 50); appErr != nil {
		t.Fatalf("second reduce: %v", appErr)
	}
	if repo.insertCalls != 1 {
		t.Fatalf("second pass over a reduced range must be a no-op, insert calls = %d", repo.insertCalls)
	}

	// A wider range re-runs and advances the high-water mark.
	if appErr := indexer.Reduce(context.Background(), 40, 60); appErr != nil {
		t.Fatalf("third reduce: %v", appErr)
	}
	if repo.insertCalls != 2 || repo.maxCanonical != 60 {
		t.Fatalf("wider range must re-run, insert calls = %d max = %d", repo.insertCalls, repo.maxCanonical)
	}
}
