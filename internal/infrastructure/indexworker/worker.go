package indexworker

import (
	"context"
	"log"
	"time"

	portsout "walletsync/internal/application/ports/out"
	apperrors "walletsync/internal/shared_kernel/errors"
)

// Reducer is the squared reduction pass for one block window.
type Reducer interface {
	Reduce(ctx context.Context, fromBlock, toBlock int64) *apperrors.AppError
}

// Ingestor consumes one reduced block window into an in-memory index.
type Ingestor interface {
	Ingest(ctx context.Context, fromBlock, toBlock int64) *apperrors.AppError
}

type Config struct {
	Enabled       bool
	ChainID       int64
	StartBlock    int64
	BatchBlocks   int64
	PollInterval  time.Duration
	WindowTimeout time.Duration
}

// Worker advances the indexing pipeline from the last processed block to
// the raw-table tip, one bounded window at a time: reduce first, then each
// ingestor in order. A transient error retries the same window next cycle;
// an integrity error halts the pipeline until an operator intervenes.
type Worker struct {
	cfg       Config
	repo      portsout.SquaredRepository
	reducer   Reducer
	ingestors []Ingestor
	logger    *log.Logger

	initialized   bool
	lastProcessed int64
	halted        bool
}

func NewWorker(
	cfg Config,
	repo portsout.SquaredRepository,
	reducer Reducer,
	ingestors []Ingestor,
	logger *log.Logger,
) *Worker {
	return &Worker{
		cfg:       cfg,
		repo:      repo,
		reducer:   reducer,
		ingestors: ingestors,
		logger:    logger,
	}
}

func (w *Worker) Enabled() bool {
	return w != nil && w.cfg.Enabled
}

func (w *Worker) Start(ctx context.Context) {
	if w == nil || !w.cfg.Enabled || w.reducer == nil {
		return
	}

	w.logf(
		"index worker started chain_id=%d start_block=%d batch_blocks=%d poll_interval=%s",
		w.cfg.ChainID, w.cfg.StartBlock, w.cfg.BatchBlocks, w.cfg.PollInterval,
	)

	w.runCycle(ctx)
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logf("index worker stopped")
			return
		case <-ticker.C:
			w.runCycle(ctx)
		}
	}
}

func (w *Worker) runCycle(ctx context.Context) {
	if w.halted {
		return
	}

	if !w.initialized {
		if appErr := w.initCursor(ctx); appErr != nil {
			w.logf("index cursor init failed code=%s message=%s", appErr.Code, appErr.Message)
			return
		}
	}

	tip, ok, appErr := w.repo.MaxRawBlock(ctx, w.cfg.ChainID)
	if appErr != nil {
		w.logf("index tip lookup failed code=%s message=%s", appErr.Code, appErr.Message)
		return
	}
	if !ok || tip <= w.lastProcessed {
		return
	}

	for w.lastProcessed < tip {
		fromBlock := w.lastProcessed + 1
		toBlock := fromBlock + w.cfg.BatchBlocks - 1
		if toBlock > tip {
			toBlock = tip
		}

		if appErr := w.processWindow(ctx, fromBlock, toBlock); appErr != nil {
			if apperrors.IsIntegrity(appErr) {
				w.halted = true
				w.logf(
					"index pipeline halted from_block=%d to_block=%d code=%s message=%s details=%v",
					fromBlock, toBlock, appErr.Code, appErr.Message, appErr.Details,
				)
				return
			}
			w.logf(
				"index window failed from_block=%d to_block=%d code=%s message=%s",
				fromBlock, toBlock, appErr.Code, appErr.Message,
			)
			return
		}
		w.lastProcessed = toBlock
	}
}

func (w *Worker) processWindow(ctx context.Context, fromBlock, toBlock int64) *apperrors.AppError {
	wctx := ctx
	if w.cfg.WindowTimeout > 0 {
		var cancel context.CancelFunc
		wctx, cancel = context.WithTimeout(ctx, w.cfg.WindowTimeout)
		defer cancel()
	}

	if appErr := w.reducer.Reduce(wctx, fromBlock, toBlock); appErr != nil {
		return appErr
	}
	for _, ingestor := range w.ingestors {
		if appErr := ingestor.Ingest(wctx, fromBlock, toBlock); appErr != nil {
			return appErr
		}
	}
	return nil
}

// initCursor resumes from the canonical table's high-water mark, so a
// restarted worker does not re-ingest from the chain start.
func (w *Worker) initCursor(ctx context.Context) *apperrors.AppError {
	maxBlock, ok, appErr := w.repo.MaxCanonicalBlock(ctx, w.cfg.ChainID)
	if appErr != nil {
		return appErr
	}

	cursor := w.cfg.StartBlock - 1
	if ok && maxBlock > cursor {
		cursor = maxBlock
	}
	w.lastProcessed = cursor
	w.initialized = true
	w.logf("index cursor initialized last_processed=%d", cursor)
	return nil
}

func (w *Worker) logf(format string, args ...any) {
	if w.logger == nil {
		return
	}
	w.logger.Printf(format, args...)
}
