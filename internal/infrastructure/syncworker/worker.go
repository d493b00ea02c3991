package syncworker

import (
	"context"
	"log"
	"sync"
	"time"

	"walletsync/internal/application/dto"
	portsin "walletsync/internal/application/ports/in"
	portsout "walletsync/internal/application/ports/out"
)

const (
	// Tick quickly, decide cheaply; most ticks skip.
	tickInterval = time.Second

	baseSyncInterval = 10 * time.Second
	fastSyncInterval = time.Second

	// A push notification means new history is waiting; keep syncing
	// eagerly while it is fresh.
	pushSyncWindow = 10 * time.Second
)

// Worker drives the sync loop: one ticker, one decision per tick. The first
// tick always syncs from scratch; afterwards the effective interval
// shortens whenever local pending state or recent failures warrant it.
type Worker struct {
	enabled  bool
	useCase  portsin.SyncAccountUseCase
	accounts portsout.AccountStateAccessor
	network  portsout.NetworkStatusTracker
	logger   *log.Logger

	mu            sync.Mutex
	hasSyncedOnce bool
	lastAttempt   time.Time
	lastPush      time.Time
}

func NewWorker(
	enabled bool,
	useCase portsin.SyncAccountUseCase,
	accounts portsout.AccountStateAccessor,
	network portsout.NetworkStatusTracker,
	logger *log.Logger,
) *Worker {
	return &Worker{
		enabled:  enabled,
		useCase:  useCase,
		accounts: accounts,
		network:  network,
		logger:   logger,
	}
}

func (w *Worker) Enabled() bool {
	return w != nil && w.enabled
}

// NotePushNotification marks a push arrival; upcoming ticks inside the push
// window sync immediately. Callable from any goroutine.
func (w *Worker) NotePushNotification() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastPush = time.Now()
}

func (w *Worker) Start(ctx context.Context) {
	if w == nil || !w.enabled || w.useCase == nil {
		return
	}

	w.logf("sync worker started tick=%s base_interval=%s fast_interval=%s", tickInterval, baseSyncInterval, fastSyncInterval)

	w.runTick(ctx, time.Now())
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logf("sync worker stopped")
			return
		case <-ticker.C:
			w.runTick(ctx, time.Now())
		}
	}
}

func (w *Worker) runTick(ctx context.Context, now time.Time) {
	reason, fromScratch, due := w.decide(now)
	if !due {
		return
	}

	ok := w.useCase.Execute(ctx, reason, fromScratch)

	w.mu.Lock()
	w.hasSyncedOnce = true
	w.lastAttempt = now
	w.mu.Unlock()

	if !ok {
		w.logf("sync attempt failed reason=%s", reason)
	}
}

// decide applies the scheduling policy for one tick.
func (w *Worker) decide(now time.Time) (reason string, fromScratch bool, due bool) {
	w.mu.Lock()
	hasSyncedOnce := w.hasSyncedOnce
	lastAttempt := w.lastAttempt
	lastPush := w.lastPush
	w.mu.Unlock()

	if !hasSyncedOnce {
		return "boot", true, true
	}
	if !lastPush.IsZero() && now.Sub(lastPush) <= pushSyncWindow {
		return "push", false, true
	}
	if now.Sub(lastAttempt) > w.currentInterval() {
		return "interval", false, true
	}
	return "", false, false
}

// currentInterval shortens the resync interval while anything is worth
// confirming quickly: unconfirmed local ops, or an online network that has
// just failed and should retry promptly.
func (w *Worker) currentInterval() time.Duration {
	if w.accounts != nil {
		if account, ok := w.accounts.Current(); ok && account.HasPendingOps() {
			return fastSyncInterval
		}
	}
	if w.network != nil {
		state := w.network.Snapshot()
		if state.Status == dto.NetworkOnline && state.SyncAttemptsFailed > 0 {
			return fastSyncInterval
		}
	}
	return baseSyncInterval
}

func (w *Worker) logf(format string, args ...any) {
	if w.logger == nil {
		return
	}
	w.logger.Printf(format, args...)
}
