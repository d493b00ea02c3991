package accountmanager

import (
	"context"
	"log"
	"sort"
	"sync"

	portsout "walletsync/internal/application/ports/out"
	"walletsync/internal/domain/entities"
	apperrors "walletsync/internal/shared_kernel/errors"
)

// Listener observes snapshot replacements. A nil account means local state
// was cleared. Called synchronously, in registration order, after the new
// snapshot has been persisted and the contact cache updated.
type Listener func(account *entities.Account)

// Manager holds the single current account snapshot. All local mutation
// goes through SetCurrent or Transform; both persist before notifying.
type Manager struct {
	store    portsout.AccountStore
	contacts portsout.ContactCache
	logger   *log.Logger

	mu             sync.Mutex
	account        *entities.Account
	listeners      map[int]Listener
	nextListenerID int
}

// NewManager loads any persisted snapshot and re-persists it at the current
// storage version. A snapshot too old to migrate is discarded; the wallet
// re-onboards or re-syncs from scratch.
func NewManager(
	ctx context.Context,
	store portsout.AccountStore,
	contacts portsout.ContactCache,
	logger *log.Logger,
) (*Manager, *apperrors.AppError) {
	m := &Manager{
		store:     store,
		contacts:  contacts,
		logger:    logger,
		listeners: map[int]Listener{},
	}

	blob, ok, appErr := store.Load(ctx)
	if appErr != nil {
		return nil, appErr
	}
	if !ok {
		m.logf("account load detail=no_stored_snapshot")
		return m, nil
	}

	account, loaded, appErr := deserializeAccount(blob)
	if appErr != nil {
		return nil, appErr
	}
	if !loaded {
		m.logf("account load detail=stored_snapshot_discarded")
		return m, nil
	}

	// Write the snapshot straight back so an older stored version is
	// rewritten at the current one on startup, not on the next sync.
	if appErr := m.SetCurrent(ctx, &account); appErr != nil {
		return nil, appErr
	}
	m.logf("account load address=%s last_block=%d", account.Address, account.LastBlock)
	return m, nil
}

// Current returns the loaded snapshot by value; ok is false pre-onboarding
// or after sign-out.
func (m *Manager) Current() (entities.Account, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.account == nil {
		return entities.Account{}, false
	}
	return *m.account, true
}

// SetCurrent replaces the snapshot, persists it, refreshes the contact
// cache, then notifies listeners. A nil account clears local state.
func (m *Manager) SetCurrent(ctx context.Context, account *entities.Account) *apperrors.AppError {
	var blob []byte
	if account != nil {
		var appErr *apperrors.AppError
		blob, appErr = serializeAccount(*account)
		if appErr != nil {
			return appErr
		}
	}
	if appErr := m.store.Save(ctx, blob); appErr != nil {
		return appErr
	}

	m.mu.Lock()
	if account == nil {
		m.account = nil
	} else {
		copied := *account
		m.account = &copied
	}
	listeners := m.orderedListenersLocked()
	m.mu.Unlock()

	// Contact cache before listeners, so listeners observe a cache
	// consistent with the snapshot they receive.
	if account != nil && m.contacts != nil {
		m.contacts.CacheNamedAccounts(account.NamedAccounts)
	}

	for _, l := range listeners {
		l(account)
	}
	return nil
}

// Transform applies a pure function to the current snapshot and commits the
// result. No-op when no snapshot is loaded.
func (m *Manager) Transform(ctx context.Context, fn func(entities.Account) entities.Account) *apperrors.AppError {
	m.mu.Lock()
	if m.account == nil {
		m.mu.Unlock()
		m.logf("account transform skipped detail=no_account")
		return nil
	}
	current := *m.account
	m.mu.Unlock()

	next := fn(current)
	return m.SetCurrent(ctx, &next)
}

func (m *Manager) AddListener(listener Listener) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextListenerID
	m.nextListenerID++
	m.listeners[id] = listener
	return id
}

func (m *Manager) RemoveListener(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.listeners, id)
}

// orderedListenersLocked returns listeners in registration order. Listener
// ids are assigned from a monotonic counter, so id order is registration
// order.
func (m *Manager) orderedListenersLocked() []Listener {
	ids := make([]int, 0, len(m.listeners))
	for id := range m.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]Listener, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.listeners[id])
	}
	return out
}

func (m *Manager) logf(format string, args ...any) {
	if m.logger != nil {
		m.logger.Printf(format, args...)
	}
}
