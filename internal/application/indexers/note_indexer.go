package indexers

import (
	"context"
	"log"
	"sync"
	"time"

	"walletsync/internal/application/dto"
	portsout "walletsync/internal/application/ports/out"
	"walletsync/internal/domain/entities"
	valueobjects "walletsync/internal/domain/value_objects"
	apperrors "walletsync/internal/shared_kernel/errors"
)

// NoteListener receives the batch of notes created or updated by one
// ingestion pass, creations before redemptions. Notes are copies; listeners
// must not rely on later mutation being visible.
type NoteListener func(batch []entities.Note)

type NoteIndexerConfig struct {
	ChainID int64
}

type noteEventRef struct {
	owner string
	kind  dto.NoteEventKind
}

// NoteIndexer tracks payment-link creation and redemption, keyed by the
// ephemeral owner address. Redemptions are validated hard: an unknown note,
// a terminal note or an amount mismatch indicates an upstream indexing or
// contract bug and halts ingestion.
type NoteIndexer struct {
	cfg    NoteIndexerConfig
	events portsout.NoteEventRepository
	names  portsout.NameRegistryGateway
	logger *log.Logger

	mu             sync.RWMutex
	notes          map[string]entities.Note
	ownersBySender map[string][]string
	eventsByCoord  map[string]noteEventRef
	listeners      map[int]NoteListener
	nextListenerID int
}

func NewNoteIndexer(
	cfg NoteIndexerConfig,
	events portsout.NoteEventRepository,
	names portsout.NameRegistryGateway,
	logger *log.Logger,
) *NoteIndexer {
	return &NoteIndexer{
		cfg:            cfg,
		events:         events,
		names:          names,
		logger:         logger,
		notes:          map[string]entities.Note{},
		ownersBySender: map[string][]string{},
		eventsByCoord:  map[string]noteEventRef{},
		listeners:      map[int]NoteListener{},
	}
}

// Ingest applies creation events then redemption events for the inclusive
// block range, each pass ordered by (block, tx index, log index) ascending,
// then notifies listeners once with the full batch.
func (x *NoteIndexer) Ingest(ctx context.Context, fromBlock, toBlock int64) *apperrors.AppError {
	startedAt := time.Now()

	created, appErr := x.ingestCreated(ctx, fromBlock, toBlock)
	if appErr != nil {
		return appErr
	}
	redeemed, appErr := x.ingestRedeemed(ctx, fromBlock, toBlock)
	if appErr != nil {
		return appErr
	}

	batch := append(created, redeemed...)

	x.mu.RLock()
	listeners := make([]NoteListener, 0, len(x.listeners))
	for _, l := range x.listeners {
		listeners = append(listeners, l)
	}
	x.mu.RUnlock()

	if x.logger != nil {
		x.logger.Printf(
			"note ingest from_block=%d to_block=%d created=%d redeemed=%d latency_ms=%d",
			fromBlock, toBlock, len(created), len(redeemed), time.Since(startedAt).Milliseconds(),
		)
	}

	for _, l := range listeners {
		l(batch)
	}

	return nil
}

func (x *NoteIndexer) AddListener(listener NoteListener) int {
	x.mu.Lock()
	defer x.mu.Unlock()
	id := x.nextListenerID
	x.nextListenerID++
	x.listeners[id] = listener
	return id
}

func (x *NoteIndexer) RemoveListener(id int) {
	x.mu.Lock()
	defer x.mu.Unlock()
	delete(x.listeners, id)
}

func (x *NoteIndexer) ingestCreated(ctx context.Context, fromBlock, toBlock int64) ([]entities.Note, *apperrors.AppError) {
	rows, appErr := x.events.ListCreated(ctx, x.cfg.ChainID, fromBlock, toBlock)
	if appErr != nil {
		return nil, appErr
	}

	out := make([]entities.Note, 0, len(rows))
	for _, row := range rows {
		x.mu.RLock()
		_, exists := x.notes[row.EphemeralOwner]
		x.mu.RUnlock()
		if exists {
			return nil, apperrors.NewIntegrity(
				"note_duplicate_creation",
				"note created at an already-known ephemeral owner",
				map[string]any{
					"ephemeral_owner": row.EphemeralOwner,
					"tx_hash":         row.TxHash,
					"log_idx":         row.LogIndex,
				},
			)
		}

		sender, appErr := x.names.GetNamedAccount(ctx, row.From)
		if appErr != nil {
			return nil, appErr
		}

		x.mu.Lock()
		seq := int64(len(x.ownersBySender[sender.Addr]))
		note := entities.Note{
			Status:         valueobjects.NoteStatusConfirmed,
			EphemeralOwner: row.EphemeralOwner,
			Sender:         sender,
			Dollars:        valueobjects.DollarsFromUnits(row.Amount),
			Amount:         row.Amount,
			Seq:            seq,
		}
		x.notes[row.EphemeralOwner] = note
		x.ownersBySender[sender.Addr] = append(x.ownersBySender[sender.Addr], row.EphemeralOwner)
		x.eventsByCoord[logCoordinateKey(row.TxHash, row.LogIndex)] = noteEventRef{
			owner: row.EphemeralOwner,
			kind:  dto.NoteEventCreate,
		}
		x.mu.Unlock()

		out = append(out, note)
	}

	return out, nil
}

func (x *NoteIndexer) ingestRedeemed(ctx context.Context, fromBlock, toBlock int64) ([]entities.Note, *apperrors.AppError) {
	rows, appErr := x.events.ListRedeemed(ctx, x.cfg.ChainID, fromBlock, toBlock)
	if appErr != nil {
		return nil, appErr
	}

	out := make([]entities.Note, 0, len(rows))
	for _, row := range rows {
		coordinate := map[string]any{
			"ephemeral_owner": row.EphemeralOwner,
			"tx_hash":         row.TxHash,
			"log_idx":         row.LogIndex,
		}

		x.mu.RLock()
		note, exists := x.notes[row.EphemeralOwner]
		x.mu.RUnlock()

		switch {
		case !exists:
			return nil, apperrors.NewIntegrity(
				"note_redeemed_unknown",
				"note redeemed at an unknown ephemeral owner",
				coordinate,
			)
		case note.Status.IsTerminal():
			return nil, apperrors.NewIntegrity(
				"note_redeemed_terminal",
				"note redeemed after a terminal state",
				coordinate,
			)
		case note.Amount != row.Amount:
			coordinate["created_amount"] = note.Amount
			coordinate["redeemed_amount"] = row.Amount
			return nil, apperrors.NewIntegrity(
				"note_redeemed_amount_mismatch",
				"note redeemed with a different amount than created",
				coordinate,
			)
		}

		claimer, appErr := x.names.GetNamedAccount(ctx, row.Redeemer)
		if appErr != nil {
			return nil, appErr
		}

		if row.Redeemer == row.From {
			note.Status = valueobjects.NoteStatusCancelled
		} else {
			note.Status = valueobjects.NoteStatusClaimed
		}
		note.Claimer = &claimer

		x.mu.Lock()
		x.notes[row.EphemeralOwner] = note
		x.eventsByCoord[logCoordinateKey(row.TxHash, row.LogIndex)] = noteEventRef{
			owner: row.EphemeralOwner,
			kind:  dto.NoteEventClaim,
		}
		x.mu.Unlock()

		out = append(out, note)
	}

	return out, nil
}

// GetNoteStatus looks up a note by its ephemeral owner address.
func (x *NoteIndexer) GetNoteStatus(ephemeralOwner string) (entities.Note, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	note, ok := x.notes[ephemeralOwner]
	return note, ok
}

// GetNoteBySenderSeq looks up a note by its sender and per-sender sequence
// number.
func (x *NoteIndexer) GetNoteBySenderSeq(sender string, seq int64) (entities.Note, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	owners := x.ownersBySender[sender]
	if seq < 0 || seq >= int64(len(owners)) {
		return entities.Note{}, false
	}
	note, ok := x.notes[owners[seq]]
	return note, ok
}

// GetNoteByLogCoordinate returns the note touched at (txHash, logIndex) and
// which event kind occurred there.
func (x *NoteIndexer) GetNoteByLogCoordinate(txHash string, logIndex int64) (entities.Note, dto.NoteEventKind, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	ref, ok := x.eventsByCoord[logCoordinateKey(txHash, logIndex)]
	if !ok {
		return entities.Note{}, "", false
	}
	note, ok := x.notes[ref.owner]
	if !ok {
		return entities.Note{}, "", false
	}
	return note, ref.kind, true
}
