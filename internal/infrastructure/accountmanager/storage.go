package accountmanager

import (
	"encoding/json"

	"walletsync/internal/domain/entities"
	valueobjects "walletsync/internal/domain/value_objects"
	apperrors "walletsync/internal/shared_kernel/errors"
)

// currentStorageVersion is bumped whenever the stored shape changes in a way
// load-time migration must handle.
const currentStorageVersion = 9

// oldestLoadableVersion is the floor below which a stored snapshot is
// discarded instead of migrated. The account re-hydrates from a full sync.
const oldestLoadableVersion = 8

// storedAccount is the on-device serialized shape of an account snapshot.
// Version 8 blobs lack pendingKeyRotation and the preVerificationGas gas
// constant; both are defaulted on load.
type storedAccount struct {
	StorageVersion int `json:"storageVersion"`

	EnclaveKeyName  string `json:"enclaveKeyName"`
	EnclavePubKey   string `json:"enclavePubKey"`
	Name            string `json:"name"`
	Address         string `json:"address"`
	HomeChainID     int64  `json:"homeChainId"`
	HomeCoinAddress string `json:"homeCoinAddress"`

	LastBlock          int64  `json:"lastBlock"`
	LastBlockTimestamp int64  `json:"lastBlockTimestamp"`
	LastBalance        string `json:"lastBalance"`
	LastFinalizedBlock int64  `json:"lastFinalizedBlock"`

	RecentTransfers    []entities.TransferOp     `json:"recentTransfers"`
	TrackedRequests    []entities.TrackedRequest `json:"trackedRequests"`
	PendingNotes       []entities.PendingNote    `json:"pendingNotes"`
	NamedAccounts      []entities.NamedAccount   `json:"namedAccounts"`
	AccountKeys        []entities.AccountKey     `json:"accountKeys"`
	PendingKeyRotation []entities.KeyRotation    `json:"pendingKeyRotation"`

	ChainGasConstants    entities.ChainGasConstants     `json:"chainGasConstants"`
	RecommendedExchanges []entities.RecommendedExchange `json:"recommendedExchanges"`
	SuggestedActions     []entities.SuggestedAction     `json:"suggestedActions"`
	DismissedActionIDs   []string                       `json:"dismissedActionIds"`

	PushToken string `json:"pushToken"`
}

// serializeAccount encodes a snapshot at the current storage version.
func serializeAccount(account entities.Account) ([]byte, *apperrors.AppError) {
	balance := "0"
	if account.LastBalance != nil {
		balance = account.LastBalance.String()
	}

	stored := storedAccount{
		StorageVersion: currentStorageVersion,

		EnclaveKeyName:  account.EnclaveKeyName,
		EnclavePubKey:   account.EnclavePubKey,
		Name:            account.Name,
		Address:         account.Address,
		HomeChainID:     account.HomeChainID,
		HomeCoinAddress: account.HomeCoinAddress,

		LastBlock:          account.LastBlock,
		LastBlockTimestamp: account.LastBlockTimestamp,
		LastBalance:        balance,
		LastFinalizedBlock: account.LastFinalizedBlock,

		RecentTransfers:    account.RecentTransfers,
		TrackedRequests:    account.TrackedRequests,
		PendingNotes:       account.PendingNotes,
		NamedAccounts:      account.NamedAccounts,
		AccountKeys:        account.AccountKeys,
		PendingKeyRotation: account.PendingKeyRotation,

		ChainGasConstants:    account.ChainGasConstants,
		RecommendedExchanges: account.RecommendedExchanges,
		SuggestedActions:     account.SuggestedActions,
		DismissedActionIDs:   account.DismissedActionIDs,

		PushToken: account.PushToken,
	}

	blob, err := json.Marshal(stored)
	if err != nil {
		return nil, apperrors.NewInternal(
			"account_serialize_failed",
			"account snapshot could not be serialized",
			map[string]any{"error": err.Error()},
		)
	}
	return blob, nil
}

// deserializeAccount decodes a stored snapshot, migrating older loadable
// versions to the current shape. ok is false when the blob is empty or too
// old to migrate; the caller starts over from a full sync.
func deserializeAccount(blob []byte) (entities.Account, bool, *apperrors.AppError) {
	if len(blob) == 0 {
		return entities.Account{}, false, nil
	}

	var stored storedAccount
	if err := json.Unmarshal(blob, &stored); err != nil {
		return entities.Account{}, false, apperrors.NewInternal(
			"account_deserialize_failed",
			"stored account snapshot could not be parsed",
			map[string]any{"error": err.Error()},
		)
	}

	if stored.StorageVersion < oldestLoadableVersion {
		return entities.Account{}, false, nil
	}
	if stored.StorageVersion > currentStorageVersion {
		return entities.Account{}, false, apperrors.NewInternal(
			"account_version_unknown",
			"stored account snapshot has a newer version than this build understands",
			map[string]any{"storage_version": stored.StorageVersion},
		)
	}

	if stored.StorageVersion < 9 {
		stored.PendingKeyRotation = []entities.KeyRotation{}
		if stored.ChainGasConstants.PreVerificationGas == "" {
			stored.ChainGasConstants.PreVerificationGas = "0"
		}
		stored.StorageVersion = 9
	}

	balance, appErr := valueobjects.ParseBalance(stored.LastBalance)
	if appErr != nil {
		return entities.Account{}, false, appErr
	}

	account := entities.Account{
		EnclaveKeyName:  stored.EnclaveKeyName,
		EnclavePubKey:   stored.EnclavePubKey,
		Name:            stored.Name,
		Address:         stored.Address,
		HomeChainID:     stored.HomeChainID,
		HomeCoinAddress: stored.HomeCoinAddress,

		LastBlock:          stored.LastBlock,
		LastBlockTimestamp: stored.LastBlockTimestamp,
		LastBalance:        balance,
		LastFinalizedBlock: stored.LastFinalizedBlock,

		RecentTransfers:    stored.RecentTransfers,
		TrackedRequests:    stored.TrackedRequests,
		PendingNotes:       stored.PendingNotes,
		NamedAccounts:      stored.NamedAccounts,
		AccountKeys:        stored.AccountKeys,
		PendingKeyRotation: stored.PendingKeyRotation,

		ChainGasConstants:    stored.ChainGasConstants,
		RecommendedExchanges: stored.RecommendedExchanges,
		SuggestedActions:     stored.SuggestedActions,
		DismissedActionIDs:   stored.DismissedActionIDs,

		PushToken: stored.PushToken,
	}
	return account, true, nil
}
