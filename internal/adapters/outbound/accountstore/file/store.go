package file

import (
	"context"
	"os"
	"path/filepath"

	portsout "walletsync/internal/application/ports/out"
	apperrors "walletsync/internal/shared_kernel/errors"
)

const storeFileMode = 0o600

// Store keeps the account snapshot blob in a single file. Writes go
// through a temp file and rename so a crash mid-write never leaves a
// truncated snapshot behind.
type Store struct {
	path string
}

var _ portsout.AccountStore = (*Store)(nil)

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Load(_ context.Context) ([]byte, bool, *apperrors.AppError) {
	blob, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperrors.NewInternal(
			"account_store_read_failed",
			"failed to read account snapshot",
			map[string]any{"error": err.Error(), "path": s.path},
		)
	}
	if len(blob) == 0 {
		return nil, false, nil
	}
	return blob, true, nil
}

func (s *Store) Save(_ context.Context, blob []byte) *apperrors.AppError {
	if len(blob) == 0 {
		if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
			return apperrors.NewInternal(
				"account_store_clear_failed",
				"failed to clear account snapshot",
				map[string]any{"error": err.Error(), "path": s.path},
			)
		}
		return nil
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return apperrors.NewInternal(
			"account_store_dir_failed",
			"failed to create account snapshot directory",
			map[string]any{"error": err.Error(), "path": dir},
		)
	}

	tmp, err := os.CreateTemp(dir, ".account-*.tmp")
	if err != nil {
		return apperrors.NewInternal(
			"account_store_temp_failed",
			"failed to create temp snapshot file",
			map[string]any{"error": err.Error(), "path": dir},
		)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return apperrors.NewInternal(
			"account_store_write_failed",
			"failed to write account snapshot",
			map[string]any{"error": err.Error(), "path": tmpPath},
		)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return apperrors.NewInternal(
			"account_store_close_failed",
			"failed to close temp snapshot file",
			map[string]any{"error": err.Error(), "path": tmpPath},
		)
	}
	if err := os.Chmod(tmpPath, storeFileMode); err != nil {
		os.Remove(tmpPath)
		return apperrors.NewInternal(
			"account_store_chmod_failed",
			"failed to set snapshot file mode",
			map[string]any{"error": err.Error(), "path": tmpPath},
		)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return apperrors.NewInternal(
			"account_store_rename_failed",
			"failed to replace account snapshot",
			map[string]any{"error": err.Error(), "path": s.path},
		)
	}

	return nil
}
