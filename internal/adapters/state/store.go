// Package state persists the bundle state snapshot as a single JSON file.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"go.trai.ch/dll/internal/core/domain"
	"go.trai.ch/zerr"
)

// DefaultLockRetry is the interval between attempts to acquire the state lock.
const DefaultLockRetry = 50 * time.Millisecond

// Store implements ports.StateStore using one JSON file per bundle directory.
type Store struct {
	lockRetry time.Duration
}

// NewStore creates a new state store.
func NewStore() *Store {
	return &Store{lockRetry: DefaultLockRetry}
}

// Load reads the snapshot at path.
func (s *Store) Load(path string) (domain.StateSnapshot, error) {
	//nolint:gosec // Path is derived from the resolved bundle directory
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.StateSnapshot{}, nil
		}
		return nil, errors.Join(domain.ErrStateRead, zerr.With(zerr.Wrap(err, "read state file"), "path", path))
	}

	if len(data) == 0 {
		return domain.StateSnapshot{}, nil
	}

	var snapshot domain.StateSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, errors.Join(domain.ErrCorruptState, zerr.Wrap(err, "decode state file "+path))
	}
	if snapshot == nil {
		snapshot = domain.StateSnapshot{}
	}

	return snapshot, nil
}

// Save replaces the snapshot at path. The file is written to a temporary
// sibling and renamed into place, so readers never observe a partial file.
func (s *Store) Save(path string, snapshot domain.StateSnapshot) error {
	if snapshot == nil {
		snapshot = domain.StateSnapshot{}
	}

	// encoding/json sorts map keys, so the file is stable across saves.
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return errors.Join(domain.ErrStatePersist, zerr.Wrap(err, "encode state"))
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return errors.Join(domain.ErrStateDirectory, zerr.With(zerr.Wrap(err, "create state directory"), "path", dir))
	}

	if err := writeAtomic(path, data); err != nil {
		return errors.Join(domain.ErrStatePersist, zerr.With(err, "path", path))
	}

	return nil
}

// Lock acquires an exclusive advisory lock on the file next to path.
// It waits until the lock is free or ctx is done.
func (s *Store) Lock(ctx context.Context, path string) (func() error, error) {
	lockPath := domain.LockPath(path)
	if err := os.MkdirAll(filepath.Dir(lockPath), domain.DirPerm); err != nil {
		return nil, errors.Join(domain.ErrStateDirectory, zerr.With(zerr.Wrap(err, "create state directory"), "path", filepath.Dir(lockPath)))
	}

	fileLock := flock.New(lockPath, flock.SetPermissions(domain.FilePerm))
	locked, err := fileLock.TryLockContext(ctx, s.lockRetry)
	if err != nil {
		return nil, errors.Join(domain.ErrStateLocked, zerr.With(zerr.Wrap(err, "acquire state lock"), "path", lockPath))
	}
	if !locked {
		return nil, errors.Join(domain.ErrStateLocked, zerr.With(zerr.New("lock not acquired"), "path", lockPath))
	}

	return func() error {
		if err := fileLock.Unlock(); err != nil {
			return zerr.With(zerr.Wrap(err, "release state lock"), "path", lockPath)
		}
		return nil
	}, nil
}

func writeAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return zerr.Wrap(err, "create temp file")
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return zerr.Wrap(err, "write temp file")
	}
	if err = tmp.Sync(); err != nil {
		return zerr.Wrap(err, "sync temp file")
	}
	if err = tmp.Chmod(domain.FilePerm); err != nil {
		return zerr.Wrap(err, "chmod temp file")
	}
	if err = tmp.Close(); err != nil {
		return zerr.Wrap(err, "close temp file")
	}
	if err = os.Rename(tmpName, path); err != nil {
		return zerr.Wrap(err, "rename temp file")
	}

	return nil
}
