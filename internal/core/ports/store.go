package ports

import (
	"context"

	"go.trai.ch/dll/internal/core/domain"
)

// StateStore persists the bundle state snapshot.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type StateStore interface {
	// Load reads the snapshot at path.
	// A missing file yields an empty snapshot and a nil error.
	// An unparseable file yields an error matching domain.ErrCorruptState.
	Load(path string) (domain.StateSnapshot, error)

	// Save replaces the snapshot at path. A failed write leaves the previous file intact.
	Save(path string, snapshot domain.StateSnapshot) error

	// Lock acquires an exclusive lock guarding the snapshot at path.
	// The returned function releases it.
	Lock(ctx context.Context, path string) (func() error, error)
}
