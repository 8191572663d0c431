package state_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/dll/internal/adapters/state"
	"go.trai.ch/dll/internal/core/domain"
)

var builtAt = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

func sampleSnapshot() domain.StateSnapshot {
	return domain.StateSnapshot{
		"polyfills": {
			Packages:    []string{"core-js"},
			Fingerprint: "abc",
			BuiltAt:     builtAt,
		},
		"vendor": {
			Packages:    []string{"react", "react-dom"},
			Fingerprint: "def",
			Versions:    map[string]string{"react": "18.2.0"},
			BuiltAt:     builtAt,
		},
	}
}

func TestStore_SaveLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "dll", domain.DefaultStateFileName)
	store := state.NewStore()

	require.NoError(t, store.Save(path, sampleSnapshot()))

	got, err := store.Load(path)
	require.NoError(t, err)
	assert.Equal(t, sampleSnapshot(), got)
}

func TestStore_SaveLayout(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), domain.DefaultStateFileName)
	require.NoError(t, state.NewStore().Save(path, sampleSnapshot()))

	//nolint:gosec // Test path
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "state_file", data)
}

func TestStore_Load(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		got, err := state.NewStore().Load(filepath.Join(t.TempDir(), "absent.json"))
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.NotNil(t, got)
	})

	t.Run("empty file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "state.json")
		require.NoError(t, os.WriteFile(path, nil, 0o600))

		got, err := state.NewStore().Load(path)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("null document", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "state.json")
		require.NoError(t, os.WriteFile(path, []byte("null"), 0o600))

		got, err := state.NewStore().Load(path)
		require.NoError(t, err)
		assert.NotNil(t, got)
	})

	t.Run("corrupt file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "state.json")
		require.NoError(t, os.WriteFile(path, []byte("{ invalid json"), 0o600))

		_, err := state.NewStore().Load(path)
		require.ErrorIs(t, err, domain.ErrCorruptState)
		assert.ErrorContains(t, err, path)
	})

	t.Run("wrong shape", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "state.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"vendor": "react"}`), 0o600))

		_, err := state.NewStore().Load(path)
		require.ErrorIs(t, err, domain.ErrCorruptState)
	})

	t.Run("path is a directory", func(t *testing.T) {
		t.Parallel()
		_, err := state.NewStore().Load(t.TempDir())
		require.ErrorIs(t, err, domain.ErrStateRead)
	})
}

func TestStore_Save_Overwrites(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	store := state.NewStore()

	require.NoError(t, store.Save(path, sampleSnapshot()))
	require.NoError(t, store.Save(path, domain.StateSnapshot{
		"vendor": {Packages: []string{"preact"}},
	}))

	got, err := store.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"vendor"}, got.Names())
	assert.Equal(t, []string{"preact"}, got["vendor"].Packages)
}

func TestStore_Save_LeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")
	require.NoError(t, state.NewStore().Save(path, sampleSnapshot()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "state.json", entries[0].Name())
}

func TestStore_Save_DirectoryFailure(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	blocker := filepath.Join(root, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	err := state.NewStore().Save(filepath.Join(blocker, "dll", "state.json"), sampleSnapshot())
	require.ErrorIs(t, err, domain.ErrStateDirectory)
}

func TestStore_Save_PersistFailureKeepsPrevious(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")
	store := state.NewStore()
	require.NoError(t, store.Save(path, sampleSnapshot()))

	// A directory occupying the target makes the rename fail.
	target := filepath.Join(dir, "occupied")
	require.NoError(t, os.MkdirAll(filepath.Join(target, "child"), 0o750))

	err := store.Save(target, sampleSnapshot())
	require.ErrorIs(t, err, domain.ErrStatePersist)

	got, err := store.Load(path)
	require.NoError(t, err)
	assert.Equal(t, sampleSnapshot(), got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestStore_Lock(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "dll", "state.json")
	store := state.NewStoreWithRetry(5 * time.Millisecond)

	unlock, err := store.Lock(context.Background(), path)
	require.NoError(t, err)
	assert.FileExists(t, domain.LockPath(path))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err = store.Lock(ctx, path)
	require.ErrorIs(t, err, domain.ErrStateLocked)

	require.NoError(t, unlock())

	unlock, err = store.Lock(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, unlock())
}
