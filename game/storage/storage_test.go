package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openBackends(t *testing.T) map[string]Backend {
	t.Helper()
	dir := t.TempDir()

	backends := make(map[string]Backend)
	for _, name := range Backends() {
		store, err := Open(name, filepath.Join(dir, name))
		require.NoError(t, err, "open %s", name)
		t.Cleanup(func() { store.Close() })
		backends[name] = store
	}
	return backends
}

func TestBackends_GetMissingKey(t *testing.T) {
	for name, store := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get("myimmortalreincarnation")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestBackends_SetOverwrites(t *testing.T) {
	for name, store := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set("save", "first"))
			require.NoError(t, store.Set("save", "second"))

			value, err := store.Get("save")
			require.NoError(t, err)
			assert.Equal(t, "second", value)
		})
	}
}

func TestBackends_KeysAreIndependent(t *testing.T) {
	for name, store := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set("a", "alpha"))
			require.NoError(t, store.Set("b", "beta"))

			a, err := store.Get("a")
			require.NoError(t, err)
			b, err := store.Get("b")
			require.NoError(t, err)
			assert.Equal(t, "alpha", a)
			assert.Equal(t, "beta", b)
		})
	}
}

func TestBackends_EmptyKeyRejected(t *testing.T) {
	for name, store := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, store.Set("  ", "x"), ErrInvalidKey)
			_, err := store.Get("")
			assert.ErrorIs(t, err, ErrInvalidKey)
		})
	}
}

func TestBackends_PersistAcrossReopen(t *testing.T) {
	for _, name := range []string{BackendFile, BackendBolt, BackendSQLite} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "data")

			store, err := Open(name, path)
			require.NoError(t, err)
			require.NoError(t, store.Set("save", "eyJjdWx0aXZhdG9yIjp7fX0"))
			require.NoError(t, store.Close())

			reopened, err := Open(name, path)
			require.NoError(t, err)
			defer reopened.Close()

			value, err := reopened.Get("save")
			require.NoError(t, err)
			assert.Equal(t, "eyJjdWx0aXZhdG9yIjp7fX0", value)
		})
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open("localstorage", t.TempDir())
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestFileStore_RejectsPathKeys(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	assert.ErrorIs(t, store.Set("../escape", "x"), ErrInvalidKey)
	_, err = store.Get("nested/key")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestFileStore_Layout(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("myimmortalreincarnation", "payload"))

	assert.FileExists(t, filepath.Join(dir, "myimmortalreincarnation.txt"))
	matches, err := filepath.Glob(filepath.Join(dir, ".myimmortalreincarnation.*"))
	require.NoError(t, err)
	assert.Empty(t, matches, "temp files should be renamed away")
}

func TestMemoryStore_Closed(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set("k", "v"))
	require.NoError(t, store.Close())

	_, err := store.Get("k")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, store.Set("k", "v"), ErrClosed)
}

func TestBoltStore_ClosedHandle(t *testing.T) {
	store, err := OpenBolt(filepath.Join(t.TempDir(), "closed.db"))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	assert.ErrorIs(t, store.Set("k", "v"), ErrClosed)
	assert.NoError(t, store.Close())
}

func TestSQLiteStore_RequiresPath(t *testing.T) {
	_, err := OpenSQLite("   ")
	assert.Error(t, err)
}
