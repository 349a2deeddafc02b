package storage

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveOpen(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	rel, err := store.Save("rosters/../rosters/a.csv", []byte("x,y"))
	require.NoError(t, err)
	assert.Equal(t, "rosters/a.csv", rel)

	f, err := store.Open(rel)
	require.NoError(t, err)
	defer f.Close()
	body, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "x,y", string(body))
}

func TestLocalStorageStaysInsideRoot(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStorage(root)
	require.NoError(t, err)

	rel, err := store.Save("../../etc/evil.csv", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "etc/evil.csv", rel)
	_, err = os.Stat(filepath.Join(root, "etc", "evil.csv"))
	assert.NoError(t, err)

	_, err = store.Save("", []byte("x"))
	assert.ErrorIs(t, err, ErrOutsideRoot)
}

func TestLocalStorageSweep(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	_, err = store.Save("old.csv", []byte("x"))
	require.NoError(t, err)

	store.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	removed, err := store.Sweep(time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{"old.csv"}, removed)
	require.NoError(t, store.Delete("old.csv"))
}
