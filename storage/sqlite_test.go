package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) (*SQLite, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "session.db")
	db := NewSQLite(path)
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db, path
}

func TestSQLiteSetGet(t *testing.T) {
	db, _ := openTestDB(t)

	got, err := db.Get("server")
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, db.Set("server", "https://music.example"))
	require.NoError(t, db.Set("server", "https://other.example"))

	got, err = db.Get("server")
	require.NoError(t, err)
	assert.Equal(t, "https://other.example", got)
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	db, path := openTestDB(t)
	require.NoError(t, db.Set("username", "alice"))
	require.NoError(t, db.Close())

	reopened := NewSQLite(path)
	require.NoError(t, reopened.Open())
	defer reopened.Close()

	got, err := reopened.Get("username")
	require.NoError(t, err)
	assert.Equal(t, "alice", got)
}

func TestSQLiteSetMany(t *testing.T) {
	db, _ := openTestDB(t)
	require.NoError(t, db.Set("salt", "old"))

	require.NoError(t, db.SetMany([]Entry{
		{Key: "server", Value: "https://music.example"},
		{Key: "salt", Value: "s1"},
		{Key: "salt", Value: "s2"},
	}))

	got, err := db.Get("server")
	require.NoError(t, err)
	assert.Equal(t, "https://music.example", got)
	got, err = db.Get("salt")
	require.NoError(t, err)
	assert.Equal(t, "s2", got)
}

func TestSQLiteClearRemovesAllKeys(t *testing.T) {
	db, _ := openTestDB(t)
	require.NoError(t, db.Set("server", "s"))
	require.NoError(t, db.Set("theme", "dark"))

	require.NoError(t, db.Clear())

	for _, key := range []string{"server", "theme"} {
		got, err := db.Get(key)
		require.NoError(t, err)
		assert.Empty(t, got, key)
	}
}

func TestSQLiteClosed(t *testing.T) {
	db := NewSQLite(filepath.Join(t.TempDir(), "session.db"))

	_, err := db.Get("k")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, db.Set("k", "v"), ErrClosed)
	assert.ErrorIs(t, db.SetMany([]Entry{{Key: "k", Value: "v"}}), ErrClosed)
	assert.ErrorIs(t, db.Clear(), ErrClosed)
	assert.NoError(t, db.Close())
}

func TestMemoryStore(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Set("a", "1"))
	require.NoError(t, m.Set("b", "2"))
	require.NoError(t, m.SetMany([]Entry{{Key: "b", Value: "3"}, {Key: "c", Value: "4"}}))
	assert.Equal(t, 3, m.Len())

	got, err := m.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "1", got)
	got, _ = m.Get("b")
	assert.Equal(t, "3", got)

	require.NoError(t, m.Clear())
	assert.Zero(t, m.Len())
	got, _ = m.Get("a")
	assert.Empty(t, got)
}
