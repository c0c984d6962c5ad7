package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		s.Close()
	}

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	var name string
	err = s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='slots'").Scan(&name)
	require.NoError(t, err, "slots table missing after idempotent opens")
	require.NoError(t, s.verifyPragma("user_version", "1"))
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open("/nonexistent/dir/test.db")
	if err == nil {
		t.Error("expected error for invalid path, got nil")
	}
}

func TestClose_NilDB(t *testing.T) {
	s := &Store{db: nil}
	if err := s.Close(); err != nil {
		t.Errorf("Close() on nil db should not error: %v", err)
	}
}

func TestPragma_JournalMode(t *testing.T) {
	s := createTestStore(t)
	if err := s.verifyPragma("journal_mode", "wal"); err != nil {
		t.Error(err)
	}
}

func TestPragma_Synchronous(t *testing.T) {
	s := createTestStore(t)
	// NORMAL = 1
	if err := s.verifyPragma("synchronous", "1"); err != nil {
		t.Error(err)
	}
}

func TestPragma_BusyTimeout(t *testing.T) {
	s := createTestStore(t)
	if err := s.verifyPragma("busy_timeout", "5000"); err != nil {
		t.Error(err)
	}
}

func TestGet_MissingSlot(t *testing.T) {
	s := createTestStore(t)

	_, err := s.Get(context.Background(), "counter")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPutGet_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "counter", []byte(`{"value":3}`)))

	data, err := s.Get(ctx, "counter")
	require.NoError(t, err)
	assert.JSONEq(t, `{"value":3}`, string(data))
}

func TestPut_Overwrites(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "order", []byte(`[1]`)))
	require.NoError(t, s.Put(ctx, "order", []byte(`[1,2]`)))

	data, err := s.Get(ctx, "order")
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(data))

	var count int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM slots").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestPut_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Put(ctx, "ledger", []byte(`{"records":[]}`)))
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	data, err := s2.Get(ctx, "ledger")
	require.NoError(t, err)
	assert.Equal(t, `{"records":[]}`, string(data))
}

func TestGet_DetectsChecksumMismatch(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "counter", []byte(`{"value":3}`)))
	_, err := s.db.Exec(`UPDATE slots SET data = '{"value":99}' WHERE key = 'counter'`)
	require.NoError(t, err)

	_, err = s.Get(ctx, "counter")
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestPut_SlotsAreIndependent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "order", []byte(`[]`)))
	require.NoError(t, s.Put(ctx, "counter", []byte(`{}`)))

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"counter", "order"}, keys)
}

func TestPut_ClosedDatabaseFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	err = s.Put(context.Background(), "order", []byte(`[]`))
	assert.Error(t, err)
}

func TestIsBusy(t *testing.T) {
	assert.True(t, isBusy(sqlite3.Error{Code: sqlite3.ErrBusy}))
	assert.True(t, isBusy(sqlite3.Error{Code: sqlite3.ErrLocked}))
	assert.False(t, isBusy(sqlite3.Error{Code: sqlite3.ErrConstraint}))
	assert.False(t, isBusy(errors.New("plain")))
	assert.False(t, isBusy(nil))
}

func TestMemory_Contract(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.Get(ctx, "order")
	assert.ErrorIs(t, err, ErrNotFound)

	buf := []byte(`[1]`)
	require.NoError(t, m.Put(ctx, "order", buf))
	buf[1] = '9'

	data, err := m.Get(ctx, "order")
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(data), "Put must copy its input")

	keys, err := m.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"order"}, keys)
}
