package store

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stylo/internal/fingerprint"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenCreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "nested", "test.db")

	s, err := Open(dbPath)
	require.NoError(t, err)
	defer s.Close()
}

func TestCloseNilDB(t *testing.T) {
	s := &Store{}
	assert.NoError(t, s.Close())
}

func TestAppendAndGetSnapshots(t *testing.T) {
	s := openTestStore(t)

	v1 := fingerprint.Vector{"anger": 0.3, "trust": 0.7}
	v2 := fingerprint.Vector{"anger": 0.4, "trust": 0.6, "joy": 0.1}

	id1, err := s.AppendSnapshot("alice", v1, 100)
	require.NoError(t, err)
	id2, err := s.AppendSnapshot("alice", v2, 200)
	require.NoError(t, err)
	assert.Greater(t, id2, id1)

	history, err := s.GetSnapshots("alice")
	require.NoError(t, err)
	require.Len(t, history, 2)

	assert.Equal(t, "alice", history[0].AuthorID)
	assert.Equal(t, int64(100), history[0].TimestampNs)
	assert.Equal(t, v1, history[0].Vector)
	assert.Equal(t, v2, history[1].Vector)
}

func TestGetSnapshotsOrderedByTimestamp(t *testing.T) {
	s := openTestStore(t)

	// Insert out of timestamp order.
	_, err := s.AppendSnapshot("bob", fingerprint.Vector{"trust": 0.9}, 300)
	require.NoError(t, err)
	_, err = s.AppendSnapshot("bob", fingerprint.Vector{"trust": 0.1}, 100)
	require.NoError(t, err)
	_, err = s.AppendSnapshot("bob", fingerprint.Vector{"trust": 0.5}, 200)
	require.NoError(t, err)

	history, err := s.GetSnapshots("bob")
	require.NoError(t, err)
	require.Len(t, history, 3)

	for i := 1; i < len(history); i++ {
		assert.LessOrEqual(t, history[i-1].TimestampNs, history[i].TimestampNs)
	}
}

func TestGetSnapshotsUnknownAuthor(t *testing.T) {
	s := openTestStore(t)

	history, err := s.GetSnapshots("nobody")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestAppendSnapshotRejectsEmptyVector(t *testing.T) {
	s := openTestStore(t)

	_, err := s.AppendSnapshot("alice", fingerprint.Vector{}, 100)
	assert.ErrorIs(t, err, ErrEmptyVector)
}

func TestAppendSnapshotRejectsEmptyAuthor(t *testing.T) {
	s := openTestStore(t)

	_, err := s.AppendSnapshot("", fingerprint.Vector{"trust": 1}, 100)
	assert.ErrorIs(t, err, ErrEmptyAuthorID)
}

func TestCountAndListAuthors(t *testing.T) {
	s := openTestStore(t)

	_, err := s.AppendSnapshot("alice", fingerprint.Vector{"trust": 1}, 100)
	require.NoError(t, err)
	_, err = s.AppendSnapshot("alice", fingerprint.Vector{"trust": 2}, 200)
	require.NoError(t, err)
	_, err = s.AppendSnapshot("bob", fingerprint.Vector{"trust": 3}, 300)
	require.NoError(t, err)

	count, err := s.CountSnapshots("alice")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	authors, err := s.ListAuthors()
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, authors)
}

func TestConcurrentAppendsDifferentAuthors(t *testing.T) {
	s := openTestStore(t)

	const perAuthor = 20
	var wg sync.WaitGroup
	errs := make(chan error, 3*perAuthor)

	for _, author := range []string{"alice", "bob", "carol"} {
		wg.Add(1)
		go func(author string) {
			defer wg.Done()
			for i := 0; i < perAuthor; i++ {
				_, err := s.AppendSnapshot(author, fingerprint.Vector{"trust": float64(i)}, int64(i))
				if err != nil {
					errs <- err
				}
			}
		}(author)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent append failed: %v", err)
	}

	for _, author := range []string{"alice", "bob", "carol"} {
		count, err := s.CountSnapshots(author)
		require.NoError(t, err)
		assert.Equal(t, perAuthor, count)
	}
}

func TestStorageErrorUnwrap(t *testing.T) {
	inner := errors.New("disk full")
	err := &StorageError{Op: "insert snapshot", Err: inner}

	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "insert snapshot")
}

func TestMemoryStoreMatchesSQLiteBehavior(t *testing.T) {
	stores := map[string]SnapshotStore{
		"sqlite": openTestStore(t),
		"memory": NewMemoryStore(),
	}

	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			_, err := s.AppendSnapshot("", fingerprint.Vector{"x": 1}, 1)
			assert.ErrorIs(t, err, ErrEmptyAuthorID)

			_, err = s.AppendSnapshot("dan", fingerprint.Vector{}, 1)
			assert.ErrorIs(t, err, ErrEmptyVector)

			for i := 0; i < 5; i++ {
				_, err := s.AppendSnapshot("dan", fingerprint.Vector{"trust": float64(i)}, int64(5-i))
				require.NoError(t, err)
			}

			history, err := s.GetSnapshots("dan")
			require.NoError(t, err)
			require.Len(t, history, 5)
			for i := 1; i < len(history); i++ {
				assert.LessOrEqual(t, history[i-1].TimestampNs, history[i].TimestampNs,
					fmt.Sprintf("history out of order at %d", i))
			}

			empty, err := s.GetSnapshots("nobody")
			require.NoError(t, err)
			assert.Empty(t, empty)
		})
	}
}
