//go:build integration

package integration

import (
	"path/filepath"
	"testing"
	"time"

	"stylo/internal/fingerprint"
	"stylo/internal/store"
)

// AssertNoError fails the test if err is non-nil.
func AssertNoError(t *testing.T, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: %v", msg, err)
	}
}

// AssertTrue fails the test if cond is false.
func AssertTrue(t *testing.T, cond bool, msg string) {
	t.Helper()
	if !cond {
		t.Fatalf("assertion failed: %s", msg)
	}
}

// AssertEqual fails the test if want != got.
func AssertEqual[T comparable](t *testing.T, want, got T, msg string) {
	t.Helper()
	if want != got {
		t.Fatalf("%s: want %v, got %v", msg, want, got)
	}
}

// OpenTestStore opens a SQLite store under the test's temp directory.
func OpenTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "stylo.db"))
	AssertNoError(t, err, "open store")
	t.Cleanup(func() { s.Close() })
	return s
}

// SeedHistory appends a sequence of vectors for an author, one second
// apart, oldest first.
func SeedHistory(t *testing.T, s store.SnapshotStore, author string, vectors []fingerprint.Vector) {
	t.Helper()
	base := time.Now().Add(-time.Duration(len(vectors)) * time.Second)
	for i, v := range vectors {
		_, err := s.AppendSnapshot(author, v, base.Add(time.Duration(i)*time.Second).UnixNano())
		AssertNoError(t, err, "append snapshot")
	}
}

// SteadyVector returns a fingerprint with small deterministic variation
// around a base profile, indexed by i.
func SteadyVector(i int) fingerprint.Vector {
	jitter := float64(i%3) * 0.01
	return fingerprint.Vector{
		"sentence_length": 0.62 + jitter,
		"comma_rate":      0.31 - jitter,
		"type_token":      0.48 + jitter,
		"passive_voice":   0.12,
	}
}
