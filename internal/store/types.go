// Package store provides append-only SQLite persistence for authorship
// fingerprint snapshots.
package store

import (
	"fmt"

	"stylo/internal/fingerprint"
)

// Snapshot is one timestamped fingerprint vector for one author,
// immutable once recorded. This subsystem never mutates or deletes
// snapshots; retention is an external policy.
type Snapshot struct {
	ID          int64
	AuthorID    string
	TimestampNs int64
	Vector      fingerprint.Vector
}

// SnapshotStore is the persistence contract consumed by the analysis
// engines: append a snapshot, read an author's ordered history.
type SnapshotStore interface {
	// AppendSnapshot records a snapshot and returns its ID. Concurrent
	// appends for the same author are serialized by the implementation.
	AppendSnapshot(authorID string, vector fingerprint.Vector, timestampNs int64) (int64, error)

	// GetSnapshots returns an author's history oldest-first. An unknown
	// author yields an empty history, not an error.
	GetSnapshots(authorID string) ([]Snapshot, error)
}

// StorageError wraps a failure at the storage boundary. Callers decide
// retry policy; this package never retries.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ErrEmptyVector rejects appends of empty fingerprint vectors, which
// are invalid by construction.
var ErrEmptyVector = fmt.Errorf("fingerprint vector must not be empty")

// ErrEmptyAuthorID rejects appends without an author identifier.
var ErrEmptyAuthorID = fmt.Errorf("author id must not be empty")
