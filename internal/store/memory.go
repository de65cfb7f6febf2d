package store

import (
	"sort"
	"sync"

	"stylo/internal/fingerprint"
)

// MemoryStore is an in-memory SnapshotStore for tests and one-shot
// analysis runs that need no persistence.
type MemoryStore struct {
	mu        sync.RWMutex
	nextID    int64
	snapshots map[string][]Snapshot
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string][]Snapshot)}
}

// AppendSnapshot records a snapshot for an author and returns its ID.
func (m *MemoryStore) AppendSnapshot(authorID string, vector fingerprint.Vector, timestampNs int64) (int64, error) {
	if authorID == "" {
		return 0, ErrEmptyAuthorID
	}
	if len(vector) == 0 {
		return 0, ErrEmptyVector
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	snap := Snapshot{
		ID:          m.nextID,
		AuthorID:    authorID,
		TimestampNs: timestampNs,
		Vector:      vector.Clone(),
	}

	history := append(m.snapshots[authorID], snap)
	// Keep oldest-first order even when timestamps arrive out of order.
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].TimestampNs < history[j].TimestampNs
	})
	m.snapshots[authorID] = history

	return snap.ID, nil
}

// GetSnapshots returns an author's history oldest-first.
func (m *MemoryStore) GetSnapshots(authorID string) ([]Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	history := m.snapshots[authorID]
	out := make([]Snapshot, len(history))
	copy(out, history)
	return out, nil
}

// CountSnapshots returns the number of snapshots recorded for an author.
func (m *MemoryStore) CountSnapshots(authorID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.snapshots[authorID]), nil
}

// ListAuthors returns all author IDs with at least one snapshot, sorted.
func (m *MemoryStore) ListAuthors() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	authors := make([]string, 0, len(m.snapshots))
	for id := range m.snapshots {
		authors = append(authors, id)
	}
	sort.Strings(authors)
	return authors, nil
}
