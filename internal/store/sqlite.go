package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"stylo/internal/fingerprint"
)

// Schema for the snapshot store. Append-only: this subsystem issues no
// UPDATE or DELETE statements against snapshots.
const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    author_id     TEXT NOT NULL,
    timestamp_ns  INTEGER NOT NULL,
    vector        TEXT NOT NULL,
    signal_count  INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshots_author ON snapshots(author_id, timestamp_ns);
`

// authorLockStripes is the number of mutexes appends are striped over.
const authorLockStripes = 64

// Store is the SQLite snapshot store. Appends for one author are
// serialized through a striped lock so each author's history keeps a
// total temporal order; appends for different authors proceed in
// parallel.
type Store struct {
	db    *sql.DB
	locks [authorLockStripes]sync.Mutex
}

// Open opens or creates the SQLite database at the given path and
// applies the schema.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &StorageError{Op: "create database directory", Err: err}
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, &StorageError{Op: "open database", Err: err}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, &StorageError{Op: "apply schema", Err: err}
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// AppendSnapshot records a snapshot for an author and returns its ID.
func (s *Store) AppendSnapshot(authorID string, vector fingerprint.Vector, timestampNs int64) (int64, error) {
	if authorID == "" {
		return 0, ErrEmptyAuthorID
	}
	if len(vector) == 0 {
		return 0, ErrEmptyVector
	}

	encoded, err := json.Marshal(vector)
	if err != nil {
		return 0, &StorageError{Op: "encode vector", Err: err}
	}

	lock := s.authorLock(authorID)
	lock.Lock()
	defer lock.Unlock()

	result, err := s.db.Exec(`
		INSERT INTO snapshots (author_id, timestamp_ns, vector, signal_count)
		VALUES (?, ?, ?, ?)`,
		authorID, timestampNs, string(encoded), len(vector),
	)
	if err != nil {
		return 0, &StorageError{Op: "insert snapshot", Err: err}
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, &StorageError{Op: "get last insert id", Err: err}
	}
	return id, nil
}

// GetSnapshots returns an author's history oldest-first. Ties on
// timestamp fall back to insertion order.
func (s *Store) GetSnapshots(authorID string) ([]Snapshot, error) {
	rows, err := s.db.Query(`
		SELECT id, author_id, timestamp_ns, vector
		FROM snapshots
		WHERE author_id = ?
		ORDER BY timestamp_ns ASC, id ASC`,
		authorID,
	)
	if err != nil {
		return nil, &StorageError{Op: "query snapshots", Err: err}
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

// CountSnapshots returns the number of snapshots recorded for an author.
func (s *Store) CountSnapshots(authorID string) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM snapshots WHERE author_id = ?`, authorID).Scan(&count)
	if err != nil {
		return 0, &StorageError{Op: "count snapshots", Err: err}
	}
	return count, nil
}

// ListAuthors returns all author IDs with at least one snapshot, sorted.
func (s *Store) ListAuthors() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT author_id FROM snapshots ORDER BY author_id ASC`)
	if err != nil {
		return nil, &StorageError{Op: "list authors", Err: err}
	}
	defer rows.Close()

	var authors []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, &StorageError{Op: "scan author", Err: err}
		}
		authors = append(authors, id)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "iterate authors", Err: err}
	}
	return authors, nil
}

// authorLock returns the stripe mutex for an author ID.
func (s *Store) authorLock(authorID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(authorID))
	return &s.locks[h.Sum32()%authorLockStripes]
}

func scanSnapshots(rows *sql.Rows) ([]Snapshot, error) {
	var snapshots []Snapshot
	for rows.Next() {
		var (
			snap    Snapshot
			encoded string
		)
		if err := rows.Scan(&snap.ID, &snap.AuthorID, &snap.TimestampNs, &encoded); err != nil {
			return nil, &StorageError{Op: "scan snapshot", Err: err}
		}
		if err := json.Unmarshal([]byte(encoded), &snap.Vector); err != nil {
			return nil, &StorageError{Op: fmt.Sprintf("decode vector for snapshot %d", snap.ID), Err: err}
		}
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "iterate snapshots", Err: err}
	}
	return snapshots, nil
}
