// This file wires the profile engine to a snapshot store and provides
// the convenience drift check over an author's most recent snapshot.

package profile

import (
	"fmt"
	"log/slog"

	"stylo/internal/fingerprint"
	"stylo/internal/store"
)

// DefaultDecayFactor is the exponential discount applied to older
// snapshots when no explicit factor is configured.
const DefaultDecayFactor = 0.5

// SnapshotSource is the narrow store contract the engine depends on.
// *store.Store and *store.MemoryStore both satisfy it.
type SnapshotSource interface {
	GetSnapshots(authorID string) ([]store.Snapshot, error)
}

// Engine computes weighted profiles and drift for authors whose snapshot
// histories live in a store. Construct once and share; the engine holds
// no mutable state beyond its configuration.
type Engine struct {
	source SnapshotSource
	decay  float64
	logger *slog.Logger
}

// NewEngine creates a profile engine bound to a snapshot source.
func NewEngine(source SnapshotSource, decayFactor float64, logger *slog.Logger) (*Engine, error) {
	if decayFactor <= 0 || decayFactor > 1 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidDecayFactor, decayFactor)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{source: source, decay: decayFactor, logger: logger}, nil
}

// StoredToHistory converts persisted snapshots to the engine's history
// form. The store returns snapshots oldest-first, which is the order the
// history form requires.
func StoredToHistory(snapshots []store.Snapshot) []Snapshot {
	history := make([]Snapshot, len(snapshots))
	for i, s := range snapshots {
		history[i] = Snapshot{
			Vector:      s.Vector,
			TimestampNs: s.TimestampNs,
		}
	}
	return history
}

// WeightedProfile fetches an author's full history and aggregates it
// with the engine's decay factor.
func (e *Engine) WeightedProfile(authorID string) (fingerprint.Vector, error) {
	snapshots, err := e.source.GetSnapshots(authorID)
	if err != nil {
		return nil, fmt.Errorf("fetch history for %q: %w", authorID, err)
	}
	return ComputeWeightedProfile(StoredToHistory(snapshots), e.decay)
}

// DetectDrift compares a new fingerprint vector against an author's
// stored history using the engine's decay factor.
func (e *Engine) DetectDrift(authorID string, newVector fingerprint.Vector, threshold float64) (*DriftResult, error) {
	snapshots, err := e.source.GetSnapshots(authorID)
	if err != nil {
		return nil, fmt.Errorf("fetch history for %q: %w", authorID, err)
	}
	return DetectDrift(newVector, StoredToHistory(snapshots), e.decay, threshold, e.logger)
}

// DetectRecentDrift checks whether an author's newest snapshot drifts
// from the weighted profile of all snapshots that precede it. With fewer
// than 2 snapshots there is no baseline to deviate from, so the result
// is (false, 0).
func (e *Engine) DetectRecentDrift(authorID string, threshold float64) (bool, float64, error) {
	snapshots, err := e.source.GetSnapshots(authorID)
	if err != nil {
		return false, 0, fmt.Errorf("fetch history for %q: %w", authorID, err)
	}
	if len(snapshots) < 2 {
		return false, 0, nil
	}

	history := StoredToHistory(snapshots)
	newest := history[len(history)-1]
	prior := history[:len(history)-1]

	result, err := DetectDrift(newest.Vector, prior, e.decay, threshold, e.logger)
	if err != nil {
		return false, 0, err
	}

	e.logger.Info("recent drift check",
		"author_id", authorID,
		"distance", result.Distance,
		"drift_detected", result.DriftDetected,
	)
	return result.DriftDetected, result.Distance, nil
}
