// Package profile implements the adaptive authorship profile engine:
// decay-weighted aggregation of fingerprint snapshot histories and
// drift detection of new writing against the aggregate.
package profile

import "stylo/internal/fingerprint"

// Snapshot is the minimal snapshot info needed for profile computation.
// The persisted form lives in the store package; an adapter converts.
type Snapshot struct {
	Vector      fingerprint.Vector
	TimestampNs int64
}

// DriftResult is the outcome of comparing a new fingerprint vector
// against an author's weighted historical profile.
type DriftResult struct {
	// Distance is the cosine distance to the weighted profile, >= 0.
	Distance float64

	// DriftDetected is true when Distance exceeds the threshold.
	DriftDetected bool

	// IsOutlier is true when Distance exceeds the stricter secondary
	// band at 1.5x the threshold.
	IsOutlier bool

	// Threshold is the caller-supplied detection threshold, echoed back.
	Threshold float64

	// Reason explains a no-drift result that was decided without a
	// distance computation ("no history", "degenerate vector").
	Reason string
}

// Reason strings for drift results decided without a distance computation.
const (
	ReasonNoHistory        = "no history"
	ReasonDegenerateVector = "degenerate vector"
)
