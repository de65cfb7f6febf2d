package profile

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"stylo/internal/fingerprint"
)

// Parameter validation errors. Fail fast at call time; nothing is
// silently clamped.
var (
	ErrInvalidDecayFactor = errors.New("decay factor must be in (0, 1]")
	ErrInvalidThreshold   = errors.New("threshold must be non-negative")
)

// ComputeWeightedProfile aggregates a snapshot history into a single
// composite fingerprint vector. The history is ordered oldest to newest;
// internally the i-th most recent snapshot receives weight decayFactor^i,
// so the newest snapshot always has weight 1.
//
// For each signal appearing anywhere in the history the output value is
// sum(weight_i * value_i) / sum(weight_i), with missing signals counted
// as 0 and the same total weight used for every signal.
//
// As decayFactor approaches 1 the result converges to the unweighted
// mean of all snapshots; as it approaches 0, to the newest snapshot.
// An empty history yields an empty vector.
func ComputeWeightedProfile(history []Snapshot, decayFactor float64) (fingerprint.Vector, error) {
	if decayFactor <= 0 || decayFactor > 1 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidDecayFactor, decayFactor)
	}

	profile := fingerprint.Vector{}
	if len(history) == 0 {
		return profile, nil
	}

	// Walk newest-first: history is oldest-first, so index from the end.
	totalWeight := 0.0
	sums := make(map[string]float64)
	for i := 0; i < len(history); i++ {
		snap := history[len(history)-1-i]
		weight := math.Pow(decayFactor, float64(i))
		totalWeight += weight
		for signal, value := range snap.Vector {
			sums[signal] += weight * value
		}
	}

	for signal, sum := range sums {
		profile[signal] = sum / totalWeight
	}
	return profile, nil
}

// DetectDrift compares a new fingerprint vector against the weighted
// profile of a snapshot history. Pure: the only side effect is logging.
//
// Returns a no-drift result with a reason when there is no history to
// compare against or when either aligned vector is entirely zero.
// Otherwise distance is the cosine distance, drift is flagged above
// threshold, and outliers above 1.5x threshold.
func DetectDrift(newVector fingerprint.Vector, history []Snapshot, decayFactor, threshold float64, logger *slog.Logger) (*DriftResult, error) {
	if threshold < 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidThreshold, threshold)
	}
	if logger == nil {
		logger = slog.Default()
	}

	if len(history) == 0 {
		return &DriftResult{Threshold: threshold, Reason: ReasonNoHistory}, nil
	}

	weighted, err := ComputeWeightedProfile(history, decayFactor)
	if err != nil {
		return nil, err
	}

	distance, ok := fingerprint.Cosine(newVector, weighted)
	if !ok {
		logger.Debug("drift comparison skipped", "reason", ReasonDegenerateVector)
		return &DriftResult{Threshold: threshold, Reason: ReasonDegenerateVector}, nil
	}

	result := &DriftResult{
		Distance:      distance,
		DriftDetected: distance > threshold,
		IsOutlier:     distance > threshold*1.5,
		Threshold:     threshold,
	}

	logger.Debug("drift computed",
		"distance", result.Distance,
		"drift_detected", result.DriftDetected,
		"is_outlier", result.IsOutlier,
	)
	return result, nil
}
