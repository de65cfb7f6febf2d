// Package impostors implements bootstrap authorship verification: the
// suspect's stylistic distance to the target is repeatedly compared,
// over random feature subsets, against a pool of impostor profiles. The
// fraction of rounds the suspect wins is the verification confidence.
package impostors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sort"

	"stylo/internal/textutil"
)

// Parameter and input errors.
var (
	ErrInsufficientCandidates = errors.New("insufficient candidates")
	ErrInvalidIterations      = errors.New("iterations must be a positive integer")
	ErrInvalidSubsetSize      = errors.New("subset size must be a positive integer")
	ErrEmptyVocabulary        = errors.New("vocabulary must not be empty")
)

// VerifiedThreshold is the confidence level at and above which a claim
// counts as verified.
const VerifiedThreshold = 0.5

// Vocabulary maps terms to raw occurrence counts.
type Vocabulary map[string]int

// VocabularyFromText builds a Vocabulary by tokenizing raw text.
func VocabularyFromText(text string) Vocabulary {
	return Vocabulary(textutil.TermCounts(text))
}

// Result is the outcome of a verification run.
type Result struct {
	// Confidence is the fraction of bootstrap rounds the suspect was
	// strictly closer to the target than every impostor, in [0, 1].
	Confidence float64 `json:"confidence"`

	// Verified is true when Confidence >= VerifiedThreshold.
	Verified bool `json:"verified"`

	SuspectWins   int `json:"suspect_wins"`
	Iterations    int `json:"iterations"`
	ImpostorCount int `json:"impostor_count"`
}

// Options control a verification run. Seed fixes the random source so
// runs are reproducible; two runs with identical inputs and seed return
// identical results.
type Options struct {
	Iterations int
	SubsetSize int
	Seed       int64
}

// Verify runs the impostors bootstrap. Each iteration draws SubsetSize
// terms without replacement from the union vocabulary of target,
// suspect, and pool, then counts a suspect win when the suspect's
// normalized distance to the target over that subset is strictly below
// every impostor's. SubsetSize larger than the union vocabulary is
// clamped to it (the one documented clamp; everything else fails fast).
//
// Cancellation is checked between iterations; a cancelled run returns
// ctx.Err() and no partial result.
func Verify(ctx context.Context, target, suspect Vocabulary, pool []Vocabulary, opts Options, logger *slog.Logger) (*Result, error) {
	if opts.Iterations <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidIterations, opts.Iterations)
	}
	if opts.SubsetSize <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSubsetSize, opts.SubsetSize)
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("%w: impostor pool is empty", ErrInsufficientCandidates)
	}
	if len(target) == 0 || len(suspect) == 0 {
		return nil, ErrEmptyVocabulary
	}
	if logger == nil {
		logger = slog.Default()
	}

	union := unionTerms(target, suspect, pool)
	subsetSize := opts.SubsetSize
	if subsetSize > len(union) {
		subsetSize = len(union)
	}

	targetFreqs := normalize(target)
	suspectFreqs := normalize(suspect)
	poolFreqs := make([]map[string]float64, len(pool))
	for i, imp := range pool {
		poolFreqs[i] = normalize(imp)
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	wins := 0
	for i := 0; i < opts.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		subset := sampleSubset(rng, union, subsetSize)
		suspectDist := subsetDistance(targetFreqs, suspectFreqs, subset)

		minImpostor := math.MaxFloat64
		for _, imp := range poolFreqs {
			if d := subsetDistance(targetFreqs, imp, subset); d < minImpostor {
				minImpostor = d
			}
		}

		if suspectDist < minImpostor {
			wins++
		}
	}

	confidence := float64(wins) / float64(opts.Iterations)
	result := &Result{
		Confidence:    confidence,
		Verified:      confidence >= VerifiedThreshold,
		SuspectWins:   wins,
		Iterations:    opts.Iterations,
		ImpostorCount: len(pool),
	}

	logger.Info("authorship verification complete",
		"confidence", result.Confidence,
		"verified", result.Verified,
		"iterations", result.Iterations,
		"impostor_count", result.ImpostorCount,
	)
	return result, nil
}

// unionTerms collects the union vocabulary in sorted order so that
// subset sampling depends only on the seed, not on map iteration.
func unionTerms(target, suspect Vocabulary, pool []Vocabulary) []string {
	seen := make(map[string]struct{}, len(target)+len(suspect))
	for term := range target {
		seen[term] = struct{}{}
	}
	for term := range suspect {
		seen[term] = struct{}{}
	}
	for _, imp := range pool {
		for term := range imp {
			seen[term] = struct{}{}
		}
	}

	terms := make([]string, 0, len(seen))
	for term := range seen {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}

// sampleSubset draws n terms without replacement.
func sampleSubset(rng *rand.Rand, terms []string, n int) []string {
	perm := rng.Perm(len(terms))
	subset := make([]string, n)
	for i := 0; i < n; i++ {
		subset[i] = terms[perm[i]]
	}
	return subset
}

// normalize converts raw counts to frequencies relative to the total.
func normalize(v Vocabulary) map[string]float64 {
	return textutil.RelativeFrequencies(map[string]int(v))
}

// subsetDistance is the Euclidean distance between two normalized
// term-frequency vectors restricted to the subset terms.
func subsetDistance(a, b map[string]float64, subset []string) float64 {
	sumSq := 0.0
	for _, term := range subset {
		d := a[term] - b[term]
		sumSq += d * d
	}
	return math.Sqrt(sumSq)
}
