package window

import (
	"context"
	"log/slog"
	"math"
	"runtime"
	"sync"

	"stylo/internal/textutil"
)

// Point is one window's distance to a candidate reference text.
type Point struct {
	Start    int     `json:"window_start_index"`
	Distance float64 `json:"distance"`
}

// Series is the windowed distance trace for one candidate plus its
// volatility, the standard deviation of the distances. A flat series
// (low volatility) means the document is stylistically consistent with
// respect to that candidate.
type Series struct {
	Points     []Point `json:"points"`
	Volatility float64 `json:"volatility"`
	Mean       float64 `json:"mean"`
}

// AnalyzeRollingDelta slides a token window across targetText and
// computes, per window, a chi-squared word-frequency divergence to each
// candidate's reference text. Windows are scored in parallel; results
// are recombined in window order, so series and volatility are
// deterministic for the same inputs.
func AnalyzeRollingDelta(ctx context.Context, targetText string, candidates map[string]string, windowSize, step int, logger *slog.Logger) (map[string]Series, error) {
	if len(candidates) == 0 {
		return nil, ErrInsufficientCandidates
	}
	if logger == nil {
		logger = slog.Default()
	}

	windows, err := Generate(targetText, windowSize, step)
	if err != nil {
		return nil, err
	}

	type win struct {
		start int
		text  string
	}
	var all []win
	for start, text := range windows {
		all = append(all, win{start: start, text: text})
	}

	// Candidate reference frequencies are computed once and shared
	// read-only across workers.
	refFreqs := make(map[string]map[string]float64, len(candidates))
	for name, refText := range candidates {
		refFreqs[name] = textutil.RelativeFrequencies(textutil.TermCounts(refText))
	}

	// distances[name][i] is window i's distance to candidate name.
	// Each worker writes disjoint slots, so no locking is needed and
	// the series order is the window order regardless of scheduling.
	distances := make(map[string][]float64, len(candidates))
	for name := range candidates {
		distances[name] = make([]float64, len(all))
	}

	workers := runtime.NumCPU()
	if workers > len(all) {
		workers = len(all)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				winFreqs := textutil.RelativeFrequencies(textutil.TermCounts(all[i].text))
				for name, ref := range refFreqs {
					distances[name][i] = chiSquaredDivergence(winFreqs, ref)
				}
			}
		}()
	}

	var cancelled error
feed:
	for i := range all {
		select {
		case <-ctx.Done():
			cancelled = ctx.Err()
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if cancelled != nil {
		return nil, cancelled
	}

	series := make(map[string]Series, len(candidates))
	for name, dists := range distances {
		points := make([]Point, len(all))
		for i, d := range dists {
			points[i] = Point{Start: all[i].start, Distance: d}
		}
		series[name] = Series{
			Points:     points,
			Volatility: stdDev(dists),
			Mean:       mean(dists),
		}
	}

	logger.Debug("rolling delta computed",
		"windows", len(all),
		"candidates", len(candidates),
	)
	return series, nil
}

// chiSquaredDivergence measures the divergence between two relative
// word-frequency distributions over the union of their vocabularies.
// Formula: sum over terms of (f1-e)^2/e + (f2-e)^2/e with e = (f1+f2)/2.
// Zero when the distributions are identical; grows with disjointness.
func chiSquaredDivergence(a, b map[string]float64) float64 {
	divergence := 0.0
	for term, fa := range a {
		fb := b[term]
		e := (fa + fb) / 2
		if e == 0 {
			continue
		}
		divergence += (fa-e)*(fa-e)/e + (fb-e)*(fb-e)/e
	}
	for term, fb := range b {
		if _, seen := a[term]; seen {
			continue
		}
		e := fb / 2
		if e == 0 {
			continue
		}
		divergence += e + e // (0-e)^2/e + (fb-e)^2/e with fb = 2e
	}
	return divergence
}

// mean returns the arithmetic mean, 0 for an empty slice.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stdDev returns the population standard deviation, 0 for fewer than
// two values.
func stdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}
