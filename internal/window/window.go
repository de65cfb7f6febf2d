// Package window implements rolling-window stylistic consistency
// analysis: a long document is segmented into overlapping token windows
// and each window is scored against candidate reference texts, yielding
// a distance series and a volatility figure per candidate.
package window

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"stylo/internal/textutil"
)

// Parameter validation errors. Fail fast; nothing is clamped.
var (
	ErrInvalidWindowSize      = errors.New("window size must be a positive integer")
	ErrInvalidStep            = errors.New("step must be a positive integer")
	ErrInsufficientCandidates = errors.New("insufficient candidates")
)

// Generate tokenizes text into words and returns a lazy, single-use
// sequence of (startIndex, windowText) pairs. The window advances by
// step tokens and stops before it would run past the token count.
//
// A text shorter than windowSize yields exactly one window at index 0
// covering the whole text.
func Generate(text string, windowSize, step int) (iter.Seq2[int, string], error) {
	if windowSize <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWindowSize, windowSize)
	}
	if step <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidStep, step)
	}

	tokens := textutil.Tokenize(text)
	return func(yield func(int, string) bool) {
		if len(tokens) < windowSize {
			yield(0, strings.Join(tokens, " "))
			return
		}
		for start := 0; start+windowSize <= len(tokens); start += step {
			if !yield(start, strings.Join(tokens[start:start+windowSize], " ")) {
				return
			}
		}
	}, nil
}
