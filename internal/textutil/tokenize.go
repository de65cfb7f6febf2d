// Package textutil provides the word tokenization and term-frequency
// helpers shared by the window, impostors, and zeta analyzers.
//
// This is deliberately simple: full linguistic feature extraction lives
// outside this subsystem, and the analyzers only need stable word units
// and raw counts.
package textutil

import (
	"strings"
	"unicode"
)

// Tokenize splits text into lowercase word tokens. A token is a maximal
// run of letters and digits; everything else is a separator.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// TermCounts returns the raw occurrence count of each token in text.
func TermCounts(text string) map[string]int {
	counts := make(map[string]int)
	for _, tok := range Tokenize(text) {
		counts[tok]++
	}
	return counts
}

// CountTokens tallies an already-tokenized document.
func CountTokens(tokens []string) map[string]int {
	counts := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		counts[tok]++
	}
	return counts
}

// RelativeFrequencies converts raw counts to frequencies that sum to 1.
// Returns an empty map for an empty input.
func RelativeFrequencies(counts map[string]int) map[string]float64 {
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return map[string]float64{}
	}

	freqs := make(map[string]float64, len(counts))
	for term, c := range counts {
		freqs[term] = float64(c) / float64(total)
	}
	return freqs
}
