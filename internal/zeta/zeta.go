// Package zeta implements contrastive lexicon analysis between two
// authors' document sets. Each term gets a zeta score in [-1, 1]: the
// difference between the fraction of author A's documents containing it
// and the fraction of author B's. The sign says whose corpus favors the
// term.
package zeta

import (
	"log/slog"
	"math"
	"sort"

	"stylo/internal/textutil"
)

// TermScore pairs a term with its discrimination score.
type TermScore struct {
	Term  string  `json:"term"`
	Score float64 `json:"score"`
}

// Result holds the two ranked preference lists. Scores in PreferredB
// are reported as absolute values. Empty marks the degenerate case of
// an empty corpus on either side; it is not an error so batch pipelines
// can continue.
type Result struct {
	PreferredA []TermScore `json:"preferred_by_a"`
	PreferredB []TermScore `json:"preferred_by_b"`
	Empty      bool        `json:"empty"`
}

// ComputeScores calculates the zeta score for every term in the union
// vocabulary of both corpora, based on document presence rather than
// frequency. Terms whose combined raw occurrence count across both
// corpora falls below minDocFrequency are excluded. Returns an empty
// map when either corpus is empty.
func ComputeScores(docsA, docsB []string, minDocFrequency int) map[string]float64 {
	if len(docsA) == 0 || len(docsB) == 0 {
		return map[string]float64{}
	}

	presenceA, countsA := tally(docsA)
	presenceB, countsB := tally(docsB)

	scores := make(map[string]float64)
	for term := range union(presenceA, presenceB) {
		if countsA[term]+countsB[term] < minDocFrequency {
			continue
		}
		proportionA := float64(presenceA[term]) / float64(len(docsA))
		proportionB := float64(presenceB[term]) / float64(len(docsB))
		scores[term] = proportionA - proportionB
	}
	return scores
}

// ContrastiveLexicon ranks terms by how strongly they discriminate
// between two authors' corpora. Terms are sorted by absolute zeta
// descending (ties broken by term, for stable output), split by sign,
// and each list truncated to topN. Terms with zeta 0 discriminate
// nothing and appear in neither list.
func ContrastiveLexicon(docsA, docsB []string, topN, minDocFrequency int, logger *slog.Logger) Result {
	if logger == nil {
		logger = slog.Default()
	}
	if len(docsA) == 0 || len(docsB) == 0 {
		logger.Warn("contrastive lexicon skipped",
			"reason", "empty corpus",
			"docs_a", len(docsA),
			"docs_b", len(docsB),
		)
		return Result{Empty: true}
	}

	scores := ComputeScores(docsA, docsB, minDocFrequency)

	ranked := make([]TermScore, 0, len(scores))
	for term, score := range scores {
		if score == 0 {
			continue
		}
		ranked = append(ranked, TermScore{Term: term, Score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		ai, aj := math.Abs(ranked[i].Score), math.Abs(ranked[j].Score)
		if ai != aj {
			return ai > aj
		}
		return ranked[i].Term < ranked[j].Term
	})

	var result Result
	for _, ts := range ranked {
		if ts.Score > 0 {
			if len(result.PreferredA) < topN {
				result.PreferredA = append(result.PreferredA, ts)
			}
		} else {
			if len(result.PreferredB) < topN {
				result.PreferredB = append(result.PreferredB, TermScore{
					Term:  ts.Term,
					Score: -ts.Score,
				})
			}
		}
	}
	return result
}

// tally returns per-term document presence and total raw occurrence
// counts for a corpus.
func tally(docs []string) (presence map[string]int, counts map[string]int) {
	presence = make(map[string]int)
	counts = make(map[string]int)
	for _, doc := range docs {
		for term, c := range textutil.TermCounts(doc) {
			presence[term]++
			counts[term] += c
		}
	}
	return presence, counts
}

func union(a, b map[string]int) map[string]struct{} {
	u := make(map[string]struct{}, len(a)+len(b))
	for term := range a {
		u[term] = struct{}{}
	}
	for term := range b {
		u[term] = struct{}{}
	}
	return u
}
