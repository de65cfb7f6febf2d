package impostors

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

var defaultOpts = Options{Iterations: 200, SubsetSize: 10, Seed: 42}

func vocabFromRepeated(phrase string, n int) Vocabulary {
	return VocabularyFromText(strings.Repeat(phrase+" ", n))
}

func TestVerifyParameterValidation(t *testing.T) {
	target := Vocabulary{"alpha": 3, "beta": 2}
	suspect := Vocabulary{"alpha": 2, "beta": 3}
	pool := []Vocabulary{{"delta": 5}}

	tests := []struct {
		name    string
		target  Vocabulary
		suspect Vocabulary
		pool    []Vocabulary
		opts    Options
		wantErr error
	}{
		{
			name:    "zero iterations",
			target:  target,
			suspect: suspect,
			pool:    pool,
			opts:    Options{Iterations: 0, SubsetSize: 10},
			wantErr: ErrInvalidIterations,
		},
		{
			name:    "negative subset size",
			target:  target,
			suspect: suspect,
			pool:    pool,
			opts:    Options{Iterations: 10, SubsetSize: -1},
			wantErr: ErrInvalidSubsetSize,
		},
		{
			name:    "empty impostor pool",
			target:  target,
			suspect: suspect,
			pool:    nil,
			opts:    defaultOpts,
			wantErr: ErrInsufficientCandidates,
		},
		{
			name:    "empty target vocabulary",
			target:  Vocabulary{},
			suspect: suspect,
			pool:    pool,
			opts:    defaultOpts,
			wantErr: ErrEmptyVocabulary,
		},
		{
			name:    "empty suspect vocabulary",
			target:  target,
			suspect: Vocabulary{},
			pool:    pool,
			opts:    defaultOpts,
			wantErr: ErrEmptyVocabulary,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Verify(context.Background(), tt.target, tt.suspect, tt.pool, tt.opts, nil)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Verify() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestVerifyMatchingSuspect(t *testing.T) {
	// Suspect shares the target's vocabulary distribution; impostors are
	// stylistically distant. The suspect should win nearly every round.
	target := vocabFromRepeated("the quick brown fox jumps over the lazy dog", 20)
	suspect := vocabFromRepeated("the quick brown fox naps beside the lazy dog", 20)
	pool := []Vocabulary{
		vocabFromRepeated("stochastic gradient descent converges slowly", 20),
		vocabFromRepeated("il pleut des cordes sur la ville", 20),
		vocabFromRepeated("quarterly revenue exceeded analyst expectations", 20),
	}

	result, err := Verify(context.Background(), target, suspect, pool, defaultOpts, nil)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if result.Confidence < VerifiedThreshold {
		t.Errorf("confidence = %v, want >= %v for a matching suspect", result.Confidence, VerifiedThreshold)
	}
	if !result.Verified {
		t.Error("Verified = false, want true")
	}
	if result.ImpostorCount != 3 {
		t.Errorf("ImpostorCount = %d, want 3", result.ImpostorCount)
	}
	if result.Iterations != defaultOpts.Iterations {
		t.Errorf("Iterations = %d, want %d", result.Iterations, defaultOpts.Iterations)
	}
}

func TestVerifyMismatchedSuspect(t *testing.T) {
	// One impostor shares the target's vocabulary but the suspect does
	// not, so the suspect should lose most rounds.
	target := vocabFromRepeated("the quick brown fox jumps over the lazy dog", 20)
	suspect := vocabFromRepeated("stochastic gradient descent converges slowly", 20)
	pool := []Vocabulary{
		vocabFromRepeated("the quick brown fox rests near the lazy dog", 20),
		vocabFromRepeated("quarterly revenue exceeded analyst expectations", 20),
	}

	result, err := Verify(context.Background(), target, suspect, pool, defaultOpts, nil)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if result.Verified {
		t.Errorf("Verified = true (confidence %v), want false for mismatched suspect", result.Confidence)
	}
}

func TestVerifyConfidenceBounds(t *testing.T) {
	target := Vocabulary{"alpha": 5, "beta": 3}
	suspect := Vocabulary{"alpha": 4, "beta": 4}
	pool := []Vocabulary{{"gamma": 5}, {"alpha": 1, "delta": 7}}

	for seed := int64(0); seed < 5; seed++ {
		opts := Options{Iterations: 50, SubsetSize: 3, Seed: seed}
		result, err := Verify(context.Background(), target, suspect, pool, opts, nil)
		if err != nil {
			t.Fatalf("seed %d: Verify failed: %v", seed, err)
		}
		if result.Confidence < 0 || result.Confidence > 1 {
			t.Errorf("seed %d: confidence = %v, want within [0, 1]", seed, result.Confidence)
		}
		if result.Verified != (result.Confidence >= VerifiedThreshold) {
			t.Errorf("seed %d: Verified = %v inconsistent with confidence %v",
				seed, result.Verified, result.Confidence)
		}
		if result.SuspectWins < 0 || result.SuspectWins > result.Iterations {
			t.Errorf("seed %d: SuspectWins = %d out of range", seed, result.SuspectWins)
		}
	}
}

func TestVerifyReproducible(t *testing.T) {
	target := vocabFromRepeated("one two three four five six seven", 10)
	suspect := vocabFromRepeated("one two three four nine ten", 10)
	pool := []Vocabulary{
		vocabFromRepeated("eight nine ten eleven", 10),
		vocabFromRepeated("alpha beta gamma delta", 10),
	}

	first, err := Verify(context.Background(), target, suspect, pool, defaultOpts, nil)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	second, err := Verify(context.Background(), target, suspect, pool, defaultOpts, nil)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("same seed produced different results: %+v vs %+v", first, second)
	}
}

func TestVerifySubsetSizeClamped(t *testing.T) {
	// Union vocabulary has 3 terms; a subset size of 100 is clamped
	// rather than rejected.
	target := Vocabulary{"alpha": 1}
	suspect := Vocabulary{"beta": 1}
	pool := []Vocabulary{{"gamma": 1}}

	result, err := Verify(context.Background(), target, suspect, pool,
		Options{Iterations: 10, SubsetSize: 100, Seed: 1}, nil)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if result.Iterations != 10 {
		t.Errorf("Iterations = %d, want 10", result.Iterations)
	}
}

func TestVerifyCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	target := Vocabulary{"alpha": 1}
	suspect := Vocabulary{"beta": 1}
	pool := []Vocabulary{{"gamma": 1}}

	_, err := Verify(ctx, target, suspect, pool, defaultOpts, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Verify() error = %v, want context.Canceled", err)
	}
}

func TestVocabularyFromText(t *testing.T) {
	vocab := VocabularyFromText("The cat, the dog; the BIRD.")
	want := Vocabulary{"the": 3, "cat": 1, "dog": 1, "bird": 1}
	if !reflect.DeepEqual(vocab, want) {
		t.Errorf("VocabularyFromText() = %v, want %v", vocab, want)
	}
}
