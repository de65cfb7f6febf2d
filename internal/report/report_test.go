package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"stylo/internal/impostors"
	"stylo/internal/profile"
	"stylo/internal/window"
	"stylo/internal/zeta"
)

func sampleReport() *Report {
	r := New("alice")
	r.SetDrift(&profile.DriftResult{
		Distance:      0.42,
		DriftDetected: true,
		IsOutlier:     false,
		Threshold:     0.1,
	})
	r.Verification = &impostors.Result{
		Confidence:    0.85,
		Verified:      true,
		SuspectWins:   170,
		Iterations:    200,
		ImpostorCount: 5,
	}
	r.Windows = map[string]window.Series{
		"candidate-b": {Points: []window.Point{{Start: 0, Distance: 0.5}}, Volatility: 0.1, Mean: 0.5},
		"candidate-a": {Points: []window.Point{{Start: 0, Distance: 0.2}}, Volatility: 0.05, Mean: 0.2},
	}
	r.Lexicon = &zeta.Result{
		PreferredA: []zeta.TermScore{{Term: "whale", Score: 1.0}},
		PreferredB: []zeta.TermScore{{Term: "heart", Score: 0.8}},
	}
	return r
}

func TestNewAssignsUniqueIDs(t *testing.T) {
	a, b := New("x"), New("x")
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("IDs not unique: %q vs %q", a.ID, b.ID)
	}
	if a.SchemaVersion != SchemaVersion {
		t.Errorf("SchemaVersion = %d, want %d", a.SchemaVersion, SchemaVersion)
	}
}

func TestWriteJSONShape(t *testing.T) {
	var buf bytes.Buffer
	if err := sampleReport().WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	for _, key := range []string{"id", "schema_version", "generated_at", "author_id", "drift", "verification", "windows", "lexicon"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("JSON output missing key %q", key)
		}
	}

	drift := decoded["drift"].(map[string]any)
	if drift["drift_detected"] != true {
		t.Errorf("drift.drift_detected = %v, want true", drift["drift_detected"])
	}
}

func TestWriteJSONOmitsEmptySections(t *testing.T) {
	var buf bytes.Buffer
	if err := New("").WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	out := buf.String()
	for _, key := range []string{"drift", "verification", "windows", "lexicon", "author_id"} {
		if strings.Contains(out, `"`+key+`"`) {
			t.Errorf("empty section %q present in output: %s", key, out)
		}
	}
}

func TestWriteTextSections(t *testing.T) {
	var buf bytes.Buffer
	sampleReport().WriteText(&buf)
	out := buf.String()

	for _, want := range []string{
		"STYLOMETRIC ANALYSIS REPORT",
		"DRIFT ANALYSIS",
		"DRIFT DETECTED",
		"AUTHORSHIP VERIFICATION",
		"170 / 200 rounds against 5 impostors",
		"ROLLING WINDOW CONSISTENCY",
		"CONTRASTIVE LEXICON",
		"whale",
		"heart",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text report missing %q", want)
		}
	}

	// Candidates listed in deterministic sorted order.
	if strings.Index(out, "candidate-a") > strings.Index(out, "candidate-b") {
		t.Error("window candidates not sorted")
	}
}

func TestWriteTextDriftReason(t *testing.T) {
	r := New("bob")
	r.SetDrift(&profile.DriftResult{Threshold: 0.1, Reason: profile.ReasonNoHistory})

	var buf bytes.Buffer
	r.WriteText(&buf)
	if !strings.Contains(buf.String(), profile.ReasonNoHistory) {
		t.Errorf("report missing drift reason: %s", buf.String())
	}
}

func TestMetricBar(t *testing.T) {
	tests := []struct {
		value    float64
		expected string
	}{
		{value: 0, expected: "[....................]"},
		{value: 0.5, expected: "[##########..........]"},
		{value: 1, expected: "[####################]"},
		{value: 2, expected: "[####################]"}, // clamped
		{value: -1, expected: "[....................]"},
	}
	for _, tt := range tests {
		if got := metricBar(tt.value, 0, 1, 20); got != tt.expected {
			t.Errorf("metricBar(%v) = %s, want %s", tt.value, got, tt.expected)
		}
	}
}
