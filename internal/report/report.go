// Package report assembles analysis results into human-readable text
// reports and schema-conformant JSON documents.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"stylo/internal/impostors"
	"stylo/internal/profile"
	"stylo/internal/window"
	"stylo/internal/zeta"
)

// SchemaVersion identifies the JSON document layout.
const SchemaVersion = 1

// Report is the aggregate output of one analysis run. Sections are
// optional; only those the run produced are populated.
type Report struct {
	ID            string    `json:"id"`
	SchemaVersion int       `json:"schema_version"`
	GeneratedAt   time.Time `json:"generated_at"`
	AuthorID      string    `json:"author_id,omitempty"`

	Drift        *DriftSection            `json:"drift,omitempty"`
	Verification *impostors.Result        `json:"verification,omitempty"`
	Windows      map[string]window.Series `json:"windows,omitempty"`
	Lexicon      *zeta.Result             `json:"lexicon,omitempty"`
}

// DriftSection is the JSON form of a drift result.
type DriftSection struct {
	Distance      float64 `json:"distance"`
	DriftDetected bool    `json:"drift_detected"`
	IsOutlier     bool    `json:"is_outlier"`
	Threshold     float64 `json:"threshold"`
	Reason        string  `json:"reason,omitempty"`
}

// New creates an empty report with a fresh ID.
func New(authorID string) *Report {
	return &Report{
		ID:            uuid.NewString(),
		SchemaVersion: SchemaVersion,
		GeneratedAt:   time.Now().UTC(),
		AuthorID:      authorID,
	}
}

// SetDrift attaches a drift result.
func (r *Report) SetDrift(d *profile.DriftResult) {
	if d == nil {
		return
	}
	r.Drift = &DriftSection{
		Distance:      d.Distance,
		DriftDetected: d.DriftDetected,
		IsOutlier:     d.IsOutlier,
		Threshold:     d.Threshold,
		Reason:        d.Reason,
	}
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteText writes a formatted report.
func (r *Report) WriteText(w io.Writer) {
	rule := strings.Repeat("=", 72)
	thin := strings.Repeat("-", 72)

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "                    STYLOMETRIC ANALYSIS REPORT")
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Report ID:      %s\n", r.ID)
	fmt.Fprintf(w, "Generated:      %s\n", r.GeneratedAt.Format(time.RFC3339))
	if r.AuthorID != "" {
		fmt.Fprintf(w, "Author:         %s\n", r.AuthorID)
	}
	fmt.Fprintln(w)

	if r.Drift != nil {
		fmt.Fprintln(w, thin)
		fmt.Fprintln(w, "DRIFT ANALYSIS")
		fmt.Fprintln(w, thin)
		fmt.Fprintln(w)
		if r.Drift.Reason != "" {
			fmt.Fprintf(w, "No comparison performed: %s\n\n", r.Drift.Reason)
		} else {
			fmt.Fprintf(w, "Distance:       %.4f  %s\n", r.Drift.Distance,
				metricBar(r.Drift.Distance, 0, 1, 20))
			fmt.Fprintf(w, "Threshold:      %.4f\n", r.Drift.Threshold)
			fmt.Fprintf(w, "Verdict:        %s\n\n", driftVerdict(r.Drift))
		}
	}

	if r.Verification != nil {
		v := r.Verification
		fmt.Fprintln(w, thin)
		fmt.Fprintln(w, "AUTHORSHIP VERIFICATION (IMPOSTORS METHOD)")
		fmt.Fprintln(w, thin)
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Confidence:     %.3f  %s\n", v.Confidence,
			metricBar(v.Confidence, 0, 1, 20))
		fmt.Fprintf(w, "Suspect wins:   %d / %d rounds against %d impostors\n",
			v.SuspectWins, v.Iterations, v.ImpostorCount)
		fmt.Fprintf(w, "Verdict:        %s\n\n", verificationVerdict(v))
	}

	if len(r.Windows) > 0 {
		fmt.Fprintln(w, thin)
		fmt.Fprintln(w, "ROLLING WINDOW CONSISTENCY")
		fmt.Fprintln(w, thin)
		fmt.Fprintln(w)
		for _, name := range sortedKeys(r.Windows) {
			s := r.Windows[name]
			fmt.Fprintf(w, "%-24s mean %.4f  volatility %.4f  (%d windows)\n",
				name, s.Mean, s.Volatility, len(s.Points))
		}
		fmt.Fprintln(w)
	}

	if r.Lexicon != nil {
		fmt.Fprintln(w, thin)
		fmt.Fprintln(w, "CONTRASTIVE LEXICON")
		fmt.Fprintln(w, thin)
		fmt.Fprintln(w)
		if r.Lexicon.Empty {
			fmt.Fprintln(w, "No comparison performed: empty corpus")
		} else {
			writeLexiconColumn(w, "Preferred by A", r.Lexicon.PreferredA)
			writeLexiconColumn(w, "Preferred by B", r.Lexicon.PreferredB)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, rule)
}

func writeLexiconColumn(w io.Writer, title string, terms []zeta.TermScore) {
	fmt.Fprintf(w, "%s:\n", title)
	if len(terms) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for i, ts := range terms {
		fmt.Fprintf(w, "  %2d. %-20s %.3f\n", i+1, ts.Term, ts.Score)
	}
}

func driftVerdict(d *DriftSection) string {
	switch {
	case d.IsOutlier:
		return "OUTLIER - strong deviation from historical profile"
	case d.DriftDetected:
		return "DRIFT DETECTED - style deviates from historical profile"
	default:
		return "CONSISTENT - within historical profile"
	}
}

func verificationVerdict(v *impostors.Result) string {
	if v.Verified {
		return "VERIFIED - suspect is consistently closer than the impostor pool"
	}
	return "NOT VERIFIED - impostors frequently outscore the suspect"
}

// metricBar renders a fixed-width ASCII bar for a value within a range.
func metricBar(value, lo, hi float64, width int) string {
	if hi <= lo {
		return ""
	}
	frac := (value - lo) / (hi - lo)
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	filled := int(frac * float64(width))
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

func sortedKeys(m map[string]window.Series) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
