// Package fingerprint defines the stylistic fingerprint vector and the
// distance math shared by the analysis engines.
//
// A fingerprint vector maps stable signal names to real-valued weights.
// Vectors are produced by an external feature extractor; this package
// treats them as opaque numeric inputs. Absent keys are implicitly zero
// when two vectors are compared.
package fingerprint

import (
	"math"
	"sort"
)

// Vector is a finite mapping from signal names to weights.
// Weights may be negative. A vector must never be empty by construction;
// callers validate before handing one to the analysis engines.
type Vector map[string]float64

// Clone returns a deep copy of the vector.
func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Keys returns the signal names in sorted order.
func (v Vector) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// UnionKeys returns the sorted union of signal names across both vectors.
func UnionKeys(a, b Vector) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		seen[k] = struct{}{}
	}
	for k := range b {
		seen[k] = struct{}{}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Align expands both vectors over the union of their keys, missing
// entries treated as zero. The two returned slices share key order.
func Align(a, b Vector) ([]float64, []float64) {
	keys := UnionKeys(a, b)
	u := make([]float64, len(keys))
	v := make([]float64, len(keys))
	for i, k := range keys {
		u[i] = a[k]
		v[i] = b[k]
	}
	return u, v
}

// IsZero reports whether every component of the slice is zero.
func IsZero(values []float64) bool {
	for _, x := range values {
		if x != 0 {
			return false
		}
	}
	return true
}

// Cosine computes the cosine distance 1 - (u.v)/(|u||v|) between two
// vectors aligned over the union of their keys. The second return value
// is false when either aligned vector is entirely zero, in which case
// the distance is meaningless and must not be used.
func Cosine(a, b Vector) (float64, bool) {
	u, v := Align(a, b)
	if IsZero(u) || IsZero(v) {
		return 0, false
	}

	var dot, normU, normV float64
	for i := range u {
		dot += u[i] * v[i]
		normU += u[i] * u[i]
		normV += v[i] * v[i]
	}

	similarity := dot / (math.Sqrt(normU) * math.Sqrt(normV))
	return 1 - similarity, true
}
