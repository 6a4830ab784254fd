// Package similarity ranks faults against free text by sequence similarity.
//
// It is the one-shot alternative to the interactive engine in package
// diagnosis: no questions are asked and no state is carried between calls.
package similarity

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/fyrsmithlabs/faultdx/internal/knowledge"
)

// DefaultThreshold is the minimum score a fault needs to be reported.
const DefaultThreshold = 0.4

// Match is one ranked fault.
type Match struct {
	Fault knowledge.Fault `json:"fault"`
	Score float64         `json:"score"`
}

// Matcher ranks faults by the similarity ratio between the input text and
// each fault's document. The zero value is not usable; call NewMatcher.
type Matcher struct {
	threshold  float64
	maxResults int
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithMaxResults caps the ranking length. Zero or negative means unlimited.
func WithMaxResults(n int) Option {
	return func(m *Matcher) { m.maxResults = n }
}

// NewMatcher returns a matcher keeping scores >= threshold.
func NewMatcher(threshold float64, opts ...Option) (*Matcher, error) {
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("similarity threshold must be in [0,1], got %v", threshold)
	}
	m := &Matcher{threshold: threshold}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Threshold returns the inclusive minimum score.
func (m *Matcher) Threshold() float64 { return m.threshold }

// Rank scores every fault against text and returns those at or above the
// threshold, best first. Equal scores keep declaration order. Blank text
// yields an empty, non-nil result.
func (m *Matcher) Rank(text string, faults []knowledge.Fault) []Match {
	out := []Match{}
	query := strings.ToLower(text)
	if strings.TrimSpace(query) == "" {
		return out
	}
	for _, f := range faults {
		s := Score(query, Document(f))
		if s >= m.threshold {
			out = append(out, Match{Fault: f, Score: s})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if m.maxResults > 0 && len(out) > m.maxResults {
		out = out[:m.maxResults]
	}
	return out
}

// Document is the lowercase text a fault is compared against: its name,
// attributes and causes joined by spaces.
func Document(f knowledge.Fault) string {
	attrs := make([]string, len(f.Attributes))
	for i, a := range f.Attributes {
		attrs[i] = string(a)
	}
	return strings.ToLower(f.Name + " " + strings.Join(attrs, " ") + " " + strings.Join(f.Causes, " "))
}

// Score returns the ratio 2*M/T in [0,1] where M is the number of runes in
// matching blocks and T the combined length. No case folding is applied.
func Score(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	return difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, "")).Ratio()
}
