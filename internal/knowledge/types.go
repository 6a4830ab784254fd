package knowledge

import (
	"fmt"
	"sort"
	"time"
)

// DefaultReference is reported for faults that declare no reference.
const DefaultReference = "N/A"

// fallbackQuestion is used for attributes without an entry in the question bank.
const fallbackQuestion = "¿Se cumple la condición '%s'?"

// Attribute is an opaque symptom label. Only set membership matters.
type Attribute string

// Fault is one entry of the fault catalogue.
type Fault struct {
	// Index is the declaration position in the document and the identifier
	// carried in conversation state.
	Index      int         `json:"index"`
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Attributes []Attribute `json:"attributes"`
	Causes     []string    `json:"causes"`
	Solutions  []string    `json:"solutions"`
	Reference  string      `json:"reference"`
}

// Has reports whether the fault declares attr.
func (f *Fault) Has(attr Attribute) bool {
	for _, a := range f.Attributes {
		if a == attr {
			return true
		}
	}
	return false
}

// KeywordMap maps an attribute to the lowercase phrases that reveal it in text.
type KeywordMap map[Attribute][]string

// QuestionBank maps an attribute to the question asked about it.
type QuestionBank map[Attribute]string

// Base is an immutable knowledge base snapshot. All accessors are safe for
// concurrent use; returned slices and maps must be treated as read-only.
type Base struct {
	version   string
	source    string
	loadedAt  time.Time
	faults    []Fault
	keywords  KeywordMap
	questions QuestionBank
	known     map[Attribute]struct{}
}

// Version is a content fingerprint. Two bases with equal content share a version
// regardless of the file format they were read from.
func (b *Base) Version() string { return b.version }

// Source is the path the base was loaded from, empty for in-memory bases.
func (b *Base) Source() string { return b.source }

// LoadedAt is when the snapshot was built.
func (b *Base) LoadedAt() time.Time { return b.loadedAt }

// Faults returns the catalogue in declaration order.
func (b *Base) Faults() []Fault { return b.faults }

// Len returns the number of faults.
func (b *Base) Len() int { return len(b.faults) }

// Fault returns the fault at index i.
func (b *Base) Fault(i int) (Fault, bool) {
	if i < 0 || i >= len(b.faults) {
		return Fault{}, false
	}
	return b.faults[i], true
}

// Keywords returns the keyword map.
func (b *Base) Keywords() KeywordMap { return b.keywords }

// Question returns the question for attr, or the templated fallback when the
// bank has no entry.
func (b *Base) Question(attr Attribute) string {
	if q, ok := b.questions[attr]; ok {
		return q
	}
	return fmt.Sprintf(fallbackQuestion, attr)
}

// HasQuestion reports whether the bank has an explicit question for attr.
func (b *Base) HasQuestion(attr Attribute) bool {
	_, ok := b.questions[attr]
	return ok
}

// Known reports whether attr is declared by some fault or keyword mapping.
func (b *Base) Known(attr Attribute) bool {
	_, ok := b.known[attr]
	return ok
}

// Attributes returns every known attribute, sorted.
func (b *Base) Attributes() []Attribute {
	out := make([]Attribute, 0, len(b.known))
	for a := range b.known {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Summary describes the size and coverage of a base.
type Summary struct {
	Version                 string      `json:"version"`
	Source                  string      `json:"source,omitempty"`
	LoadedAt                time.Time   `json:"loaded_at"`
	Faults                  int         `json:"faults"`
	Attributes              int         `json:"attributes"`
	Keywords                int         `json:"keywords"`
	Questions               int         `json:"questions"`
	WithoutQuestion         []Attribute `json:"without_question"`
	WithoutKeywords         []Attribute `json:"without_keywords"`
	FaultsWithoutAttributes []string    `json:"faults_without_attributes"`
}

// Summary reports counts and coverage gaps. Attributes without a question fall
// back to the templated text; attributes without keywords can only be learned by
// asking.
func (b *Base) Summary() Summary {
	s := Summary{
		Version:                 b.version,
		Source:                  b.source,
		LoadedAt:                b.loadedAt,
		Faults:                  len(b.faults),
		Attributes:              len(b.known),
		Questions:               len(b.questions),
		WithoutQuestion:         []Attribute{},
		WithoutKeywords:         []Attribute{},
		FaultsWithoutAttributes: []string{},
	}
	for _, phrases := range b.keywords {
		s.Keywords += len(phrases)
	}
	for _, a := range b.Attributes() {
		if !b.HasQuestion(a) {
			s.WithoutQuestion = append(s.WithoutQuestion, a)
		}
		if len(b.keywords[a]) == 0 {
			s.WithoutKeywords = append(s.WithoutKeywords, a)
		}
	}
	for _, f := range b.faults {
		if len(f.Attributes) == 0 {
			s.FaultsWithoutAttributes = append(s.FaultsWithoutAttributes, f.Name)
		}
	}
	return s
}
