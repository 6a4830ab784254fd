package diagnosis

import (
	"sort"
	"strings"

	"github.com/fyrsmithlabs/faultdx/internal/knowledge"
)

// AttributeSet is an unordered set of attributes.
type AttributeSet map[knowledge.Attribute]struct{}

// NewAttributeSet returns a set holding attrs.
func NewAttributeSet(attrs ...knowledge.Attribute) AttributeSet {
	s := make(AttributeSet, len(attrs))
	for _, a := range attrs {
		s[a] = struct{}{}
	}
	return s
}

// Has reports whether a is in the set.
func (s AttributeSet) Has(a knowledge.Attribute) bool {
	_, ok := s[a]
	return ok
}

// With returns a copy of s including a.
func (s AttributeSet) With(a knowledge.Attribute) AttributeSet {
	out := make(AttributeSet, len(s)+1)
	for k := range s {
		out[k] = struct{}{}
	}
	out[a] = struct{}{}
	return out
}

// Sorted returns the members in lexicographic order.
func (s AttributeSet) Sorted() []knowledge.Attribute {
	out := make([]knowledge.Attribute, 0, len(s))
	for a := range s {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Extract returns every attribute with a keyword phrase occurring in text.
// Matching is a case-insensitive substring test; there is no tokenization, so
// a phrase also matches inside a longer word.
func Extract(text string, keywords knowledge.KeywordMap) AttributeSet {
	found := make(AttributeSet)
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return found
	}
	for attr, phrases := range keywords {
		for _, p := range phrases {
			p = strings.ToLower(p)
			// An empty phrase is a substring of everything.
			if p != "" && strings.Contains(lower, p) {
				found[attr] = struct{}{}
				break
			}
		}
	}
	return found
}
