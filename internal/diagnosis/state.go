package diagnosis

import (
	"encoding/json"
	"sort"

	"github.com/fyrsmithlabs/faultdx/internal/knowledge"
)

// State is the client-held conversation state. Candidates are fault indices in
// ascending order and Resolved is sorted, so equal states encode to identical
// JSON.
type State struct {
	// KnowledgeVersion is the version of the base the conversation started on.
	// Empty for states produced by older clients; the version check is then
	// skipped.
	KnowledgeVersion string                `json:"knowledge_version,omitempty"`
	Candidates       []int                 `json:"candidate_fault_ids"`
	Resolved         []knowledge.Attribute `json:"resolved_attributes"`
	Pending          *knowledge.Attribute  `json:"pending_attribute"`
}

func newState(version string, candidates []int, resolved AttributeSet, pending *knowledge.Attribute) State {
	c := append(make([]int, 0, len(candidates)), candidates...)
	sort.Ints(c)
	return State{
		KnowledgeVersion: version,
		Candidates:       c,
		Resolved:         resolved.Sorted(),
		Pending:          pending,
	}
}

// Clone returns a deep copy.
func (s State) Clone() State {
	out := State{
		KnowledgeVersion: s.KnowledgeVersion,
		Candidates:       append(make([]int, 0, len(s.Candidates)), s.Candidates...),
		Resolved:         append(make([]knowledge.Attribute, 0, len(s.Resolved)), s.Resolved...),
	}
	if s.Pending != nil {
		p := *s.Pending
		out.Pending = &p
	}
	return out
}

// ResolvedSet returns Resolved as a set.
func (s State) ResolvedSet() AttributeSet {
	return NewAttributeSet(s.Resolved...)
}

// wireState accepts both the current field names and the ones used by the
// earlier web clients.
type wireState struct {
	KnowledgeVersion string                 `json:"knowledge_version"`
	Candidates       *[]int                 `json:"candidate_fault_ids"`
	Resolved         *[]knowledge.Attribute `json:"resolved_attributes"`
	Pending          *knowledge.Attribute   `json:"pending_attribute"`

	LegacyCandidates *[]int                 `json:"posibles_fallas_indices"`
	LegacyResolved   *[]knowledge.Attribute `json:"atributos_preguntados"`
	LegacyPending    *knowledge.Attribute   `json:"atributo_actual"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *State) UnmarshalJSON(data []byte) error {
	var w wireState
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	out := State{KnowledgeVersion: w.KnowledgeVersion}
	switch {
	case w.Candidates != nil:
		out.Candidates = *w.Candidates
	case w.LegacyCandidates != nil:
		out.Candidates = *w.LegacyCandidates
	}
	switch {
	case w.Resolved != nil:
		out.Resolved = *w.Resolved
	case w.LegacyResolved != nil:
		out.Resolved = *w.LegacyResolved
	}
	switch {
	case w.Pending != nil:
		out.Pending = w.Pending
	case w.LegacyPending != nil:
		out.Pending = w.LegacyPending
	}
	*s = out
	return nil
}

// Validate checks s against kb: candidate indices are in range and unique,
// resolved attributes are unique, resolved and pending attributes are known to
// kb, the pending attribute is not already resolved, and a recorded version
// matches kb.
func (s State) Validate(kb *knowledge.Base) error {
	if s.KnowledgeVersion != "" && s.KnowledgeVersion != kb.Version() {
		return ErrStaleState
	}

	seen := make(map[int]struct{}, len(s.Candidates))
	for _, i := range s.Candidates {
		if i < 0 || i >= kb.Len() {
			return invalidState("candidate fault id %d out of range [0,%d)", i, kb.Len())
		}
		if _, dup := seen[i]; dup {
			return invalidState("candidate fault id %d repeated", i)
		}
		seen[i] = struct{}{}
	}

	resolved := make(map[knowledge.Attribute]struct{}, len(s.Resolved))
	for _, a := range s.Resolved {
		if !kb.Known(a) {
			return invalidState("resolved attribute %q is unknown", a)
		}
		if _, dup := resolved[a]; dup {
			return invalidState("resolved attribute %q repeated", a)
		}
		resolved[a] = struct{}{}
	}

	if s.Pending != nil {
		if !kb.Known(*s.Pending) {
			return invalidState("pending attribute %q is unknown", *s.Pending)
		}
		if _, ok := resolved[*s.Pending]; ok {
			return invalidState("pending attribute %q is already resolved", *s.Pending)
		}
	}
	return nil
}
