package diagnosis

import (
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/faultdx/internal/knowledge"
)

// Engine runs conversations against one knowledge base snapshot. It holds no
// per-conversation data and is safe for concurrent use.
type Engine struct {
	kb *knowledge.Base
}

// NewEngine returns an engine bound to kb.
func NewEngine(kb *knowledge.Base) (*Engine, error) {
	if kb == nil {
		return nil, fmt.Errorf("knowledge base is required")
	}
	return &Engine{kb: kb}, nil
}

// Base returns the snapshot the engine runs on.
func (e *Engine) Base() *knowledge.Base {
	return e.kb
}

// Start begins a conversation from a free-text description. Extracted
// attributes count as resolved and are never asked about.
func (e *Engine) Start(description string) (*Step, error) {
	if strings.TrimSpace(description) == "" {
		return nil, ErrEmptyDescription
	}
	extracted := Extract(description, e.kb.Keywords())
	candidates := InitialFilter(e.kb.Faults(), extracted)

	step := e.transition(candidates, extracted)
	step.ExtractedAttributes = extracted.Sorted()
	return step, nil
}

// Continue applies the answer to the pending question in state and returns the
// next step. state is not modified.
func (e *Engine) Continue(state State, answer Answer) (*Step, error) {
	if err := state.Validate(e.kb); err != nil {
		return nil, err
	}
	if state.Pending == nil {
		return nil, ErrNoPendingQuestion
	}

	attr := *state.Pending
	candidates := ApplyAnswer(e.kb.Faults(), state.Candidates, attr, answer)
	resolved := state.ResolvedSet().With(attr)
	return e.transition(candidates, resolved), nil
}

// transition decides the next step for a candidate set and resolved attributes.
func (e *Engine) transition(candidates []int, resolved AttributeSet) *Step {
	version := e.kb.Version()
	faults := e.kb.Faults()

	switch len(candidates) {
	case 0:
		return &Step{
			Kind:    KindNoMatch,
			Message: msgNoMatch,
			State:   newState(version, candidates, resolved, nil),
		}
	case 1:
		f := faults[candidates[0]]
		return &Step{
			Kind:    KindSolved,
			Fault:   &f,
			Message: fmt.Sprintf(msgSolved, f.Name),
			State:   newState(version, candidates, resolved, nil),
		}
	}

	state := newState(version, candidates, resolved, nil)
	best, ok := SelectNext(faults, state.Candidates, resolved)
	if !ok {
		remaining := make([]knowledge.Fault, 0, len(state.Candidates))
		for _, i := range state.Candidates {
			remaining = append(remaining, faults[i])
		}
		return &Step{
			Kind:    KindAmbiguous,
			Faults:  remaining,
			Message: msgAmbiguous,
			State:   state,
		}
	}

	attr := best.Attribute
	state.Pending = &attr
	return &Step{
		Kind:             KindQuestion,
		Question:         e.kb.Question(attr),
		PendingAttribute: attr,
		State:            state,
	}
}
