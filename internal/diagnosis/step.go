package diagnosis

import (
	"github.com/fyrsmithlabs/faultdx/internal/knowledge"
)

// Kind discriminates a Step.
type Kind string

const (
	KindQuestion  Kind = "question"
	KindSolved    Kind = "solved"
	KindAmbiguous Kind = "ambiguous"
	KindNoMatch   Kind = "no_match"
)

// Terminal reports whether the conversation ends at this kind.
func (k Kind) Terminal() bool {
	return k != KindQuestion
}

const (
	msgSolved    = "El problema más probable es: %s"
	msgAmbiguous = "No pude llegar a una única conclusión. Las fallas más probables son las siguientes."
	msgNoMatch   = "No pude encontrar una falla que coincida con la información proporcionada."
)

// Step is the outcome of one engine call. Which fields are set depends on Kind:
//
//	question:  Question, PendingAttribute
//	solved:    Fault
//	ambiguous: Faults (declaration order, unranked)
//	no_match:  nothing beyond Message
//
// State is always set and is what the client sends back on Continue.
type Step struct {
	Kind                Kind                  `json:"kind"`
	Question            string                `json:"question,omitempty"`
	PendingAttribute    knowledge.Attribute   `json:"pending_attribute,omitempty"`
	Fault               *knowledge.Fault      `json:"fault,omitempty"`
	Faults              []knowledge.Fault     `json:"faults,omitempty"`
	Message             string                `json:"message,omitempty"`
	ExtractedAttributes []knowledge.Attribute `json:"extracted_attributes,omitempty"`
	State               State                 `json:"state"`
}
