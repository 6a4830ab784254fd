package troubleshoot

import (
	"errors"
	"fmt"

	"github.com/fyrsmithlabs/faultdx/internal/diagnosis"
	"github.com/fyrsmithlabs/faultdx/internal/similarity"
)

// ErrUnknownStrategy is returned by Service.Diagnose for an unregistered name.
var ErrUnknownStrategy = fmt.Errorf("%w: unknown diagnosis strategy", diagnosis.ErrValidation)

var errNilStore = errors.New("knowledge store is required for troubleshoot service")

const msgNoSimilarFault = "No se encontró ninguna falla suficientemente similar a la descripción."

// MatchReport is the result of a similarity ranking.
type MatchReport struct {
	KnowledgeVersion string             `json:"knowledge_version"`
	Threshold        float64            `json:"threshold"`
	Matches          []similarity.Match `json:"matches"`
	// Message is set when no fault cleared the threshold.
	Message string `json:"message,omitempty"`
}

// Result is what a Strategy produces. Exactly one of Step and Report is set.
type Result struct {
	Strategy string          `json:"strategy"`
	Step     *diagnosis.Step `json:"step,omitempty"`
	Report   *MatchReport    `json:"report,omitempty"`
}
