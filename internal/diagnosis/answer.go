package diagnosis

import (
	"fmt"
	"strings"
)

// Answer is a reply to a yes/no question.
type Answer bool

const (
	Yes Answer = true
	No  Answer = false
)

func (a Answer) String() string {
	if a {
		return "si"
	}
	return "no"
}

// ParseAnswer accepts "si" or "no", ignoring case and surrounding whitespace.
// Anything else is ErrInvalidAnswer.
func ParseAnswer(s string) (Answer, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "si":
		return Yes, nil
	case "no":
		return No, nil
	default:
		return No, fmt.Errorf("%w (got %q)", ErrInvalidAnswer, s)
	}
}
