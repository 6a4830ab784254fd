package diagnosis

import (
	"errors"
	"fmt"
)

// ErrValidation is the root of every client-input error. Transports map it to a
// 4xx response.
var ErrValidation = errors.New("validation error")

var (
	ErrEmptyDescription  = fmt.Errorf("%w: description is empty", ErrValidation)
	ErrInvalidAnswer     = fmt.Errorf("%w: answer must be 'si' or 'no'", ErrValidation)
	ErrNoPendingQuestion = fmt.Errorf("%w: state has no pending question", ErrValidation)
	ErrInvalidState      = fmt.Errorf("%w: invalid conversation state", ErrValidation)
	// ErrStaleState marks a conversation started on a different knowledge base
	// version than the one now loaded.
	ErrStaleState = fmt.Errorf("%w: conversation state belongs to another knowledge base version", ErrValidation)
)

// invalidState wraps ErrInvalidState with detail.
func invalidState(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, fmt.Sprintf(format, args...))
}
