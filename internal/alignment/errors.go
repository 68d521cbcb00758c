package alignment

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingConfiguration reports that a query, target, gap penalty or
	// substitution matrix was not supplied.
	ErrMissingConfiguration = errors.New("alignment: missing configuration")

	// ErrAlphabetMismatch reports that query and target use different alphabets.
	ErrAlphabetMismatch = errors.New("alignment: query and target alphabets differ")

	// ErrInvalidGapPenalty reports a positive penalty or an unknown gap model.
	ErrInvalidGapPenalty = errors.New("alignment: invalid gap penalty")

	// ErrScoreRange reports inputs whose scores could overflow the DP cells.
	ErrScoreRange = errors.New("alignment: score range exceeds accumulator")
)

// ConfigError describes why an alignment was not computed.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Field)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// InvariantError is the panic value raised when traceback reaches a cell
// that no recurrence could have produced. It always indicates a defect in
// the matrix fill, never bad input.
type InvariantError struct {
	State  string
	I, J   int
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("alignment: traceback invariant violated in state %s at (%d,%d): %s",
		e.State, e.I, e.J, e.Detail)
}
