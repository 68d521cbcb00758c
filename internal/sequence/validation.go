package sequence

import "fmt"

// SequenceError is the base error type for sequence operations.
type SequenceError interface {
	error
	IsSequenceError()
}

// EmptySequenceError is returned when a sequence is empty.
type EmptySequenceError struct{}

func (e *EmptySequenceError) Error() string {
	return "sequence must have at least one base"
}

func (e *EmptySequenceError) IsSequenceError() {}

// InvalidBaseError is returned when a symbol outside the alphabet is encountered.
type InvalidBaseError struct {
	Position int
	Found    rune
	Alphabet string
}

func (e *InvalidBaseError) Error() string {
	if e.Alphabet == "" {
		return fmt.Sprintf("invalid base '%c' at position %d", e.Found, e.Position)
	}
	return fmt.Sprintf("invalid %s symbol '%c' at position %d", e.Alphabet, e.Found, e.Position)
}

func (e *InvalidBaseError) IsSequenceError() {}

// UnknownAlphabetError is returned for an unrecognized alphabet name.
type UnknownAlphabetError struct {
	Name string
}

func (e *UnknownAlphabetError) Error() string {
	return fmt.Sprintf("unknown alphabet %q", e.Name)
}

func (e *UnknownAlphabetError) IsSequenceError() {}

// Validate checks that every symbol of bases belongs to the alphabet.
// Positions in the returned error are 1-based.
func Validate(alphabet *Alphabet, bases string) error {
	for i := 0; i < len(bases); i++ {
		if !alphabet.Contains(bases[i]) {
			return &InvalidBaseError{Position: i + 1, Found: rune(bases[i]), Alphabet: alphabet.Name()}
		}
	}
	return nil
}
