// Package sequence provides validated biological sequences over a shared
// alphabet.
//
// Sequences are immutable once built and are addressed 1-based through At,
// which is the indexing convention used by the alignment package.
package sequence

import (
	"fmt"
	"strings"
)

// Sequence is an ordered, finite run of symbols over an Alphabet.
type Sequence struct {
	Bases       string
	ID          string
	Description string
	Alphabet    *Alphabet
}

// New creates a new, non-empty DNA sequence with validation.
func New(bases string) (*Sequence, error) {
	return WithMetadata(bases, "", "", DNA)
}

// WithID creates a new DNA sequence with an identifier.
func WithID(bases, id string) (*Sequence, error) {
	if len(id) == 0 {
		return nil, fmt.Errorf("ID cannot be empty")
	}

	seq, err := New(bases)
	if err != nil {
		return nil, err
	}

	seq.ID = id
	return seq, nil
}

// WithMetadata creates a new, non-empty sequence with full metadata.
func WithMetadata(bases, id, description string, alphabet *Alphabet) (*Sequence, error) {
	if len(bases) == 0 {
		return nil, &EmptySequenceError{}
	}

	seq, err := FromString(alphabet, bases)
	if err != nil {
		return nil, err
	}

	seq.ID = id
	seq.Description = description
	return seq, nil
}

// FromString creates a sequence over alphabet. Unlike New, the empty
// sequence is accepted; it aligns as an all-gap row.
func FromString(alphabet *Alphabet, bases string) (*Sequence, error) {
	if alphabet == nil {
		alphabet = DNA
	}

	normalized := strings.ToUpper(bases)
	if err := Validate(alphabet, normalized); err != nil {
		return nil, err
	}

	return &Sequence{
		Bases:    normalized,
		Alphabet: alphabet,
	}, nil
}

// Len returns the length of the sequence.
func (s *Sequence) Len() int {
	return len(s.Bases)
}

// At returns the symbol at 1-based position i. It panics when i is outside
// [1, Len()].
func (s *Sequence) At(i int) byte {
	if i < 1 || i > len(s.Bases) {
		panic(fmt.Sprintf("sequence: index %d out of range [1, %d]", i, len(s.Bases)))
	}
	return s.Bases[i-1]
}

// BaseAt returns the base at a 0-based index, or false if out of bounds.
func (s *Sequence) BaseAt(index int) (rune, bool) {
	if index < 0 || index >= len(s.Bases) {
		return 0, false
	}
	return rune(s.Bases[index]), true
}

// Subsequence returns the half-open 0-based slice [start, end).
func (s *Sequence) Subsequence(start, end int) (*Sequence, error) {
	if start < 0 {
		return nil, fmt.Errorf("start index must be non-negative")
	}
	if end <= start {
		return nil, fmt.Errorf("end must be greater than start")
	}
	if end > len(s.Bases) {
		return nil, fmt.Errorf("end must not exceed sequence length")
	}

	return &Sequence{
		Bases:       s.Bases[start:end],
		ID:          s.ID,
		Description: s.Description,
		Alphabet:    s.Alphabet,
	}, nil
}

// ReverseComplement returns the reverse complement of a nucleotide sequence.
func (s *Sequence) ReverseComplement() (*Sequence, error) {
	if !s.Alphabet.IsNucleotide() {
		return nil, fmt.Errorf("reverse complement not defined for %s sequences", s.Alphabet)
	}

	n := len(s.Bases)
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		c, ok := s.Alphabet.Complement(s.Bases[i])
		if !ok {
			return nil, &InvalidBaseError{Position: i + 1, Found: rune(s.Bases[i]), Alphabet: s.Alphabet.Name()}
		}
		out[n-1-i] = c
	}

	return &Sequence{
		Bases:       string(out),
		ID:          s.ID,
		Description: s.Description,
		Alphabet:    s.Alphabet,
	}, nil
}

// ToFASTA returns the sequence in FASTA format.
func (s *Sequence) ToFASTA() string {
	var header string
	if s.ID != "" {
		header = ">" + s.ID
		if s.Description != "" {
			header += " " + s.Description
		}
	} else {
		header = ">sequence"
	}

	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteRune('\n')

	// Split sequence into 80-character lines
	for i := 0; i < len(s.Bases); i += 80 {
		end := i + 80
		if end > len(s.Bases) {
			end = len(s.Bases)
		}
		sb.WriteString(s.Bases[i:end])
		sb.WriteRune('\n')
	}

	return sb.String()
}

// String returns a string representation of the sequence.
func (s *Sequence) String() string {
	if s.ID != "" {
		return fmt.Sprintf(">%s\n%s", s.ID, s.Bases)
	}
	return s.Bases
}

// Equal checks equality with another sequence.
func (s *Sequence) Equal(other *Sequence) bool {
	if other == nil {
		return false
	}
	return s.Bases == other.Bases && s.Alphabet == other.Alphabet
}
