package bioalign

import (
	"fmt"
	"strings"

	"github.com/aria-lang/bioalign-go/internal/alignment"
	"github.com/aria-lang/bioalign-go/internal/sequence"
)

// ScoringOptions names an alphabet, a gap model and a substitution matrix.
// It is the form in which the CLI and the REST API receive scoring.
type ScoringOptions struct {
	Alphabet string
	GapModel string
	Open     int
	Extend   int

	// Matrix is "simple", "blosum62" or "nuc44". Empty picks BLOSUM62 for
	// protein and simple otherwise.
	Matrix   string
	Match    int
	Mismatch int
}

// DefaultScoringOptions returns DNA, affine(-10, -1) and +2/-1.
func DefaultScoringOptions() ScoringOptions {
	return ScoringOptions{
		Alphabet: "dna",
		GapModel: "affine",
		Open:     -10,
		Extend:   -1,
		Match:    2,
		Mismatch: -1,
	}
}

// Scoring is a resolved ScoringOptions.
type Scoring struct {
	Alphabet *Alphabet
	Gap      *GapPenalty
	Matrix   SubstitutionMatrix
}

// Build resolves the options.
func (o ScoringOptions) Build() (*Scoring, error) {
	alpha, err := sequence.ParseAlphabet(o.Alphabet)
	if err != nil {
		return nil, err
	}

	kind, err := alignment.ParseGapKind(o.GapModel)
	if err != nil {
		return nil, err
	}
	gap, err := alignment.NewGapPenalty(kind, o.Open, o.Extend)
	if err != nil {
		return nil, err
	}

	var sub SubstitutionMatrix
	switch name := strings.ToLower(o.Matrix); {
	case name == "" && alpha == sequence.Protein:
		sub = alignment.BLOSUM62()
	case name == "" || name == "simple":
		sub, err = alignment.NewSimpleMatrix(o.Match, o.Mismatch)
	default:
		sub, err = alignment.ParseMatrix(name)
	}
	if err != nil {
		return nil, fmt.Errorf("matrix: %w", err)
	}

	return &Scoring{Alphabet: alpha, Gap: gap, Matrix: sub}, nil
}

// Sequence builds a sequence over the scoring alphabet. Empty input is
// accepted.
func (s *Scoring) Sequence(id, residues string) (*Sequence, error) {
	seq, err := sequence.FromString(s.Alphabet, residues)
	if err != nil {
		return nil, err
	}
	seq.ID = id
	return seq, nil
}

// Aligner returns an aligner for the scoring.
func (s *Scoring) Aligner(retainMatrix bool) *Aligner {
	return &Aligner{Gap: s.Gap, Matrix: s.Matrix, RetainMatrix: retainMatrix}
}
