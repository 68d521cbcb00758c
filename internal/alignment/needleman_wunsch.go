package alignment

import (
	"fmt"
	"time"

	"github.com/aria-lang/bioalign-go/internal/sequence"
)

// Result is the outcome of one global alignment.
type Result struct {
	Score   int
	Pair    *SequencePair
	Elapsed time.Duration

	// Matrix is the filled score matrix, present only when retention was
	// requested. Affine runs return the elementwise max of M, Ix and Iy.
	Matrix *ScoreMatrix
}

// Aligner holds read-only alignment configuration. An Aligner keeps no
// state between calls and may be used from several goroutines at once.
type Aligner struct {
	Gap          *GapPenalty
	Matrix       SubstitutionMatrix
	RetainMatrix bool
}

// Option configures a NeedlemanWunsch call.
type Option func(*Aligner)

// WithRetainedMatrix keeps the score matrix in the Result.
func WithRetainedMatrix() Option {
	return func(a *Aligner) {
		a.RetainMatrix = true
	}
}

// NeedlemanWunsch performs global alignment of query against target.
//
// Every symbol of both sequences appears in the result. A nil argument or
// differing alphabets yield a *ConfigError and no computation.
func NeedlemanWunsch(query, target *sequence.Sequence, gap *GapPenalty, sub SubstitutionMatrix, opts ...Option) (*Result, error) {
	a := &Aligner{Gap: gap, Matrix: sub}
	for _, opt := range opts {
		opt(a)
	}
	return a.Align(query, target)
}

// Align performs global alignment of query against target.
func (a *Aligner) Align(query, target *sequence.Sequence) (*Result, error) {
	if err := a.check(query, target); err != nil {
		return nil, err
	}

	start := time.Now()
	q, t := query.Bases, target.Bases

	var mx *matrices
	var sx, sy []Step
	if a.Gap.Kind == Linear {
		mx = fillLinear(q, t, a.Gap, a.Matrix)
		sx, sy = tracebackLinear(q, t, mx.m, a.Gap, a.Matrix)
	} else {
		mx = fillAffine(q, t, a.Gap, a.Matrix)
		sx, sy = tracebackAffine(q, t, mx, a.Gap, a.Matrix)
	}
	score := int(mx.score())

	pair, err := NewSequencePair(query, target, sx, sy, score, 0)
	if err != nil {
		panic(&InvariantError{State: "result", I: len(q), J: len(t), Detail: err.Error()})
	}
	elapsed := time.Since(start)
	pair.elapsed = elapsed

	res := &Result{Score: score, Pair: pair, Elapsed: elapsed}
	if a.RetainMatrix {
		res.Matrix = mx.collapse()
	}
	return res, nil
}

// ScoreOnly returns the global alignment score in linear space, without a
// traceback.
func (a *Aligner) ScoreOnly(query, target *sequence.Sequence) (int, error) {
	if err := a.check(query, target); err != nil {
		return 0, err
	}

	if a.Gap.Kind == Linear {
		return int(scoreOnlyLinear(query.Bases, target.Bases, a.Gap, a.Matrix)), nil
	}
	return int(scoreOnlyAffine(query.Bases, target.Bases, a.Gap, a.Matrix)), nil
}

// GlobalAlignmentScoreOnly calculates the global alignment score without
// traceback.
func GlobalAlignmentScoreOnly(query, target *sequence.Sequence, gap *GapPenalty, sub SubstitutionMatrix) (int, error) {
	a := &Aligner{Gap: gap, Matrix: sub}
	return a.ScoreOnly(query, target)
}

func (a *Aligner) check(query, target *sequence.Sequence) error {
	switch {
	case query == nil:
		return &ConfigError{Field: "query", Err: ErrMissingConfiguration}
	case target == nil:
		return &ConfigError{Field: "target", Err: ErrMissingConfiguration}
	case a.Gap == nil:
		return &ConfigError{Field: "gap penalty", Err: ErrMissingConfiguration}
	case a.Matrix == nil:
		return &ConfigError{Field: "substitution matrix", Err: ErrMissingConfiguration}
	}

	qa, ta := alphabetOf(query), alphabetOf(target)
	if qa != ta {
		return &ConfigError{Field: fmt.Sprintf("%s vs %s", qa, ta), Err: ErrAlphabetMismatch}
	}

	if err := a.Gap.Validate(); err != nil {
		return err
	}
	return checkRange(query.Bases, target.Bases, a.Gap, a.Matrix)
}

func alphabetOf(s *sequence.Sequence) *sequence.Alphabet {
	if s.Alphabet == nil {
		return sequence.DNA
	}
	return s.Alphabet
}

// Rescore replays the columns of pair against gap and sub. For a pair
// produced by NeedlemanWunsch with the same configuration it returns the
// reported score.
func Rescore(pair *SequencePair, gap *GapPenalty, sub SubstitutionMatrix) int {
	score := 0
	inGapQ, inGapT := false, false

	for col := 1; col <= pair.Length(); col++ {
		x, okx := pair.query.ElementAt(col)
		y, oky := pair.target.ElementAt(col)

		switch {
		case okx && oky:
			score += sub.Score(x, y)
		case !okx:
			if !inGapQ {
				score += gap.open()
			}
			score += gap.Extend
		default:
			if !inGapT {
				score += gap.open()
			}
			score += gap.Extend
		}
		inGapQ, inGapT = !okx, !oky
	}

	return score
}
