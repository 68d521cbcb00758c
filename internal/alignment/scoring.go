// Package alignment implements pairwise global sequence alignment.
//
// Needleman-Wunsch alignment is computed under a linear or an affine (Gotoh)
// gap model. Ties between equally optimal paths are always broken the same
// way, so repeated runs over the same input produce the same alignment.
package alignment

import (
	"fmt"
	"math"
	"strings"
)

// SubstitutionMatrix scores the pairing of two symbols. Implementations need
// not be symmetric and must be safe for concurrent reads.
type SubstitutionMatrix interface {
	Score(a, b byte) int
}

// maxAbsScorer is implemented by matrices that know their largest magnitude.
type maxAbsScorer interface {
	MaxAbs() int
}

// SimpleMatrix scores identical symbols (ignoring case) with MatchScore and
// everything else with MismatchPenalty.
type SimpleMatrix struct {
	MatchScore      int
	MismatchPenalty int
}

// NewSimpleMatrix creates a match/mismatch matrix with validation.
func NewSimpleMatrix(match, mismatch int) (*SimpleMatrix, error) {
	if match <= 0 {
		return nil, fmt.Errorf("match score must be positive")
	}
	if mismatch > 0 {
		return nil, fmt.Errorf("mismatch penalty should be <= 0")
	}

	return &SimpleMatrix{
		MatchScore:      match,
		MismatchPenalty: mismatch,
	}, nil
}

// DefaultDNA creates a default DNA scoring matrix.
func DefaultDNA() *SimpleMatrix {
	return &SimpleMatrix{
		MatchScore:      2,
		MismatchPenalty: -1,
	}
}

// BLASTLike creates a BLAST-like nucleotide scoring matrix.
func BLASTLike() *SimpleMatrix {
	return &SimpleMatrix{
		MatchScore:      1,
		MismatchPenalty: -3,
	}
}

// Score returns the score for pairing two symbols.
func (s *SimpleMatrix) Score(a, b byte) int {
	if upper(a) == upper(b) {
		return s.MatchScore
	}
	return s.MismatchPenalty
}

// MaxAbs returns the largest score magnitude.
func (s *SimpleMatrix) MaxAbs() int {
	return maxInt(abs(s.MatchScore), abs(s.MismatchPenalty))
}

// String returns a string representation of the scoring matrix.
func (s *SimpleMatrix) String() string {
	return fmt.Sprintf("SimpleMatrix { match: %d, mismatch: %d }", s.MatchScore, s.MismatchPenalty)
}

// TableMatrix is a full symbol-by-symbol score table. Rows are indexed by
// the query symbol and columns by the target symbol.
type TableMatrix struct {
	name     string
	symbols  string
	index    [256]int16
	scores   [][]int
	fallback int16
	maxAbs   int
}

// NewTableMatrix builds a table over symbols. Symbols not in the table are
// scored as the fallback symbol; a zero fallback scores them as 0.
func NewTableMatrix(name, symbols string, rows [][]int, fallback byte) (*TableMatrix, error) {
	if len(rows) != len(symbols) {
		return nil, fmt.Errorf("matrix %s: %d rows for %d symbols", name, len(rows), len(symbols))
	}

	t := &TableMatrix{name: name, symbols: strings.ToUpper(symbols), fallback: -1}
	for i := range t.index {
		t.index[i] = -1
	}
	for i := 0; i < len(t.symbols); i++ {
		c := t.symbols[i]
		if t.index[c] != -1 {
			return nil, fmt.Errorf("matrix %s: duplicate symbol %q", name, c)
		}
		t.index[c] = int16(i)
		t.index[lower(c)] = int16(i)
	}

	t.scores = make([][]int, len(rows))
	for i, row := range rows {
		if len(row) != len(symbols) {
			return nil, fmt.Errorf("matrix %s: row %c has %d columns, want %d", name, t.symbols[i], len(row), len(symbols))
		}
		t.scores[i] = append([]int(nil), row...)
		for _, v := range row {
			t.maxAbs = maxInt(t.maxAbs, abs(v))
		}
	}

	if fallback != 0 {
		if t.index[fallback] == -1 {
			return nil, fmt.Errorf("matrix %s: fallback symbol %q not in table", name, fallback)
		}
		t.fallback = t.index[fallback]
	}

	return t, nil
}

// Alias scores symbol from exactly as symbol to, e.g. U as T.
func (t *TableMatrix) Alias(from, to byte) *TableMatrix {
	if i := t.index[to]; i != -1 {
		t.index[from] = i
		t.index[lower(from)] = i
	}
	return t
}

func (t *TableMatrix) lookup(c byte) int16 {
	if i := t.index[c]; i != -1 {
		return i
	}
	return t.fallback
}

// Score returns the table entry for (a, b).
func (t *TableMatrix) Score(a, b byte) int {
	i, j := t.lookup(a), t.lookup(b)
	if i == -1 || j == -1 {
		return 0
	}
	return t.scores[i][j]
}

// MaxAbs returns the largest score magnitude in the table.
func (t *TableMatrix) MaxAbs() int {
	return t.maxAbs
}

// Name returns the matrix name.
func (t *TableMatrix) Name() string {
	return t.name
}

// Symbols returns the table's symbol order.
func (t *TableMatrix) Symbols() string {
	return t.symbols
}

func (t *TableMatrix) String() string {
	return fmt.Sprintf("TableMatrix { %s, %d symbols }", t.name, len(t.symbols))
}

// maxSubstitution returns the largest score magnitude sub can produce for the
// symbols present in q and t.
func maxSubstitution(sub SubstitutionMatrix, q, t string) int {
	if m, ok := sub.(maxAbsScorer); ok {
		return m.MaxAbs()
	}

	var seenQ, seenT [256]bool
	var qs, ts []byte
	for i := 0; i < len(q); i++ {
		if !seenQ[q[i]] {
			seenQ[q[i]] = true
			qs = append(qs, q[i])
		}
	}
	for i := 0; i < len(t); i++ {
		if !seenT[t[i]] {
			seenT[t[i]] = true
			ts = append(ts, t[i])
		}
	}

	best := 0
	for _, a := range qs {
		for _, b := range ts {
			best = maxInt(best, abs(sub.Score(a, b)))
		}
	}
	return best
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// abs saturates at math.MaxInt, since -math.MinInt does not fit in an int.
func abs(x int) int {
	switch {
	case x == math.MinInt:
		return math.MaxInt
	case x < 0:
		return -x
	default:
		return x
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
