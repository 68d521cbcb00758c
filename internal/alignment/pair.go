package alignment

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aria-lang/bioalign-go/internal/sequence"
)

// GapSymbol is the marker used for gap columns in gapped strings.
const GapSymbol = '-'

// Step tags one alignment column for one sequence.
type Step uint8

const (
	// Element places the next symbol of the sequence in the column.
	Element Step = iota
	// Gap places a gap in the column.
	Gap
)

func (s Step) String() string {
	if s == Gap {
		return "gap"
	}
	return "element"
}

// SequenceID selects one side of a SequencePair.
type SequenceID int

const (
	// QueryID is the first sequence of a pair.
	QueryID SequenceID = 1
	// TargetID is the second sequence of a pair.
	TargetID SequenceID = 2
)

// AlignedSequence is a sequence laid out over alignment columns. Column and
// sequence indices are 1-based.
type AlignedSequence struct {
	original *sequence.Sequence
	steps    []Step
	seqIndex []int // column -> sequence position, 0 for a gap
	colIndex []int // sequence position -> column
}

// NewAlignedSequence lays seq out over steps. The number of Element steps
// must equal the sequence length.
func NewAlignedSequence(seq *sequence.Sequence, steps []Step) (*AlignedSequence, error) {
	a := &AlignedSequence{
		original: seq,
		steps:    steps,
		seqIndex: make([]int, len(steps)),
		colIndex: make([]int, 0, seq.Len()),
	}

	pos := 0
	for col, st := range steps {
		if st == Element {
			pos++
			if pos > seq.Len() {
				return nil, fmt.Errorf("alignment has more elements than the %d symbols of the sequence", seq.Len())
			}
			a.seqIndex[col] = pos
			a.colIndex = append(a.colIndex, col+1)
		}
	}
	if pos != seq.Len() {
		return nil, fmt.Errorf("alignment places %d of %d symbols", pos, seq.Len())
	}

	return a, nil
}

// Original returns the ungapped sequence.
func (a *AlignedSequence) Original() *sequence.Sequence {
	return a.original
}

// Length returns the number of alignment columns.
func (a *AlignedSequence) Length() int {
	return len(a.steps)
}

// Steps returns a copy of the column steps.
func (a *AlignedSequence) Steps() []Step {
	return append([]Step(nil), a.steps...)
}

func (a *AlignedSequence) checkColumn(col int) {
	if col < 1 || col > len(a.steps) {
		panic(fmt.Sprintf("alignment: column %d out of range [1, %d]", col, len(a.steps)))
	}
}

// IsGap reports whether the column holds a gap.
func (a *AlignedSequence) IsGap(col int) bool {
	a.checkColumn(col)
	return a.steps[col-1] == Gap
}

// ElementAt returns the symbol in the column, or GapSymbol and false for a gap.
func (a *AlignedSequence) ElementAt(col int) (byte, bool) {
	a.checkColumn(col)
	pos := a.seqIndex[col-1]
	if pos == 0 {
		return GapSymbol, false
	}
	return a.original.At(pos), true
}

// SequenceIndexAt returns the sequence position placed in the column, or
// false for a gap.
func (a *AlignedSequence) SequenceIndexAt(col int) (int, bool) {
	a.checkColumn(col)
	pos := a.seqIndex[col-1]
	return pos, pos != 0
}

// AlignmentIndexAt returns the column holding sequence position pos.
func (a *AlignedSequence) AlignmentIndexAt(pos int) int {
	if pos < 1 || pos > len(a.colIndex) {
		panic(fmt.Sprintf("alignment: sequence index %d out of range [1, %d]", pos, len(a.colIndex)))
	}
	return a.colIndex[pos-1]
}

// GapCount returns the number of gap columns.
func (a *AlignedSequence) GapCount() int {
	return len(a.steps) - len(a.colIndex)
}

// String returns the gapped sequence.
func (a *AlignedSequence) String() string {
	var sb strings.Builder
	sb.Grow(len(a.steps))
	for col := 1; col <= len(a.steps); col++ {
		c, _ := a.ElementAt(col)
		sb.WriteByte(c)
	}
	return sb.String()
}

// SequencePair is a finished global alignment of a query and a target.
//
// A SequencePair is immutable after construction. The identity and
// similarity counts are computed on first use under sync.Once, so a pair
// may be shared between goroutines.
type SequencePair struct {
	query, target *AlignedSequence
	score         int
	elapsed       time.Duration

	identityOnce   sync.Once
	identicals     int
	similarityOnce sync.Once
	similars       int
}

// NewSequencePair builds a pair from per-column steps.
func NewSequencePair(query, target *sequence.Sequence, sx, sy []Step, score int, elapsed time.Duration) (*SequencePair, error) {
	if len(sx) != len(sy) {
		return nil, fmt.Errorf("aligned sequences must have equal length: %d != %d", len(sx), len(sy))
	}
	for col := range sx {
		if sx[col] == Gap && sy[col] == Gap {
			return nil, fmt.Errorf("column %d is a gap in both sequences", col+1)
		}
	}

	q, err := NewAlignedSequence(query, sx)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	t, err := NewAlignedSequence(target, sy)
	if err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}

	return &SequencePair{query: q, target: t, score: score, elapsed: elapsed}, nil
}

// Query returns the aligned query.
func (p *SequencePair) Query() *AlignedSequence {
	return p.query
}

// Target returns the aligned target.
func (p *SequencePair) Target() *AlignedSequence {
	return p.target
}

// Aligned returns the aligned sequence for id.
func (p *SequencePair) Aligned(id SequenceID) *AlignedSequence {
	switch id {
	case QueryID:
		return p.query
	case TargetID:
		return p.target
	default:
		panic(fmt.Sprintf("alignment: unknown sequence id %d", id))
	}
}

// Length returns the number of alignment columns.
func (p *SequencePair) Length() int {
	return p.query.Length()
}

// Score returns the alignment score.
func (p *SequencePair) Score() int {
	return p.score
}

// Elapsed returns the time spent computing the alignment.
func (p *SequencePair) Elapsed() time.Duration {
	return p.elapsed
}

// ElementAt returns the symbol of sequence id in the column.
func (p *SequencePair) ElementAt(id SequenceID, col int) (byte, bool) {
	return p.Aligned(id).ElementAt(col)
}

// SequenceIndexAt returns the position of sequence id placed in the column.
func (p *SequencePair) SequenceIndexAt(id SequenceID, col int) (int, bool) {
	return p.Aligned(id).SequenceIndexAt(col)
}

// AlignmentIndexAt returns the column of position pos of sequence id.
func (p *SequencePair) AlignmentIndexAt(id SequenceID, pos int) int {
	return p.Aligned(id).AlignmentIndexAt(pos)
}

// IndexInQueryForTarget maps a target position to the query position in the
// same column, or false when the query has a gap there.
func (p *SequencePair) IndexInQueryForTarget(targetPos int) (int, bool) {
	return p.query.SequenceIndexAt(p.target.AlignmentIndexAt(targetPos))
}

// IndexInTargetForQuery maps a query position to the target position in the
// same column, or false when the target has a gap there.
func (p *SequencePair) IndexInTargetForQuery(queryPos int) (int, bool) {
	return p.target.SequenceIndexAt(p.query.AlignmentIndexAt(queryPos))
}

func (p *SequencePair) alphabet() *sequence.Alphabet {
	if a := p.query.original.Alphabet; a != nil {
		return a
	}
	return sequence.DNA
}

// countColumns counts columns with symbols on both sides satisfying match.
func (p *SequencePair) countColumns(match func(x, y byte) bool) int {
	count := 0
	for col := 1; col <= p.Length(); col++ {
		x, okx := p.query.ElementAt(col)
		y, oky := p.target.ElementAt(col)
		if okx && oky && match(x, y) {
			count++
		}
	}
	return count
}

// IdentityCount returns the number of columns whose symbols are equal,
// ignoring case.
func (p *SequencePair) IdentityCount() int {
	p.identityOnce.Do(func() {
		p.identicals = p.countColumns(p.alphabet().Equal)
	})
	return p.identicals
}

// SimilarityCount returns the number of columns whose symbols are
// equivalent under the alphabet.
func (p *SequencePair) SimilarityCount() int {
	p.similarityOnce.Do(func() {
		p.similars = p.countColumns(p.alphabet().Equivalent)
	})
	return p.similars
}

// Identity returns IdentityCount as a fraction of the alignment length.
func (p *SequencePair) Identity() float64 {
	if p.Length() == 0 {
		return 0.0
	}
	return float64(p.IdentityCount()) / float64(p.Length())
}

// Similarity returns SimilarityCount as a fraction of the alignment length.
func (p *SequencePair) Similarity() float64 {
	if p.Length() == 0 {
		return 0.0
	}
	return float64(p.SimilarityCount()) / float64(p.Length())
}

// MismatchCount returns the number of ungapped columns with unequal symbols.
func (p *SequencePair) MismatchCount() int {
	eq := p.alphabet().Equal
	return p.countColumns(func(x, y byte) bool { return !eq(x, y) })
}

// GapCount returns the number of gap columns on both sides.
func (p *SequencePair) GapCount() int {
	return p.query.GapCount() + p.target.GapCount()
}

// GapOpenings counts the gap runs on both sides.
func (p *SequencePair) GapOpenings() int {
	openings := 0
	inGap1, inGap2 := false, false

	for col := 0; col < p.Length(); col++ {
		gap1 := p.query.steps[col] == Gap
		gap2 := p.target.steps[col] == Gap

		if gap1 && !inGap1 {
			openings++
		}
		if gap2 && !inGap2 {
			openings++
		}
		inGap1, inGap2 = gap1, gap2
	}

	return openings
}

// AlignedStrings returns the gapped query and target.
func (p *SequencePair) AlignedStrings() (string, string) {
	return p.query.String(), p.target.String()
}

// CIGAR encodes the columns as runs of M (identical), X (mismatch),
// I (gap in query) and D (gap in target).
func (p *SequencePair) CIGAR() string {
	if p.Length() == 0 {
		return ""
	}

	eq := p.alphabet().Equal
	var cigar strings.Builder
	currentOp := byte(0)
	count := 0

	for col := 1; col <= p.Length(); col++ {
		x, okx := p.query.ElementAt(col)
		y, oky := p.target.ElementAt(col)

		var op byte
		switch {
		case !okx:
			op = 'I'
		case !oky:
			op = 'D'
		case eq(x, y):
			op = 'M'
		default:
			op = 'X'
		}

		if op == currentOp {
			count++
			continue
		}
		if count > 0 {
			fmt.Fprintf(&cigar, "%d%c", count, currentOp)
		}
		currentOp = op
		count = 1
	}

	fmt.Fprintf(&cigar, "%d%c", count, currentOp)
	return cigar.String()
}

func (p *SequencePair) String() string {
	return fmt.Sprintf("SequencePair { score: %d, identity: %.1f%%, length: %d }",
		p.score, p.Identity()*100, p.Length())
}
