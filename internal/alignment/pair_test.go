package alignment

import (
	"strings"
	"sync"
	"testing"

	"github.com/aria-lang/bioalign-go/internal/sequence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pairFromStrings builds a pair from two gapped strings of equal length.
func pairFromStrings(t testing.TB, alphabet *sequence.Alphabet, gapped1, gapped2 string) *SequencePair {
	t.Helper()
	toSteps := func(s string) []Step {
		steps := make([]Step, len(s))
		for i := 0; i < len(s); i++ {
			if s[i] == GapSymbol {
				steps[i] = Gap
			}
		}
		return steps
	}

	q := mustSeq(t, alphabet, strings.ReplaceAll(gapped1, "-", ""))
	tg := mustSeq(t, alphabet, strings.ReplaceAll(gapped2, "-", ""))
	p, err := NewSequencePair(q, tg, toSteps(gapped1), toSteps(gapped2), 0, 0)
	require.NoError(t, err)
	return p
}

func TestSequencePairCounts(t *testing.T) {
	p := pairFromStrings(t, sequence.Protein, "GCA-TGCU", "G-ATTACA")

	assert.Equal(t, 8, p.Length())
	assert.Equal(t, 4, p.IdentityCount())
	assert.Equal(t, 4, p.SimilarityCount())
	assert.Equal(t, 2, p.MismatchCount())
	assert.Equal(t, 2, p.GapCount())
	assert.Equal(t, 2, p.GapOpenings())
	assert.InDelta(t, 0.5, p.Identity(), 1e-9)
	assert.Equal(t, "1M1D1M1I1M1X1M1X", p.CIGAR())
}

func TestSequencePairSimilarity(t *testing.T) {
	p := pairFromStrings(t, sequence.DNA, "ACGR", "ACGA")

	assert.Equal(t, 3, p.IdentityCount())
	assert.Equal(t, 4, p.SimilarityCount())
	assert.Equal(t, 1.0, p.Similarity())
	assert.Equal(t, "3M1X", p.CIGAR())
}

func TestSequencePairEmpty(t *testing.T) {
	p := pairFromStrings(t, sequence.DNA, "", "")

	assert.Equal(t, 0, p.Length())
	assert.Equal(t, 0.0, p.Identity())
	assert.Equal(t, 0.0, p.Similarity())
	assert.Equal(t, 0, p.GapOpenings())
}

func TestSequencePairMapping(t *testing.T) {
	p := pairFromStrings(t, sequence.Protein, "GCA-TGCU", "G-ATTACA")

	t.Run("element at", func(t *testing.T) {
		c, ok := p.ElementAt(QueryID, 4)
		assert.False(t, ok)
		assert.Equal(t, byte(GapSymbol), c)

		c, ok = p.ElementAt(TargetID, 4)
		assert.True(t, ok)
		assert.Equal(t, byte('T'), c)
	})

	t.Run("sequence index", func(t *testing.T) {
		pos, ok := p.SequenceIndexAt(QueryID, 5)
		assert.True(t, ok)
		assert.Equal(t, 4, pos)

		_, ok = p.SequenceIndexAt(TargetID, 2)
		assert.False(t, ok)
	})

	t.Run("alignment index", func(t *testing.T) {
		assert.Equal(t, 5, p.AlignmentIndexAt(QueryID, 4))
		assert.Equal(t, 1, p.AlignmentIndexAt(TargetID, 1))
		assert.Equal(t, 3, p.AlignmentIndexAt(TargetID, 2))
	})

	t.Run("cross mapping", func(t *testing.T) {
		pos, ok := p.IndexInQueryForTarget(2)
		assert.True(t, ok)
		assert.Equal(t, 3, pos)

		_, ok = p.IndexInQueryForTarget(3)
		assert.False(t, ok)

		_, ok = p.IndexInTargetForQuery(2)
		assert.False(t, ok)

		pos, ok = p.IndexInTargetForQuery(6)
		assert.True(t, ok)
		assert.Equal(t, 6, pos)
	})

	t.Run("round trip", func(t *testing.T) {
		for _, id := range []SequenceID{QueryID, TargetID} {
			seq := p.Aligned(id).Original()
			for pos := 1; pos <= seq.Len(); pos++ {
				col := p.AlignmentIndexAt(id, pos)
				got, ok := p.SequenceIndexAt(id, col)
				require.True(t, ok)
				assert.Equal(t, pos, got)
			}
		}
	})

	t.Run("out of range", func(t *testing.T) {
		assert.Panics(t, func() { p.ElementAt(QueryID, 0) })
		assert.Panics(t, func() { p.ElementAt(QueryID, 9) })
		assert.Panics(t, func() { p.AlignmentIndexAt(TargetID, 8) })
		assert.Panics(t, func() { p.Aligned(SequenceID(3)) })
	})
}

func TestNewSequencePairRejects(t *testing.T) {
	q := mustSeq(t, sequence.DNA, "AC")
	tg := mustSeq(t, sequence.DNA, "A")

	t.Run("length mismatch", func(t *testing.T) {
		_, err := NewSequencePair(q, tg, []Step{Element, Element}, []Step{Element}, 0, 0)
		assert.Error(t, err)
	})

	t.Run("double gap column", func(t *testing.T) {
		_, err := NewSequencePair(q, tg,
			[]Step{Element, Gap, Element},
			[]Step{Element, Gap, Gap}, 0, 0)
		assert.Error(t, err)
	})

	t.Run("element count", func(t *testing.T) {
		_, err := NewSequencePair(q, tg,
			[]Step{Element, Gap},
			[]Step{Element, Element}, 0, 0)
		assert.Error(t, err)
	})
}

func TestSequencePairConcurrentCounts(t *testing.T) {
	p := pairFromStrings(t, sequence.DNA, "ACGTNACG-T", "ACGAAAC-GT")
	want := p.countColumns(sequence.DNA.Equal)

	var wg sync.WaitGroup
	got := make([]int, 16)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = p.IdentityCount()
		}(i)
	}
	wg.Wait()

	for _, g := range got {
		assert.Equal(t, want, g)
	}
}

func TestAlignedSequenceString(t *testing.T) {
	p := pairFromStrings(t, sequence.DNA, "AC-GT", "ACTGT")

	assert.Equal(t, "AC-GT", p.Query().String())
	assert.Equal(t, 1, p.Query().GapCount())
	assert.Equal(t, []Step{Element, Element, Gap, Element, Element}, p.Query().Steps())
	assert.Contains(t, p.String(), "length: 5")
}
