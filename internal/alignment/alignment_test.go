package alignment

import (
	"errors"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/aria-lang/bioalign-go/internal/sequence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSeq(t testing.TB, alphabet *sequence.Alphabet, bases string) *sequence.Sequence {
	t.Helper()
	s, err := sequence.FromString(alphabet, bases)
	require.NoError(t, err)
	return s
}

func unitMatrix(t testing.TB) *SimpleMatrix {
	t.Helper()
	s, err := NewSimpleMatrix(1, -1)
	require.NoError(t, err)
	return s
}

func TestNeedlemanWunschTextbook(t *testing.T) {
	// U and T are both amino acid letters, so the classic example is
	// expressed over the protein alphabet.
	q := mustSeq(t, sequence.Protein, "GCATGCU")
	tg := mustSeq(t, sequence.Protein, "GATTACA")

	res, err := NeedlemanWunsch(q, tg, LinearGap(-1), unitMatrix(t))
	require.NoError(t, err)

	assert.Equal(t, 0, res.Score)
	a1, a2 := res.Pair.AlignedStrings()
	assert.Equal(t, "GCA-TGCU", a1)
	assert.Equal(t, "G-ATTACA", a2)
	assert.Nil(t, res.Matrix)
}

func TestNeedlemanWunschExact(t *testing.T) {
	blosum := BLOSUM62()
	dna := DefaultDNA()

	tests := []struct {
		name     string
		alphabet *sequence.Alphabet
		query    string
		target   string
		gap      *GapPenalty
		sub      SubstitutionMatrix
		score    int
		aligned1 string
		aligned2 string
	}{
		{
			name: "linear trailing gap", alphabet: sequence.DNA,
			query: "ATGCATGC", target: "ATGC", gap: LinearGap(-2), sub: dna,
			score: 0, aligned1: "ATGCATGC", aligned2: "ATGC----",
		},
		{
			name: "affine single run", alphabet: sequence.DNA,
			query: "ACGTACGTTTTTGGCCAATT", target: "ACGTACGTGGCCAATT", gap: DefaultGap(), sub: dna,
			score: 18, aligned1: "ACGTACGTTTTTGGCCAATT", aligned2: "ACGTACGT----GGCCAATT",
		},
		{
			name: "affine homopolymer", alphabet: sequence.DNA,
			query: "AAAAAAAAAA", target: "AAAAA", gap: DefaultGap(), sub: dna,
			score: -5, aligned1: "AAAAAAAAAA", aligned2: "AAAAA-----",
		},
		{
			name: "affine small", alphabet: sequence.DNA,
			query: "ACGT", target: "AGT", gap: AffineGap(-3, -1), sub: dna,
			score: 2, aligned1: "ACGT", aligned2: "A-GT",
		},
		{
			name: "blosum62 affine", alphabet: sequence.Protein,
			query: "HEAGAWGHEE", target: "PAWHEAE", gap: DefaultGap(), sub: blosum,
			score: 2, aligned1: "HEAGAWGHEE", aligned2: "P---AWHEAE",
		},
		{
			name: "blosum62 two runs", alphabet: sequence.Protein,
			query: "MKVLAAGIVALLLAA", target: "MKVLGIVALLAA", gap: DefaultGap(), sub: blosum,
			score: 29, aligned1: "MKVLAAGIVALLLAA", aligned2: "MKVL--GIVALL-AA",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := mustSeq(t, tt.alphabet, tt.query)
			tg := mustSeq(t, tt.alphabet, tt.target)

			res, err := NeedlemanWunsch(q, tg, tt.gap, tt.sub)
			require.NoError(t, err)

			assert.Equal(t, tt.score, res.Score)
			assert.Equal(t, tt.score, res.Pair.Score())
			a1, a2 := res.Pair.AlignedStrings()
			assert.Equal(t, tt.aligned1, a1)
			assert.Equal(t, tt.aligned2, a2)
			assert.Equal(t, tt.score, Rescore(res.Pair, tt.gap, tt.sub))
		})
	}
}

func TestHighroadTieBreak(t *testing.T) {
	sub := unitMatrix(t)

	t.Run("linear prefers query-side move", func(t *testing.T) {
		res, err := NeedlemanWunsch(mustSeq(t, sequence.DNA, "AA"), mustSeq(t, sequence.DNA, "A"), LinearGap(-1), sub)
		require.NoError(t, err)
		a1, a2 := res.Pair.AlignedStrings()
		assert.Equal(t, "AA", a1)
		assert.Equal(t, "A-", a2)
	})

	t.Run("affine prefers Ix over M", func(t *testing.T) {
		res, err := NeedlemanWunsch(mustSeq(t, sequence.DNA, "AA"), mustSeq(t, sequence.DNA, "A"), AffineGap(-2, -1), sub)
		require.NoError(t, err)
		assert.Equal(t, -2, res.Score)
		a1, a2 := res.Pair.AlignedStrings()
		assert.Equal(t, "AA", a1)
		assert.Equal(t, "A-", a2)
	})

	t.Run("affine prefers M over Iy", func(t *testing.T) {
		res, err := NeedlemanWunsch(mustSeq(t, sequence.DNA, "A"), mustSeq(t, sequence.DNA, "AA"), AffineGap(-2, -1), sub)
		require.NoError(t, err)
		assert.Equal(t, -2, res.Score)
		a1, a2 := res.Pair.AlignedStrings()
		assert.Equal(t, "-A", a1)
		assert.Equal(t, "AA", a2)
	})

	// With open == extend, closing a gap run into M ties with extending it.
	// A query-side run keeps extending on the tie; a target-side run closes.
	gapTies := []struct {
		name          string
		query, target string
		score         int
		aligned1      string
		aligned2      string
	}{
		{"target-side run closes on tie", "C", "ACCA", -4, "--C-", "ACCA"},
		{"query-side run extends on tie", "CCAAC", "A", -5, "CCAAC", "--A--"},
	}
	for _, tt := range gapTies {
		t.Run(tt.name, func(t *testing.T) {
			res, err := NeedlemanWunsch(mustSeq(t, sequence.DNA, tt.query), mustSeq(t, sequence.DNA, tt.target),
				AffineGap(-1, -1), sub)
			require.NoError(t, err)
			assert.Equal(t, tt.score, res.Score)
			a1, a2 := res.Pair.AlignedStrings()
			assert.Equal(t, tt.aligned1, a1)
			assert.Equal(t, tt.aligned2, a2)
		})
	}
}

func TestEmptySequenceBoundary(t *testing.T) {
	sub := unitMatrix(t)
	empty := mustSeq(t, sequence.DNA, "")
	acg := mustSeq(t, sequence.DNA, "ACG")

	tests := []struct {
		name   string
		query  *sequence.Sequence
		target *sequence.Sequence
		gap    *GapPenalty
		score  int
		gapsOn SequenceID
	}{
		{"linear empty query", empty, acg, LinearGap(-2), -6, QueryID},
		{"linear empty target", acg, empty, LinearGap(-2), -6, TargetID},
		{"affine empty query", empty, acg, AffineGap(-10, -1), -13, QueryID},
		{"affine empty target", acg, empty, AffineGap(-10, -1), -13, TargetID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := NeedlemanWunsch(tt.query, tt.target, tt.gap, sub)
			require.NoError(t, err)

			assert.Equal(t, tt.score, res.Score)
			require.Equal(t, 3, res.Pair.Length())
			for col := 1; col <= 3; col++ {
				assert.True(t, res.Pair.Aligned(tt.gapsOn).IsGap(col))
			}
			assert.Equal(t, 1, res.Pair.GapOpenings())
		})
	}

	t.Run("both empty", func(t *testing.T) {
		for _, gap := range []*GapPenalty{LinearGap(-1), AffineGap(-10, -1)} {
			res, err := NeedlemanWunsch(empty, empty, gap, sub)
			require.NoError(t, err)
			assert.Equal(t, 0, res.Score)
			assert.Equal(t, 0, res.Pair.Length())
			assert.Equal(t, "", res.Pair.CIGAR())
		}
	})
}

func TestIdentityAlignment(t *testing.T) {
	for _, gap := range []*GapPenalty{LinearGap(-1), AffineGap(-10, -1)} {
		t.Run(gap.Kind.String(), func(t *testing.T) {
			bases := "ACGTTGCAACGGT"
			res, err := NeedlemanWunsch(mustSeq(t, sequence.DNA, bases), mustSeq(t, sequence.DNA, bases), gap, DefaultDNA())
			require.NoError(t, err)

			assert.Equal(t, len(bases)*2, res.Score)
			assert.Equal(t, 0, res.Pair.GapCount())
			assert.Equal(t, len(bases), res.Pair.IdentityCount())
			assert.Equal(t, 1.0, res.Pair.Identity())
		})
	}
}

func TestAffinePrefersFewerOpenings(t *testing.T) {
	gap := AffineGap(-10, -1)

	// One run of five versus five runs of one.
	assert.Equal(t, -15, gap.Cost(5))
	assert.Equal(t, -55, 5*gap.Cost(1))
	assert.Greater(t, gap.Cost(5), 5*gap.Cost(1))

	alphabet := sequence.DNA
	single := pairFromStrings(t, alphabet, "ACGTACGTAC", "ACG-----AC")
	spread := pairFromStrings(t, alphabet, "ACGTACGTAC", "A-C-G-A-C-")
	sub := DefaultDNA()
	assert.Greater(t, Rescore(single, gap, sub)-subSum(single, sub), Rescore(spread, gap, sub)-subSum(spread, sub))

	// The aligner itself places a single run when the target lacks a block.
	q := mustSeq(t, alphabet, "GATTACAGGGGGCATTAGCC")
	tg := mustSeq(t, alphabet, "GATTACACATTAGCC")
	res, err := NeedlemanWunsch(q, tg, gap, sub)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Pair.GapOpenings())
	assert.Equal(t, 5, res.Pair.GapCount())
	assert.Equal(t, 15*2+gap.Cost(5), res.Score)
}

// subSum sums the substitution scores of the ungapped columns.
func subSum(p *SequencePair, sub SubstitutionMatrix) int {
	total := 0
	for col := 1; col <= p.Length(); col++ {
		x, okx := p.Query().ElementAt(col)
		y, oky := p.Target().ElementAt(col)
		if okx && oky {
			total += sub.Score(x, y)
		}
	}
	return total
}

func TestRetainedMatrix(t *testing.T) {
	t.Run("linear", func(t *testing.T) {
		q := mustSeq(t, sequence.Protein, "GCATGCU")
		tg := mustSeq(t, sequence.Protein, "GATTACA")

		res, err := NeedlemanWunsch(q, tg, LinearGap(-1), unitMatrix(t), WithRetainedMatrix())
		require.NoError(t, err)
		require.NotNil(t, res.Matrix)

		assert.Equal(t, 8, res.Matrix.Rows())
		assert.Equal(t, 8, res.Matrix.Cols())
		assert.Equal(t, 64*4, res.Matrix.Bytes())
		assert.Equal(t, []int{-1, 1, 0, -1, -2, -3, -4, -5}, res.Matrix.Row(1))
		assert.Equal(t, []int{-7, -5, -3, -1, -1, -1, 0, 0}, res.Matrix.Row(7))
		assert.Equal(t, res.Score, res.Matrix.At(7, 7))
	})

	t.Run("affine collapsed", func(t *testing.T) {
		q := mustSeq(t, sequence.DNA, "ACGT")
		tg := mustSeq(t, sequence.DNA, "AGT")

		res, err := NeedlemanWunsch(q, tg, AffineGap(-3, -1), DefaultDNA(), WithRetainedMatrix())
		require.NoError(t, err)
		require.NotNil(t, res.Matrix)

		want := [][]int{
			{0, -4, -5, -6},
			{-4, 2, -2, -3},
			{-5, -2, 1, -3},
			{-6, -3, 0, 0},
			{-7, -4, -4, 2},
		}
		for i, row := range want {
			assert.Equal(t, row, res.Matrix.Row(i), "row %d", i)
		}
	})
}

func TestMissingConfiguration(t *testing.T) {
	q := mustSeq(t, sequence.DNA, "ACGT")
	tg := mustSeq(t, sequence.DNA, "ACG")
	gap := DefaultGap()
	sub := DefaultDNA()

	tests := []struct {
		name   string
		query  *sequence.Sequence
		target *sequence.Sequence
		gap    *GapPenalty
		sub    SubstitutionMatrix
		want   error
	}{
		{"nil query", nil, tg, gap, sub, ErrMissingConfiguration},
		{"nil target", q, nil, gap, sub, ErrMissingConfiguration},
		{"nil gap", q, tg, nil, sub, ErrMissingConfiguration},
		{"nil matrix", q, tg, gap, nil, ErrMissingConfiguration},
		{"alphabet mismatch", q, mustSeq(t, sequence.Protein, "ACG"), gap, sub, ErrAlphabetMismatch},
		{"positive gap", q, tg, AffineGap(2, -1), sub, ErrInvalidGapPenalty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := NeedlemanWunsch(tt.query, tt.target, tt.gap, tt.sub)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}

	t.Run("config error type", func(t *testing.T) {
		_, err := NeedlemanWunsch(q, tg, nil, sub)
		var ce *ConfigError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "gap penalty", ce.Field)
	})
}

func TestScoreRange(t *testing.T) {
	huge, err := NewSimpleMatrix(1<<28, 0)
	require.NoError(t, err)

	tests := []struct {
		name          string
		query, target string
		gap           *GapPenalty
		sub           SubstitutionMatrix
	}{
		{"sum over columns", "AC", "AC", LinearGap(-1), huge},
		{"open beyond cell range", "ACGTACGT", "ACGT", AffineGap(-(maxCellScore + 1), -1), DefaultDNA()},
		{"open and extend near MinInt", "ACGTACGT", "ACGT", AffineGap(math.MinInt/2, math.MinInt/2), DefaultDNA()},
		{"extend at MinInt", "ACGTACGT", "ACGT", LinearGap(math.MinInt), DefaultDNA()},
		{"open at MinInt", "ACGTACGT", "ACGT", AffineGap(math.MinInt, -1), DefaultDNA()},
		{"mismatch at MinInt", "AAAA", "CCCC", LinearGap(-1), &SimpleMatrix{MatchScore: 1, MismatchPenalty: math.MinInt}},
		{"match at MaxInt", "AAAA", "AAAA", LinearGap(-1), &SimpleMatrix{MatchScore: math.MaxInt, MismatchPenalty: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, tg := mustSeq(t, sequence.DNA, tt.query), mustSeq(t, sequence.DNA, tt.target)

			res, err := NeedlemanWunsch(q, tg, tt.gap, tt.sub)
			assert.ErrorIs(t, err, ErrScoreRange)
			assert.Nil(t, res)

			_, err = GlobalAlignmentScoreOnly(q, tg, tt.gap, tt.sub)
			assert.ErrorIs(t, err, ErrScoreRange)
		})
	}

	t.Run("large but representable", func(t *testing.T) {
		res, err := NeedlemanWunsch(mustSeq(t, sequence.DNA, "ACGTACGT"), mustSeq(t, sequence.DNA, "ACGT"),
			AffineGap(-1000000, -1000), DefaultDNA())
		require.NoError(t, err)
		assert.Equal(t, 8-1000000-4000, res.Score)
		assert.Equal(t, res.Score, Rescore(res.Pair, AffineGap(-1000000, -1000), DefaultDNA()))
	})
}

func TestTracebackInvariant(t *testing.T) {
	sub := unitMatrix(t)

	t.Run("linear", func(t *testing.T) {
		q, tg := "GCATGC", "GATTAC"
		gap := LinearGap(-1)
		mx := fillLinear(q, tg, gap, sub)
		mx.m.set(6, 6, 100)

		assert.Panics(t, func() { tracebackLinear(q, tg, mx.m, gap, sub) })
	})

	t.Run("affine", func(t *testing.T) {
		q, tg := "GCATGC", "GATTAC"
		gap := AffineGap(-3, -1)
		mx := fillAffine(q, tg, gap, sub)
		mx.m.set(6, 6, 100)

		defer func() {
			r := recover()
			require.NotNil(t, r)
			ie, ok := r.(*InvariantError)
			require.True(t, ok)
			assert.Equal(t, "M", ie.State)
			assert.Equal(t, 6, ie.I)
			assert.Equal(t, 6, ie.J)
		}()
		tracebackAffine(q, tg, mx, gap, sub)
	})
}

func randomBases(r *rand.Rand, alphabet string, n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		sb.WriteByte(alphabet[r.Intn(len(alphabet))])
	}
	return sb.String()
}

func TestAlignmentProperties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	configs := []struct {
		name     string
		alphabet *sequence.Alphabet
		symbols  string
		gap      *GapPenalty
		sub      SubstitutionMatrix
	}{
		{"dna linear", sequence.DNA, "ACGT", LinearGap(-2), DefaultDNA()},
		{"dna affine", sequence.DNA, "ACGT", AffineGap(-5, -2), DefaultDNA()},
		{"dna nuc44", sequence.DNA, "ACGTN", AffineGap(-10, -1), NUC44()},
		{"protein blosum62", sequence.Protein, "ARNDCQEGHILKMFPSTWYV", AffineGap(-11, -1), BLOSUM62()},
		{"protein zero open", sequence.Protein, "ACDE", AffineGap(0, -1), BLOSUM62()},
	}

	for _, cfg := range configs {
		t.Run(cfg.name, func(t *testing.T) {
			for trial := 0; trial < 40; trial++ {
				qs := randomBases(r, cfg.symbols, r.Intn(25))
				ts := randomBases(r, cfg.symbols, r.Intn(25))
				q := mustSeq(t, cfg.alphabet, qs)
				tg := mustSeq(t, cfg.alphabet, ts)

				res, err := NeedlemanWunsch(q, tg, cfg.gap, cfg.sub)
				require.NoError(t, err)
				p := res.Pair

				assert.Equal(t, p.Query().Length(), p.Target().Length())
				assert.Equal(t, len(qs), p.Query().Length()-p.Query().GapCount())
				assert.Equal(t, len(ts), p.Target().Length()-p.Target().GapCount())
				assert.Equal(t, res.Score, Rescore(p, cfg.gap, cfg.sub), "%s vs %s", qs, ts)

				a1, a2 := p.AlignedStrings()
				assert.Equal(t, qs, strings.ReplaceAll(a1, "-", ""))
				assert.Equal(t, ts, strings.ReplaceAll(a2, "-", ""))
				for col := 1; col <= p.Length(); col++ {
					assert.False(t, p.Query().IsGap(col) && p.Target().IsGap(col))
				}
				assert.LessOrEqual(t, p.IdentityCount(), p.SimilarityCount())
				assert.LessOrEqual(t, p.SimilarityCount(), p.Length())

				again, err := NeedlemanWunsch(q, tg, cfg.gap, cfg.sub)
				require.NoError(t, err)
				assert.Equal(t, res.Score, again.Score)
				assert.Equal(t, p.Query().Steps(), again.Pair.Query().Steps())
				assert.Equal(t, p.Target().Steps(), again.Pair.Target().Steps())

				only, err := GlobalAlignmentScoreOnly(q, tg, cfg.gap, cfg.sub)
				require.NoError(t, err)
				assert.Equal(t, res.Score, only)
			}
		})
	}
}

func TestElapsedRecorded(t *testing.T) {
	q := mustSeq(t, sequence.DNA, strings.Repeat("ACGT", 50))
	res, err := NeedlemanWunsch(q, q, DefaultGap(), DefaultDNA())
	require.NoError(t, err)

	assert.GreaterOrEqual(t, int64(res.Elapsed), int64(0))
	assert.Equal(t, res.Elapsed, res.Pair.Elapsed())
}

func benchmarkPair(b *testing.B) (*sequence.Sequence, *sequence.Sequence) {
	s1 := strings.Repeat("ACGT", 250)
	s2 := strings.Repeat("AGCT", 250)
	seq1, _ := sequence.New(s1)
	seq2, _ := sequence.New(s2)
	return seq1, seq2
}

func BenchmarkNeedlemanWunschLinear(b *testing.B) {
	seq1, seq2 := benchmarkPair(b)
	gap := LinearGap(-2)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = NeedlemanWunsch(seq1, seq2, gap, DefaultDNA())
	}
}

func BenchmarkNeedlemanWunschAffine(b *testing.B) {
	seq1, seq2 := benchmarkPair(b)
	gap := DefaultGap()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = NeedlemanWunsch(seq1, seq2, gap, DefaultDNA())
	}
}

func BenchmarkGlobalAlignmentScoreOnly(b *testing.B) {
	seq1, seq2 := benchmarkPair(b)
	gap := DefaultGap()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = GlobalAlignmentScoreOnly(seq1, seq2, gap, DefaultDNA())
	}
}
