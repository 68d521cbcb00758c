package main

import (
	"strings"
	"testing"

	"github.com/aria-lang/bioalign-go/pkg/bioalign"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatResult(t *testing.T) {
	q, err := bioalign.NewSequenceWithID("ACGTACGTTTTTGGCCAATT", "q1")
	require.NoError(t, err)
	tg, err := bioalign.NewSequenceWithID("ACGTACGTGGCCAATT", "t1")
	require.NoError(t, err)

	res, err := bioalign.Align(q, tg)
	require.NoError(t, err)

	out := formatResult(res, 10)
	assert.Contains(t, out, "Query:      q1 (20 residues)")
	assert.Contains(t, out, "Score:      18")
	assert.Contains(t, out, "Gaps:       4 in 1 runs")
	assert.Contains(t, out, "Query  ACGTACGTTT 10\n       ||||||||  \nTarget ACGTACGT-- 8\n")
	assert.Contains(t, out, "Query  TTGGCCAATT 20\n")
	assert.Contains(t, out, "Target --GGCCAATT 16\n")
}

func TestMatchLine(t *testing.T) {
	q, _ := bioalign.NewSequence("ACGR")
	tg, _ := bioalign.NewSequence("ACTA")

	res, err := bioalign.AlignGlobal(q, tg, bioalign.DefaultGap(), bioalign.DefaultMatrix(bioalign.DNA))
	require.NoError(t, err)
	assert.Equal(t, "||.:", matchLine(res.Pair))
}

func TestFormatMatrix(t *testing.T) {
	q, _ := bioalign.NewSequence("AC")
	tg, _ := bioalign.NewSequence("A")

	res, err := bioalign.AlignGlobal(q, tg, bioalign.DefaultGap(), bioalign.DefaultMatrix(bioalign.DNA),
		bioalign.WithRetainedMatrix())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(formatMatrix(res.Matrix)), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, "0\t-11", lines[0])
}

func TestFormatBatch(t *testing.T) {
	q, _ := bioalign.NewSequenceWithID("ACGTACGT", "query")
	t1, _ := bioalign.NewSequenceWithID("ACGT", "short")
	t2, _ := bioalign.NewSequenceWithID("ACGTACGT", "exact")

	results, err := bioalign.AlignBatch(q, []*bioalign.Sequence{t1, t2}, bioalign.DefaultGap(), bioalign.DefaultMatrix(bioalign.DNA), 2)
	require.NoError(t, err)

	out := formatBatch(q, results, 1)
	assert.Contains(t, out, "exact")
	assert.NotContains(t, out, "short ")
	assert.Contains(t, out, "Best: #2 exact (score 16)")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab...", truncate("abcdefgh", 5))
	assert.Equal(t, "ab", truncate("abcdefgh", 2))
}
