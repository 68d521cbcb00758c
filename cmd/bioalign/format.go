package main

import (
	"fmt"
	"strings"

	"github.com/aria-lang/bioalign-go/pkg/bioalign"
	"github.com/dustin/go-humanize"
)

func displayID(s *bioalign.Sequence, fallback string) string {
	if s == nil || s.ID == "" {
		return fallback
	}
	return s.ID
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

// matchLine marks each column: '|' identical, ':' equivalent under the
// alphabet, '.' mismatch, ' ' gap.
func matchLine(p *bioalign.SequencePair) string {
	alpha := p.Query().Original().Alphabet
	if alpha == nil {
		alpha = bioalign.DNA
	}

	var sb strings.Builder
	sb.Grow(p.Length())
	for col := 1; col <= p.Length(); col++ {
		x, okx := p.Query().ElementAt(col)
		y, oky := p.Target().ElementAt(col)
		switch {
		case !okx || !oky:
			sb.WriteByte(' ')
		case alpha.Equal(x, y):
			sb.WriteByte('|')
		case alpha.Equivalent(x, y):
			sb.WriteByte(':')
		default:
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

// formatResult renders a summary header followed by the alignment in blocks
// of width columns. Each row ends with the 1-based position of its last
// residue.
func formatResult(res *bioalign.Result, width int) string {
	if width <= 0 {
		width = 60
	}
	p := res.Pair
	q, t := p.Query().Original(), p.Target().Original()

	var sb strings.Builder
	fmt.Fprintf(&sb, "Query:      %s (%s residues)\n", displayID(q, "query"), humanize.Comma(int64(q.Len())))
	fmt.Fprintf(&sb, "Target:     %s (%s residues)\n", displayID(t, "target"), humanize.Comma(int64(t.Len())))
	fmt.Fprintf(&sb, "Score:      %d\n", res.Score)
	fmt.Fprintf(&sb, "Length:     %s\n", humanize.Comma(int64(p.Length())))
	fmt.Fprintf(&sb, "Identity:   %d/%d (%.1f%%)\n", p.IdentityCount(), p.Length(), p.Identity()*100)
	fmt.Fprintf(&sb, "Similarity: %d/%d (%.1f%%)\n", p.SimilarityCount(), p.Length(), p.Similarity()*100)
	fmt.Fprintf(&sb, "Gaps:       %d in %d runs\n", p.GapCount(), p.GapOpenings())
	fmt.Fprintf(&sb, "CIGAR:      %s\n", p.CIGAR())
	fmt.Fprintf(&sb, "Elapsed:    %s\n", res.Elapsed)

	a1, a2 := p.AlignedStrings()
	marks := matchLine(p)
	qPos, tPos := 0, 0

	for start := 0; start < len(a1); start += width {
		end := start + width
		if end > len(a1) {
			end = len(a1)
		}
		qPos += len(a1[start:end]) - strings.Count(a1[start:end], "-")
		tPos += len(a2[start:end]) - strings.Count(a2[start:end], "-")

		sb.WriteByte('\n')
		fmt.Fprintf(&sb, "Query  %s %d\n", a1[start:end], qPos)
		fmt.Fprintf(&sb, "       %s\n", marks[start:end])
		fmt.Fprintf(&sb, "Target %s %d\n", a2[start:end], tPos)
	}

	return sb.String()
}

// formatMatrix renders a score matrix as tab-separated rows.
func formatMatrix(m *bioalign.ScoreMatrix) string {
	var sb strings.Builder
	for i := 0; i < m.Rows(); i++ {
		for j, v := range m.Row(i) {
			if j > 0 {
				sb.WriteByte('\t')
			}
			fmt.Fprintf(&sb, "%d", v)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
