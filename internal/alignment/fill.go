package alignment

import (
	"fmt"
	"math"
)

// Cells are int32. negInf marks unreachable affine boundary cells; it sits
// far enough below every reachable score that adding an open and an extend
// penalty to it cannot wrap, and far enough below maxCellScore that it never
// wins a max.
const (
	negInf       int32 = math.MinInt32 / 2
	maxCellScore       = math.MaxInt32 / 4
)

// ScoreMatrix is a dense (len(query)+1) x (len(target)+1) grid of DP scores.
type ScoreMatrix struct {
	rows, cols int
	cells      []int32
}

func newScoreMatrix(rows, cols int) *ScoreMatrix {
	return &ScoreMatrix{rows: rows, cols: cols, cells: make([]int32, rows*cols)}
}

// At returns the score at row i (query prefix length) and column j (target
// prefix length).
func (s *ScoreMatrix) At(i, j int) int {
	return int(s.at(i, j))
}

func (s *ScoreMatrix) at(i, j int) int32 {
	return s.cells[i*s.cols+j]
}

func (s *ScoreMatrix) set(i, j int, v int32) {
	s.cells[i*s.cols+j] = v
}

// Rows returns len(query)+1.
func (s *ScoreMatrix) Rows() int {
	return s.rows
}

// Cols returns len(target)+1.
func (s *ScoreMatrix) Cols() int {
	return s.cols
}

// Bytes returns the memory held by the cells.
func (s *ScoreMatrix) Bytes() int {
	return len(s.cells) * 4
}

// Row returns a copy of row i.
func (s *ScoreMatrix) Row(i int) []int {
	out := make([]int, s.cols)
	for j := range out {
		out[j] = s.At(i, j)
	}
	return out
}

// matrices holds the filled DP state of one alignment call. ix and iy are
// nil under the linear model, where m is the single score matrix.
type matrices struct {
	m, ix, iy *ScoreMatrix
}

// score returns the optimal global score at the bottom-right cell.
func (mx *matrices) score() int32 {
	n, m := mx.m.rows-1, mx.m.cols-1
	if mx.ix == nil {
		return mx.m.at(n, m)
	}
	return max3(mx.m.at(n, m), mx.ix.at(n, m), mx.iy.at(n, m))
}

// collapse folds the affine matrices into m by elementwise max and drops
// ix and iy.
func (mx *matrices) collapse() *ScoreMatrix {
	if mx.ix != nil {
		for k := range mx.m.cells {
			mx.m.cells[k] = max3(mx.m.cells[k], mx.ix.cells[k], mx.iy.cells[k])
		}
		mx.ix, mx.iy = nil, nil
	}
	return mx.m
}

// checkRange fails fast when the worst-case magnitude of any reachable cell
// does not fit below maxCellScore. Each term is bounded on its own first so
// the per-column sum cannot wrap.
func checkRange(q, t string, gap *GapPenalty, sub SubstitutionMatrix) error {
	terms := []struct {
		name      string
		magnitude int
	}{
		{"substitution score", maxSubstitution(sub, q, t)},
		{"gap extension", abs(gap.Extend)},
		{"gap open", abs(gap.open())},
	}

	var per int64
	for _, term := range terms {
		if term.magnitude > maxCellScore {
			return fmt.Errorf("%w: %s magnitude %d exceeds %d", ErrScoreRange, term.name, term.magnitude, maxCellScore)
		}
		per += int64(term.magnitude)
	}

	if columns := int64(len(q) + len(t) + 1); per > maxCellScore/columns {
		return fmt.Errorf("%w: lengths %d+%d with per-column magnitude %d", ErrScoreRange, len(q), len(t), per)
	}
	return nil
}

// fillLinear computes the single linear-gap matrix:
//
//	S[i][j] = max(S[i-1][j] + e, S[i][j-1] + e, S[i-1][j-1] + sub(q_i, t_j))
func fillLinear(q, t string, gap *GapPenalty, sub SubstitutionMatrix) *matrices {
	n, m := len(q), len(t)
	ext := int32(gap.Extend)
	s := newScoreMatrix(n+1, m+1)

	for i := 1; i <= n; i++ {
		s.set(i, 0, s.at(i-1, 0)+ext)
	}
	for j := 1; j <= m; j++ {
		s.set(0, j, s.at(0, j-1)+ext)
	}

	for i := 1; i <= n; i++ {
		qi := q[i-1]
		for j := 1; j <= m; j++ {
			up := s.at(i-1, j) + ext
			left := s.at(i, j-1) + ext
			diag := s.at(i-1, j-1) + int32(sub.Score(qi, t[j-1]))
			s.set(i, j, max3(up, left, diag))
		}
	}

	return &matrices{m: s}
}

// fillAffine computes the three Gotoh matrices:
//
//	M[i][j]  = max(M, Ix, Iy)[i-1][j-1] + sub(q_i, t_j)
//	Ix[i][j] = max(M[i-1][j] + o, Ix[i-1][j]) + e
//	Iy[i][j] = max(M[i][j-1] + o, Iy[i][j-1]) + e
//
// Ix consumes a query symbol against a gap, Iy a target symbol against a gap.
func fillAffine(q, t string, gap *GapPenalty, sub SubstitutionMatrix) *matrices {
	n, m := len(q), len(t)
	open, ext := int32(gap.Open), int32(gap.Extend)
	M := newScoreMatrix(n+1, m+1)
	ix := newScoreMatrix(n+1, m+1)
	iy := newScoreMatrix(n+1, m+1)

	ix.set(0, 0, open)
	iy.set(0, 0, open)
	for i := 1; i <= n; i++ {
		M.set(i, 0, negInf)
		iy.set(i, 0, negInf)
		ix.set(i, 0, ix.at(i-1, 0)+ext)
	}
	for j := 1; j <= m; j++ {
		M.set(0, j, negInf)
		ix.set(0, j, negInf)
		iy.set(0, j, iy.at(0, j-1)+ext)
	}

	for i := 1; i <= n; i++ {
		qi := q[i-1]
		for j := 1; j <= m; j++ {
			M.set(i, j, max3(M.at(i-1, j-1), ix.at(i-1, j-1), iy.at(i-1, j-1))+int32(sub.Score(qi, t[j-1])))
			ix.set(i, j, max2(M.at(i-1, j)+open, ix.at(i-1, j))+ext)
			iy.set(i, j, max2(M.at(i, j-1)+open, iy.at(i, j-1))+ext)
		}
	}

	return &matrices{m: M, ix: ix, iy: iy}
}

// scoreOnlyLinear keeps two rows instead of the full matrix.
func scoreOnlyLinear(q, t string, gap *GapPenalty, sub SubstitutionMatrix) int32 {
	m := len(t)
	ext := int32(gap.Extend)

	prevRow := make([]int32, m+1)
	currRow := make([]int32, m+1)
	for j := 1; j <= m; j++ {
		prevRow[j] = prevRow[j-1] + ext
	}

	for i := 1; i <= len(q); i++ {
		currRow[0] = prevRow[0] + ext
		qi := q[i-1]
		for j := 1; j <= m; j++ {
			currRow[j] = max3(prevRow[j]+ext, currRow[j-1]+ext, prevRow[j-1]+int32(sub.Score(qi, t[j-1])))
		}
		prevRow, currRow = currRow, prevRow
	}

	return prevRow[m]
}

// scoreOnlyAffine is the two-row form of fillAffine.
func scoreOnlyAffine(q, t string, gap *GapPenalty, sub SubstitutionMatrix) int32 {
	m := len(t)
	open, ext := int32(gap.Open), int32(gap.Extend)

	pM, pX, pY := make([]int32, m+1), make([]int32, m+1), make([]int32, m+1)
	cM, cX, cY := make([]int32, m+1), make([]int32, m+1), make([]int32, m+1)

	pX[0], pY[0] = open, open
	for j := 1; j <= m; j++ {
		pM[j], pX[j] = negInf, negInf
		pY[j] = pY[j-1] + ext
	}

	for i := 1; i <= len(q); i++ {
		cM[0], cY[0] = negInf, negInf
		cX[0] = pX[0] + ext
		qi := q[i-1]
		for j := 1; j <= m; j++ {
			cM[j] = max3(pM[j-1], pX[j-1], pY[j-1]) + int32(sub.Score(qi, t[j-1]))
			cX[j] = max2(pM[j]+open, pX[j]) + ext
			cY[j] = max2(cM[j-1]+open, cY[j-1]) + ext
		}
		pM, cM = cM, pM
		pX, cX = cX, pX
		pY, cY = cY, pY
	}

	return max3(pM[m], pX[m], pY[m])
}

func max2(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func max3(a, b, c int32) int32 {
	return max2(max2(a, b), c)
}
