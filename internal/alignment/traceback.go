package alignment

import "fmt"

// tracebackState is the matrix an affine path arrives from at (i, j).
type tracebackState uint8

const (
	// fromM: the column pairs q_i with t_j.
	fromM tracebackState = iota
	// fromIx: the column pairs q_i with a gap.
	fromIx
	// fromIy: the column pairs a gap with t_j.
	fromIy
)

func (s tracebackState) String() string {
	switch s {
	case fromM:
		return "M"
	case fromIx:
		return "Ix"
	case fromIy:
		return "Iy"
	default:
		return "unknown"
	}
}

// stepBuffer collects columns from (n,m) back to (0,0) and hands them out
// in alignment order.
type stepBuffer struct {
	query, target []Step
}

func newStepBuffer(capacity int) *stepBuffer {
	return &stepBuffer{
		query:  make([]Step, 0, capacity),
		target: make([]Step, 0, capacity),
	}
}

func (b *stepBuffer) emit(q, t Step) {
	b.query = append(b.query, q)
	b.target = append(b.target, t)
}

func (b *stepBuffer) steps() ([]Step, []Step) {
	reverseSteps(b.query)
	reverseSteps(b.target)
	return b.query, b.target
}

func reverseSteps(s []Step) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func violation(state string, i, j int, format string, args ...interface{}) {
	panic(&InvariantError{State: state, I: i, J: j, Detail: fmt.Sprintf(format, args...)})
}

// tracebackLinear walks the linear matrix with the highroad preference:
// a query-side move (i-1) first, then the diagonal, then a target-side move.
func tracebackLinear(q, t string, s *ScoreMatrix, gap *GapPenalty, sub SubstitutionMatrix) ([]Step, []Step) {
	ext := int32(gap.Extend)
	i, j := len(q), len(t)
	buf := newStepBuffer(i + j)

	for i > 0 || j > 0 {
		cur := s.at(i, j)
		switch {
		case i == 0:
			buf.emit(Gap, Element)
			j--
		case j == 0 || cur == s.at(i-1, j)+ext:
			buf.emit(Element, Gap)
			i--
		case cur == s.at(i-1, j-1)+int32(sub.Score(q[i-1], t[j-1])):
			buf.emit(Element, Element)
			i--
			j--
		case cur == s.at(i, j-1)+ext:
			buf.emit(Gap, Element)
			j--
		default:
			violation("linear", i, j, "score %d has no predecessor", cur)
		}
	}

	return buf.steps()
}

// highroad picks the state holding the cell maximum, preferring Ix, then M,
// then Iy.
func highroad(mx *matrices, i, j int) tracebackState {
	m, x, y := mx.m.at(i, j), mx.ix.at(i, j), mx.iy.at(i, j)
	best := max3(m, x, y)
	switch best {
	case x:
		return fromIx
	case m:
		return fromM
	default:
		return fromIy
	}
}

// tracebackAffine runs the Gotoh state machine from (n,m) to (0,0).
//
// Leaving a gap run follows the same Ix > M > Iy precedence as highroad:
// an Ix run closes into M only when M is strictly better, an Iy run closes
// into M whenever M is at least as good.
func tracebackAffine(q, t string, mx *matrices, gap *GapPenalty, sub SubstitutionMatrix) ([]Step, []Step) {
	open, ext := int32(gap.Open), int32(gap.Extend)
	i, j := len(q), len(t)
	buf := newStepBuffer(i + j)
	state := highroad(mx, i, j)

	for i > 0 || j > 0 {
		switch state {
		case fromIx:
			if i == 0 {
				violation(state.String(), i, j, "query exhausted")
			}
			fromMatch, fromGap := mx.m.at(i-1, j)+open, mx.ix.at(i-1, j)
			if got := mx.ix.at(i, j); got != max2(fromMatch, fromGap)+ext {
				violation(state.String(), i, j, "score %d has no predecessor", got)
			}
			buf.emit(Element, Gap)
			i--
			if fromMatch > fromGap {
				state = fromM
			}

		case fromIy:
			if j == 0 {
				violation(state.String(), i, j, "target exhausted")
			}
			fromMatch, fromGap := mx.m.at(i, j-1)+open, mx.iy.at(i, j-1)
			if got := mx.iy.at(i, j); got != max2(fromMatch, fromGap)+ext {
				violation(state.String(), i, j, "score %d has no predecessor", got)
			}
			buf.emit(Gap, Element)
			j--
			if fromMatch >= fromGap {
				state = fromM
			}

		case fromM:
			if i == 0 || j == 0 {
				violation(state.String(), i, j, "match on a boundary cell")
			}
			prev := max3(mx.m.at(i-1, j-1), mx.ix.at(i-1, j-1), mx.iy.at(i-1, j-1))
			if got := mx.m.at(i, j); got != prev+int32(sub.Score(q[i-1], t[j-1])) {
				violation(state.String(), i, j, "score %d has no predecessor", got)
			}
			buf.emit(Element, Element)
			i--
			j--
			state = highroad(mx, i, j)

		default:
			violation(state.String(), i, j, "unknown state")
		}
	}

	return buf.steps()
}
