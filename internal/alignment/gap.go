package alignment

import (
	"fmt"
	"strings"
)

// GapKind selects the gap cost model.
type GapKind int

const (
	// Linear charges Extend for every gap column.
	Linear GapKind = iota
	// Affine charges Open once per gap run plus Extend per column.
	Affine
)

func (k GapKind) String() string {
	switch k {
	case Linear:
		return "linear"
	case Affine:
		return "affine"
	default:
		return "unknown"
	}
}

// ParseGapKind resolves a gap model by name.
func ParseGapKind(name string) (GapKind, error) {
	switch strings.ToLower(name) {
	case "linear":
		return Linear, nil
	case "", "affine":
		return Affine, nil
	default:
		return 0, fmt.Errorf("%w: unknown gap model %q", ErrInvalidGapPenalty, name)
	}
}

// GapPenalty is the gap cost configuration. Penalties are non-positive
// scores; Open is ignored by the Linear model.
type GapPenalty struct {
	Kind   GapKind
	Open   int
	Extend int
}

// LinearGap returns a linear gap penalty.
func LinearGap(extend int) *GapPenalty {
	return &GapPenalty{Kind: Linear, Extend: extend}
}

// AffineGap returns an affine gap penalty. A run of k gap columns costs
// open + k*extend.
func AffineGap(open, extend int) *GapPenalty {
	return &GapPenalty{Kind: Affine, Open: open, Extend: extend}
}

// DefaultGap returns affine(-10, -1).
func DefaultGap() *GapPenalty {
	return AffineGap(-10, -1)
}

// NewGapPenalty creates a gap penalty with validation.
func NewGapPenalty(kind GapKind, open, extend int) (*GapPenalty, error) {
	g := &GapPenalty{Kind: kind, Open: open, Extend: extend}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Validate checks the kind and the signs of the penalties.
func (g *GapPenalty) Validate() error {
	switch g.Kind {
	case Linear, Affine:
	default:
		return fmt.Errorf("%w: unknown gap model %d", ErrInvalidGapPenalty, int(g.Kind))
	}
	if g.Extend > 0 {
		return fmt.Errorf("%w: extension penalty should be <= 0, got %d", ErrInvalidGapPenalty, g.Extend)
	}
	if g.Kind == Affine && g.Open > 0 {
		return fmt.Errorf("%w: open penalty should be <= 0, got %d", ErrInvalidGapPenalty, g.Open)
	}
	return nil
}

// open returns the run-opening cost the recurrences should use.
func (g *GapPenalty) open() int {
	if g.Kind == Linear {
		return 0
	}
	return g.Open
}

// Cost returns the score of a single gap run of the given length.
func (g *GapPenalty) Cost(length int) int {
	if length <= 0 {
		return 0
	}
	return g.open() + length*g.Extend
}

func (g *GapPenalty) String() string {
	if g.Kind == Linear {
		return fmt.Sprintf("GapPenalty { linear, extend: %d }", g.Extend)
	}
	return fmt.Sprintf("GapPenalty { affine, open: %d, extend: %d }", g.Open, g.Extend)
}
