// Package stats provides aggregate summaries for sequence sets and
// alignment batches.
package stats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aria-lang/bioalign-go/internal/alignment"
	"github.com/aria-lang/bioalign-go/internal/sequence"
)

// SequenceSetStats represents aggregated statistics for multiple sequences.
type SequenceSetStats struct {
	Count        int
	TotalBases   int
	MinLength    int
	MaxLength    int
	MeanLength   float64
	MedianLength int
	N50          int
}

// FromSequences calculates statistics for a collection of sequences.
func FromSequences(sequences []*sequence.Sequence) (*SequenceSetStats, error) {
	if len(sequences) == 0 {
		return nil, fmt.Errorf("sequence list cannot be empty")
	}

	count := len(sequences)
	lengths := make([]int, count)
	totalBases := 0

	for i, seq := range sequences {
		lengths[i] = seq.Len()
		totalBases += seq.Len()
	}

	minLen, maxLen := minMax(lengths)
	meanLen := float64(totalBases) / float64(count)

	sortedLengths := append([]int(nil), lengths...)
	sort.Ints(sortedLengths)
	medianLen := medianInt(sortedLengths)

	// N50: length where 50% of bases are in longer sequences
	sortedDesc := append([]int(nil), lengths...)
	sort.Sort(sort.Reverse(sort.IntSlice(sortedDesc)))

	halfTotal := totalBases / 2
	runningSum := 0
	n50 := sortedDesc[0]

	for _, length := range sortedDesc {
		runningSum += length
		if runningSum >= halfTotal {
			n50 = length
			break
		}
	}

	return &SequenceSetStats{
		Count:        count,
		TotalBases:   totalBases,
		MinLength:    minLen,
		MaxLength:    maxLen,
		MeanLength:   meanLen,
		MedianLength: medianLen,
		N50:          n50,
	}, nil
}

func (s *SequenceSetStats) String() string {
	return fmt.Sprintf(`SequenceSetStats {
  count: %d
  total_bases: %d
  length range: %d - %d
  mean length: %.1f
  median length: %d
  N50: %d
}`, s.Count, s.TotalBases, s.MinLength, s.MaxLength,
		s.MeanLength, s.MedianLength, s.N50)
}

// AlignmentSetStats summarises a batch of alignments.
type AlignmentSetStats struct {
	Count            int
	MinScore         int
	MaxScore         int
	MeanScore        float64
	MedianScore      int
	MeanIdentity     float64
	MeanSimilarity   float64
	TotalColumns     int
	TotalGaps        int
	TotalGapOpenings int
}

// FromPairs calculates statistics over finished alignments. Nil pairs are
// skipped.
func FromPairs(pairs []*alignment.SequencePair) (*AlignmentSetStats, error) {
	scores := make([]int, 0, len(pairs))
	s := &AlignmentSetStats{}

	identitySum, similaritySum := 0.0, 0.0
	scoreSum := 0

	for _, p := range pairs {
		if p == nil {
			continue
		}
		scores = append(scores, p.Score())
		scoreSum += p.Score()
		identitySum += p.Identity()
		similaritySum += p.Similarity()
		s.TotalColumns += p.Length()
		s.TotalGaps += p.GapCount()
		s.TotalGapOpenings += p.GapOpenings()
	}

	if len(scores) == 0 {
		return nil, fmt.Errorf("alignment list cannot be empty")
	}

	s.Count = len(scores)
	s.MinScore, s.MaxScore = minMax(scores)
	s.MeanScore = float64(scoreSum) / float64(s.Count)
	s.MeanIdentity = identitySum / float64(s.Count)
	s.MeanSimilarity = similaritySum / float64(s.Count)

	sort.Ints(scores)
	s.MedianScore = medianInt(scores)

	return s, nil
}

// FromResults collects the pairs of the successful results and summarises
// them.
func FromResults(results []alignment.IndexedResult) (*AlignmentSetStats, error) {
	return FromPairs(successfulPairs(results))
}

// HistogramFromResults bins the scores of the successful results.
func HistogramFromResults(results []alignment.IndexedResult, numBins int) (*ScoreHistogram, error) {
	return NewScoreHistogram(successfulPairs(results), numBins)
}

func successfulPairs(results []alignment.IndexedResult) []*alignment.SequencePair {
	pairs := make([]*alignment.SequencePair, 0, len(results))
	for _, r := range results {
		if r.Err == nil && r.Result != nil {
			pairs = append(pairs, r.Result.Pair)
		}
	}
	return pairs
}

func (s *AlignmentSetStats) String() string {
	return fmt.Sprintf(`AlignmentSetStats {
  count: %d
  score range: %d - %d
  mean score: %.1f
  median score: %d
  mean identity: %.1f%%
  mean similarity: %.1f%%
  columns: %d, gaps: %d, gap openings: %d
}`, s.Count, s.MinScore, s.MaxScore, s.MeanScore, s.MedianScore,
		s.MeanIdentity*100, s.MeanSimilarity*100,
		s.TotalColumns, s.TotalGaps, s.TotalGapOpenings)
}

// ScoreHistogram represents a histogram of alignment scores.
type ScoreHistogram struct {
	Bins     []int
	MinScore int
	MaxScore int
	BinWidth int
	NumBins  int
}

// NewScoreHistogram creates a score histogram from alignments. Nil pairs
// are skipped.
func NewScoreHistogram(pairs []*alignment.SequencePair, numBins int) (*ScoreHistogram, error) {
	if numBins <= 0 {
		return nil, fmt.Errorf("numBins must be positive")
	}

	scores := make([]int, 0, len(pairs))
	for _, p := range pairs {
		if p != nil {
			scores = append(scores, p.Score())
		}
	}
	if len(scores) == 0 {
		return nil, fmt.Errorf("alignment list cannot be empty")
	}

	minScore, maxScore := minMax(scores)
	binWidth := (maxScore - minScore) / numBins
	if binWidth < 1 {
		binWidth = 1
	}

	bins := make([]int, numBins)
	for _, score := range scores {
		binIndex := (score - minScore) / binWidth
		if binIndex >= numBins {
			binIndex = numBins - 1
		}
		bins[binIndex]++
	}

	return &ScoreHistogram{
		Bins:     bins,
		MinScore: minScore,
		MaxScore: maxScore,
		BinWidth: binWidth,
		NumBins:  numBins,
	}, nil
}

func (h *ScoreHistogram) String() string {
	var sb strings.Builder
	sb.WriteString("Score Histogram:\n")
	for i := 0; i < h.NumBins; i++ {
		start := h.MinScore + i*h.BinWidth
		end := start + h.BinWidth
		count := h.Bins[i]
		fmt.Fprintf(&sb, "%6d-%6d: %s (%d)\n", start, end, strings.Repeat("#", count), count)
	}
	return sb.String()
}

func minMax(values []int) (int, int) {
	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// medianInt expects sorted input.
func medianInt(sorted []int) int {
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
