// Package bioalign provides a high-level API for pairwise global sequence
// alignment.
//
// Example usage:
//
//	q, err := bioalign.NewSequence("GATTACA")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	t, _ := bioalign.NewSequence("GCATGCT")
//
//	res, err := bioalign.Align(q, t)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	a1, a2 := res.Pair.AlignedStrings()
//	fmt.Printf("%s\n%s\nscore %d\n", a1, a2, res.Score)
package bioalign

import (
	"fmt"
	"os"

	"github.com/aria-lang/bioalign-go/internal/alignment"
	"github.com/aria-lang/bioalign-go/internal/sequence"
	"github.com/aria-lang/bioalign-go/internal/stats"
)

// Re-export types for convenience
type (
	Sequence           = sequence.Sequence
	Alphabet           = sequence.Alphabet
	SequencePair       = alignment.SequencePair
	AlignedSequence    = alignment.AlignedSequence
	Result             = alignment.Result
	IndexedResult      = alignment.IndexedResult
	Aligner            = alignment.Aligner
	GapPenalty         = alignment.GapPenalty
	SubstitutionMatrix = alignment.SubstitutionMatrix
	SimpleMatrix       = alignment.SimpleMatrix
	TableMatrix        = alignment.TableMatrix
	Option             = alignment.Option
	ScoreMatrix        = alignment.ScoreMatrix
)

// Alphabets
var (
	DNA     = sequence.DNA
	RNA     = sequence.RNA
	Protein = sequence.Protein
)

// NewSequence creates a new DNA sequence.
func NewSequence(bases string) (*Sequence, error) {
	return sequence.New(bases)
}

// NewSequenceWithID creates a new DNA sequence with an identifier.
func NewSequenceWithID(bases, id string) (*Sequence, error) {
	return sequence.WithID(bases, id)
}

// NewRNASequence creates a new RNA sequence.
func NewRNASequence(bases string) (*Sequence, error) {
	return sequence.WithMetadata(bases, "", "", sequence.RNA)
}

// NewProteinSequence creates a new protein sequence.
func NewProteinSequence(residues string) (*Sequence, error) {
	return sequence.WithMetadata(residues, "", "", sequence.Protein)
}

// DefaultMatrix picks a substitution matrix for the alphabet: BLOSUM62 for
// protein, +2/-1 otherwise.
func DefaultMatrix(a *Alphabet) SubstitutionMatrix {
	if a == sequence.Protein {
		return alignment.BLOSUM62()
	}
	return alignment.DefaultDNA()
}

// DefaultGap returns the affine(-10, -1) gap penalty.
func DefaultGap() *GapPenalty {
	return alignment.DefaultGap()
}

// WithRetainedMatrix keeps the filled score matrix on the Result.
func WithRetainedMatrix() Option {
	return alignment.WithRetainedMatrix()
}

// Align globally aligns two sequences with the affine(-10, -1) gap model
// and the default matrix for their alphabet.
func Align(query, target *Sequence, opts ...Option) (*Result, error) {
	var alpha *Alphabet
	if query != nil {
		alpha = query.Alphabet
	}
	return alignment.NeedlemanWunsch(query, target, DefaultGap(), DefaultMatrix(alpha), opts...)
}

// AlignGlobal performs global alignment with explicit scoring.
func AlignGlobal(query, target *Sequence, gap *GapPenalty, sub SubstitutionMatrix, opts ...Option) (*Result, error) {
	return alignment.NeedlemanWunsch(query, target, gap, sub, opts...)
}

// Score returns the global alignment score without building the alignment.
func Score(query, target *Sequence, gap *GapPenalty, sub SubstitutionMatrix) (int, error) {
	return alignment.GlobalAlignmentScoreOnly(query, target, gap, sub)
}

// AlignBatch aligns query against every target using up to workers
// goroutines.
func AlignBatch(query *Sequence, targets []*Sequence, gap *GapPenalty, sub SubstitutionMatrix, workers int) ([]IndexedResult, error) {
	a := &Aligner{Gap: gap, Matrix: sub}
	return a.AlignAll(query, targets, workers, nil)
}

// Best returns the highest-scoring successful result, earliest on ties.
func Best(results []IndexedResult) (*IndexedResult, bool) {
	return alignment.Best(results)
}

// BatchStats summarises the successful results of a batch.
func BatchStats(results []IndexedResult) (*stats.AlignmentSetStats, error) {
	return stats.FromResults(results)
}

// BatchHistogram bins the scores of the successful results of a batch.
func BatchHistogram(results []IndexedResult, bins int) (*stats.ScoreHistogram, error) {
	return stats.HistogramFromResults(results, bins)
}

// SequenceSetStats calculates statistics for multiple sequences.
func SequenceSetStats(sequences []*Sequence) (*stats.SequenceSetStats, error) {
	return stats.FromSequences(sequences)
}

// ReadFASTA reads sequences of the given alphabet from a FASTA file.
func ReadFASTA(filename string, alphabet *Alphabet) ([]*Sequence, error) {
	return sequence.ReadFASTA(filename, alphabet)
}

// WriteFASTA writes sequences to a FASTA file.
func WriteFASTA(filename string, sequences []*Sequence) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	for _, seq := range sequences {
		if _, err := file.WriteString(seq.ToFASTA()); err != nil {
			return fmt.Errorf("writing sequence: %w", err)
		}
	}

	return nil
}

// Version returns the bioalign version.
func Version() string {
	return "1.0.0"
}

// Info returns information about bioalign.
func Info() string {
	return fmt.Sprintf(`bioalign v%s - Pairwise Global Sequence Alignment

Features:
  - DNA, RNA and protein alphabets with IUPAC ambiguity codes
  - Needleman-Wunsch alignment with linear or affine (Gotoh) gaps
  - Deterministic tie-breaking
  - BLOSUM62, NUC.4.4 and match/mismatch scoring
  - Identity, similarity and CIGAR reporting
  - Concurrent batch alignment
  - FASTA file parsing
`, Version())
}
