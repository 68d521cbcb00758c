// Command bioalign provides a CLI for pairwise global sequence alignment.
//
// Usage:
//
//	bioalign [command] [options]
//
// Commands:
//
//	align       Align a query against a target
//	batch       Align a query against every record of a FASTA file
//	stats       Calculate sequence set statistics
//	version     Show version information
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/aria-lang/bioalign-go/pkg/bioalign"
	"github.com/dustin/go-humanize"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "align":
		alignCmd(os.Args[2:])
	case "batch":
		batchCmd(os.Args[2:])
	case "stats":
		statsCmd(os.Args[2:])
	case "version":
		fmt.Println(bioalign.Info())
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`bioalign - Pairwise Global Sequence Alignment

Usage:
  bioalign <command> [options]

Commands:
  align     Align a query against a target
  batch     Align a query against every record of a FASTA file
  stats     Calculate sequence set statistics
  version   Show version information
  help      Show this help message

Use "bioalign <command> -h" for more information about a command.`)
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// addScoringFlags binds the scoring options to fs.
func addScoringFlags(fs *flag.FlagSet) *bioalign.ScoringOptions {
	opts := bioalign.DefaultScoringOptions()
	fs.StringVar(&opts.Alphabet, "alphabet", opts.Alphabet, "Alphabet: dna, rna or protein")
	fs.StringVar(&opts.GapModel, "gap", opts.GapModel, "Gap model: linear or affine")
	fs.IntVar(&opts.Open, "open", opts.Open, "Gap open penalty (affine only, <= 0)")
	fs.IntVar(&opts.Extend, "extend", opts.Extend, "Gap extension penalty (<= 0)")
	fs.StringVar(&opts.Matrix, "matrix", "", "Substitution matrix: simple, blosum62 or nuc44 (default: blosum62 for protein, simple otherwise)")
	fs.IntVar(&opts.Match, "match", opts.Match, "Match score for the simple matrix")
	fs.IntVar(&opts.Mismatch, "mismatch", opts.Mismatch, "Mismatch score for the simple matrix")
	return &opts
}

// loadSequence reads an inline sequence or the first record of a FASTA file.
func loadSequence(s *bioalign.Scoring, name, inline, file string) *bioalign.Sequence {
	if file != "" {
		sequences, err := bioalign.ReadFASTA(file, s.Alphabet)
		if err != nil {
			fatalf("reading %s: %v", name, err)
		}
		if len(sequences) == 0 {
			fatalf("no sequences found in %s", file)
		}
		return sequences[0]
	}

	seq, err := s.Sequence(name, inline)
	if err != nil {
		fatalf("creating %s: %v", name, err)
	}
	return seq
}

func alignCmd(args []string) {
	fs := flag.NewFlagSet("align", flag.ExitOnError)
	query := fs.String("query", "", "Query sequence")
	target := fs.String("target", "", "Target sequence")
	queryFile := fs.String("query-file", "", "FASTA file holding the query (first record)")
	targetFile := fs.String("target-file", "", "FASTA file holding the target (first record)")
	revcomp := fs.Bool("revcomp", false, "Align against the reverse complement of the target")
	retain := fs.Bool("retain", false, "Print the score matrix")
	width := fs.Int("width", 60, "Columns per line of alignment output")
	opts := addScoringFlags(fs)
	fs.Parse(args)

	if (*query == "" && *queryFile == "") || (*target == "" && *targetFile == "") {
		fmt.Fprintln(os.Stderr, "Error: a query (-query or -query-file) and a target (-target or -target-file) are required")
		fs.Usage()
		os.Exit(1)
	}

	scoring, err := opts.Build()
	if err != nil {
		fatalf("%v", err)
	}

	q := loadSequence(scoring, "query", *query, *queryFile)
	t := loadSequence(scoring, "target", *target, *targetFile)
	if *revcomp {
		if t, err = t.ReverseComplement(); err != nil {
			fatalf("%v", err)
		}
	}

	res, err := scoring.Aligner(*retain).Align(q, t)
	if err != nil {
		fatalf("aligning sequences: %v", err)
	}

	fmt.Print(formatResult(res, *width))

	if res.Matrix != nil {
		fmt.Printf("\nScore matrix (%d x %d, %s):\n",
			res.Matrix.Rows(), res.Matrix.Cols(), humanize.IBytes(uint64(res.Matrix.Bytes())))
		fmt.Print(formatMatrix(res.Matrix))
	}
}

func batchCmd(args []string) {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	query := fs.String("query", "", "Query sequence")
	queryFile := fs.String("query-file", "", "FASTA file holding the query (first record)")
	targetsFile := fs.String("targets", "", "FASTA file of targets")
	workers := fs.Int("workers", 0, "Concurrent alignments (default: number of CPUs)")
	progress := fs.Bool("progress", true, "Show a progress bar on stderr")
	top := fs.Int("top", 0, "Only list the N best-scoring targets (0 lists all)")
	bins := fs.Int("histogram", 10, "Score histogram bins in the summary (0 disables)")
	opts := addScoringFlags(fs)
	fs.Parse(args)

	if (*query == "" && *queryFile == "") || *targetsFile == "" {
		fmt.Fprintln(os.Stderr, "Error: a query (-query or -query-file) and -targets are required")
		fs.Usage()
		os.Exit(1)
	}

	scoring, err := opts.Build()
	if err != nil {
		fatalf("%v", err)
	}

	q := loadSequence(scoring, "query", *query, *queryFile)
	targets, err := bioalign.ReadFASTA(*targetsFile, scoring.Alphabet)
	if err != nil {
		fatalf("reading targets: %v", err)
	}
	if len(targets) == 0 {
		fatalf("no sequences found in %s", *targetsFile)
	}

	var done func(bioalign.IndexedResult)
	var pbs *mpb.Progress
	if *progress {
		pbs = mpb.New(mpb.WithWidth(40), mpb.WithOutput(os.Stderr))
		bar := pbs.AddBar(int64(len(targets)),
			mpb.PrependDecorators(
				decor.Name("aligned targets: ", decor.WC{W: len("aligned targets: "), C: decor.DindentRight}),
				decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
			),
			mpb.AppendDecorators(
				decor.Name("ETA: ", decor.WC{W: len("ETA: ")}),
				decor.EwmaETA(decor.ET_STYLE_GO, 1024),
				decor.OnComplete(decor.Name(""), ". done"),
			),
		)
		// AlignAll serialises calls to done.
		last := time.Now()
		done = func(bioalign.IndexedResult) {
			now := time.Now()
			bar.EwmaIncrBy(1, now.Sub(last))
			last = now
		}
	}

	start := time.Now()
	results, err := scoring.Aligner(false).AlignAll(q, targets, *workers, done)
	if pbs != nil {
		pbs.Wait()
	}
	if err != nil {
		fatalf("aligning: %v", err)
	}
	elapsed := time.Since(start)

	fmt.Print(formatBatch(q, results, *top))

	var cells uint64
	for _, t := range targets {
		cells += uint64(q.Len()+1) * uint64(t.Len()+1)
	}
	fmt.Printf("\nAligned %s targets (%s DP cells) in %s\n",
		humanize.Comma(int64(len(targets))), humanize.Comma(int64(cells)), elapsed.Round(time.Millisecond))

	if summary, err := bioalign.BatchStats(results); err == nil {
		fmt.Println(summary)
	}
	if *bins > 0 {
		if hist, err := bioalign.BatchHistogram(results, *bins); err == nil {
			fmt.Print(hist)
		}
	}
}

// formatBatch lists the results, best first when top > 0.
func formatBatch(q *bioalign.Sequence, results []bioalign.IndexedResult, top int) string {
	rows := append([]bioalign.IndexedResult(nil), results...)
	if top > 0 {
		sort.SliceStable(rows, func(i, j int) bool {
			ri, rj := rows[i], rows[j]
			if ri.Err != nil || rj.Err != nil {
				return ri.Err == nil && rj.Err != nil
			}
			return ri.Result.Score > rj.Result.Score
		})
		if top < len(rows) {
			rows = rows[:top]
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Query: %s (%s residues)\n", displayID(q, "query"), humanize.Comma(int64(q.Len())))
	fmt.Fprintf(&sb, "%-6s %-20s %10s %8s %8s  %s\n", "#", "Target", "Length", "Score", "Ident%", "CIGAR")
	fmt.Fprintln(&sb, strings.Repeat("-", 72))
	for _, r := range rows {
		id := displayID(r.Target, fmt.Sprintf("target_%d", r.Index+1))
		if r.Err != nil {
			fmt.Fprintf(&sb, "%-6d %-20s %10s %8s %8s  error: %v\n",
				r.Index+1, truncate(id, 20), humanize.Comma(int64(r.Target.Len())), "-", "-", r.Err)
			continue
		}
		p := r.Result.Pair
		fmt.Fprintf(&sb, "%-6d %-20s %10s %8d %7.1f%%  %s\n",
			r.Index+1, truncate(id, 20), humanize.Comma(int64(r.Target.Len())),
			r.Result.Score, p.Identity()*100, truncate(p.CIGAR(), 40))
	}

	if best, ok := bioalign.Best(results); ok {
		fmt.Fprintf(&sb, "\nBest: #%d %s (score %d)\n",
			best.Index+1, displayID(best.Target, fmt.Sprintf("target_%d", best.Index+1)), best.Result.Score)
	}
	return sb.String()
}

func statsCmd(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	file := fs.String("file", "", "FASTA file to analyze")
	alphabet := fs.String("alphabet", "dna", "Alphabet: dna, rna or protein")
	fs.Parse(args)

	if *file == "" {
		fmt.Fprintln(os.Stderr, "Error: -file is required")
		fs.Usage()
		os.Exit(1)
	}

	opts := bioalign.DefaultScoringOptions()
	opts.Alphabet = *alphabet
	scoring, err := opts.Build()
	if err != nil {
		fatalf("%v", err)
	}

	sequences, err := bioalign.ReadFASTA(*file, scoring.Alphabet)
	if err != nil {
		fatalf("reading file: %v", err)
	}
	if len(sequences) == 0 {
		fatalf("no sequences found in file")
	}

	st, err := bioalign.SequenceSetStats(sequences)
	if err != nil {
		fatalf("calculating statistics: %v", err)
	}

	fmt.Println("Sequence Set Statistics")
	fmt.Println(strings.Repeat("-", 40))
	fmt.Printf("Number of sequences: %s\n", humanize.Comma(int64(st.Count)))
	fmt.Printf("Total residues: %s\n", humanize.Comma(int64(st.TotalBases)))
	fmt.Printf("Length range: %s - %s\n", humanize.Comma(int64(st.MinLength)), humanize.Comma(int64(st.MaxLength)))
	fmt.Printf("Mean length: %.1f\n", st.MeanLength)
	fmt.Printf("Median length: %s\n", humanize.Comma(int64(st.MedianLength)))
	fmt.Printf("N50: %s\n", humanize.Comma(int64(st.N50)))
}
