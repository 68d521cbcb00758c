package alignment

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/aria-lang/bioalign-go/internal/sequence"
)

// IndexedResult pairs an alignment with the index of its target.
type IndexedResult struct {
	Index  int
	Target *sequence.Sequence
	Result *Result
	Err    error
}

// AlignAll aligns query against every target with up to workers concurrent
// alignments. Each alignment owns its matrices; the Aligner's gap penalty
// and substitution matrix are shared read-only. Results are in target
// order. A failed target carries its error in Err and does not stop the
// others. done, when non-nil, is called once per finished target from a
// single goroutine at a time.
func (a *Aligner) AlignAll(query *sequence.Sequence, targets []*sequence.Sequence,
	workers int, done func(IndexedResult)) ([]IndexedResult, error) {
	if len(targets) == 0 {
		return nil, fmt.Errorf("target list cannot be empty")
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]IndexedResult, len(targets))
	tokens := make(chan struct{}, workers)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for i, target := range targets {
		tokens <- struct{}{}
		wg.Add(1)

		go func(i int, target *sequence.Sequence) {
			defer func() {
				<-tokens
				wg.Done()
			}()

			res, err := a.Align(query, target)
			r := IndexedResult{Index: i, Target: target, Result: res, Err: err}
			results[i] = r

			if done != nil {
				mu.Lock()
				done(r)
				mu.Unlock()
			}
		}(i, target)
	}

	wg.Wait()
	return results, nil
}

// AlignAgainstMultiple aligns query against every target with default
// concurrency.
func AlignAgainstMultiple(query *sequence.Sequence, targets []*sequence.Sequence,
	gap *GapPenalty, sub SubstitutionMatrix) ([]IndexedResult, error) {
	a := &Aligner{Gap: gap, Matrix: sub}
	return a.AlignAll(query, targets, 0, nil)
}

// Best returns the successful result with the highest score; ties go to
// the lowest index.
func Best(results []IndexedResult) (*IndexedResult, bool) {
	var best *IndexedResult
	for i := range results {
		r := &results[i]
		if r.Err != nil || r.Result == nil {
			continue
		}
		if best == nil || r.Result.Score > best.Result.Score {
			best = r
		}
	}
	return best, best != nil
}

// FindBestAlignment aligns query against every target and returns the best.
func FindBestAlignment(query *sequence.Sequence, targets []*sequence.Sequence,
	gap *GapPenalty, sub SubstitutionMatrix) (*IndexedResult, error) {
	results, err := AlignAgainstMultiple(query, targets, gap, sub)
	if err != nil {
		return nil, err
	}

	best, ok := Best(results)
	if !ok {
		return nil, fmt.Errorf("no target could be aligned: %w", results[0].Err)
	}
	return best, nil
}
