package handlers

import (
	"fmt"
	"net/http"

	"github.com/aria-lang/bioalign-go/internal/alignment"
	"github.com/aria-lang/bioalign-go/internal/stats"
	"github.com/aria-lang/bioalign-go/pkg/bioalign"
)

// GapRequest selects the gap model. Omitted values take the affine(-10, -1)
// defaults.
type GapRequest struct {
	Model  string `json:"model"`
	Open   *int   `json:"open"`
	Extend *int   `json:"extend"`
}

// MatrixRequest selects the substitution matrix.
type MatrixRequest struct {
	Name     string `json:"name"`
	Match    *int   `json:"match"`
	Mismatch *int   `json:"mismatch"`
}

// ScoringRequest is the scoring part shared by every alignment request.
type ScoringRequest struct {
	Alphabet string        `json:"alphabet"`
	Gap      GapRequest    `json:"gap"`
	Matrix   MatrixRequest `json:"matrix"`
}

func (s ScoringRequest) build() (*bioalign.Scoring, error) {
	opts := bioalign.DefaultScoringOptions()
	if s.Alphabet != "" {
		opts.Alphabet = s.Alphabet
	}
	if s.Gap.Model != "" {
		opts.GapModel = s.Gap.Model
	}
	if s.Gap.Open != nil {
		opts.Open = *s.Gap.Open
	}
	if s.Gap.Extend != nil {
		opts.Extend = *s.Gap.Extend
	}
	opts.Matrix = s.Matrix.Name
	if s.Matrix.Match != nil {
		opts.Match = *s.Matrix.Match
	}
	if s.Matrix.Mismatch != nil {
		opts.Mismatch = *s.Matrix.Mismatch
	}
	return opts.Build()
}

// AlignmentRequest represents a pairwise alignment request.
type AlignmentRequest struct {
	Query  string `json:"query"`
	Target string `json:"target"`
	ScoringRequest
	RetainMatrix bool `json:"retain_matrix"`
}

// AlignmentResponse represents the response for alignment.
type AlignmentResponse struct {
	AlignedQuery  string  `json:"aligned_query"`
	AlignedTarget string  `json:"aligned_target"`
	Score         int     `json:"score"`
	Length        int     `json:"length"`
	Identity      float64 `json:"identity"`
	Similarity    float64 `json:"similarity"`
	Identical     int     `json:"identical"`
	Similar       int     `json:"similar"`
	Mismatches    int     `json:"mismatches"`
	Gaps          int     `json:"gaps"`
	GapOpenings   int     `json:"gap_openings"`
	CIGAR         string  `json:"cigar"`
	ElapsedMicros int64   `json:"elapsed_us"`
	Matrix        [][]int `json:"matrix,omitempty"`
}

func newAlignmentResponse(res *alignment.Result) *AlignmentResponse {
	p := res.Pair
	a1, a2 := p.AlignedStrings()
	resp := &AlignmentResponse{
		AlignedQuery:  a1,
		AlignedTarget: a2,
		Score:         res.Score,
		Length:        p.Length(),
		Identity:      p.Identity(),
		Similarity:    p.Similarity(),
		Identical:     p.IdentityCount(),
		Similar:       p.SimilarityCount(),
		Mismatches:    p.MismatchCount(),
		Gaps:          p.GapCount(),
		GapOpenings:   p.GapOpenings(),
		CIGAR:         p.CIGAR(),
		ElapsedMicros: res.Elapsed.Microseconds(),
	}
	if res.Matrix != nil {
		resp.Matrix = make([][]int, res.Matrix.Rows())
		for i := range resp.Matrix {
			resp.Matrix[i] = res.Matrix.Row(i)
		}
	}
	return resp
}

// checkLength rejects sequences longer than the configured maximum.
func (h *Handlers) checkLength(w http.ResponseWriter, name string, residues string) bool {
	if len(residues) > h.cfg.MaxSequenceLength {
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("%s: length %d exceeds limit %d", name, len(residues), h.cfg.MaxSequenceLength))
		return false
	}
	return true
}

// parsePair validates a request and builds its sequences.
func (h *Handlers) parsePair(w http.ResponseWriter, req *AlignmentRequest) (*bioalign.Scoring, *bioalign.Sequence, *bioalign.Sequence, bool) {
	if !h.checkLength(w, "query", req.Query) || !h.checkLength(w, "target", req.Target) {
		return nil, nil, nil, false
	}

	scoring, err := req.build()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, nil, nil, false
	}

	query, err := scoring.Sequence("query", req.Query)
	if err != nil {
		writeError(w, http.StatusBadRequest, "query: "+err.Error())
		return nil, nil, nil, false
	}
	target, err := scoring.Sequence("target", req.Target)
	if err != nil {
		writeError(w, http.StatusBadRequest, "target: "+err.Error())
		return nil, nil, nil, false
	}

	return scoring, query, target, true
}

// GlobalAlignHandler handles global alignment requests.
func (h *Handlers) GlobalAlignHandler(w http.ResponseWriter, r *http.Request) {
	var req AlignmentRequest
	if !decode(w, r, &req) {
		return
	}

	scoring, query, target, ok := h.parsePair(w, &req)
	if !ok {
		return
	}

	res, err := scoring.Aligner(req.RetainMatrix).Align(query, target)
	if err != nil {
		writeError(w, alignmentStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, newAlignmentResponse(res))
}

// ScoreResponse represents the response for alignment score.
type ScoreResponse struct {
	Score int `json:"score"`
}

// AlignmentScoreHandler returns the optimal score without a traceback.
func (h *Handlers) AlignmentScoreHandler(w http.ResponseWriter, r *http.Request) {
	var req AlignmentRequest
	if !decode(w, r, &req) {
		return
	}

	scoring, query, target, ok := h.parsePair(w, &req)
	if !ok {
		return
	}

	score, err := scoring.Aligner(false).ScoreOnly(query, target)
	if err != nil {
		writeError(w, alignmentStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, ScoreResponse{Score: score})
}

// BatchRequest aligns one query against many targets.
type BatchRequest struct {
	Query   string   `json:"query"`
	Targets []string `json:"targets"`
	ScoringRequest
}

// BatchResult is the outcome for one target.
type BatchResult struct {
	Index     int                `json:"index"`
	Alignment *AlignmentResponse `json:"alignment,omitempty"`
	Error     string             `json:"error,omitempty"`
}

// BatchSummary aggregates the successful alignments of a batch.
type BatchSummary struct {
	Count          int     `json:"count"`
	MinScore       int     `json:"min_score"`
	MaxScore       int     `json:"max_score"`
	MeanScore      float64 `json:"mean_score"`
	MedianScore    int     `json:"median_score"`
	MeanIdentity   float64 `json:"mean_identity"`
	MeanSimilarity float64 `json:"mean_similarity"`
}

// BatchResponse represents the response for a batch alignment.
type BatchResponse struct {
	Results []BatchResult `json:"results"`
	Best    *int          `json:"best,omitempty"`
	Summary *BatchSummary `json:"summary,omitempty"`
}

// BatchAlignHandler aligns a query against every target concurrently.
func (h *Handlers) BatchAlignHandler(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if !decode(w, r, &req) {
		return
	}

	if len(req.Targets) == 0 {
		writeError(w, http.StatusBadRequest, "targets cannot be empty")
		return
	}
	if len(req.Targets) > h.cfg.MaxBatchSize {
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("batch of %d targets exceeds limit %d", len(req.Targets), h.cfg.MaxBatchSize))
		return
	}
	if !h.checkLength(w, "query", req.Query) {
		return
	}

	scoring, err := req.build()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	query, err := scoring.Sequence("query", req.Query)
	if err != nil {
		writeError(w, http.StatusBadRequest, "query: "+err.Error())
		return
	}

	targets := make([]*bioalign.Sequence, len(req.Targets))
	for i, t := range req.Targets {
		name := fmt.Sprintf("targets[%d]", i)
		if !h.checkLength(w, name, t) {
			return
		}
		if targets[i], err = scoring.Sequence(name, t); err != nil {
			writeError(w, http.StatusBadRequest, name+": "+err.Error())
			return
		}
	}

	results, err := scoring.Aligner(false).AlignAll(query, targets, h.cfg.BatchWorkers, nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := BatchResponse{Results: make([]BatchResult, len(results))}
	for i, res := range results {
		resp.Results[i].Index = res.Index
		if res.Err != nil {
			resp.Results[i].Error = res.Err.Error()
			continue
		}
		resp.Results[i].Alignment = newAlignmentResponse(res.Result)
	}

	if best, ok := alignment.Best(results); ok {
		idx := best.Index
		resp.Best = &idx
	}
	if st, err := stats.FromResults(results); err == nil {
		resp.Summary = &BatchSummary{
			Count:          st.Count,
			MinScore:       st.MinScore,
			MaxScore:       st.MaxScore,
			MeanScore:      st.MeanScore,
			MedianScore:    st.MedianScore,
			MeanIdentity:   st.MeanIdentity,
			MeanSimilarity: st.MeanSimilarity,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
