package handlers

import (
	"errors"
	"net/http"

	"github.com/aria-lang/bioalign-go/internal/sequence"
)

// SequenceRequest represents a request with a sequence.
type SequenceRequest struct {
	Sequence string `json:"sequence"`
	Alphabet string `json:"alphabet"`
}

// ValidateResponse represents the response for sequence validation.
type ValidateResponse struct {
	Valid    bool   `json:"valid"`
	Alphabet string `json:"alphabet"`
	Length   int    `json:"length"`
	Error    string `json:"error,omitempty"`
	Position int    `json:"position,omitempty"`
}

// ValidateHandler checks a sequence against an alphabet. An invalid
// sequence is a successful request with Valid false.
func (h *Handlers) ValidateHandler(w http.ResponseWriter, r *http.Request) {
	var req SequenceRequest
	if !decode(w, r, &req) {
		return
	}
	if !h.checkLength(w, "sequence", req.Sequence) {
		return
	}

	alpha, err := sequence.ParseAlphabet(req.Alphabet)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := ValidateResponse{Valid: true, Alphabet: alpha.Name(), Length: len(req.Sequence)}
	if _, err := sequence.WithMetadata(req.Sequence, "", "", alpha); err != nil {
		resp.Valid = false
		resp.Error = err.Error()
		var ib *sequence.InvalidBaseError
		if errors.As(err, &ib) {
			resp.Position = ib.Position
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// ReverseComplementResponse represents the response for reverse complement.
type ReverseComplementResponse struct {
	ReverseComplement string `json:"reverse_complement"`
}

// ReverseComplementHandler handles reverse complement requests for DNA and
// RNA.
func (h *Handlers) ReverseComplementHandler(w http.ResponseWriter, r *http.Request) {
	var req SequenceRequest
	if !decode(w, r, &req) {
		return
	}
	if !h.checkLength(w, "sequence", req.Sequence) {
		return
	}

	alpha, err := sequence.ParseAlphabet(req.Alphabet)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	seq, err := sequence.WithMetadata(req.Sequence, "", "", alpha)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rc, err := seq.ReverseComplement()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, ReverseComplementResponse{
		ReverseComplement: rc.Bases,
	})
}
