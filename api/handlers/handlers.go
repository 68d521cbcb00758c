// Package handlers provides HTTP handlers for the bioalign API.
package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/aria-lang/bioalign-go/internal/alignment"
	"github.com/aria-lang/bioalign-go/internal/config"
	"github.com/go-chi/chi/v5"
)

// Handlers serves the API under the limits of a Config.
type Handlers struct {
	cfg *config.Config
}

// New returns handlers bound to cfg. A nil cfg uses config.Default.
func New(cfg *config.Config) *Handlers {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Handlers{cfg: cfg}
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// alignmentStatus maps an alignment error to an HTTP status.
func alignmentStatus(err error) int {
	if errors.Is(err, alignment.ErrScoreRange) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}

// Routes registers the API endpoints on r.
func (h *Handlers) Routes(r chi.Router) {
	r.Route("/sequence", func(r chi.Router) {
		r.Post("/validate", h.ValidateHandler)
		r.Post("/reverse-complement", h.ReverseComplementHandler)
	})

	r.Route("/alignment", func(r chi.Router) {
		r.Post("/global", h.GlobalAlignHandler)
		r.Post("/score", h.AlignmentScoreHandler)
		r.Post("/batch", h.BatchAlignHandler)
	})
}
