// Package middleware holds HTTP middleware for the bioalign API.
package middleware

import (
	"log"
	"net/http"
	"os"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Logger logs one line per request with the request ID, status, size and
// latency. Colour is disabled so the output stays grep-friendly.
var Logger = NewLogger(log.New(os.Stderr, "", log.LstdFlags))

// NewLogger returns request-logging middleware writing to l.
func NewLogger(l *log.Logger) func(http.Handler) http.Handler {
	return chimiddleware.RequestLogger(&chimiddleware.DefaultLogFormatter{
		Logger:  l,
		NoColor: true,
	})
}

// MaxBodySize rejects request bodies larger than n bytes.
func MaxBodySize(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, n)
			next.ServeHTTP(w, r)
		})
	}
}
