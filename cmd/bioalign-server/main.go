// Command bioalign-server provides a REST API for global sequence alignment.
//
// Usage:
//
//	bioalign-server [options]
//
// Options:
//
//	-host                  Host to bind to (default: all interfaces)
//	-port                  Port to listen on (default: 8080)
//	-max-sequence-length   Maximum residues per sequence (default: 10000)
//	-max-batch-size        Maximum targets per batch request (default: 100)
//	-batch-workers         Concurrent alignments per batch (default: NumCPU)
//
// Every option can also be set through a BIOALIGN_* environment variable or
// a .env file in the working directory.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aria-lang/bioalign-go/api/handlers"
	"github.com/aria-lang/bioalign-go/api/middleware"
	"github.com/aria-lang/bioalign-go/internal/config"
	"github.com/aria-lang/bioalign-go/pkg/bioalign"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// maxBodyBytes bounds a request body; a full batch at the default limits
// fits well inside it.
const maxBodyBytes = 8 << 20

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("Invalid configuration: %v\n", err)
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.MaxBodySize(maxBodyBytes))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(bioalign.Info()))
	})

	// API routes
	r.Route("/api", handlers.New(cfg).Routes)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Graceful shutdown
	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)

	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Server is shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		server.SetKeepAlivesEnabled(false)
		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Could not gracefully shutdown: %v\n", err)
		}
		close(done)
	}()

	log.Printf("bioalign API server starting on http://%s (max sequence %d, max batch %d, %d workers)\n",
		cfg.Addr(), cfg.MaxSequenceLength, cfg.MaxBatchSize, cfg.BatchWorkers)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on %s: %v\n", cfg.Addr(), err)
	}

	<-done
	log.Println("Server stopped")
}
