// Package config loads runtime settings for the bioalign binaries.
//
// Values are layered: built-in defaults, then a .env file, then BIOALIGN_*
// environment variables, then command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "BIOALIGN_"

// Config holds server and alignment limits.
type Config struct {
	Host string
	Port int

	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration

	// MaxSequenceLength caps each sequence accepted over the API.
	MaxSequenceLength int
	// MaxBatchSize caps the number of targets in one batch request.
	MaxBatchSize int
	// BatchWorkers is the number of concurrent alignments per batch.
	BatchWorkers int
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Host:              "",
		Port:              8080,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		RequestTimeout:    60 * time.Second,
		MaxSequenceLength: 10000,
		MaxBatchSize:      100,
		BatchWorkers:      runtime.NumCPU(),
	}
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate checks that every limit is usable.
func (c *Config) Validate() error {
	switch {
	case c.Port < 0 || c.Port > 65535:
		return fmt.Errorf("config: port %d out of range", c.Port)
	case c.ReadTimeout <= 0 || c.WriteTimeout <= 0 || c.IdleTimeout <= 0 || c.RequestTimeout <= 0:
		return fmt.Errorf("config: timeouts must be positive")
	case c.MaxSequenceLength <= 0:
		return fmt.Errorf("config: max sequence length must be positive, got %d", c.MaxSequenceLength)
	case c.MaxBatchSize <= 0:
		return fmt.Errorf("config: max batch size must be positive, got %d", c.MaxBatchSize)
	case c.BatchWorkers <= 0:
		return fmt.Errorf("config: batch workers must be positive, got %d", c.BatchWorkers)
	}
	return nil
}

// Load builds a Config from defaults, the optional env files, the process
// environment and args. With no env files, .env in the working directory is
// read if present.
func Load(args []string, envFiles ...string) (*Config, error) {
	if err := loadEnvFiles(envFiles); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	fs := flag.NewFlagSet("bioalign-server", flag.ContinueOnError)
	cfg.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadEnvFiles loads the env files without overriding variables that are
// already set. A missing default .env is not an error.
func loadEnvFiles(files []string) error {
	if len(files) == 0 {
		err := godotenv.Load()
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("config: reading .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("config: reading env files: %w", err)
	}
	return nil
}

// RegisterFlags binds the fields to fs using the current values as defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Host, "host", c.Host, "listen host")
	fs.IntVar(&c.Port, "port", c.Port, "listen port")
	fs.DurationVar(&c.ReadTimeout, "read-timeout", c.ReadTimeout, "HTTP read timeout")
	fs.DurationVar(&c.WriteTimeout, "write-timeout", c.WriteTimeout, "HTTP write timeout")
	fs.DurationVar(&c.IdleTimeout, "idle-timeout", c.IdleTimeout, "HTTP idle timeout")
	fs.DurationVar(&c.RequestTimeout, "request-timeout", c.RequestTimeout, "per-request timeout")
	fs.IntVar(&c.MaxSequenceLength, "max-sequence-length", c.MaxSequenceLength, "maximum residues per sequence")
	fs.IntVar(&c.MaxBatchSize, "max-batch-size", c.MaxBatchSize, "maximum targets per batch request")
	fs.IntVar(&c.BatchWorkers, "batch-workers", c.BatchWorkers, "concurrent alignments per batch")
}

type lookupFunc func(key string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	if v, ok := lookup(EnvPrefix + "HOST"); ok {
		c.Host = v
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"PORT", &c.Port},
		{"MAX_SEQUENCE_LENGTH", &c.MaxSequenceLength},
		{"MAX_BATCH_SIZE", &c.MaxBatchSize},
		{"BATCH_WORKERS", &c.BatchWorkers},
	}
	for _, e := range ints {
		v, ok := lookup(EnvPrefix + e.key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s%s: %w", EnvPrefix, e.key, err)
		}
		*e.dst = n
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"READ_TIMEOUT", &c.ReadTimeout},
		{"WRITE_TIMEOUT", &c.WriteTimeout},
		{"IDLE_TIMEOUT", &c.IdleTimeout},
		{"REQUEST_TIMEOUT", &c.RequestTimeout},
	}
	for _, e := range durations {
		v, ok := lookup(EnvPrefix + e.key)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: %s%s: %w", EnvPrefix, e.key, err)
		}
		*e.dst = d
	}

	return nil
}
