// Package config turns command line input into the immutable settings of
// one run. It is the only place that validates user input.
package config

import (
	"errors"
	"io"
	"io/fs"
	"log"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"

	"github.com/trueabc/go/tools/dwrs/internal/job"
	"github.com/trueabc/go/tools/dwrs/internal/l10n"
	"github.com/trueabc/go/tools/dwrs/internal/limiter"
	"github.com/trueabc/go/tools/dwrs/internal/progress"
)

// Message ids of validation failures.
const (
	MsgJobs      = "error-jobs"
	MsgInput     = "error-input"
	MsgExclusive = "error-exclusive"
	MsgProgress  = "error-progress"
)

// LogEnv enables diagnostic logging when set to anything non-empty.
const LogEnv = "DWRS_LOG"

// Input is what the command line and environment provided, unvalidated.
type Input struct {
	URLs     []string
	Outputs  []string
	File     string
	Jobs     int
	Progress string
	Timeout  time.Duration
	Strict   bool
	Verbose  bool
}

// Config is the validated setup of a run.
type Config struct {
	Jobs     int
	Sequence job.Sequence
	Warnings []*job.MalformedLineError
	Progress progress.Mode
	Timeout  time.Duration
	Strict   bool
	Catalog  *l10n.Catalog
	Logger   *log.Logger
}

// LoadEnv reads a .env file into the process environment without
// overriding variables that are already set. A missing file is ignored.
func LoadEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Build validates in and produces a Config. Every failure is a
// *job.ConfigError. stderr receives diagnostic logs in verbose mode and
// decides whether live progress can be drawn.
func Build(in Input, cat *l10n.Catalog, stderr io.Writer) (*Config, error) {
	if in.Jobs < 1 {
		return nil, job.NewConfigError(MsgJobs, limiter.ErrCapacity)
	}
	mode, err := progress.ParseMode(in.Progress)
	if err != nil {
		return nil, job.NewConfigError(MsgProgress, err)
	}

	var (
		seq      job.Sequence
		warnings []*job.MalformedLineError
	)
	switch {
	case in.File != "" && (len(in.URLs) > 0 || len(in.Outputs) > 0):
		return nil, job.NewConfigError(MsgExclusive, nil)
	case in.File != "":
		seq, warnings, err = job.FromFile(in.File)
	case len(in.URLs) > 0:
		seq, err = job.FromArgs(in.URLs, in.Outputs)
	default:
		return nil, job.NewConfigError(MsgInput, nil)
	}
	if err != nil {
		return nil, err
	}

	logOut := io.Discard
	if in.Verbose {
		logOut = stderr
	}
	logger := log.New(logOut, "dwrs: ", log.LstdFlags|log.Lmicroseconds)
	mode = progress.Resolve(mode, in.Jobs, IsTerminal(stderr))
	logger.Printf("%d jobs, %d at a time, progress %s, language %s", len(seq), in.Jobs, mode, cat.Language())

	return &Config{
		Jobs:     in.Jobs,
		Sequence: seq,
		Warnings: warnings,
		Progress: mode,
		Timeout:  in.Timeout,
		Strict:   in.Strict,
		Catalog:  cat,
		Logger:   logger,
	}, nil
}

// HTTPClient returns the client shared by all downloads. Timeout bounds
// connecting and waiting for response headers only; a body that keeps
// arriving is never cut off. Stalled bodies are caught by the worker's idle
// timeout.
func (c *Config) HTTPClient() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if c.Timeout > 0 {
		dialer := &net.Dialer{Timeout: c.Timeout, KeepAlive: 30 * time.Second}
		transport.DialContext = dialer.DialContext
		transport.TLSHandshakeTimeout = c.Timeout
		transport.ResponseHeaderTimeout = c.Timeout
	}
	return &http.Client{Transport: transport}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
