// Package progress renders one live line per running download.
//
// A Reporter owns the display surface. Workers never touch it directly:
// Register hands out an Indicator, and every update goes through that
// handle. A handle is written by the one worker that registered it, so the
// only shared state is the reporter's list of lines.
package progress

import (
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/trueabc/go/tools/dwrs/internal/job"
)

// Indicator is the progress line of one job.
type Indicator interface {
	// Start sets the expected total; zero or less means unknown.
	Start(total int64)
	// Write counts len(p) transferred bytes. It never fails.
	Write(p []byte) (int, error)
	// Finish renders the terminal line. Later calls are ignored.
	Finish(err error)
}

// Lookup returns the localized text of a message id.
type Lookup func(messageID string) string

// Options configures a Reporter.
type Options struct {
	Mode   Mode
	Out    io.Writer
	Lookup Lookup
	Logger *log.Logger
}

// Reporter is the shared display surface.
type Reporter struct {
	mode   Mode
	out    io.Writer
	lookup Lookup
	logger *log.Logger
	render renderer

	mu      sync.Mutex
	handles []*handle
	closed  bool
}

// line is what a renderer keeps per registered job.
type line interface {
	start(total int64)
	add(n int64)
	finish(text string)
}

type renderer interface {
	add(j job.Job, title string) line
	close() error
}

// New builds a reporter for a concrete mode; ModeAuto must be resolved first.
func New(opts Options) (*Reporter, error) {
	if opts.Out == nil {
		return nil, fmt.Errorf("progress: nil output")
	}
	if opts.Lookup == nil {
		opts.Lookup = func(id string) string { return id }
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}

	out := &lockedWriter{w: opts.Out}
	r := &Reporter{
		mode:   opts.Mode,
		out:    out,
		lookup: opts.Lookup,
		logger: opts.Logger,
	}
	switch opts.Mode {
	case ModePool:
		r.render = newPoolRenderer(out, defaultRefresh)
	case ModeBar:
		r.render = newBarRenderer(out)
	case ModePlain:
		r.render = newPlainRenderer(out)
	case ModeNone:
		r.render = newQuietRenderer(out)
	default:
		return nil, fmt.Errorf("progress: unsupported mode %q", opts.Mode)
	}
	return r, nil
}

// Mode returns the rendering mode in use.
func (r *Reporter) Mode() Mode { return r.mode }

// Register attaches a new line for j to the surface.
func (r *Reporter) Register(j job.Job) Indicator {
	h := &handle{r: r, job: j}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		// late registrations still get their terminal line
		h.line = newQuietRenderer(r.out).add(j, "")
		return h
	}
	h.id = len(r.handles)
	h.line = r.render.add(j, r.startText(j))
	r.handles = append(r.handles, h)
	r.logger.Printf("[JOB %s] registered line %d for %s", j.ShortID(), h.id, j.Destination)
	return h
}

// Close stops live rendering. Finished lines stay on screen.
func (r *Reporter) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()
	return r.render.close()
}

// Warn prints a user-facing warning line outside of any job.
func (r *Reporter) Warn(messageID string, detail interface{}) {
	fmt.Fprintf(r.out, "%s: %v\n", warnStyle(r.lookup(messageID)), detail)
}

func (r *Reporter) startText(j job.Job) string {
	return fmt.Sprintf("%s %s → %s", labelStyle(r.lookup(msgDownload)), urlStyle(j.Source), pathStyle(j.Destination))
}

func (r *Reporter) finishText(j job.Job, err error) string {
	if err == nil {
		return fmt.Sprintf("%s: %s", okStyle(r.lookup(msgFinish)), okPathStyle(j.Destination))
	}
	return fmt.Sprintf("%s: %s: %v", failStyle(r.lookup(msgError)), j.Destination, err)
}

// lockedWriter serializes writes from renderers sharing one stream.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// handle is the Indicator returned by Register.
type handle struct {
	r        *Reporter
	id       int
	job      job.Job
	line     line
	finished bool
}

func (h *handle) Start(total int64) {
	if h.finished {
		return
	}
	h.line.start(total)
}

func (h *handle) Write(p []byte) (int, error) {
	if !h.finished {
		h.line.add(int64(len(p)))
	}
	return len(p), nil
}

func (h *handle) Finish(err error) {
	if h.finished {
		return
	}
	h.finished = true
	h.line.finish(h.r.finishText(h.job, err))
	if err != nil {
		h.r.logger.Printf("[JOB %s] failed: %v", h.job.ShortID(), err)
	} else {
		h.r.logger.Printf("[JOB %s] done: %s", h.job.ShortID(), h.job.Destination)
	}
}
