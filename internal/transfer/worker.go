// Package transfer streams one HTTP response body into one file.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/trueabc/go/tools/dwrs/internal/job"
	"github.com/trueabc/go/tools/dwrs/internal/progress"
)

const userAgent = "dwrs"

// Outcome is the terminal result of one job.
type Outcome struct {
	Job     job.Job
	Written int64
	Err     error
}

// OK reports whether the destination was fully written.
func (o Outcome) OK() bool { return o.Err == nil }

// Worker performs downloads. One Worker is shared by all jobs.
type Worker struct {
	client *http.Client
	logger *log.Logger
	idle   time.Duration
}

// NewWorker returns a worker using client for every request.
func NewWorker(client *http.Client, logger *log.Logger) *Worker {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Worker{client: client, logger: logger}
}

// SetIdleTimeout fails a download once no body bytes arrived for d. Zero
// waits forever.
func (w *Worker) SetIdleTimeout(d time.Duration) *Worker {
	w.idle = d
	return w
}

// Do downloads j into j.Destination, feeding ind as bytes arrive, and
// finishes ind exactly once. Failures end up in the Outcome, never panic
// and never affect other jobs.
func (w *Worker) Do(ctx context.Context, j job.Job, ind progress.Indicator) Outcome {
	written, err := w.download(ctx, j, ind)
	ind.Finish(err)
	return Outcome{Job: j, Written: written, Err: err}
}

func (w *Worker) download(ctx context.Context, j job.Job, ind progress.Indicator) (int64, error) {
	w.logger.Printf("[JOB %s] GET %s", j.ShortID(), j.Source)

	var watchdog *idleTimer
	if w.idle > 0 {
		var cancel context.CancelCauseFunc
		ctx, cancel = context.WithCancelCause(ctx)
		defer cancel(nil)
		watchdog = newIdleTimer(w.idle, func() { cancel(ErrStalled) })
		defer watchdog.stop()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, j.Source, nil)
	if err != nil {
		return 0, &RequestError{URL: j.Source, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := w.client.Do(req)
	if err != nil {
		return 0, &RequestError{URL: j.Source, Err: stalled(ctx, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, &RequestError{URL: j.Source, StatusCode: resp.StatusCode}
	}

	// -1 表示服务端没有给出长度
	total := resp.ContentLength
	if total < 0 {
		total = 0
	}
	w.logger.Printf("[JOB %s] status %d, content length %d", j.ShortID(), resp.StatusCode, total)
	ind.Start(total)

	f, err := os.OpenFile(j.Destination, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return 0, &FileCreateError{Path: j.Destination, Err: err}
	}
	defer f.Close()

	var sink io.Writer = io.MultiWriter(&fileWriter{f: f}, ind)
	if watchdog != nil {
		sink = io.MultiWriter(watchdog, sink)
	}
	n, err := io.Copy(sink, resp.Body)
	if err != nil {
		var werr *WriteError
		if errors.As(err, &werr) {
			werr.Path = j.Destination
			return n, werr
		}
		return n, &RequestError{URL: j.Source, Err: stalled(ctx, err)}
	}
	if err := f.Close(); err != nil {
		return n, &WriteError{Path: j.Destination, Written: n, Err: err}
	}

	w.logger.Printf("[JOB %s] wrote %d bytes to %s", j.ShortID(), n, j.Destination)
	return n, nil
}

// fileWriter tags write failures so they can be told apart from body read
// failures after io.Copy.
type fileWriter struct {
	f       *os.File
	written int64
}

func (w *fileWriter) Write(p []byte) (int, error) {
	n, err := w.f.Write(p)
	w.written += int64(n)
	if err != nil {
		return n, &WriteError{Written: w.written, Err: err}
	}
	return n, nil
}

// idleTimer fires when Write is not called for longer than d.
type idleTimer struct {
	d time.Duration
	t *time.Timer
}

func newIdleTimer(d time.Duration, fire func()) *idleTimer {
	return &idleTimer{d: d, t: time.AfterFunc(d, fire)}
}

func (t *idleTimer) Write(p []byte) (int, error) {
	t.t.Reset(t.d)
	return len(p), nil
}

func (t *idleTimer) stop() { t.t.Stop() }

// stalled reports ErrStalled in place of the cancellation it caused.
func stalled(ctx context.Context, err error) error {
	if errors.Is(context.Cause(ctx), ErrStalled) {
		return fmt.Errorf("%w: %v", ErrStalled, err)
	}
	return err
}
