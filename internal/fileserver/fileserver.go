// Package fileserver serves a directory over HTTP, optionally slowly, so
// downloads can be watched while they run.
package fileserver

import (
	"io"
	"log"
	"net/http"
	"sync/atomic"
	"time"
)

// DefaultChunk is the slice size used when Delay is set.
const DefaultChunk = 16 * 1024

// Options configures a Server.
type Options struct {
	Dir    string
	Prefix string
	// Delay is slept before every Chunk bytes of a response body.
	Delay  time.Duration
	Chunk  int
	Logger *log.Logger
}

// Server is an http.Handler over Options.Dir.
type Server struct {
	opts   Options
	files  http.Handler
	active int64
}

// New builds a server. Files are served under Prefix.
func New(opts Options) *Server {
	if opts.Prefix == "" {
		opts.Prefix = "/"
	}
	if opts.Chunk <= 0 {
		opts.Chunk = DefaultChunk
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}
	return &Server{
		opts:  opts,
		files: http.StripPrefix(opts.Prefix, http.FileServer(http.Dir(opts.Dir))),
	}
}

// Active returns the number of requests being served.
func (s *Server) Active() int { return int(atomic.LoadInt64(&s.active)) }

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n := atomic.AddInt64(&s.active, 1)
	defer atomic.AddInt64(&s.active, -1)
	s.opts.Logger.Printf("%s %s active=%d", r.Method, r.URL.Path, n)

	if s.opts.Delay > 0 {
		w = &slowWriter{ResponseWriter: w, delay: s.opts.Delay, chunk: s.opts.Chunk, done: r.Context().Done()}
	}
	s.files.ServeHTTP(w, r)
}

// slowWriter hands the body to the client one chunk at a time.
type slowWriter struct {
	http.ResponseWriter
	delay time.Duration
	chunk int
	done  <-chan struct{}
}

func (w *slowWriter) Write(p []byte) (int, error) {
	var written int
	for len(p) > 0 {
		select {
		case <-time.After(w.delay):
		case <-w.done:
			return written, http.ErrAbortHandler
		}
		size := w.chunk
		if size > len(p) {
			size = len(p)
		}
		n, err := w.ResponseWriter.Write(p[:size])
		written += n
		if err != nil {
			return written, err
		}
		if f, ok := w.ResponseWriter.(http.Flusher); ok {
			f.Flush()
		}
		p = p[size:]
	}
	return written, nil
}
