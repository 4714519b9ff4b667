package transfer

import (
	"errors"
	"fmt"
)

// ErrStalled ends a download whose body stopped arriving for longer than
// the worker's idle timeout.
var ErrStalled = errors.New("no data received within the idle timeout")

// RequestError is a failure to get a usable response: connection, DNS, TLS,
// timeout, a non-2xx status, or the body breaking off mid-stream.
type RequestError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("request %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("request %s: %v", e.URL, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// FileCreateError means the destination could not be opened for writing.
type FileCreateError struct {
	Path string
	Err  error
}

func (e *FileCreateError) Error() string {
	return fmt.Sprintf("create %s: %v", e.Path, e.Err)
}

func (e *FileCreateError) Unwrap() error { return e.Err }

// WriteError means a write to the destination failed. The file is left as
// written so far.
type WriteError struct {
	Path    string
	Written int64
	Err     error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s after %d bytes: %v", e.Path, e.Written, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
