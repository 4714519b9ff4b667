package job

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Message ids of the configuration errors raised here.
const (
	MsgReadFile = "error-in-reading-file"
	MsgCount    = "error-count"
)

// FromFile reads "url [output]" lines from path. Malformed lines are
// skipped and returned as warnings; only a read failure is fatal.
func FromFile(path string) (Sequence, []*MalformedLineError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, NewConfigError(MsgReadFile, err)
	}
	defer f.Close()

	seq, warnings, err := Parse(f)
	if err != nil {
		return nil, nil, NewConfigError(MsgReadFile, fmt.Errorf("%s: %w", path, err))
	}
	return seq, warnings, nil
}

// Parse is FromFile without the filesystem.
func Parse(r io.Reader) (Sequence, []*MalformedLineError, error) {
	var (
		seq      Sequence
		warnings []*MalformedLineError
		lineNo   int
	)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		fields := strings.Fields(line)
		switch len(fields) {
		case 2:
			seq = append(seq, newJob(len(seq), fields[0], fields[1]))
		case 1:
			seq = append(seq, newJob(len(seq), fields[0], Derive(fields[0])))
		default:
			warnings = append(warnings, &MalformedLineError{Line: lineNo, Text: line, Tokens: len(fields)})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	return seq, warnings, nil
}

// FromArgs pairs urls with outputs by index. outputs must be empty or the
// same length as urls; a partial list is rejected rather than zipped.
func FromArgs(urls, outputs []string) (Sequence, error) {
	if len(outputs) != 0 && len(outputs) != len(urls) {
		return nil, NewConfigError(MsgCount, fmt.Errorf("%d outputs for %d urls", len(outputs), len(urls)))
	}
	seq := make(Sequence, 0, len(urls))
	for i, u := range urls {
		dest := Derive(u)
		if len(outputs) != 0 {
			dest = outputs[i]
		}
		seq = append(seq, newJob(i, u, dest))
	}
	return seq, nil
}
