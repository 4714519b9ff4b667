// Package job turns command line input into an ordered list of downloads.
package job

import (
	"strings"

	"github.com/google/uuid"
)

// DefaultFilename is used when a URL has no usable last path segment.
const DefaultFilename = "file.bin"

// Job is one (source, destination) download unit. Jobs are values and are
// never modified after the builder returns them.
type Job struct {
	// ID tells duplicate entries apart in diagnostic logs. It is never
	// shown on job lines.
	ID          string
	Index       int
	Source      string
	Destination string
}

// Sequence keeps input order. Duplicates are kept as separate jobs.
type Sequence []Job

func newJob(index int, source, destination string) Job {
	return Job{
		ID:          uuid.New().String(),
		Index:       index,
		Source:      source,
		Destination: destination,
	}
}

// ShortID is the first block of the job id, used in log prefixes.
func (j Job) ShortID() string {
	if i := strings.IndexByte(j.ID, '-'); i > 0 {
		return j.ID[:i]
	}
	return j.ID
}

// Derive returns the destination used when none was given: the text after
// the last "/" of the URL, or DefaultFilename when that text is empty.
func Derive(source string) string {
	name := source[strings.LastIndex(source, "/")+1:]
	if name == "" {
		return DefaultFilename
	}
	return name
}

// Sources returns the source URLs in order.
func (s Sequence) Sources() []string {
	urls := make([]string, 0, len(s))
	for _, j := range s {
		urls = append(urls, j.Source)
	}
	return urls
}
