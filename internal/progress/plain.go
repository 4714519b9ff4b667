package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/VividCortex/ewma"
	"golang.org/x/time/rate"

	"github.com/trueabc/go/tools/dwrs/internal/job"
)

const plainInterval = time.Second

// plainRenderer writes whole lines only, for logs and pipes.
type plainRenderer struct {
	out      io.Writer
	interval time.Duration
	now      func() time.Time
}

func newPlainRenderer(out io.Writer) *plainRenderer {
	return &plainRenderer{out: out, interval: plainInterval, now: time.Now}
}

func (r *plainRenderer) add(j job.Job, title string) line {
	fmt.Fprintln(r.out, title)
	return &plainLine{
		r:     r,
		name:  j.Destination,
		every: rate.Sometimes{Interval: r.interval},
		speed: ewma.NewMovingAverage(),
	}
}

func (r *plainRenderer) close() error { return nil }

type plainLine struct {
	r       *plainRenderer
	name    string
	total   int64
	written int64
	last    time.Time
	every   rate.Sometimes
	speed   ewma.MovingAverage
}

func (l *plainLine) start(total int64) {
	l.total = total
	l.last = l.r.now()
}

func (l *plainLine) add(n int64) {
	l.written += n

	now := l.r.now()
	if elapsed := now.Sub(l.last).Seconds(); elapsed > 0 {
		l.speed.Add(float64(n) / elapsed)
	}
	l.last = now

	l.every.Do(func() {
		fmt.Fprintln(l.r.out, l.status())
	})
}

func (l *plainLine) status() string {
	speed := humanBytes(l.speed.Value()) + "/s"
	if l.total > 0 {
		percent := float64(l.written) / float64(l.total) * 100
		return fmt.Sprintf("%s: %s / %s (%.0f%%) %s", l.name, humanBytes(float64(l.written)), humanBytes(float64(l.total)), percent, speed)
	}
	return fmt.Sprintf("%s: %s %s", l.name, humanBytes(float64(l.written)), speed)
}

func (l *plainLine) finish(text string) {
	fmt.Fprintln(l.r.out, text)
}

// quietRenderer prints nothing but terminal lines.
type quietRenderer struct {
	out io.Writer
}

func newQuietRenderer(out io.Writer) *quietRenderer {
	return &quietRenderer{out: out}
}

func (r *quietRenderer) add(job.Job, string) line { return &quietLine{out: r.out} }

func (r *quietRenderer) close() error { return nil }

type quietLine struct {
	out io.Writer
}

func (*quietLine) start(int64) {}

func (*quietLine) add(int64) {}

func (l *quietLine) finish(text string) {
	fmt.Fprintln(l.out, text)
}
