package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"

	"github.com/trueabc/go/tools/dwrs/internal/job"
)

const defaultRefresh = 200 * time.Millisecond

const (
	poolKnownTmpl   = `{{ string . "title" }} {{ counters . }} {{ bar . "[" "=" ">" " " "]" }} {{ percent . }} {{ speed . }}`
	poolUnknownTmpl = `{{ cycle . "⠋" "⠙" "⠹" "⠸" "⠼" "⠴" "⠦" "⠧" "⠇" "⠏" }} {{ string . "title" }} {{ counters . }} {{ speed . }} {{ etime . }}`
	poolWaitTmpl    = `{{ string . "title" }}`
)

// poolRenderer redraws the bars of running jobs in place, one row each, on
// a fixed tick. A finished job leaves the live block: its final line is
// printed once above it and never redrawn. Bars are static pb bars; only
// this loop prints them.
type poolRenderer struct {
	out     io.Writer
	refresh time.Duration

	mu    sync.Mutex
	bars  []*pb.ProgressBar
	done  []string
	drawn int

	// set by the last frame; later lines are printed directly
	closed bool

	stop    chan struct{}
	stopped chan struct{}
}

func newPoolRenderer(out io.Writer, refresh time.Duration) *poolRenderer {
	r := &poolRenderer{
		out:     out,
		refresh: refresh,
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go r.loop()
	return r
}

func (r *poolRenderer) add(_ job.Job, title string) line {
	bar := pb.New64(0)
	bar.SetWriter(io.Discard)
	bar.Set(pb.Static, true)
	bar.Set(pb.Bytes, true)
	bar.Set("title", title)
	bar.SetTemplateString(poolWaitTmpl)
	bar.Start()

	r.mu.Lock()
	r.bars = append(r.bars, bar)
	r.mu.Unlock()
	return &poolLine{r: r, bar: bar}
}

// retire moves bar out of the live block; text is printed on the next frame.
func (r *poolRenderer) retire(bar *pb.ProgressBar, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, b := range r.bars {
		if b == bar {
			r.bars = append(r.bars[:i], r.bars[i+1:]...)
			break
		}
	}
	if r.closed {
		io.WriteString(r.out, text+"\n")
		return
	}
	r.done = append(r.done, text)
}

// live returns the number of bars still redrawn.
func (r *poolRenderer) live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bars)
}

func (r *poolRenderer) loop() {
	defer close(r.stopped)
	ticker := time.NewTicker(r.refresh)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.draw(false)
		case <-r.stop:
			r.draw(true)
			return
		}
	}
}

func (r *poolRenderer) draw(last bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = last
	if len(r.bars) == 0 && len(r.done) == 0 {
		return
	}

	var b strings.Builder
	if r.drawn > 0 {
		// back to the first row of the previous frame
		fmt.Fprintf(&b, "\033[%dA", r.drawn)
	}
	for _, text := range r.done {
		b.WriteString("\r\033[K")
		b.WriteString(text)
		b.WriteByte('\n')
	}
	r.done = r.done[:0]
	for _, bar := range r.bars {
		b.WriteString("\r\033[K")
		b.WriteString(bar.String())
		b.WriteByte('\n')
	}
	// rows left over from a taller frame
	b.WriteString("\033[J")
	r.drawn = len(r.bars)
	io.WriteString(r.out, b.String())
}

func (r *poolRenderer) close() error {
	select {
	case <-r.stop:
	default:
		close(r.stop)
	}
	<-r.stopped
	return nil
}

type poolLine struct {
	r   *poolRenderer
	bar *pb.ProgressBar
}

func (l *poolLine) start(total int64) {
	if total > 0 {
		l.bar.SetTotal(total)
		l.bar.SetTemplateString(poolKnownTmpl)
		return
	}
	l.bar.SetTemplateString(poolUnknownTmpl)
}

func (l *poolLine) add(n int64) { l.bar.Add64(n) }

func (l *poolLine) finish(text string) {
	l.bar.Finish()
	l.r.retire(l.bar, text)
}
