package progress

import (
	"fmt"
	"io"
	"time"

	pg "github.com/schollz/progressbar/v3"

	"github.com/trueabc/go/tools/dwrs/internal/job"
)

// barRenderer gives every job its own single-line bar. It suits one job at
// a time; with more, the bars take turns on the same row.
type barRenderer struct {
	out io.Writer
}

func newBarRenderer(out io.Writer) *barRenderer {
	return &barRenderer{out: out}
}

func (r *barRenderer) add(_ job.Job, title string) line {
	return &barLine{out: r.out, title: title}
}

func (r *barRenderer) close() error { return nil }

type barLine struct {
	out   io.Writer
	title string
	bar   *pg.ProgressBar
}

func (l *barLine) start(total int64) {
	if total <= 0 {
		// 长度未知时显示为 spinner
		total = -1
	}
	l.bar = customedBar(l.out, total, l.title)
}

func (l *barLine) add(n int64) {
	if l.bar != nil {
		l.bar.Add64(n)
	}
}

func (l *barLine) finish(text string) {
	if l.bar != nil {
		l.bar.Clear()
	}
	fmt.Fprintln(l.out, text)
}

// customedBar 只负责进度条的显示
func customedBar(out io.Writer, length int64, desc string) *pg.ProgressBar {
	return pg.NewOptions64(
		length,
		pg.OptionSetWriter(out),
		pg.OptionSetDescription(desc),
		pg.OptionShowBytes(true),
		pg.OptionSetWidth(10),
		pg.OptionEnableColorCodes(true),
		pg.OptionShowCount(),
		pg.OptionSetTheme(pg.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		pg.OptionUseANSICodes(true),
		pg.OptionThrottle(100*time.Millisecond),
		pg.OptionSetPredictTime(true),
		pg.OptionFullWidth(),
	)
}
