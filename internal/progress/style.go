package progress

import (
	"fmt"

	"github.com/fatih/color"
)

// Message ids used on job lines.
const (
	msgDownload = "download"
	msgFinish   = "download-finish"
	msgError    = "download-error"
)

var (
	labelStyle  = color.New(color.FgBlue).SprintFunc()
	urlStyle    = color.New(color.FgYellow, color.Bold).SprintFunc()
	pathStyle   = color.New(color.FgGreen, color.Bold).SprintFunc()
	okStyle     = color.New(color.FgGreen, color.Bold).SprintFunc()
	okPathStyle = color.New(color.FgGreen).SprintFunc()
	failStyle   = color.New(color.FgRed, color.Bold).SprintFunc()
	warnStyle   = color.New(color.FgRed, color.Bold).SprintFunc()
)

// humanBytes formats a byte count with binary units.
func humanBytes(n float64) string {
	switch {
	case n >= 1<<30:
		return fmt.Sprintf("%.2fGiB", n/(1<<30))
	case n >= 1<<20:
		return fmt.Sprintf("%.2fMiB", n/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.2fKiB", n/(1<<10))
	default:
		return fmt.Sprintf("%.0fB", n)
	}
}
