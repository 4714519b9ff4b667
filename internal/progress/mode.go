package progress

import "fmt"

// Mode selects how lines are drawn.
type Mode string

const (
	ModeAuto  Mode = "auto"
	ModePool  Mode = "pool"
	ModeBar   Mode = "bar"
	ModePlain Mode = "plain"
	ModeNone  Mode = "none"
)

// ParseMode validates a user supplied mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeAuto, ModePool, ModeBar, ModePlain, ModeNone:
		return m, nil
	case "":
		return ModeAuto, nil
	}
	return "", fmt.Errorf("unknown progress mode %q", s)
}

// Resolve picks a concrete mode for ModeAuto: plain output off a terminal,
// a single bar when jobs run one at a time, a pool of bars otherwise.
func Resolve(m Mode, jobs int, terminal bool) Mode {
	if m != ModeAuto {
		return m
	}
	switch {
	case !terminal:
		return ModePlain
	case jobs <= 1:
		return ModeBar
	default:
		return ModePool
	}
}
