package job

import "fmt"

// ConfigError aborts a run before any download starts.
type ConfigError struct {
	// MessageID names the localized text shown to the user.
	MessageID string
	Err       error
}

func (e *ConfigError) Error() string {
	if e.Err == nil {
		return e.MessageID
	}
	return fmt.Sprintf("%s: %v", e.MessageID, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// NewConfigError wraps err under a message id.
func NewConfigError(messageID string, err error) *ConfigError {
	return &ConfigError{MessageID: messageID, Err: err}
}

// MalformedLineError describes an input file line that was skipped.
type MalformedLineError struct {
	Line   int
	Text   string
	Tokens int
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("line %d: expected 1 or 2 fields, got %d: %q", e.Line, e.Tokens, e.Text)
}
