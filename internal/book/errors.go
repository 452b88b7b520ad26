package book

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds shared across packages. Callers match them with errors.Is.
var (
	ErrNotFound      = errors.New("not found")
	ErrExternalTool  = errors.New("external tool failed")
	ErrInvalidInput  = errors.New("invalid input")
	ErrConfiguration = errors.New("configuration error")
)

// ToolError reports an external process or service that finished
// abnormally. Diagnostic holds whatever the tool printed about it.
type ToolError struct {
	Tool       string
	ExitCode   int
	Diagnostic string
	Err        error
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s failed", e.Tool)
	if e.ExitCode != 0 {
		msg = fmt.Sprintf("%s (exit %d)", msg, e.ExitCode)
	}
	if d := strings.TrimSpace(e.Diagnostic); d != "" {
		msg += ": " + d
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ToolError) Unwrap() error { return e.Err }

// Is makes every ToolError match ErrExternalTool.
func (e *ToolError) Is(target error) bool { return target == ErrExternalTool }
