package provider

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/metcalfc/booksum/internal/book"
)

const defaultClaudeBinary = "claude"

// ClaudeCLI runs the claude command line tool in print mode. The input
// text is piped on stdin and the instruction is passed as the prompt
// argument.
type ClaudeCLI struct {
	Binary string
}

// NewClaudeCLI returns a backend that shells out to binary, or "claude"
// from PATH when binary is empty.
func NewClaudeCLI(binary string) *ClaudeCLI {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = defaultClaudeBinary
	}
	return &ClaudeCLI{Binary: binary}
}

func (c *ClaudeCLI) Name() string { return string(KindClaudeCLI) }

// Generate runs `claude -p --model <model> <directive>`. MaxTokens and
// Temperature have no CLI equivalent and are ignored.
func (c *ClaudeCLI) Generate(ctx context.Context, input, directive string, opts Options) (string, error) {
	model := modelOrDefault(KindClaudeCLI, opts.Model)

	cmd := exec.CommandContext(ctx, c.Binary, "-p", "--model", model, directive)
	cmd.Stdin = strings.NewReader(input)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		toolErr := &book.ToolError{
			Tool:       "claude CLI",
			Diagnostic: stderr.String(),
			Err:        err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			toolErr.ExitCode = exitErr.ExitCode()
		}
		return "", toolErr
	}

	return strings.TrimSpace(stdout.String()), nil
}
