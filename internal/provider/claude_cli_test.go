package provider

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/metcalfc/booksum/internal/book"
)

const fakeClaudeScript = `#!/bin/sh
if [ "$FAKE_CLAUDE_FAIL" = "1" ]; then
  echo "usage limit reached" >&2
  exit 3
fi
printf 'flag=%s\n' "$1"
printf 'model=%s\n' "$3"
printf 'prompt=%s\n' "$4"
cat
printf '\n\n'
`

func writeFakeClaude(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stub not supported on windows")
	}
	path := filepath.Join(t.TempDir(), "claude")
	if err := os.WriteFile(path, []byte(fakeClaudeScript), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestClaudeCLIGenerate(t *testing.T) {
	bin := writeFakeClaude(t)
	p := NewClaudeCLI(bin)

	out, err := p.Generate(context.Background(), "chapter body text", "Summarize it", Options{Model: "sonnet"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, want := range []string{"flag=-p", "model=sonnet", "prompt=Summarize it", "chapter body text"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
	if strings.HasSuffix(out, "\n") {
		t.Errorf("expected trimmed output, got %q", out)
	}
}

func TestClaudeCLIDefaultModel(t *testing.T) {
	bin := writeFakeClaude(t)
	out, err := NewClaudeCLI(bin).Generate(context.Background(), "x", "y", Options{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(out, "model=haiku") {
		t.Errorf("expected default model haiku, got %q", out)
	}
}

func TestClaudeCLIFailureCarriesStderr(t *testing.T) {
	bin := writeFakeClaude(t)
	t.Setenv("FAKE_CLAUDE_FAIL", "1")

	_, err := NewClaudeCLI(bin).Generate(context.Background(), "x", "y", Options{})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, book.ErrExternalTool) {
		t.Errorf("expected ErrExternalTool, got %v", err)
	}
	var toolErr *book.ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("expected *book.ToolError, got %T", err)
	}
	if toolErr.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", toolErr.ExitCode)
	}
	if !strings.Contains(toolErr.Diagnostic, "usage limit reached") {
		t.Errorf("Diagnostic = %q", toolErr.Diagnostic)
	}
}

func TestClaudeCLIMissingBinary(t *testing.T) {
	p := NewClaudeCLI(filepath.Join(t.TempDir(), "does-not-exist"))
	_, err := p.Generate(context.Background(), "x", "y", Options{})
	if !errors.Is(err, book.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
}
