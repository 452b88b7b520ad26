package splitter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/metcalfc/booksum/internal/book"
)

// ExternalSplitter delegates splitting to another program.
type ExternalSplitter struct {
	Binary string
}

func (s *ExternalSplitter) Name() string { return filepath.Base(s.Binary) }

// Split runs the splitter and checks that it left a manifest behind.
func (s *ExternalSplitter) Split(ctx context.Context, epubPath, outDir string) error {
	cmd := exec.CommandContext(ctx, s.Binary, epubPath, "-o", outDir)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		toolErr := &book.ToolError{Tool: "epub splitter", Diagnostic: stderr.String(), Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			toolErr.ExitCode = exitErr.ExitCode()
		}
		return toolErr
	}

	if !fileExists(filepath.Join(outDir, ManifestFile)) {
		return &book.ToolError{
			Tool:       "epub splitter",
			Diagnostic: fmt.Sprintf("no %s written to %s", ManifestFile, outDir),
		}
	}
	return nil
}
