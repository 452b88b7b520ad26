// Package splitter turns an EPUB into the on-disk layout the pipeline
// reads: a book.json manifest plus one text file per chapter under
// chapters/.
//
// Splitting is done either by an external program invoked as
//
//	<binary> <epub> -o <outdir>
//
// or by the built-in splitter, which reads the EPUB directly.
package splitter

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/metcalfc/booksum/internal/logging"
)

// Layout names.
const (
	ManifestFile = "book.json"
	ChaptersDir  = "chapters"
)

// Splitter writes ManifestFile and ChaptersDir into outDir.
type Splitter interface {
	Name() string
	Split(ctx context.Context, epubPath, outDir string) error
}

// New returns an ExternalSplitter when binary is set and can be found,
// otherwise the built-in splitter.
func New(binary string, logger *slog.Logger) Splitter {
	logger = logging.NewComponentLogger(logger, "splitter")
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return NewBuiltin()
	}
	resolved, err := exec.LookPath(binary)
	if err != nil {
		logger.Warn("splitter binary not found, using built-in splitter", "binary", binary, "error", err)
		return NewBuiltin()
	}
	return &ExternalSplitter{Binary: resolved}
}

// DefaultOutDir returns where the split of epubPath lives: next to the
// EPUB, or under outputRoot when one is given, in a directory named
// after the EPUB without its extension.
func DefaultOutDir(epubPath, outputRoot string) string {
	name := strings.TrimSuffix(filepath.Base(epubPath), filepath.Ext(epubPath))
	root := strings.TrimSpace(outputRoot)
	if root == "" {
		root = filepath.Dir(epubPath)
	}
	return filepath.Join(root, name)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
