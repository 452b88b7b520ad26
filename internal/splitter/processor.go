package splitter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/metcalfc/booksum/internal/book"
	"github.com/metcalfc/booksum/internal/logging"
)

// LockFile is created inside the output directory while a split runs.
const LockFile = ".booksum.lock"

const lockRetryDelay = 250 * time.Millisecond

// Processor gives access to one book's split, splitting on first use.
type Processor struct {
	EpubPath string
	OutDir   string
	Splitter Splitter

	logger   *slog.Logger
	manifest *book.Manifest
}

// NewProcessor binds an EPUB to its output directory. An empty outDir
// uses DefaultOutDir(epubPath, "").
func NewProcessor(epubPath, outDir string, s Splitter, logger *slog.Logger) *Processor {
	if outDir == "" {
		outDir = DefaultOutDir(epubPath, "")
	}
	if s == nil {
		s = NewBuiltin()
	}
	return &Processor{
		EpubPath: epubPath,
		OutDir:   outDir,
		Splitter: s,
		logger:   logging.NewComponentLogger(logger, "splitter"),
	}
}

// ManifestPath is the location of book.json.
func (p *Processor) ManifestPath() string {
	return filepath.Join(p.OutDir, ManifestFile)
}

// EnsureSplit runs the splitter unless book.json already exists. The
// split holds a file lock so concurrent runs on the same book wait for
// each other instead of splitting twice.
func (p *Processor) EnsureSplit(ctx context.Context) error {
	if fileExists(p.ManifestPath()) {
		return nil
	}
	if _, err := os.Stat(p.EpubPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: epub %s", book.ErrNotFound, p.EpubPath)
		}
		return fmt.Errorf("stat epub: %w", err)
	}
	if err := os.MkdirAll(p.OutDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	lock := flock.New(filepath.Join(p.OutDir, LockFile))
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("acquire split lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("acquire split lock: %s is busy", p.OutDir)
	}
	defer func() { _ = lock.Unlock() }()

	// Another process may have finished while we waited.
	if fileExists(p.ManifestPath()) {
		return nil
	}

	start := time.Now()
	p.logger.Info("splitting epub", "epub", p.EpubPath, "out", p.OutDir, "splitter", p.Splitter.Name())
	if err := p.Splitter.Split(ctx, p.EpubPath, p.OutDir); err != nil {
		return fmt.Errorf("split %s: %w", filepath.Base(p.EpubPath), err)
	}
	p.logger.Debug("split complete", "duration", time.Since(start))
	return nil
}

// Manifest returns the parsed book.json, splitting first if needed.
func (p *Processor) Manifest(ctx context.Context) (book.Manifest, error) {
	if p.manifest != nil {
		return *p.manifest, nil
	}
	if err := p.EnsureSplit(ctx); err != nil {
		return book.Manifest{}, err
	}

	data, err := os.ReadFile(p.ManifestPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return book.Manifest{}, fmt.Errorf("%w: %s", book.ErrNotFound, p.ManifestPath())
		}
		return book.Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	var m book.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return book.Manifest{}, fmt.Errorf("%w: parse %s: %w", book.ErrInvalidInput, p.ManifestPath(), err)
	}
	p.manifest = &m
	return m, nil
}

// ChapterText reads one chapter file.
func (p *Processor) ChapterText(file string) (string, error) {
	data, err := os.ReadFile(filepath.Join(p.OutDir, ChaptersDir, file))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: chapter file %s", book.ErrNotFound, file)
		}
		return "", fmt.Errorf("read chapter %s: %w", file, err)
	}
	return string(data), nil
}

// Chapter loads a chapter listed in the manifest by file name.
func (p *Processor) Chapter(ctx context.Context, file string) (book.Chapter, error) {
	m, err := p.Manifest(ctx)
	if err != nil {
		return book.Chapter{}, err
	}
	for _, info := range m.Chapters {
		if info.File == file {
			content, err := p.ChapterText(file)
			if err != nil {
				return book.Chapter{}, err
			}
			return book.Chapter{Info: info, Content: content}, nil
		}
	}
	return book.Chapter{}, fmt.Errorf("%w: chapter %s not in manifest", book.ErrNotFound, file)
}

// Chapters loads the text of each listed chapter, in the given order.
func (p *Processor) Chapters(ctx context.Context, infos []book.ChapterInfo) ([]book.Chapter, error) {
	if err := p.EnsureSplit(ctx); err != nil {
		return nil, err
	}
	out := make([]book.Chapter, 0, len(infos))
	for _, info := range infos {
		content, err := p.ChapterText(info.File)
		if err != nil {
			return nil, err
		}
		out = append(out, book.Chapter{Info: info, Content: content})
	}
	return out, nil
}
