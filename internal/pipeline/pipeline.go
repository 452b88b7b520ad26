// Package pipeline drives a book from EPUB to written summaries.
//
// Books are processed one at a time and chapters one at a time, so at
// most one backend call is ever in flight.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/metcalfc/booksum/internal/book"
	"github.com/metcalfc/booksum/internal/logging"
	"github.com/metcalfc/booksum/internal/modes"
	"github.com/metcalfc/booksum/internal/output"
	"github.com/metcalfc/booksum/internal/provider"
	"github.com/metcalfc/booksum/internal/splitter"
	"github.com/metcalfc/booksum/internal/state"
	"github.com/metcalfc/booksum/internal/summarize"
	"github.com/metcalfc/booksum/internal/ui"
)

const unknownAuthor = "Unknown"

// Options holds the per-run settings.
type Options struct {
	Mode         book.Mode
	OutputRoot   string
	SkipExisting bool
	Combined     bool
	HTML         bool
	Generate     provider.Options
}

// Deps are the collaborators a Driver needs. Provider is required;
// the others fall back to the built-in splitter, the headless selector,
// the embedded templates and no history.
type Deps struct {
	Splitter splitter.Splitter
	Selector ui.Selector
	Resolver *modes.Resolver
	Provider provider.Provider
	History  *state.HistoryStore
	Logger   *slog.Logger
}

// Driver summarizes books.
type Driver struct {
	splitter splitter.Splitter
	selector ui.Selector
	resolver *modes.Resolver
	gen      provider.Provider
	history  *state.HistoryStore
	opts     Options
	logger   *slog.Logger
}

// NewDriver validates opts and fills in defaults for missing deps.
func NewDriver(deps Deps, opts Options) (*Driver, error) {
	if deps.Provider == nil {
		return nil, fmt.Errorf("%w: no provider configured", book.ErrConfiguration)
	}
	mode, err := book.ParseMode(string(opts.Mode))
	if err != nil {
		return nil, err
	}
	opts.Mode = mode

	d := &Driver{
		splitter: deps.Splitter,
		selector: deps.Selector,
		resolver: deps.Resolver,
		gen:      deps.Provider,
		history:  deps.History,
		opts:     opts,
		logger:   logging.NewComponentLogger(deps.Logger, "pipeline"),
	}
	if d.splitter == nil {
		d.splitter = splitter.NewBuiltin()
	}
	if d.selector == nil {
		d.selector = ui.Headless{}
	}
	if d.resolver == nil {
		d.resolver = modes.NewResolver("")
	}
	return d, nil
}

// Result describes what happened to one book.
type Result struct {
	EpubPath      string
	OutDir        string
	RunID         string
	Title         string
	Skipped       bool
	SkipReason    string
	Selected      int
	Summarized    int
	ChapterPaths  []string
	SummaryPath   string
	CombinedPaths []string
}

// Failure is a book that could not be summarized.
type Failure struct {
	EpubPath string
	Err      error
}

// Report aggregates a Run.
type Report struct {
	Results  []Result
	Failures []Failure
}

// Done counts books that were summarized.
func (r Report) Done() int {
	n := 0
	for _, res := range r.Results {
		if !res.Skipped {
			n++
		}
	}
	return n
}

// SkippedCount counts books that were skipped.
func (r Report) SkippedCount() int { return len(r.Results) - r.Done() }

// Run summarizes the EPUB at path, or every EPUB directly inside the
// directory at path. A failing book is logged and the run moves on to
// the next one; only cancellation stops the loop early.
func (d *Driver) Run(ctx context.Context, path string) (Report, error) {
	var report Report

	books, err := FindBooks(path)
	if err != nil {
		return report, err
	}
	d.logger.Info("found books",
		"count", len(books),
		"mode", d.opts.Mode,
		"provider", d.gen.Name(),
		"model", d.opts.Generate.Model,
	)

	for _, epubPath := range books {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		res, err := d.ProcessBook(ctx, epubPath)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return report, ctxErr
			}
			d.logger.Error("book failed", logging.FieldBook, filepath.Base(epubPath), "error", err)
			report.Failures = append(report.Failures, Failure{EpubPath: epubPath, Err: err})
			continue
		}
		report.Results = append(report.Results, res)
	}
	return report, nil
}

// ProcessBook summarizes one EPUB.
func (d *Driver) ProcessBook(ctx context.Context, epubPath string) (res Result, err error) {
	name := strings.TrimSuffix(filepath.Base(epubPath), filepath.Ext(epubPath))
	res = Result{
		EpubPath: epubPath,
		OutDir:   splitter.DefaultOutDir(epubPath, d.opts.OutputRoot),
		RunID:    uuid.NewString(),
		Title:    name,
	}
	logger := d.logger.With(logging.FieldBook, name, logging.FieldRunID, res.RunID)
	start := time.Now()
	logger.Info("processing book", "epub", epubPath)

	hash, err := state.ComputeHash(epubPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return res, fmt.Errorf("%w: epub %s", book.ErrNotFound, epubPath)
		}
		return res, fmt.Errorf("read epub: %w", err)
	}
	defer func() { d.record(logger, hash, &res, err) }()

	summaryPath := output.BookSummaryPath(res.OutDir, d.opts.Mode)
	if fileExists(summaryPath) {
		if d.opts.SkipExisting {
			res.SummaryPath = summaryPath
			return d.skip(logger, res, "summary exists"), nil
		}
		overwrite, err := d.selector.Confirm(fmt.Sprintf("%s already exists. Overwrite?", filepath.Base(summaryPath)))
		if err != nil {
			return res, err
		}
		if !overwrite {
			res.SummaryPath = summaryPath
			return d.skip(logger, res, "kept existing summary"), nil
		}
	}

	logger.Info("reading book structure")
	proc := splitter.NewProcessor(epubPath, res.OutDir, d.splitter, logger)
	manifest, err := proc.Manifest(ctx)
	if err != nil {
		return res, err
	}
	if t := strings.TrimSpace(manifest.Title); t != "" {
		res.Title = t
	}
	author := strings.TrimSpace(manifest.Author)
	if author == "" {
		author = unknownAuthor
	}

	preselected := book.Indices(book.ContentChapters(manifest.Chapters))
	selected, err := d.selector.SelectChapters(manifest.Chapters, preselected)
	if err != nil {
		return res, err
	}
	if len(selected) == 0 {
		return d.skip(logger, res, "no chapters selected"), nil
	}

	infos := book.FilterByIndex(manifest.Chapters, selected)
	res.Selected = len(infos)
	logger.Info("chapters to summarize", "selected", len(infos), "skipped", len(manifest.Chapters)-len(infos))

	chapters, err := proc.Chapters(ctx, infos)
	if err != nil {
		return res, err
	}
	templates, err := d.resolver.Resolve(d.opts.Mode)
	if err != nil {
		return res, err
	}

	logger.Info("summarizing chapters")
	chapterSummarizer := summarize.NewChapterSummarizer(d.gen, templates, d.opts.Generate, logger)
	summaries, err := chapterSummarizer.SummarizeAll(ctx, chapters, func(current, total int, title string) {
		logger.Info(fmt.Sprintf("[%d/%d] %s", current, total, title))
	})
	if err != nil {
		return res, err
	}
	res.Summarized = len(summaries)
	if len(summaries) == 0 {
		logger.Warn("no chapter produced a summary")
	}

	writer := output.NewWriter(res.OutDir, d.opts.Mode, logger)
	if res.ChapterPaths, err = writer.WriteChapterSummaries(summaries); err != nil {
		return res, err
	}

	logger.Info("creating book summary")
	bookSummarizer := summarize.NewBookSummarizer(d.gen, templates, d.opts.Generate, logger)
	overview, err := bookSummarizer.Summarize(ctx, summaries, res.Title, author)
	if err != nil {
		return res, err
	}
	if res.SummaryPath, err = writer.WriteBookSummary(overview); err != nil {
		return res, err
	}

	if d.opts.Combined {
		if res.CombinedPaths, err = writer.WriteCombinedSummary(summaries, res.Title, author, &overview, d.opts.HTML); err != nil {
			return res, err
		}
	}

	logger.Info("book summarized",
		"summary", res.SummaryPath,
		"chapters", res.Summarized,
		"duration", time.Since(start),
	)
	return res, nil
}

func (d *Driver) skip(logger *slog.Logger, res Result, reason string) Result {
	logger.Info("skipping book", "reason", reason)
	res.Skipped = true
	res.SkipReason = reason
	return res
}

func (d *Driver) record(logger *slog.Logger, hash string, res *Result, err error) {
	if d.history == nil {
		return
	}
	// A skip leaves an earlier completed run in place.
	if err == nil && res.Skipped {
		if prev, ok := d.history.Get(hash, string(d.opts.Mode)); ok && prev.Status == state.StatusDone {
			logger.Debug("keeping completed run in history", "previous_run", prev.RunID)
			return
		}
	}
	run := state.Run{
		Hash:        hash,
		RunID:       res.RunID,
		Title:       res.Title,
		Path:        res.EpubPath,
		Mode:        string(d.opts.Mode),
		Status:      state.StatusDone,
		Chapters:    res.Summarized,
		SummaryPath: res.SummaryPath,
	}
	switch {
	case err != nil:
		run.Status = state.StatusFailed
		run.Error = err.Error()
	case res.Skipped:
		run.Status = state.StatusSkipped
		run.Error = res.SkipReason
	}
	if recErr := d.history.Record(run); recErr != nil {
		logger.Warn("could not record run history", "error", recErr)
	}
}

// FindBooks resolves path to the EPUB files to process: the file itself,
// or the *.epub entries of a directory sorted by name.
func FindBooks(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", book.ErrNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	switch {
	case info.Mode().IsRegular():
		if !isEPUB(path) {
			return nil, fmt.Errorf("%w: not an epub file: %s", book.ErrInvalidInput, path)
		}
		return []string{path}, nil

	case info.IsDir():
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("read dir %s: %w", path, err)
		}
		var books []string
		for _, e := range entries {
			if e.Type().IsRegular() && isEPUB(e.Name()) {
				books = append(books, filepath.Join(path, e.Name()))
			}
		}
		if len(books) == 0 {
			return nil, fmt.Errorf("%w: no epub files in %s", book.ErrNotFound, path)
		}
		return books, nil
	}
	return nil, fmt.Errorf("%w: invalid path: %s", book.ErrInvalidInput, path)
}

func isEPUB(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".epub")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
