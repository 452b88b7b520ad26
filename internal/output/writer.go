// Package output writes summaries to disk.
//
// Layout under a book's output directory:
//
//	summaries/<mode>/<NN>_<slug>.md     one file per chapter summary
//	summary-<mode>.md                   the book overview
//	<slug>-summary-<mode>.md / .html    optional combined document
package output

import (
	"bytes"
	"fmt"
	stdhtml "html"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/metcalfc/booksum/internal/book"
	"github.com/metcalfc/booksum/internal/logging"
	"github.com/metcalfc/booksum/internal/summarize"
	"github.com/metcalfc/booksum/internal/textutil"
)

const summariesDir = "summaries"

// Writer writes the summaries of one book for one mode.
type Writer struct {
	baseDir string
	mode    book.Mode
	logger  *slog.Logger
	md      goldmark.Markdown
}

// NewWriter writes below baseDir, the book's output directory.
func NewWriter(baseDir string, mode book.Mode, logger *slog.Logger) *Writer {
	return &Writer{
		baseDir: baseDir,
		mode:    mode,
		logger:  logging.NewComponentLogger(logger, "output"),
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Typographer),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

// BookSummaryPath is where WriteBookSummary puts the overview. The
// pipeline checks it to decide whether a book was already summarized.
func BookSummaryPath(baseDir string, mode book.Mode) string {
	return filepath.Join(baseDir, fmt.Sprintf("summary-%s.md", mode))
}

// ChapterDir holds the chapter summaries for the writer's mode.
func (w *Writer) ChapterDir() string {
	return filepath.Join(w.baseDir, summariesDir, string(w.mode))
}

// ChapterPath returns the file name for one chapter summary.
func (w *Writer) ChapterPath(s summarize.ChapterSummary) string {
	name := fmt.Sprintf("%02d_%s.md", s.Index, textutil.Slugify(s.Title))
	return filepath.Join(w.ChapterDir(), name)
}

// WriteChapterSummary writes "# {title}\n\n{summary}\n".
func (w *Writer) WriteChapterSummary(s summarize.ChapterSummary) (string, error) {
	if err := os.MkdirAll(w.ChapterDir(), 0o755); err != nil {
		return "", fmt.Errorf("create summaries dir: %w", err)
	}
	path := w.ChapterPath(s)
	content := "# " + s.Title + "\n\n" + s.Summary + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write chapter summary: %w", err)
	}
	return path, nil
}

// WriteChapterSummaries writes each summary in order and returns the
// paths written.
func (w *Writer) WriteChapterSummaries(summaries []summarize.ChapterSummary) ([]string, error) {
	paths := make([]string, 0, len(summaries))
	for _, s := range summaries {
		path, err := w.WriteChapterSummary(s)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	w.logger.Debug("chapter summaries written", "count", len(paths), "dir", w.ChapterDir())
	return paths, nil
}

// WriteBookSummary writes "# {title}\n\n*By {author}*\n\n{summary}\n".
func (w *Writer) WriteBookSummary(s summarize.BookSummary) (string, error) {
	if err := os.MkdirAll(w.baseDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := BookSummaryPath(w.baseDir, w.mode)
	content := "# " + s.Title + "\n\n*By " + s.Author + "*\n\n" + s.Summary + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write book summary: %w", err)
	}
	return path, nil
}

// CombinedPaths returns the markdown and HTML paths of the combined
// document for a book title.
func (w *Writer) CombinedPaths(title string) (string, string) {
	slug := textutil.Slugify(title)
	if slug == "" {
		slug = "book"
	}
	base := filepath.Join(w.baseDir, fmt.Sprintf("%s-summary-%s", slug, w.mode))
	return base + ".md", base + ".html"
}

// WriteCombinedSummary writes one document holding the overview (when
// overview is non-nil) followed by every chapter summary. With withHTML
// it also renders the document to HTML next to it. It returns the paths
// written, markdown first.
func (w *Writer) WriteCombinedSummary(chapters []summarize.ChapterSummary, title, author string, overview *summarize.BookSummary, withHTML bool) ([]string, error) {
	var sb strings.Builder
	sb.WriteString("# " + title + "\n\n")
	sb.WriteString("*By " + author + "*\n\n")
	if overview != nil {
		sb.WriteString("## Overview\n\n" + overview.Summary + "\n\n")
		sb.WriteString("---\n\n## Chapter Summaries\n\n")
	}
	for _, c := range chapters {
		sb.WriteString("## " + c.Title + "\n\n" + c.Summary + "\n\n")
	}

	mdPath, htmlPath := w.CombinedPaths(title)
	if err := os.MkdirAll(w.baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(mdPath, []byte(sb.String()), 0o644); err != nil {
		return nil, fmt.Errorf("write combined summary: %w", err)
	}
	paths := []string{mdPath}
	if !withHTML {
		return paths, nil
	}

	page, err := w.RenderHTML(title, sb.String())
	if err != nil {
		return paths, err
	}
	if err := os.WriteFile(htmlPath, page, 0o644); err != nil {
		return paths, fmt.Errorf("write combined html: %w", err)
	}
	return append(paths, htmlPath), nil
}

// RenderHTML converts markdown to a standalone HTML page.
func (w *Writer) RenderHTML(title, markdown string) ([]byte, error) {
	var body bytes.Buffer
	if err := w.md.Convert([]byte(markdown), &body); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	page.WriteString("<title>" + stdhtml.EscapeString(title) + "</title>\n</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}

