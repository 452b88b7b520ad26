// Package summarize turns chapter text into chapter summaries and
// chapter summaries into a whole-book overview.
package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"unicode"

	"github.com/metcalfc/booksum/internal/book"
	"github.com/metcalfc/booksum/internal/logging"
	"github.com/metcalfc/booksum/internal/modes"
	"github.com/metcalfc/booksum/internal/provider"
)

// MinSummaryWords is the smallest chapter worth sending to the backend.
const MinSummaryWords = 50

// skipSentinel is the reply a backend gives for chapters that carry no
// narrative content.
const skipSentinel = "SKIP"

// ChapterSummary is the summary of one chapter.
type ChapterSummary struct {
	Index    int
	Title    string
	Filename string
	Summary  string
}

// ProgressFunc is told about each chapter right before it is summarized.
type ProgressFunc func(current, total int, title string)

// ChapterSummarizer summarizes chapters one at a time.
type ChapterSummarizer struct {
	gen    provider.Provider
	prompt string
	opts   provider.Options
	logger *slog.Logger
}

// NewChapterSummarizer uses cfg.ChapterPrompt as the directive template.
func NewChapterSummarizer(gen provider.Provider, cfg modes.Config, opts provider.Options, logger *slog.Logger) *ChapterSummarizer {
	return &ChapterSummarizer{
		gen:    gen,
		prompt: cfg.ChapterPrompt,
		opts:   opts,
		logger: logging.NewComponentLogger(logger, "chapters"),
	}
}

// Summarize sends one chapter to the backend and returns its summary
// verbatim (apart from trimming done by the backend).
func (s *ChapterSummarizer) Summarize(ctx context.Context, chapter book.Chapter) (ChapterSummary, error) {
	directive := modes.Fill(s.prompt,
		modes.PlaceholderTitle, chapter.Info.Title,
		modes.PlaceholderContent, chapter.Content,
	)
	out, err := s.gen.Generate(ctx, chapter.Content, directive, s.opts)
	if err != nil {
		return ChapterSummary{}, err
	}
	return ChapterSummary{
		Index:    chapter.Info.Index,
		Title:    chapter.Info.Title,
		Filename: strings.TrimSuffix(chapter.Info.File, path.Ext(chapter.Info.File)),
		Summary:  out,
	}, nil
}

// SummarizeAll summarizes chapters in order. Chapters under
// MinSummaryWords are skipped without a backend call, and replies equal
// to the SKIP sentinel are dropped. The first backend error aborts.
func (s *ChapterSummarizer) SummarizeAll(ctx context.Context, chapters []book.Chapter, onProgress ProgressFunc) ([]ChapterSummary, error) {
	summaries := make([]ChapterSummary, 0, len(chapters))
	total := len(chapters)

	for i, chapter := range chapters {
		if chapter.Info.WordCount < MinSummaryWords {
			s.logger.Debug("skipping short chapter",
				logging.FieldChapter, chapter.Info.Title,
				"words", chapter.Info.WordCount,
			)
			continue
		}
		if onProgress != nil {
			onProgress(i+1, total, chapter.Info.Title)
		}

		summary, err := s.Summarize(ctx, chapter)
		if err != nil {
			return nil, fmt.Errorf("summarize chapter %d (%s): %w", chapter.Info.Index, chapter.Info.Title, err)
		}
		if IsSkipSentinel(summary.Summary) {
			s.logger.Info("backend marked chapter as non-content", logging.FieldChapter, chapter.Info.Title)
			continue
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// IsSkipSentinel reports whether a backend reply means "nothing to
// summarize": the word SKIP alone or followed by whitespace, in any case.
func IsSkipSentinel(text string) bool {
	upper := strings.ToUpper(strings.TrimSpace(text))
	if !strings.HasPrefix(upper, skipSentinel) {
		return false
	}
	rest := upper[len(skipSentinel):]
	if rest == "" {
		return true
	}
	r := []rune(rest)[0]
	return unicode.IsSpace(r)
}
