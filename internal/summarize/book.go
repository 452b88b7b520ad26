package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/metcalfc/booksum/internal/logging"
	"github.com/metcalfc/booksum/internal/modes"
	"github.com/metcalfc/booksum/internal/provider"
)

const chapterSeparator = "\n\n---\n\n"

// BookSummary is the overview produced from all chapter summaries.
type BookSummary struct {
	Title        string
	Author       string
	Summary      string
	ChapterCount int
}

// BookSummarizer condenses chapter summaries into one overview.
type BookSummarizer struct {
	gen    provider.Provider
	prompt string
	opts   provider.Options
	logger *slog.Logger
}

func NewBookSummarizer(gen provider.Provider, cfg modes.Config, opts provider.Options, logger *slog.Logger) *BookSummarizer {
	return &BookSummarizer{
		gen:    gen,
		prompt: cfg.BookPrompt,
		opts:   opts,
		logger: logging.NewComponentLogger(logger, "book"),
	}
}

// Summarize makes exactly one backend call.
func (s *BookSummarizer) Summarize(ctx context.Context, summaries []ChapterSummary, title, author string) (BookSummary, error) {
	directive := modes.Fill(s.prompt,
		modes.PlaceholderTitle, title,
		modes.PlaceholderAuthor, author,
		modes.PlaceholderChapterCount, strconv.Itoa(len(summaries)),
	)

	s.logger.Debug("generating book overview", logging.FieldBook, title, "chapters", len(summaries))
	out, err := s.gen.Generate(ctx, CombineChapters(summaries), directive, s.opts)
	if err != nil {
		return BookSummary{}, fmt.Errorf("summarize book %q: %w", title, err)
	}
	return BookSummary{
		Title:        title,
		Author:       author,
		Summary:      strings.TrimSpace(out),
		ChapterCount: len(summaries),
	}, nil
}

// CombineChapters renders chapter summaries as the book-level input.
func CombineChapters(summaries []ChapterSummary) string {
	parts := make([]string, 0, len(summaries))
	for _, s := range summaries {
		parts = append(parts, "## "+s.Title+"\n\n"+s.Summary)
	}
	return strings.Join(parts, chapterSeparator)
}
