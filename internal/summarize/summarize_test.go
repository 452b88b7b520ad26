package summarize

import (
	"context"
	"errors"
	"testing"

	"github.com/metcalfc/booksum/internal/book"
	"github.com/metcalfc/booksum/internal/modes"
	"github.com/metcalfc/booksum/internal/provider"
)

type call struct {
	input     string
	directive string
}

// fakeProvider replays canned replies in order and records every call.
type fakeProvider struct {
	replies []string
	err     error
	calls   []call
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Generate(_ context.Context, input, directive string, _ provider.Options) (string, error) {
	f.calls = append(f.calls, call{input: input, directive: directive})
	if f.err != nil {
		return "", f.err
	}
	if len(f.replies) == 0 {
		return "summary of " + input, nil
	}
	reply := f.replies[0]
	f.replies = f.replies[1:]
	return reply, nil
}

func chapter(index, words int, title string) book.Chapter {
	return book.Chapter{
		Info:    book.ChapterInfo{Index: index, File: title + ".md", Title: title, WordCount: words},
		Content: "text of " + title,
	}
}

var testConfig = modes.Config{
	ChapterPrompt: "Summarize {{TITLE}}:\n{{CONTENT}}",
	BookPrompt:    "Book {{TITLE}} by {{AUTHOR}} ({{CHAPTER_COUNT}} chapters)",
}

func TestSummarizeFillsTemplate(t *testing.T) {
	fake := &fakeProvider{replies: []string{"it happened"}}
	s := NewChapterSummarizer(fake, testConfig, provider.Options{}, nil)

	got, err := s.Summarize(context.Background(), chapter(4, 500, "04_storm"))
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if got.Filename != "04_storm" || got.Index != 4 || got.Summary != "it happened" {
		t.Errorf("unexpected summary %+v", got)
	}
	if want := "Summarize 04_storm:\ntext of 04_storm"; fake.calls[0].directive != want {
		t.Errorf("directive = %q, want %q", fake.calls[0].directive, want)
	}
	if fake.calls[0].input != "text of 04_storm" {
		t.Errorf("input = %q", fake.calls[0].input)
	}
}

func TestWordThreshold(t *testing.T) {
	fake := &fakeProvider{}
	s := NewChapterSummarizer(fake, testConfig, provider.Options{}, nil)

	got, err := s.SummarizeAll(context.Background(), []book.Chapter{
		chapter(1, MinSummaryWords-1, "short"),
		chapter(2, MinSummaryWords, "exact"),
	}, nil)
	if err != nil {
		t.Fatalf("SummarizeAll: %v", err)
	}
	if len(fake.calls) != 1 {
		t.Fatalf("expected one backend call, got %d", len(fake.calls))
	}
	if len(got) != 1 || got[0].Title != "exact" {
		t.Errorf("unexpected summaries %+v", got)
	}
}

func TestSkipSentinelDropsChapters(t *testing.T) {
	fake := &fakeProvider{replies: []string{"skip", "Real summary", "SKIP\n", "Skip - this is an index"}}
	s := NewChapterSummarizer(fake, testConfig, provider.Options{}, nil)

	chapters := []book.Chapter{
		chapter(1, 100, "a"), chapter(2, 100, "b"), chapter(3, 100, "c"), chapter(4, 100, "d"),
	}
	got, err := s.SummarizeAll(context.Background(), chapters, nil)
	if err != nil {
		t.Fatalf("SummarizeAll: %v", err)
	}
	if len(got) != 1 || got[0].Title != "b" {
		t.Fatalf("expected only chapter b to survive, got %+v", got)
	}
}

func TestIsSkipSentinel(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"SKIP", true},
		{"  skip  ", true},
		{"Skip\tfront matter", true},
		{"SKIPPED", false},
		{"Skipping ahead, the hero...", false},
		{"Do not SKIP", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsSkipSentinel(tt.in); got != tt.want {
			t.Errorf("IsSkipSentinel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestProgressReporting(t *testing.T) {
	fake := &fakeProvider{}
	s := NewChapterSummarizer(fake, testConfig, provider.Options{}, nil)

	type progress struct {
		current, total int
		title          string
	}
	var seen []progress
	chapters := []book.Chapter{
		chapter(1, 10, "tiny"), chapter(2, 300, "two"), chapter(3, 300, "three"),
	}
	_, err := s.SummarizeAll(context.Background(), chapters, func(current, total int, title string) {
		seen = append(seen, progress{current, total, title})
	})
	if err != nil {
		t.Fatalf("SummarizeAll: %v", err)
	}
	want := []progress{{2, 3, "two"}, {3, 3, "three"}}
	if len(seen) != len(want) {
		t.Fatalf("progress = %+v, want %+v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("progress[%d] = %+v, want %+v", i, seen[i], want[i])
		}
	}
}

func TestBackendErrorAborts(t *testing.T) {
	toolErr := &book.ToolError{Tool: "claude CLI", ExitCode: 1, Diagnostic: "boom"}
	fake := &fakeProvider{err: toolErr}
	s := NewChapterSummarizer(fake, testConfig, provider.Options{}, nil)

	got, err := s.SummarizeAll(context.Background(), []book.Chapter{chapter(1, 100, "a"), chapter(2, 100, "b")}, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, book.ErrExternalTool) {
		t.Errorf("expected external tool kind, got %v", err)
	}
	if got != nil || len(fake.calls) != 1 {
		t.Errorf("expected abort after first call, got %d calls and %v", len(fake.calls), got)
	}
}

func TestEmptyInput(t *testing.T) {
	s := NewChapterSummarizer(&fakeProvider{}, testConfig, provider.Options{}, nil)
	got, err := s.SummarizeAll(context.Background(), nil, nil)
	if err != nil || got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil result, got %v, %v", got, err)
	}
}

func TestBookSummary(t *testing.T) {
	fake := &fakeProvider{replies: []string{"  the whole story \n"}}
	s := NewBookSummarizer(fake, testConfig, provider.Options{}, nil)

	got, err := s.Summarize(context.Background(), []ChapterSummary{
		{Title: "One", Summary: "first"},
		{Title: "Two", Summary: "second"},
	}, "Dune", "Frank Herbert")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if got.Summary != "the whole story" || got.ChapterCount != 2 || got.Author != "Frank Herbert" {
		t.Errorf("unexpected book summary %+v", got)
	}
	if want := "## One\n\nfirst\n\n---\n\n## Two\n\nsecond"; fake.calls[0].input != want {
		t.Errorf("input = %q, want %q", fake.calls[0].input, want)
	}
	if want := "Book Dune by Frank Herbert (2 chapters)"; fake.calls[0].directive != want {
		t.Errorf("directive = %q, want %q", fake.calls[0].directive, want)
	}
}

func TestTemplatesWithoutPlaceholders(t *testing.T) {
	fake := &fakeProvider{}
	cfg := modes.Config{ChapterPrompt: "Summarize this.", BookPrompt: "Overview please."}

	if _, err := NewChapterSummarizer(fake, cfg, provider.Options{}, nil).Summarize(context.Background(), chapter(1, 100, "x")); err != nil {
		t.Fatalf("chapter: %v", err)
	}
	if _, err := NewBookSummarizer(fake, cfg, provider.Options{}, nil).Summarize(context.Background(), nil, "T", ""); err != nil {
		t.Fatalf("book: %v", err)
	}
	if fake.calls[0].directive != "Summarize this." || fake.calls[1].directive != "Overview please." {
		t.Errorf("directives altered: %+v", fake.calls)
	}
}
