package modes

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/metcalfc/booksum/internal/book"
)

func TestResolveBuiltinModes(t *testing.T) {
	r := NewResolver("")
	for _, mode := range book.Modes {
		cfg, err := r.Resolve(mode)
		if err != nil {
			t.Fatalf("Resolve(%s): %v", mode, err)
		}
		if !strings.Contains(cfg.ChapterPrompt, PlaceholderTitle) {
			t.Errorf("%s chapter prompt missing %s", mode, PlaceholderTitle)
		}
		if !strings.Contains(cfg.ChapterPrompt, "SKIP") {
			t.Errorf("%s chapter prompt should describe the SKIP reply", mode)
		}
		for _, p := range []string{PlaceholderTitle, PlaceholderAuthor, PlaceholderChapterCount} {
			if !strings.Contains(cfg.BookPrompt, p) {
				t.Errorf("%s book prompt missing %s", mode, p)
			}
		}
	}
}

func TestResolveUnknownMode(t *testing.T) {
	r := NewResolver("")
	_, err := r.Resolve(book.Mode("haiku"))
	if err == nil {
		t.Fatal("expected error for unknown mode")
	}
	if !errors.Is(err, book.ErrNotFound) || !errors.Is(err, book.ErrConfiguration) {
		t.Errorf("expected NotFound and Configuration kinds, got %v", err)
	}
}

func TestResolveOverrideDirectory(t *testing.T) {
	dir := t.TempDir()
	modeDir := filepath.Join(dir, "concise")
	if err := os.MkdirAll(modeDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(modeDir, "chapter.md"), []byte("custom {{TITLE}}"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewResolver(dir)
	cfg, err := r.Resolve(book.ModeConcise)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.ChapterPrompt != "custom {{TITLE}}" {
		t.Errorf("expected override chapter prompt, got %q", cfg.ChapterPrompt)
	}
	// book.md is not overridden so the built-in one is used
	if !strings.Contains(cfg.BookPrompt, PlaceholderChapterCount) {
		t.Errorf("expected built-in book prompt, got %q", cfg.BookPrompt)
	}
}

func TestResolveCachesPerMode(t *testing.T) {
	dir := t.TempDir()
	modeDir := filepath.Join(dir, "detailed")
	if err := os.MkdirAll(modeDir, 0o755); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(modeDir, "book.md")
	if err := os.WriteFile(target, []byte("first"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewResolver(dir)
	if _, err := r.Resolve(book.ModeDetailed); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(target, []byte("second"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := r.Resolve(book.ModeDetailed)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BookPrompt != "first" {
		t.Errorf("expected cached prompt, got %q", cfg.BookPrompt)
	}
}

func TestModes(t *testing.T) {
	got := NewResolver("").Modes()
	if len(got) != 2 || got[0] != book.ModeConcise || got[1] != book.ModeDetailed {
		t.Errorf("Modes() = %v", got)
	}
}

func TestFill(t *testing.T) {
	tests := []struct {
		name     string
		template string
		pairs    []string
		want     string
	}{
		{
			name:     "substitutes in order",
			template: "Title: {{TITLE}}\n{{CONTENT}}",
			pairs:    []string{PlaceholderTitle, "Dune", PlaceholderContent, "Arrakis"},
			want:     "Title: Dune\nArrakis",
		},
		{
			name:     "no placeholders",
			template: "Summarize this.",
			pairs:    []string{PlaceholderTitle, "Dune", PlaceholderContent, "Arrakis"},
			want:     "Summarize this.",
		},
		{
			name:     "only first occurrence",
			template: "{{TITLE}} and {{TITLE}}",
			pairs:    []string{PlaceholderTitle, "Dune"},
			want:     "Dune and {{TITLE}}",
		},
		{
			name:     "odd pair ignored",
			template: "{{TITLE}}",
			pairs:    []string{PlaceholderTitle},
			want:     "{{TITLE}}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fill(tt.template, tt.pairs...); got != tt.want {
				t.Errorf("Fill() = %q, want %q", got, tt.want)
			}
		})
	}
}
