// Package modes resolves a summary mode to its pair of instruction
// templates.
//
// Templates live at <mode>/chapter.md and <mode>/book.md. A directory
// configured by the user is consulted first, then the templates compiled
// into the binary. Placeholders are left untouched here; the summarizers
// fill them with Fill.
package modes

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/metcalfc/booksum/internal/book"
)

//go:embed prompts
var embedded embed.FS

// Granularity names which of a mode's two templates is wanted.
type Granularity string

const (
	Chapter Granularity = "chapter"
	Book    Granularity = "book"
)

// Placeholder tokens recognized in templates.
const (
	PlaceholderTitle        = "{{TITLE}}"
	PlaceholderContent      = "{{CONTENT}}"
	PlaceholderAuthor       = "{{AUTHOR}}"
	PlaceholderChapterCount = "{{CHAPTER_COUNT}}"
)

// Config is the resolved template pair for one mode.
type Config struct {
	ChapterPrompt string
	BookPrompt    string
}

// Resolver loads and caches mode templates.
type Resolver struct {
	dir      string
	embedded fs.FS

	mu    sync.Mutex
	cache map[book.Mode]Config
}

// NewResolver returns a resolver that prefers templates under dir. An
// empty dir uses only the built-in templates.
func NewResolver(dir string) *Resolver {
	sub, err := fs.Sub(embedded, "prompts")
	if err != nil {
		// embed guarantees the directory exists
		panic(err)
	}
	return &Resolver{
		dir:      strings.TrimSpace(dir),
		embedded: sub,
		cache:    make(map[book.Mode]Config),
	}
}

// Resolve returns both templates for mode.
func (r *Resolver) Resolve(mode book.Mode) (Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cfg, ok := r.cache[mode]; ok {
		return cfg, nil
	}

	chapter, err := r.template(mode, Chapter)
	if err != nil {
		return Config{}, err
	}
	bookPrompt, err := r.template(mode, Book)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{ChapterPrompt: chapter, BookPrompt: bookPrompt}
	r.cache[mode] = cfg
	return cfg, nil
}

// Template returns a single template without caching it.
func (r *Resolver) Template(mode book.Mode, g Granularity) (string, error) {
	return r.template(mode, g)
}

// Modes lists the known modes for which both templates resolve.
func (r *Resolver) Modes() []book.Mode {
	var out []book.Mode
	for _, m := range book.Modes {
		if _, err := r.template(m, Chapter); err != nil {
			continue
		}
		if _, err := r.template(m, Book); err != nil {
			continue
		}
		out = append(out, m)
	}
	return out
}

func (r *Resolver) template(mode book.Mode, g Granularity) (string, error) {
	name := string(g) + ".md"

	if r.dir != "" {
		data, err := os.ReadFile(filepath.Join(r.dir, string(mode), name))
		if err == nil {
			return string(data), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("read %s template for mode %q: %w", g, mode, err)
		}
	}

	data, err := fs.ReadFile(r.embedded, path.Join(string(mode), name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %w: no %s template for mode %q", book.ErrConfiguration, book.ErrNotFound, g, mode)
		}
		return "", fmt.Errorf("read built-in %s template for mode %q: %w", g, mode, err)
	}
	return string(data), nil
}

// Fill substitutes placeholder/value pairs in order. Only the first
// occurrence of each placeholder is replaced and absent placeholders are
// ignored.
func Fill(template string, pairs ...string) string {
	for i := 0; i+1 < len(pairs); i += 2 {
		template = strings.Replace(template, pairs[i], pairs[i+1], 1)
	}
	return template
}
