package splitter

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/taylorskalyo/goreader/epub"

	"github.com/metcalfc/booksum/internal/book"
	"github.com/metcalfc/booksum/internal/textutil"
)

// BuiltinSplitter reads the EPUB spine directly. Each spine item with
// text becomes one chapter, titled from the NCX table of contents.
type BuiltinSplitter struct{}

// NewBuiltin returns the built-in splitter.
func NewBuiltin() *BuiltinSplitter { return &BuiltinSplitter{} }

func (s *BuiltinSplitter) Name() string { return "built-in" }

// Split writes every chapter file first and the manifest last, so a
// present manifest always describes a complete split.
func (s *BuiltinSplitter) Split(ctx context.Context, epubPath, outDir string) error {
	rc, err := epub.OpenReader(epubPath)
	if err != nil {
		return fmt.Errorf("%w: open epub %s: %w", book.ErrInvalidInput, epubPath, err)
	}
	defer rc.Close()

	if len(rc.Rootfiles) == 0 {
		return fmt.Errorf("%w: no rootfiles in %s", book.ErrInvalidInput, epubPath)
	}
	rf := rc.Rootfiles[0]
	titles := tocTitles(epubPath, rf)

	chaptersDir := filepath.Join(outDir, ChaptersDir)
	if err := os.MkdirAll(chaptersDir, 0o755); err != nil {
		return fmt.Errorf("create chapters dir: %w", err)
	}

	manifest := book.Manifest{
		Title:  strings.TrimSpace(rf.Metadata.Title),
		Author: strings.TrimSpace(rf.Metadata.Creator),
	}
	if manifest.Title == "" {
		manifest.Title = strings.TrimSuffix(filepath.Base(epubPath), filepath.Ext(epubPath))
	}

	for i, ref := range rf.Spine.Itemrefs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if ref.Item == nil {
			continue
		}
		r, err := ref.Item.Open()
		if err != nil {
			continue
		}
		text, words, err := extractText(r)
		r.Close()
		if err != nil || words == 0 {
			continue
		}

		title, ok := lookupTitle(titles, ref.Item.HREF)
		if !ok {
			title = fmt.Sprintf("Section %d", i+1)
		}
		index := len(manifest.Chapters) + 1
		name := chapterFileName(index, title)
		if err := os.WriteFile(filepath.Join(chaptersDir, name), []byte(text+"\n"), 0o644); err != nil {
			return fmt.Errorf("write chapter %s: %w", name, err)
		}
		manifest.Chapters = append(manifest.Chapters, book.ChapterInfo{
			Index:     index,
			File:      name,
			Title:     title,
			WordCount: words,
		})
	}
	if len(manifest.Chapters) == 0 {
		return fmt.Errorf("%w: %s has no readable chapters", book.ErrInvalidInput, epubPath)
	}

	return writeManifest(filepath.Join(outDir, ManifestFile), manifest)
}

func chapterFileName(index int, title string) string {
	slug := textutil.Slugify(title)
	if slug == "" {
		slug = "section"
	}
	return fmt.Sprintf("%02d_%s.md", index, slug)
}

func writeManifest(path string, manifest book.Manifest) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
