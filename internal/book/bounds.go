package book

import "strings"

// MinContentWords is the word count at which an untitled chapter is
// treated as real content.
const MinContentWords = 100

// FrontMatterTerms mark chapters that come before the book proper.
var FrontMatterTerms = []string{
	"cover",
	"title page",
	"title",
	"copyright",
	"dedication",
	"contents",
	"table of contents",
	"also by",
	"about the author",
	"praise for",
	"endorsements",
	"epigraph",
}

// IntroTerms mark chapters where the book proper begins.
var IntroTerms = []string{
	"introduction",
	"preface",
	"prologue",
	"foreword",
	"acknowledgments",
	"acknowledgements",
}

// BackMatterTerms mark chapters that follow the book proper.
var BackMatterTerms = []string{
	"notes",
	"endnotes",
	"footnotes",
	"bibliography",
	"index",
	"about the author",
	"about the authors",
	"acknowledgments",
	"acknowledgements",
	"appendix",
	"references",
	"further reading",
	"copyright",
	"colophon",
	"credits",
	"also by",
	"other books",
	"books by",
	"resources",
	"glossary",
}

// Range is an inclusive span of manifest positions. End < Start means
// the range is empty.
type Range struct {
	Start int
	End   int
}

// Len returns the number of positions in the range.
func (r Range) Len() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start + 1
}

// Contains reports whether pos falls inside the range.
func (r Range) Contains(pos int) bool {
	return pos >= r.Start && pos <= r.End
}

// DetectRange computes both content bounds.
func DetectRange(chapters []ChapterInfo) Range {
	return Range{Start: FindContentStart(chapters), End: FindContentEnd(chapters)}
}

// FindContentStart returns the position of the first content chapter.
//
// Rules, first match wins:
//  1. a title containing "introduction"
//  2. the first title containing any of IntroTerms
//  3. the chapter after the last front matter title of the leading run
//  4. the first chapter with at least MinContentWords words
//  5. position 0
func FindContentStart(chapters []ChapterInfo) int {
	for i, c := range chapters {
		if strings.Contains(normalizeTitle(c.Title), "introduction") {
			return i
		}
	}

	for i, c := range chapters {
		if containsAny(normalizeTitle(c.Title), IntroTerms) {
			return i
		}
	}

	lastFront := -1
	for i, c := range chapters {
		if containsAny(normalizeTitle(c.Title), FrontMatterTerms) {
			lastFront = i
		} else if lastFront != -1 {
			break
		}
	}
	if lastFront != -1 && lastFront < len(chapters)-1 {
		return lastFront + 1
	}

	for i, c := range chapters {
		if c.WordCount >= MinContentWords {
			return i
		}
	}

	return 0
}

// FindContentEnd returns the position of the last content chapter,
// inclusive. It walks backwards past back matter and short sections and
// falls back to the last position.
func FindContentEnd(chapters []ChapterInfo) int {
	for i := len(chapters) - 1; i >= 0; i-- {
		c := chapters[i]
		if !containsAny(normalizeTitle(c.Title), BackMatterTerms) && c.WordCount >= MinContentWords {
			return i
		}
	}
	return len(chapters) - 1
}

// ContentChapters returns the chapters between the detected bounds.
func ContentChapters(chapters []ChapterInfo) []ChapterInfo {
	r := DetectRange(chapters)
	if r.Len() == 0 {
		return []ChapterInfo{}
	}
	return chapters[r.Start : r.End+1]
}

func normalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
