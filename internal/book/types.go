// Package book holds the manifest model shared by the splitter, the
// summarizers and the pipeline, plus the content boundary detector.
package book

import (
	"fmt"
	"strings"
)

// ChapterInfo describes one chapter file as listed in book.json.
type ChapterInfo struct {
	Index     int    `json:"index"`
	File      string `json:"file"`
	Title     string `json:"title"`
	WordCount int    `json:"word_count"`
}

// Manifest is the splitter's description of a book.
type Manifest struct {
	Title    string        `json:"title,omitempty"`
	Author   string        `json:"author,omitempty"`
	Chapters []ChapterInfo `json:"chapters"`
}

// Chapter pairs chapter metadata with its loaded text.
type Chapter struct {
	Info    ChapterInfo
	Content string
}

// Mode selects the instruction templates used for summarizing.
type Mode string

const (
	ModeConcise  Mode = "concise"
	ModeDetailed Mode = "detailed"
)

// Modes lists the supported summary modes.
var Modes = []Mode{ModeConcise, ModeDetailed}

// ParseMode validates a user supplied mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeConcise:
		return ModeConcise, nil
	case ModeDetailed:
		return ModeDetailed, nil
	default:
		return "", fmt.Errorf("%w: unsupported mode %q (want concise or detailed)", ErrInvalidInput, s)
	}
}

func (m Mode) String() string { return string(m) }

// Indices returns the Index of every chapter, in order.
func Indices(chapters []ChapterInfo) []int {
	out := make([]int, 0, len(chapters))
	for _, c := range chapters {
		out = append(out, c.Index)
	}
	return out
}

// FilterByIndex keeps the chapters whose Index is in selected, preserving
// manifest order regardless of the order of selected.
func FilterByIndex(chapters []ChapterInfo, selected []int) []ChapterInfo {
	want := make(map[int]struct{}, len(selected))
	for _, idx := range selected {
		want[idx] = struct{}{}
	}
	var out []ChapterInfo
	for _, c := range chapters {
		if _, ok := want[c.Index]; ok {
			out = append(out, c)
		}
	}
	return out
}
