// Package ui asks the user which chapters to summarize.
package ui

import (
	"io"
	"slices"

	"github.com/metcalfc/booksum/internal/book"
)

// Selector picks chapters and answers yes/no questions.
type Selector interface {
	// SelectChapters returns the chosen chapter indices. An empty result
	// means nothing should be summarized.
	SelectChapters(all []book.ChapterInfo, preselected []int) ([]int, error)
	Confirm(message string) (bool, error)
}

// New returns an Interactive selector bound to in/out, or Headless.
func New(interactive bool, in io.Reader, out io.Writer) Selector {
	if interactive {
		return &Interactive{In: in, Out: out}
	}
	return Headless{}
}

// Headless accepts every default without prompting.
type Headless struct{}

func (Headless) SelectChapters(_ []book.ChapterInfo, preselected []int) ([]int, error) {
	return slices.Clone(preselected), nil
}

func (Headless) Confirm(string) (bool, error) { return true, nil }
