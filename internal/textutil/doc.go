// Package textutil provides the text helpers shared by the splitter and
// the output writer: slugs for file names.
package textutil
