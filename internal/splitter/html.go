package splitter

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// extractText renders an XHTML chapter as plain paragraphs separated by
// blank lines. Headings become markdown headings. It also returns the
// number of words, not counting heading markers.
func extractText(r io.Reader) (string, int, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", 0, err
	}
	c := &textCollector{}
	c.walk(doc)
	c.flush()
	return strings.Join(c.paras, "\n\n"), c.words, nil
}

type textCollector struct {
	paras  []string
	cur    strings.Builder
	prefix string
	words  int
}

func (c *textCollector) flush() {
	fields := strings.Fields(c.cur.String())
	c.cur.Reset()
	if len(fields) > 0 {
		c.words += len(fields)
		c.paras = append(c.paras, c.prefix+strings.Join(fields, " "))
	}
	c.prefix = ""
}

func (c *textCollector) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		c.cur.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Head, atom.Script, atom.Style:
			return
		case atom.Br:
			c.cur.WriteByte(' ')
			return
		}
	}

	block := isBlock(n)
	if block {
		c.flush()
		if level := headingLevel(n); level > 0 {
			c.prefix = strings.Repeat("#", level) + " "
		}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.walk(child)
	}
	if block {
		c.flush()
	}
}

func isBlock(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.DataAtom {
	case atom.P, atom.Div, atom.Section, atom.Article, atom.Blockquote,
		atom.Li, atom.Tr, atom.Pre, atom.Hr, atom.Figcaption,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return true
	}
	return false
}

func headingLevel(n *html.Node) int {
	switch n.DataAtom {
	case atom.H1:
		return 1
	case atom.H2:
		return 2
	case atom.H3:
		return 3
	case atom.H4:
		return 4
	case atom.H5:
		return 5
	case atom.H6:
		return 6
	}
	return 0
}
