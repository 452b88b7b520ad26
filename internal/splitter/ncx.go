package splitter

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/taylorskalyo/goreader/epub"
)

const ncxMediaType = "application/x-dtbncx+xml"

// toc.ncx structures
type ncx struct {
	NavMap struct {
		NavPoints []navPoint `xml:"navPoint"`
	} `xml:"navMap"`
}

type navPoint struct {
	Label struct {
		Text string `xml:"text"`
	} `xml:"navLabel"`
	Content struct {
		Src string `xml:"src,attr"`
	} `xml:"content"`
	Children []navPoint `xml:"navPoint"`
}

// tocTitles maps spine hrefs to their table of contents label. Every
// entry is reachable by its full href, by the href without fragment and
// by the base file name. The first label for a key wins, so a chapter
// keeps its own title rather than that of a nested section.
func tocTitles(epubPath string, rf *epub.Rootfile) map[string]string {
	titles := make(map[string]string)

	data, err := readNCX(epubPath, rf)
	if err != nil {
		return titles
	}
	var toc ncx
	if err := xml.Unmarshal(data, &toc); err != nil {
		return titles
	}

	add := func(key, title string) {
		if _, ok := titles[key]; !ok && key != "" {
			titles[key] = title
		}
	}
	var walk func([]navPoint)
	walk = func(points []navPoint) {
		for _, np := range points {
			href := np.Content.Src
			title := strings.Join(strings.Fields(np.Label.Text), " ")
			if title != "" {
				add(href, title)
				bare, _, _ := strings.Cut(href, "#")
				add(bare, title)
				add(path.Base(bare), title)
			}
			walk(np.Children)
		}
	}
	walk(toc.NavMap.NavPoints)
	return titles
}

// lookupTitle finds the label for a spine item href.
func lookupTitle(titles map[string]string, href string) (string, bool) {
	if href == "" {
		return "", false
	}
	if t, ok := titles[href]; ok {
		return t, true
	}
	t, ok := titles[path.Base(href)]
	return t, ok
}

// readNCX locates the NCX through the OPF manifest, falling back to any
// *.ncx entry in the archive.
func readNCX(epubPath string, rf *epub.Rootfile) ([]byte, error) {
	zr, err := zip.OpenReader(epubPath)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var ncxPath string
	for _, item := range rf.Manifest.Items {
		if item.MediaType == ncxMediaType {
			ncxPath = item.HREF
			break
		}
	}
	if ncxPath == "" {
		for _, f := range zr.File {
			if strings.HasSuffix(strings.ToLower(f.Name), ".ncx") {
				ncxPath = f.Name
				break
			}
		}
	}
	if ncxPath == "" {
		return nil, fmt.Errorf("no NCX in %s", epubPath)
	}

	for _, f := range zr.File {
		if f.Name == ncxPath || strings.HasSuffix(f.Name, "/"+ncxPath) {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("NCX %s missing from archive", ncxPath)
}
