package splitter

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

const containerXML = `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

const contentOPF = `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="2.0" unique-identifier="id">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>The Test Book</dc:title>
    <dc:creator>Ada Author</dc:creator>
  </metadata>
  <manifest>
    <item id="ncx" href="toc.ncx" media-type="application/x-dtbncx+xml"/>
    <item id="cover" href="cover.xhtml" media-type="application/xhtml+xml"/>
    <item id="blank" href="blank.xhtml" media-type="application/xhtml+xml"/>
    <item id="ch1" href="text/ch1.xhtml" media-type="application/xhtml+xml"/>
    <item id="ch2" href="text/ch2.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine toc="ncx">
    <itemref idref="cover"/>
    <itemref idref="blank"/>
    <itemref idref="ch1"/>
    <itemref idref="ch2"/>
  </spine>
</package>`

const tocNCX = `<?xml version="1.0" encoding="UTF-8"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1">
  <navMap>
    <navPoint id="p1" playOrder="1">
      <navLabel><text>Chapter One: Arrival</text></navLabel>
      <content src="text/ch1.xhtml"/>
      <navPoint id="p1a" playOrder="2">
        <navLabel><text>A Subsection</text></navLabel>
        <content src="text/ch1.xhtml#sub"/>
      </navPoint>
    </navPoint>
    <navPoint id="p2" playOrder="3">
      <navLabel><text>Chapter Two</text></navLabel>
      <content src="text/ch2.xhtml#start"/>
    </navPoint>
  </navMap>
</ncx>`

const coverXHTML = `<html><head><title>Cover</title></head><body><p>The Test Book</p></body></html>`

const blankXHTML = `<html><head><title>Blank</title></head><body><div>  </div></body></html>`

const ch1XHTML = `<html><head><title>ignored</title><style>p { color: red }</style></head>
<body>
  <h1>Arrival</h1>
  <p>It was a <b>dark</b> night.</p>
  <p>The train
     was late.</p>
</body></html>`

const ch2XHTML = `<html><body><h2 id="start">Departure</h2><p>Everyone left.</p></body></html>`

// writeTestEPUB builds a minimal EPUB 2 archive and returns its path.
func writeTestEPUB(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "test-book.epub")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create epub: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	files := []struct{ name, body string }{
		{"mimetype", "application/epub+zip"},
		{"META-INF/container.xml", containerXML},
		{"OEBPS/content.opf", contentOPF},
		{"OEBPS/toc.ncx", tocNCX},
		{"OEBPS/cover.xhtml", coverXHTML},
		{"OEBPS/blank.xhtml", blankXHTML},
		{"OEBPS/text/ch1.xhtml", ch1XHTML},
		{"OEBPS/text/ch2.xhtml", ch2XHTML},
	}
	for _, file := range files {
		w, err := zw.Create(file.name)
		if err != nil {
			t.Fatalf("zip create %s: %v", file.name, err)
		}
		if _, err := w.Write([]byte(file.body)); err != nil {
			t.Fatalf("zip write %s: %v", file.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return path
}
