
package parser

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// extension namespaces whose <loc> points at media rather than pages
var mediaNS = map[string]bool{
	"http://www.google.com/schemas/sitemap-image/1.1": true,
	"http://www.google.com/schemas/sitemap-video/1.1": true,
}

var ErrEmptyDocument = errors.New("empty xml document")

// ParseSitemap returns the text of every <loc> element in a sitemap or
// sitemap index, in document order, whatever the document's default
// namespace. The document must be well-formed XML. <image:loc> and
// <video:loc> extension entries are skipped.
func ParseSitemap(r io.Reader) ([]string, error) {
	d := xml.NewDecoder(r)
	d.CharsetReader = charset.NewReaderLabel

	var locs []string
	sawRoot := false
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse sitemap: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		sawRoot = true
		if se.Name.Local != "loc" || mediaNS[se.Name.Space] {
			continue
		}
		var text string
		if err := d.DecodeElement(&text, &se); err != nil {
			return nil, fmt.Errorf("parse sitemap: %w", err)
		}
		if text = strings.TrimSpace(text); text != "" {
			locs = append(locs, text)
		}
	}
	if !sawRoot {
		return nil, ErrEmptyDocument
	}
	return locs, nil
}
