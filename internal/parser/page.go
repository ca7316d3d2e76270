
package parser

import (
	"bytes"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// PageTitle reads the published title of an HTML page: og:title first, then
// <title>, then the first <h1>. It returns "" when none is present.
func PageTitle(r io.Reader, contentType string) (string, error) {
	// Decode to UTF-8 if needed
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	enc, _, _ := charset.DetermineEncoding(data, contentType)
	utf8data, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		if !utf8.Valid(data) {
			return "", err
		}
		utf8data = data
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(utf8data))
	if err != nil {
		return "", err
	}

	candidates := []string{
		doc.Find(`meta[property="og:title"]`).AttrOr("content", ""),
		doc.Find("title").First().Text(),
		doc.Find("h1").First().Text(),
	}
	for _, c := range candidates {
		if t := clean(c); t != "" {
			return t, nil
		}
	}
	return "", nil
}

func clean(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
