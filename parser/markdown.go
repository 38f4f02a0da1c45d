package parser

import (
	"fmt"
	"net/url"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// linkAttrs lists the attributes made absolute before conversion
var linkAttrs = map[string]string{
	"a":   "href",
	"img": "src",
}

// MarkdownConverter turns rendered HTML into readable markdown
type MarkdownConverter struct {
	strip []string
}

// NewMarkdownConverter creates a converter that drops the given elements
// (scripts, styles and the like) before converting
func NewMarkdownConverter(strip ...string) *MarkdownConverter {
	return &MarkdownConverter{strip: strip}
}

// Convert renders html as markdown. Relative links and images resolve
// against the document's <base href> or pageURL, keeping their scheme.
// pageURL may be empty, in which case links are left as written.
func (m *MarkdownConverter) Convert(html, pageURL string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	if base, err := url.Parse(pageURL); err == nil && base.IsAbs() {
		absolutize(doc, documentBase(base, doc))
	}

	// An empty domain keeps the converter from rewriting links itself
	converter := md.NewConverter("", true, nil)
	if len(m.strip) > 0 {
		converter.Remove(m.strip...)
	}

	return strings.TrimSpace(converter.Convert(doc.Selection)), nil
}

func absolutize(doc *goquery.Document, base *url.URL) {
	for tag, attr := range linkAttrs {
		doc.Find(tag + "[" + attr + "]").Each(func(i int, sel *goquery.Selection) {
			raw, _ := sel.Attr(attr)
			raw = strings.TrimSpace(raw)
			if raw == "" || strings.HasPrefix(raw, "#") {
				return
			}
			ref, err := url.Parse(raw)
			if err != nil {
				return
			}
			sel.SetAttr(attr, base.ResolveReference(ref).String())
		})
	}
}
