package parser

import (
	"bytes"
	"iter"
	"net/url"

	"github.com/PuerkitoBio/goquery"
)

// Parser applies an extraction Strategy to fetched pages
type Parser struct {
	strategy Strategy
}

// NewParser creates a new Parser instance
func NewParser(strategy Strategy) *Parser {
	return &Parser{strategy: strategy}
}

// Links returns the absolute article URLs found on a hub page. The body is
// parsed when the sequence is first ranged over; a body that does not parse
// or has no matching links yields nothing. Relative links resolve against
// the document's <base href> when present, otherwise against base.
func (p *Parser) Links(base *url.URL, body []byte) iter.Seq[string] {
	return func(yield func(string) bool) {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err != nil {
			return
		}

		root := documentBase(base, doc)
		for _, href := range p.strategy.Links(doc) {
			ref, err := url.Parse(href)
			if err != nil {
				continue
			}
			if !yield(root.ResolveReference(ref).String()) {
				return
			}
		}
	}
}

// Title extracts the article title from a page body
func (p *Parser) Title(body []byte) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", false
	}
	return p.strategy.Title(doc)
}

func documentBase(base *url.URL, doc *goquery.Document) *url.URL {
	href, ok := doc.Find("base[href]").First().Attr("href")
	if !ok {
		return base
	}
	ref, err := url.Parse(href)
	if err != nil {
		return base
	}
	return base.ResolveReference(ref)
}
