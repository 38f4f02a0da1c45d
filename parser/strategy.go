package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Strategy holds the site-specific part of a crawl: where the article links
// of a hub page are and where an article keeps its title
type Strategy interface {
	// Links returns raw link targets in document order, duplicates included
	Links(doc *goquery.Document) []string
	// Title returns the article title, or false when there is none
	Title(doc *goquery.Document) (string, bool)
}

// SelectorStrategy implements Strategy with CSS selectors
type SelectorStrategy struct {
	LinkSelector  string
	LinkAttr      string
	TitleSelector string
}

// NewSelectorStrategy creates a SelectorStrategy. An empty linkAttr means href.
func NewSelectorStrategy(linkSelector, linkAttr, titleSelector string) *SelectorStrategy {
	if linkAttr == "" {
		linkAttr = "href"
	}
	return &SelectorStrategy{
		LinkSelector:  linkSelector,
		LinkAttr:      linkAttr,
		TitleSelector: titleSelector,
	}
}

// Links implements Strategy
func (s *SelectorStrategy) Links(doc *goquery.Document) []string {
	var links []string
	doc.Find(s.LinkSelector).Each(func(i int, sel *goquery.Selection) {
		href, ok := sel.Attr(s.LinkAttr)
		if !ok {
			return
		}
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}
		links = append(links, href)
	})
	return links
}

// Title implements Strategy. Only the first match counts.
func (s *SelectorStrategy) Title(doc *goquery.Document) (string, bool) {
	heading := doc.Find(s.TitleSelector).First()
	if heading.Length() == 0 {
		return "", false
	}

	title := strings.Join(strings.Fields(heading.Text()), " ")
	if title == "" {
		return "", false
	}
	return title, true
}
