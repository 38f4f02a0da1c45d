package store

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"

	"article-scraper/models"
)

// MaxStemLength caps the title-derived part of an HTML artifact name
const MaxStemLength = 50

const (
	markdownPrefix = "scraped_"
	summarySuffix  = "_llm"
	fallbackPrefix = "article_"
)

// SanitizeTitle keeps letters, digits, spaces, underscores and hyphens,
// trims surrounding whitespace and truncates to MaxStemLength runes.
// A title made only of whitespace or punctuation yields "".
func SanitizeTitle(title string) string {
	var b strings.Builder
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == ' ' || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}

	stem := strings.TrimSpace(b.String())
	if runes := []rune(stem); len(runes) > MaxStemLength {
		stem = string(runes[:MaxStemLength])
	}
	return stem
}

// URLHash returns the first 8 hex characters of the MD5 digest of rawURL
func URLHash(rawURL string) string {
	sum := md5.Sum([]byte(rawURL))
	return hex.EncodeToString(sum[:])[:8]
}

// HTMLFilename derives the file name of a crawled article. When the title
// sanitizes to nothing the name falls back to the URL hash so the file is
// never called ".html".
func HTMLFilename(article models.Article) string {
	stem := SanitizeTitle(article.DisplayTitle())
	if stem == "" {
		stem = fallbackPrefix + URLHash(article.URL)
	}
	return stem + ".html"
}

// MarkdownFilename returns scraped_<hash>.md for rawURL
func MarkdownFilename(rawURL string) string {
	return markdownPrefix + URLHash(rawURL) + ".md"
}

// SummaryFilename returns scraped_<hash>_llm.md for rawURL
func SummaryFilename(rawURL string) string {
	return markdownPrefix + URLHash(rawURL) + summarySuffix + ".md"
}

// HTMLDocument prefixes the raw page with a two-line comment header
func HTMLDocument(article models.Article) string {
	return fmt.Sprintf("<!-- Title: %s\nURL: %s -->\n%s", article.DisplayTitle(), article.URL, article.Content)
}

// MarkdownDocument wraps a rendered body with a title line and a link back
// to the source
func MarkdownDocument(title, rawURL, body string) string {
	return fmt.Sprintf("# %s\n\n[Original Article](%s)\n\n%s", title, rawURL, body)
}
