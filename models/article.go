package models

import "net/url"

// Page is a fetched HTTP response body together with the URL it came from
type Page struct {
	URL        *url.URL
	StatusCode int
	Body       []byte
}

// Article represents one fetched page on its way to the output directory.
// Title is empty when the page had no extractable heading.
type Article struct {
	URL     string
	Title   string
	Content string
}

// DisplayTitle returns the title written into artifacts
func (a Article) DisplayTitle() string {
	if a.Title == "" {
		return UntitledPlaceholder
	}
	return a.Title
}

// UntitledPlaceholder replaces a missing article title
const UntitledPlaceholder = "untitled"
