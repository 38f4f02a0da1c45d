package fetcher

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"article-scraper/logger"
	"article-scraper/models"

	"github.com/gocolly/colly/v2"
)

// CollyOptions configures the colly collector
type CollyOptions struct {
	UserAgent      string
	AllowedDomains []string
	Timeout        time.Duration
}

// CollyFetcher fetches pages over plain HTTP using colly. Every fetch is a
// single synchronous visit; revisiting a URL is allowed. Bodies are
// converted to UTF-8 when the server declares another charset.
type CollyFetcher struct {
	collector *colly.Collector
	log       logger.Logger
}

// NewCollyFetcher creates a new CollyFetcher instance
func NewCollyFetcher(opts CollyOptions, log logger.Logger) *CollyFetcher {
	options := []colly.CollectorOption{
		colly.AllowURLRevisit(),
		colly.DetectCharset(),
	}
	if opts.UserAgent != "" {
		options = append(options, colly.UserAgent(opts.UserAgent))
	}
	if filter := domainFilter(opts.AllowedDomains); filter != nil {
		options = append(options, colly.URLFilters(filter))
	}

	c := colly.NewCollector(options...)
	if opts.Timeout > 0 {
		c.SetRequestTimeout(opts.Timeout)
	}

	return &CollyFetcher{
		collector: c,
		log:       log,
	}
}

// domainFilter matches URLs whose host is one of domains or a subdomain
// of one, on any port. It returns nil when domains is empty.
func domainFilter(domains []string) *regexp.Regexp {
	var quoted []string
	for _, d := range domains {
		d = strings.Trim(strings.ToLower(strings.TrimSpace(d)), ".")
		if d != "" {
			quoted = append(quoted, regexp.QuoteMeta(d))
		}
	}
	if len(quoted) == 0 {
		return nil
	}
	return regexp.MustCompile(`(?i)^https?://([^/?#@]+\.)?(` + strings.Join(quoted, "|") + `)(:\d+)?([/?#]|$)`)
}

// Fetch retrieves a single page. Transport failures, URLs outside the
// allowed domains and non-2xx statuses are returned as errors.
func (cf *CollyFetcher) Fetch(url string) (*models.Page, error) {
	c := cf.collector.Clone()

	var page *models.Page
	c.OnResponse(func(r *colly.Response) {
		page = &models.Page{
			URL:        r.Request.URL,
			StatusCode: r.StatusCode,
			Body:       r.Body,
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		cf.log.Debug("Fetch failed",
			logger.String("url", url),
			logger.Int("status", r.StatusCode),
			logger.Err(err),
		)
	})

	if err := c.Visit(url); err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", url, err)
	}
	c.Wait()

	if page == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoResponse, url)
	}

	cf.log.Debug("Fetched page",
		logger.String("url", page.URL.String()),
		logger.Int("bytes", len(page.Body)),
	)
	return page, nil
}

// Render implements Renderer without executing scripts
func (cf *CollyFetcher) Render(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	page, err := cf.Fetch(url)
	if err != nil {
		return "", err
	}
	return string(page.Body), nil
}
