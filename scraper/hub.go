package scraper

import (
	"context"
	"fmt"
	"time"

	"article-scraper/logger"
	"article-scraper/models"
	"article-scraper/parser"
	"article-scraper/store"
)

// PageFetcher retrieves a page over the network
type PageFetcher interface {
	Fetch(url string) (*models.Page, error)
}

// CrawlStats summarizes one hub crawl
type CrawlStats struct {
	Links  int
	Saved  int
	Failed int
}

// HubCrawler saves the raw HTML of every article linked from a hub page
type HubCrawler struct {
	fetcher PageFetcher
	parser  *parser.Parser
	store   *store.Store
	log     logger.Logger
}

// NewHubCrawler creates a new HubCrawler instance
func NewHubCrawler(fetcher PageFetcher, p *parser.Parser, s *store.Store, log logger.Logger) *HubCrawler {
	return &HubCrawler{
		fetcher: fetcher,
		parser:  p,
		store:   s,
		log:     log,
	}
}

// Crawl fetches hubURL and then each article it links to, one at a time.
// A failing hub fetch fails the crawl; a failing article is logged and
// skipped. Articles whose names collide overwrite each other.
func (h *HubCrawler) Crawl(ctx context.Context, hubURL string) (CrawlStats, error) {
	var stats CrawlStats
	start := time.Now()

	hub, err := h.fetcher.Fetch(hubURL)
	if err != nil {
		return stats, fmt.Errorf("failed to fetch hub page: %w", err)
	}

	for link := range h.parser.Links(hub.URL, hub.Body) {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats.Links++

		path, err := h.saveArticle(link)
		if err != nil {
			stats.Failed++
			h.log.Error("Failed to save article", logger.String("url", link), logger.Err(err))
			continue
		}

		stats.Saved++
		h.log.Info("Saved article HTML", logger.String("url", link), logger.String("path", path))
	}

	h.log.Info("Crawl finished",
		logger.String("hub", hubURL),
		logger.Int("links", stats.Links),
		logger.Int("saved", stats.Saved),
		logger.Int("failed", stats.Failed),
		logger.String("dir", h.store.Dir()),
		logger.Duration("elapsed", time.Since(start)),
	)
	return stats, nil
}

func (h *HubCrawler) saveArticle(link string) (string, error) {
	page, err := h.fetcher.Fetch(link)
	if err != nil {
		return "", err
	}

	article := models.Article{
		URL:     page.URL.String(),
		Content: string(page.Body),
	}
	if title, ok := h.parser.Title(page.Body); ok {
		article.Title = title
	}

	return h.store.Write(store.HTMLFilename(article), store.HTMLDocument(article))
}
