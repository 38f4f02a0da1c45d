package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"article-scraper/fetcher"
	"article-scraper/logger"
	"article-scraper/store"
)

// ErrEmptyURL is returned when the input holds no URL
var ErrEmptyURL = errors.New("no URL entered")

// Converter turns rendered HTML into markdown
type Converter interface {
	Convert(html, pageURL string) (string, error)
}

// Summarizer cleans up and summarizes scraped markdown
type Summarizer interface {
	Summarize(ctx context.Context, markdown string) (string, error)
}

// Result describes what a single-page run left on disk. SummaryErr records
// why no summary was written; it never fails the run.
type Result struct {
	URL          string
	Hash         string
	MarkdownPath string
	SummaryPath  string
	SummaryErr   error
	State        State
}

// PageScraper renders one page, saves it as markdown and asks a model for a
// cleaned-up copy
type PageScraper struct {
	renderer   fetcher.Renderer
	converter  Converter
	summarizer Summarizer
	store      *store.Store
	log        logger.Logger
}

// NewPageScraper creates a new PageScraper. A nil summarizer skips the
// summarization step.
func NewPageScraper(renderer fetcher.Renderer, converter Converter, summarizer Summarizer, s *store.Store, log logger.Logger) *PageScraper {
	return &PageScraper{
		renderer:   renderer,
		converter:  converter,
		summarizer: summarizer,
		store:      s,
		log:        log,
	}
}

// Run scrapes input, which is trimmed first. Empty input returns ErrEmptyURL
// before any network or file activity. Render, convert and markdown write
// failures are returned; a summarizer failure is only recorded in the
// result, and the markdown already written stays in place.
func (s *PageScraper) Run(ctx context.Context, input string, observe StateObserver) (*Result, error) {
	url := strings.TrimSpace(input)
	if url == "" {
		return nil, ErrEmptyURL
	}

	res := &Result{URL: url, Hash: store.URLHash(url), State: StateAwaitInput}
	enter := func(state State) {
		res.State = state
		if observe != nil {
			observe(state)
		}
	}
	log := s.log.With(logger.String("url", url), logger.String("hash", res.Hash))

	enter(StateRendering)
	started := time.Now()
	html, err := s.renderer.Render(ctx, url)
	if err != nil {
		return res, fmt.Errorf("failed to render %s: %w", url, err)
	}
	log.Debug("Rendered page", logger.Duration("took", time.Since(started)), logger.Int("bytes", len(html)))

	body, err := s.converter.Convert(html, url)
	if err != nil {
		return res, err
	}

	// No better title is available than the URL itself
	markdown := store.MarkdownDocument(url, url, body)

	enter(StateWritingMarkdown)
	res.MarkdownPath, err = s.store.Write(store.MarkdownFilename(url), markdown)
	if err != nil {
		return res, err
	}
	log.Info("Saved markdown", logger.String("path", res.MarkdownPath))

	if s.summarizer == nil {
		enter(StateDone)
		return res, nil
	}

	enter(StateCallingSummarizer)
	summary, err := s.summarizer.Summarize(ctx, markdown)
	if err != nil {
		res.SummaryErr = err
		enter(StateReportingFailure)
		log.Warn("Summarization failed, keeping raw markdown only", logger.Err(err))
		enter(StateDone)
		return res, nil
	}

	enter(StateWritingSummary)
	res.SummaryPath, err = s.store.Write(store.SummaryFilename(url), summary)
	if err != nil {
		return res, err
	}
	log.Info("Saved summarized markdown", logger.String("path", res.SummaryPath))

	enter(StateDone)
	return res, nil
}
