package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"article-scraper/fetcher"
	"article-scraper/logger"
	"article-scraper/parser"
	"article-scraper/store"
	"article-scraper/summarizer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRenderer struct {
	html  string
	err   error
	calls int
}

func (f *fakeRenderer) Render(ctx context.Context, url string) (string, error) {
	f.calls++
	return f.html, f.err
}

type fakeSummarizer struct {
	text  string
	err   error
	calls int
	input string
}

func (f *fakeSummarizer) Summarize(ctx context.Context, markdown string) (string, error) {
	f.calls++
	f.input = markdown
	return f.text, f.err
}

func newTestPageScraper(dir string, r fetcher.Renderer, s Summarizer) *PageScraper {
	return NewPageScraper(r, parser.NewMarkdownConverter("script", "style"), s, store.New(dir), logger.NewNop())
}

func TestRunEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\t\n"} {
		dir := filepath.Join(t.TempDir(), "articles")
		r := &fakeRenderer{html: "<p>x</p>"}
		s := &fakeSummarizer{text: "y"}

		res, err := newTestPageScraper(dir, r, s).Run(context.Background(), input, nil)

		require.ErrorIs(t, err, ErrEmptyURL)
		assert.Nil(t, res)
		assert.Zero(t, r.calls)
		assert.Zero(t, s.calls)
		assert.Empty(t, listFiles(t, dir))
	}
}

func TestRunWritesMarkdownAndSummary(t *testing.T) {
	dir := t.TempDir()
	r := &fakeRenderer{html: "<html><body><h2>Example Domain</h2><p>Illustrative text.</p></body></html>"}
	s := &fakeSummarizer{text: "## Summary\nExample."}

	var states []State
	res, err := newTestPageScraper(dir, r, s).Run(context.Background(), "  https://example.com \n", func(st State) {
		states = append(states, st)
	})
	require.NoError(t, err)

	assert.Equal(t, "https://example.com", res.URL)
	assert.Equal(t, "c984d06a", res.Hash)
	assert.NoError(t, res.SummaryErr)
	assert.Equal(t, StateDone, res.State)
	assert.Equal(t, []State{StateRendering, StateWritingMarkdown, StateCallingSummarizer, StateWritingSummary, StateDone}, states)
	assert.ElementsMatch(t, []string{"scraped_c984d06a.md", "scraped_c984d06a_llm.md"}, listFiles(t, dir))

	raw, err := os.ReadFile(res.MarkdownPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "# https://example.com\n\n[Original Article](https://example.com)\n\n"))
	assert.Contains(t, string(raw), "## Example Domain")
	assert.Equal(t, string(raw), s.input)

	summary, err := os.ReadFile(res.SummaryPath)
	require.NoError(t, err)
	assert.Equal(t, "## Summary\nExample.", string(summary))
}

func TestRunIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	ps := newTestPageScraper(dir, &fakeRenderer{html: "<p>v</p>"}, &fakeSummarizer{text: "s"})

	first, err := ps.Run(context.Background(), "https://example.com", nil)
	require.NoError(t, err)
	second, err := ps.Run(context.Background(), "https://example.com", nil)
	require.NoError(t, err)

	assert.Equal(t, first.MarkdownPath, second.MarkdownPath)
	assert.Equal(t, first.SummaryPath, second.SummaryPath)
	assert.Len(t, listFiles(t, dir), 2)
}

func TestRunSummarizerFailureKeepsMarkdown(t *testing.T) {
	dir := t.TempDir()
	s := &fakeSummarizer{err: summarizer.ErrEmptyResponse}

	var states []State
	res, err := newTestPageScraper(dir, &fakeRenderer{html: "<p>v</p>"}, s).Run(context.Background(), "https://example.com", func(st State) {
		states = append(states, st)
	})
	require.NoError(t, err)

	assert.ErrorIs(t, res.SummaryErr, summarizer.ErrEmptyResponse)
	assert.Empty(t, res.SummaryPath)
	assert.Equal(t, []State{StateRendering, StateWritingMarkdown, StateCallingSummarizer, StateReportingFailure, StateDone}, states)
	assert.Equal(t, []string{"scraped_c984d06a.md"}, listFiles(t, dir))
}

func TestRunSummarizerTimeout(t *testing.T) {
	release := make(chan struct{})
	ollama := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer ollama.Close()
	defer close(release)

	dir := t.TempDir()
	client, err := summarizer.NewClient(ollama.URL, "gemma3:4b", 50*time.Millisecond)
	require.NoError(t, err)

	res, err := newTestPageScraper(dir, &fakeRenderer{html: "<p>v</p>"}, client).Run(context.Background(), "https://example.com", nil)
	require.NoError(t, err)

	assert.Error(t, res.SummaryErr)
	assert.Equal(t, StateDone, res.State)
	assert.Equal(t, []string{"scraped_c984d06a.md"}, listFiles(t, dir))
}

func TestRunRenderFailure(t *testing.T) {
	dir := t.TempDir()
	s := &fakeSummarizer{text: "s"}
	boom := errors.New("browser crashed")

	res, err := newTestPageScraper(dir, &fakeRenderer{err: boom}, s).Run(context.Background(), "https://example.com", nil)

	require.ErrorIs(t, err, boom)
	assert.Equal(t, StateRendering, res.State)
	assert.Zero(t, s.calls)
	assert.Empty(t, listFiles(t, dir))
}

func TestRunWithoutSummarizer(t *testing.T) {
	dir := t.TempDir()

	res, err := newTestPageScraper(dir, &fakeRenderer{html: "<p>v</p>"}, nil).Run(context.Background(), "https://example.com", nil)
	require.NoError(t, err)

	assert.Equal(t, StateDone, res.State)
	assert.NoError(t, res.SummaryErr)
	assert.Equal(t, []string{"scraped_c984d06a.md"}, listFiles(t, dir))
}

func TestRunEndToEndStatic(t *testing.T) {
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><body><nav>Home | About</nav><article><h1>Launch</h1><p>We shipped.</p></article></body></html>`))
	}))
	defer site.Close()

	ollama := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response":"Summary: shipped.\n\n# Launch\n\nWe shipped."}`))
	}))
	defer ollama.Close()

	dir := t.TempDir()
	renderer := fetcher.NewCollyFetcher(fetcher.CollyOptions{}, logger.NewNop())
	client, err := summarizer.NewClient(ollama.URL, "gemma3:4b", time.Second)
	require.NoError(t, err)

	res, err := newTestPageScraper(dir, renderer, client).Run(context.Background(), site.URL, nil)
	require.NoError(t, err)

	hash := store.URLHash(site.URL)
	assert.ElementsMatch(t, []string{"scraped_" + hash + ".md", "scraped_" + hash + "_llm.md"}, listFiles(t, dir))

	raw, err := os.ReadFile(res.MarkdownPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "# Launch")
	assert.Contains(t, string(raw), "We shipped.")
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "calling_summarizer", StateCallingSummarizer.String())
	assert.Equal(t, "done", StateDone.String())
	assert.Equal(t, "unknown", State(42).String())
}
