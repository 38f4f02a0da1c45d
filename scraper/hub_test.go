package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"article-scraper/fetcher"
	"article-scraper/logger"
	"article-scraper/parser"
	"article-scraper/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hubSite struct {
	server       *httptest.Server
	articleHits  atomic.Int32
	hubLinksHTML string
}

func newHubSite(t *testing.T, hubLinks string) *hubSite {
	t.Helper()

	site := &hubSite{hubLinksHTML: hubLinks}
	mux := http.NewServeMux()
	mux.HandleFunc("/hub/technology", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, "<html><body><main>%s</main></body></html>", site.hubLinksHTML)
	})
	mux.HandleFunc("/article/", func(w http.ResponseWriter, r *http.Request) {
		site.articleHits.Add(1)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		switch strings.TrimPrefix(r.URL.Path, "/article/") {
		case "chips":
			fmt.Fprint(w, "<html><body><h1>Chip makers: a new era?</h1><p>text</p></body></html>")
		case "robots":
			fmt.Fprint(w, "<html><body><h1>Robots &amp; you</h1></body></html>")
		case "notitle":
			fmt.Fprint(w, "<html><body><p>no heading here</p></body></html>")
		case "symbols":
			fmt.Fprint(w, "<html><body><h1>?!?</h1></body></html>")
		default:
			http.NotFound(w, r)
		}
	})

	site.server = httptest.NewServer(mux)
	t.Cleanup(site.server.Close)
	return site
}

func newTestHubCrawler(dir string) *HubCrawler {
	f := fetcher.NewCollyFetcher(fetcher.CollyOptions{}, logger.NewNop())
	p := parser.NewParser(parser.NewSelectorStrategy(`a[data-key="card-headline"]`, "href", "h1"))
	return NewHubCrawler(f, p, store.New(dir), logger.NewNop())
}

func listFiles(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestCrawlSavesArticles(t *testing.T) {
	site := newHubSite(t, `
<a data-key="card-headline" href="/article/chips">Chips</a>
<a data-key="card-headline" href="/article/robots">Robots</a>
<a data-key="card-headline" href="/article/notitle">Untitled</a>
<a data-key="card-headline" href="/article/gone">Gone</a>
<a href="/article/sidebar">Not a card</a>`)
	dir := filepath.Join(t.TempDir(), "articles")

	stats, err := newTestHubCrawler(dir).Crawl(context.Background(), site.server.URL+"/hub/technology")
	require.NoError(t, err)

	assert.Equal(t, CrawlStats{Links: 4, Saved: 3, Failed: 1}, stats)
	assert.Equal(t, int32(4), site.articleHits.Load())
	assert.ElementsMatch(t, []string{"Chip makers a new era.html", "Robots  you.html", "untitled.html"}, listFiles(t, dir))

	data, err := os.ReadFile(filepath.Join(dir, "Chip makers a new era.html"))
	require.NoError(t, err)
	header := fmt.Sprintf("<!-- Title: Chip makers: a new era?\nURL: %s/article/chips -->\n", site.server.URL)
	assert.True(t, strings.HasPrefix(string(data), header), string(data))
	assert.Contains(t, string(data), "<p>text</p>")
}

func TestCrawlNoMatchingLinks(t *testing.T) {
	site := newHubSite(t, `<a href="/article/chips">plain link</a>`)
	dir := filepath.Join(t.TempDir(), "articles")

	stats, err := newTestHubCrawler(dir).Crawl(context.Background(), site.server.URL+"/hub/technology")
	require.NoError(t, err)

	assert.Equal(t, CrawlStats{}, stats)
	assert.Zero(t, site.articleHits.Load())
	assert.Empty(t, listFiles(t, dir))
}

func TestCrawlDuplicateLinksAreRefetched(t *testing.T) {
	site := newHubSite(t, `
<a data-key="card-headline" href="/article/chips">Chips</a>
<a data-key="card-headline" href="/article/chips">Chips again</a>`)
	dir := t.TempDir()

	stats, err := newTestHubCrawler(dir).Crawl(context.Background(), site.server.URL+"/hub/technology")
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Saved)
	assert.Equal(t, int32(2), site.articleHits.Load())
	assert.Equal(t, []string{"Chip makers a new era.html"}, listFiles(t, dir))
}

func TestCrawlPunctuationTitleFallsBackToHash(t *testing.T) {
	site := newHubSite(t, `<a data-key="card-headline" href="/article/symbols">?</a>`)
	dir := t.TempDir()

	_, err := newTestHubCrawler(dir).Crawl(context.Background(), site.server.URL+"/hub/technology")
	require.NoError(t, err)

	want := "article_" + store.URLHash(site.server.URL+"/article/symbols") + ".html"
	assert.Equal(t, []string{want}, listFiles(t, dir))
}

func TestCrawlHubFailure(t *testing.T) {
	site := newHubSite(t, "")
	dir := t.TempDir()

	_, err := newTestHubCrawler(dir).Crawl(context.Background(), site.server.URL+"/nope")
	require.Error(t, err)
	assert.Empty(t, listFiles(t, dir))
}

func TestCrawlStopsOnCancel(t *testing.T) {
	site := newHubSite(t, `<a data-key="card-headline" href="/article/chips">Chips</a>`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestHubCrawler(t.TempDir()).Crawl(ctx, site.server.URL+"/hub/technology")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, site.articleHits.Load())
}

func TestCrawlLogsSummary(t *testing.T) {
	site := newHubSite(t, `<a data-key="card-headline" href="/article/chips">Chips</a>`)
	dir := t.TempDir()
	logPath := filepath.Join(t.TempDir(), "crawl.log")

	log, err := logger.New(logger.Config{Level: "info", OutputPaths: []string{logPath}})
	require.NoError(t, err)

	f := fetcher.NewCollyFetcher(fetcher.CollyOptions{}, logger.NewNop())
	p := parser.NewParser(parser.NewSelectorStrategy(`a[data-key="card-headline"]`, "href", "h1"))
	_, err = NewHubCrawler(f, p, store.New(dir), log).Crawl(context.Background(), site.server.URL+"/hub/technology")
	require.NoError(t, err)
	_ = log.Sync()

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"Crawl finished"`)
	assert.Contains(t, string(data), fmt.Sprintf(`"dir":%q`, dir))
	assert.Contains(t, string(data), `"elapsed":`)
}
