package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"article-scraper/config"
	"article-scraper/fetcher"
	"article-scraper/logger"
	"article-scraper/parser"
	"article-scraper/scraper"
	"article-scraper/store"
	"article-scraper/summarizer"
)

const defaultConfigPath = "config.yaml"

// deps bundles what every command needs
type deps struct {
	cfg *config.Config
	log logger.Logger
}

func loadDeps(opts *globalOptions) (*deps, error) {
	cfg, fromFile, err := loadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.debug {
		cfg.Logging.Level = "debug"
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		return nil, err
	}

	if !fromFile {
		log.Debug("Config file not found, using default configuration")
	}
	return &deps{cfg: cfg, log: log}, nil
}

// loadConfig reads path, or ./config.yaml when path is empty. A missing
// default file means defaults; a missing explicit file is an error.
func loadConfig(path string) (*config.Config, bool, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return config.GetDefaultConfig(), false, nil
		}
		return nil, false, fmt.Errorf("config file %s: %w", path, err)
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, false, err
	}
	return cfg, true, nil
}

func (d *deps) newCollyFetcher() *fetcher.CollyFetcher {
	return fetcher.NewCollyFetcher(fetcher.CollyOptions{
		UserAgent:      d.cfg.Crawl.UserAgent,
		AllowedDomains: d.cfg.Crawl.AllowedDomains,
		Timeout:        d.cfg.CrawlTimeout(),
	}, d.log)
}

// newRenderer returns the configured renderer and a function releasing it
func (d *deps) newRenderer() (fetcher.Renderer, func()) {
	if d.cfg.Render.Engine == config.EngineStatic {
		f := fetcher.NewCollyFetcher(fetcher.CollyOptions{
			UserAgent: d.cfg.Crawl.UserAgent,
			Timeout:   d.cfg.RenderTimeout(),
		}, d.log)
		return f, func() {}
	}

	r := fetcher.NewRodRenderer(fetcher.RodOptions{
		BrowserBin:  d.cfg.Render.BrowserBin,
		UserDataDir: d.cfg.Render.UserDataDir,
		ShowBrowser: d.cfg.Render.ShowBrowser,
		Timeout:     d.cfg.RenderTimeout(),
		StableWait:  d.cfg.RenderStableWait(),
	}, d.log)
	return r, func() {
		if err := r.Close(); err != nil {
			d.log.Warn("Failed to close browser", logger.Err(err))
		}
	}
}

func (d *deps) newSummarizer() (scraper.Summarizer, error) {
	if d.cfg.Summarizer.Disabled {
		return nil, nil
	}
	client, err := summarizer.NewClient(d.cfg.Summarizer.Host, d.cfg.Summarizer.Model, d.cfg.SummarizerTimeout())
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (d *deps) newPageScraper(renderer fetcher.Renderer) (*scraper.PageScraper, error) {
	s, err := d.newSummarizer()
	if err != nil {
		return nil, err
	}
	return scraper.NewPageScraper(
		renderer,
		parser.NewMarkdownConverter(d.cfg.Render.StripElements...),
		s,
		store.New(d.cfg.OutputDir),
		d.log,
	), nil
}

func (d *deps) newHubCrawler() *scraper.HubCrawler {
	strategy := parser.NewSelectorStrategy(d.cfg.Crawl.LinkSelector, d.cfg.Crawl.LinkAttr, d.cfg.Crawl.TitleSelector)
	return scraper.NewHubCrawler(d.newCollyFetcher(), parser.NewParser(strategy), store.New(d.cfg.OutputDir), d.log)
}
