package fetcher

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"article-scraper/logger"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// RodOptions configures the headless browser
type RodOptions struct {
	BrowserBin  string
	UserDataDir string
	ShowBrowser bool
	Timeout     time.Duration
	StableWait  time.Duration
}

// RodRenderer renders pages in a headless Chromium so client-side content
// is present in the returned HTML. The browser is launched on first use.
type RodRenderer struct {
	opts    RodOptions
	log     logger.Logger
	mu      sync.Mutex
	browser *rod.Browser
}

// NewRodRenderer creates a new RodRenderer instance
func NewRodRenderer(opts RodOptions, log logger.Logger) *RodRenderer {
	if opts.Timeout <= 0 {
		opts.Timeout = time.Minute
	}
	if opts.StableWait <= 0 {
		opts.StableWait = 500 * time.Millisecond
	}
	return &RodRenderer{opts: opts, log: log}
}

func (rr *RodRenderer) connect() (*rod.Browser, error) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	if rr.browser != nil {
		return rr.browser, nil
	}

	l := launcher.New().
		Headless(!rr.opts.ShowBrowser).
		NoSandbox(true).
		Leakless(false).
		Set("disable-blink-features", "AutomationControlled").
		Set("disable-dev-shm-usage").
		Set("disable-gpu").
		Set("no-first-run").
		Set("no-default-browser-check").
		Set("disable-extensions").
		Set("mute-audio")

	if rr.opts.UserDataDir != "" {
		if err := os.MkdirAll(rr.opts.UserDataDir, 0755); err != nil {
			rr.log.Warn("Failed to create browser data directory, using default",
				logger.String("dir", rr.opts.UserDataDir), logger.Err(err))
		} else {
			l = l.UserDataDir(rr.opts.UserDataDir)
		}
	}

	// Prefer an installed Chrome/Chromium over downloading one
	if rr.opts.BrowserBin != "" {
		l = l.Bin(rr.opts.BrowserBin)
	} else if path, ok := launcher.LookPath(); ok {
		l = l.Bin(path)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser, err := dial(controlURL, l.Kill)
	if err != nil {
		return nil, err
	}

	rr.log.Debug("Browser launched", logger.String("control_url", controlURL))
	rr.browser = browser
	return browser, nil
}

// dial connects to a launched browser, calling kill when the connection
// cannot be made so the process does not outlive the failure
func dial(controlURL string, kill func()) (*rod.Browser, error) {
	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}
	return browser, nil
}

// Render implements Renderer
func (rr *RodRenderer) Render(ctx context.Context, url string) (string, error) {
	browser, err := rr.connect()
	if err != nil {
		return "", err
	}

	page, err := browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("failed to open page: %w", err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			rr.log.Debug("Failed to close page", logger.Err(err))
		}
	}()

	if err := page.Context(ctx).Timeout(rr.opts.Timeout).Navigate(url); err != nil {
		return "", fmt.Errorf("failed to navigate to %s: %w", url, err)
	}

	if err := page.Context(ctx).Timeout(rr.opts.Timeout).WaitLoad(); err != nil {
		return "", fmt.Errorf("failed waiting for %s to load: %w", url, err)
	}

	if err := page.Context(ctx).Timeout(rr.opts.Timeout).WaitStable(rr.opts.StableWait); err != nil {
		rr.log.Warn("Page did not stabilize within timeout, continuing anyway",
			logger.String("url", url), logger.Err(err))
	}

	html, err := page.Context(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("failed to get HTML: %w", err)
	}

	return html, nil
}

// Close shuts the browser down if it was launched
func (rr *RodRenderer) Close() error {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	if rr.browser == nil {
		return nil
	}
	err := rr.browser.Close()
	rr.browser = nil
	return err
}
