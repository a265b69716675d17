package browser

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go-jobwatch-automation/internal/scraper"
	"go-jobwatch-automation/utils"

	"github.com/playwright-community/playwright-go"
)

// PlaywrightManager owns the driver and the browser process. Sessions
// (contexts + pages) come and go on top of it. A browser that crashed or
// disconnected is relaunched on the next Launch.
type PlaywrightManager struct {
	mu            sync.Mutex
	pw            *playwright.Playwright
	browser       playwright.Browser
	launchBrowser func() (playwright.Browser, error)
	relaunches    int

	cookies []playwright.OptionalCookie
	shots   *utils.ScreenShotDebugger
	log     *slog.Logger
}

type Options struct {
	Headless      bool
	CookiesFile   string
	ScreenshotDir string
	// SiteURL scopes loaded cookies to the listing site.
	SiteURL       string
}

func NewPlaywright(ctx context.Context, opts Options, log *slog.Logger) (*PlaywrightManager, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args:     []string{"--disable-blink-features=AutomationControlled"},
	}
	pm := newManager(func() (playwright.Browser, error) {
		return pw.Chromium.Launch(launchOpts)
	}, opts.ScreenshotDir, log)
	pm.pw = pw

	browser, err := pm.launchBrowser()
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("could not launch chromium browser: %w", err)
	}
	pm.browser = browser

	if opts.CookiesFile != "" {
		cookies, err := LoadCookies(opts.CookiesFile, opts.SiteURL)
		if err != nil {
			pm.log.Warn("⚠️ Could not load cookies, continuing without", "file", opts.CookiesFile, "error", err)
		} else {
			pm.log.Info("🍪 Loaded cookies", "count", len(cookies))
			pm.cookies = cookies
		}
	}
	return pm, nil
}

func newManager(launch func() (playwright.Browser, error), screenshotDir string, log *slog.Logger) *PlaywrightManager {
	return &PlaywrightManager{
		launchBrowser: launch,
		shots:         utils.NewScreenShotDebugger(screenshotDir, log),
		log:           log.With("component", "browser"),
	}
}

// connectedBrowser returns the running browser, relaunching it when the
// process is gone.
func (pm *PlaywrightManager) connectedBrowser() (playwright.Browser, error) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if pm.browser != nil && pm.browser.IsConnected() {
		return pm.browser, nil
	}
	if pm.browser != nil {
		pm.log.Warn("⚠️ Browser disconnected, relaunching chromium")
		pm.browser.Close()
		pm.browser = nil
	}

	browser, err := pm.launchBrowser()
	if err != nil {
		return nil, fmt.Errorf("could not relaunch chromium browser: %w", err)
	}
	pm.browser = browser
	pm.relaunches++
	pm.log.Info("✅ Chromium relaunched", "relaunches", pm.relaunches)
	return browser, nil
}

// NewContext creates an isolated browser context carrying the loaded cookies.
func (pm *PlaywrightManager) NewContext() (playwright.BrowserContext, error) {
	browser, err := pm.connectedBrowser()
	if err != nil {
		return nil, err
	}
	browserCtx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{Width: 1440, Height: 900},
	})
	if err != nil {
		return nil, fmt.Errorf("could not create browser context: %w", err)
	}
	if len(pm.cookies) > 0 {
		if err := browserCtx.AddCookies(pm.cookies); err != nil {
			browserCtx.Close()
			return nil, fmt.Errorf("could not add cookies: %w", err)
		}
	}
	return browserCtx, nil
}

// Launch opens a fresh context and page for one poll task run.
func (pm *PlaywrightManager) Launch(ctx context.Context) (scraper.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	browserCtx, err := pm.NewContext()
	if err != nil {
		return nil, err
	}
	page, err := browserCtx.NewPage()
	if err != nil {
		browserCtx.Close()
		return nil, fmt.Errorf("could not create page: %w", err)
	}
	pm.log.Info("✅ Browser session opened")
	return &session{manager: pm, browserCtx: browserCtx, page: &Page{page: page}}, nil
}

func (pm *PlaywrightManager) Close() error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	var firstErr error
	if pm.browser != nil {
		if err := pm.browser.Close(); err != nil {
			firstErr = fmt.Errorf("close browser: %w", err)
		}
		pm.browser = nil
	}
	if pm.pw != nil {
		if err := pm.pw.Stop(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("stop playwright: %w", err)
		}
		pm.pw = nil
	}
	return firstErr
}

type session struct {
	manager    *PlaywrightManager
	browserCtx playwright.BrowserContext
	page       *Page
}

func (s *session) Page() scraper.Page { return s.page }

func (s *session) Screenshot(name string) (string, error) {
	return s.manager.shots.CaptureAndLog(s.page.page, name, "🚨 Pass failed, capturing page")
}

func (s *session) Close() error {
	if err := s.browserCtx.Close(); err != nil {
		return fmt.Errorf("close browser context: %w", err)
	}
	s.manager.log.Info("🔒 Browser session closed")
	return nil
}
