package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go-jobwatch-automation/internal/config"
	"go-jobwatch-automation/internal/models"
)

// recheckInterval is the pause between first-page readiness checks.
const recheckInterval = time.Second

// Walker runs one pass: every page of the listing source, start to finish.
type Walker struct {
	url       string
	sel       config.Selectors
	extractor Extractor
	log       *slog.Logger

	firstPageTimeout time.Duration
	elementTimeout   time.Duration
	settleDelay      time.Duration
}

func NewWalker(cfg config.SourceConfig, extractor Extractor, log *slog.Logger) *Walker {
	return &Walker{
		url:              cfg.URL,
		sel:              cfg.Selectors,
		extractor:        extractor,
		log:              log.With("component", "walker"),
		firstPageTimeout: cfg.FirstPageTimeout,
		elementTimeout:   cfg.ElementTimeout,
		settleDelay:      cfg.SettleDelay,
	}
}

// Pass loads the first page and follows the next-page control until it is
// missing or disabled. Any failure discards the whole pass.
func (w *Walker) Pass(ctx context.Context, page Page) ([]models.Listing, error) {
	if err := page.Open(ctx, w.url); err != nil {
		return nil, fmt.Errorf("open %s: %w", w.url, err)
	}

	if ready, err := w.awaitFirstPage(ctx, page); err != nil {
		return nil, err
	} else if !ready {
		w.log.Warn("⚠️ Next-page control never appeared, treating source as single page",
			"waited", w.firstPageTimeout)
	}

	var all []models.Listing
	for pageNo := 1; ; pageNo++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		visible, err := page.WaitVisible(ctx, w.sel.Tile, w.elementTimeout)
		if err != nil {
			return nil, fmt.Errorf("page %d: wait for tiles: %w", pageNo, err)
		}
		if !visible {
			return nil, fmt.Errorf("page %d: %w", pageNo, ErrListingsNotFound)
		}

		listings, err := w.extractor.Extract(page)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", pageNo, err)
		}
		all = append(all, listings...)
		w.log.Debug("📄 Page scraped", "page", pageNo, "listings", len(listings))

		next, err := w.nextControl(page)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", pageNo, err)
		}
		if next == nil {
			w.log.Debug("🏁 Last page reached", "pages", pageNo, "listings", len(all))
			return all, nil
		}

		visible, err = page.WaitVisible(ctx, w.sel.NextButton, w.elementTimeout)
		if err != nil {
			return nil, fmt.Errorf("page %d: wait for next control: %w", pageNo, err)
		}
		if !visible {
			return nil, fmt.Errorf("page %d: next control not visible: %w", pageNo, ErrNotFound)
		}
		if err := next.Click(); err != nil {
			return nil, fmt.Errorf("page %d: click next: %w", pageNo, err)
		}

		if err := sleepCtx(ctx, w.settleDelay); err != nil {
			return nil, err
		}
	}
}

// awaitFirstPage re-checks for the next-page control until it shows up or
// firstPageTimeout passes.
func (w *Walker) awaitFirstPage(ctx context.Context, page Page) (bool, error) {
	deadline := time.Now().Add(w.firstPageTimeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return false, nil
		}
		wait := min(w.elementTimeout, remaining)

		visible, err := page.WaitVisible(ctx, w.sel.NextButton, wait)
		if err != nil {
			return false, fmt.Errorf("wait for first page: %w", err)
		}
		if visible {
			return true, nil
		}
		if err := sleepCtx(ctx, min(recheckInterval, time.Until(deadline))); err != nil {
			return false, err
		}
	}
}

// nextControl returns the next-page control when present and enabled, nil otherwise.
// A disabled control marks the genuine last page.
func (w *Walker) nextControl(page Page) (Element, error) {
	next, err := page.FindOne(w.sel.NextButton)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find next control: %w", err)
	}
	enabled, err := next.IsEnabled()
	if err != nil {
		return nil, fmt.Errorf("next control state: %w", err)
	}
	if !enabled {
		return nil, nil
	}
	return next, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
