package browser

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go-jobwatch-automation/internal/scraper"

	"github.com/playwright-community/playwright-go"
)

const navigationTimeout = 30 * time.Second

// Page adapts a playwright page to the scraper contract.
type Page struct {
	page playwright.Page
}

func NewPage(page playwright.Page) *Page {
	return &Page{page: page}
}

func (p *Page) Open(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(ms(navigationTimeout)),
	}); err != nil {
		return fmt.Errorf("navigate: %w", err)
	}
	return nil
}

func (p *Page) WaitVisible(ctx context.Context, selector string, timeout time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	err := p.page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(ms(timeout)),
	})
	if errors.Is(err, playwright.ErrTimeout) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (p *Page) FindAll(selector string) ([]scraper.Element, error) {
	return findAll(p.page.Locator(selector))
}

func (p *Page) FindOne(selector string) (scraper.Element, error) {
	return findOne(p.page.Locator(selector), selector)
}

type element struct {
	loc playwright.Locator
}

func (e *element) Text() (string, error) {
	return e.loc.InnerText()
}

func (e *element) IsEnabled() (bool, error) {
	return e.loc.IsEnabled()
}

// Click goes through the DOM so overlays and sticky headers cannot swallow it.
func (e *element) Click() error {
	_, err := e.loc.Evaluate("el => el.click()", nil)
	return err
}

func (e *element) FindAll(selector string) ([]scraper.Element, error) {
	return findAll(e.loc.Locator(selector))
}

func (e *element) FindOne(selector string) (scraper.Element, error) {
	return findOne(e.loc.Locator(selector), selector)
}

func findAll(loc playwright.Locator) ([]scraper.Element, error) {
	locs, err := loc.All()
	if err != nil {
		return nil, err
	}
	out := make([]scraper.Element, len(locs))
	for i, l := range locs {
		out[i] = &element{loc: l}
	}
	return out, nil
}

func findOne(loc playwright.Locator, selector string) (scraper.Element, error) {
	first := loc.First()
	count, err := first.Count()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, fmt.Errorf("%q: %w", selector, scraper.ErrNotFound)
	}
	return &element{loc: first}, nil
}

// ms converts to playwright's millisecond floats, rounding up. Zero means
// "no timeout" to playwright, so the result is at least 1ms.
func ms(d time.Duration) float64 {
	return max(1, math.Ceil(float64(d)/float64(time.Millisecond)))
}
