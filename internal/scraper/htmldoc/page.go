// Package htmldoc renders nothing: it serves saved HTML snapshots through the
// scraper.Page contract, one snapshot per listing page. Clicking any element
// advances to the next snapshot, which is how the next-page control behaves
// on the live site.
package htmldoc

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go-jobwatch-automation/internal/scraper"

	"github.com/PuerkitoBio/goquery"
)

type Page struct {
	mu      sync.Mutex
	pages   []string
	current int
	doc     *goquery.Document

	opened []string
	clicks int
}

// New serves the given HTML documents in order.
func New(pages ...string) *Page {
	return &Page{pages: pages}
}

// LoadDir serves every *.html file in dir, sorted by name.
func LoadDir(dir string) (*Page, error) {
	pages, err := LoadPages(dir)
	if err != nil {
		return nil, err
	}
	return New(pages...), nil
}

// LoadPages reads every *.html file in dir, sorted by name.
func LoadPages(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .html snapshots in %s", dir)
	}
	sort.Strings(files)

	pages := make([]string, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, err
		}
		pages = append(pages, string(data))
	}
	return pages, nil
}

func (p *Page) Open(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.opened = append(p.opened, url)
	return p.load(0)
}

func (p *Page) load(i int) error {
	if i >= len(p.pages) {
		return fmt.Errorf("no snapshot for page %d", i+1)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(p.pages[i]))
	if err != nil {
		return fmt.Errorf("parse snapshot %d: %w", i+1, err)
	}
	p.current = i
	p.doc = doc
	return nil
}

// WaitVisible answers immediately: a snapshot never changes while waiting.
// Elements carrying the hidden attribute count as invisible.
func (p *Page) WaitVisible(ctx context.Context, selector string, timeout time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	doc, err := p.document()
	if err != nil {
		return false, err
	}
	return doc.Find(selector).Not("[hidden]").Length() > 0, nil
}

func (p *Page) FindAll(selector string) ([]scraper.Element, error) {
	doc, err := p.document()
	if err != nil {
		return nil, err
	}
	return p.wrapAll(doc.Selection, selector), nil
}

func (p *Page) FindOne(selector string) (scraper.Element, error) {
	doc, err := p.document()
	if err != nil {
		return nil, err
	}
	return p.wrapOne(doc.Selection, selector)
}

// Opened returns the URLs passed to Open so far.
func (p *Page) Opened() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.opened...)
}

// Clicks counts clicks across all elements.
func (p *Page) Clicks() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clicks
}

// HTML returns the snapshot currently shown.
func (p *Page) HTML() (string, error) {
	doc, err := p.document()
	if err != nil {
		return "", err
	}
	return doc.Html()
}

func (p *Page) document() (*goquery.Document, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.doc == nil {
		return nil, fmt.Errorf("page not opened")
	}
	return p.doc, nil
}

func (p *Page) advance() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clicks++
	return p.load(p.current + 1)
}

func (p *Page) wrapAll(root *goquery.Selection, selector string) []scraper.Element {
	var out []scraper.Element
	root.Find(selector).Each(func(_ int, s *goquery.Selection) {
		out = append(out, &element{page: p, sel: s})
	})
	return out
}

func (p *Page) wrapOne(root *goquery.Selection, selector string) (scraper.Element, error) {
	s := root.Find(selector).First()
	if s.Length() == 0 {
		return nil, fmt.Errorf("%q: %w", selector, scraper.ErrNotFound)
	}
	return &element{page: p, sel: s}, nil
}

type element struct {
	page *Page
	sel  *goquery.Selection
}

func (e *element) Text() (string, error) {
	return strings.TrimSpace(e.sel.Text()), nil
}

func (e *element) IsEnabled() (bool, error) {
	_, disabled := e.sel.Attr("disabled")
	return !disabled, nil
}

func (e *element) Click() error {
	return e.page.advance()
}

func (e *element) FindAll(selector string) ([]scraper.Element, error) {
	return e.page.wrapAll(e.sel, selector), nil
}

func (e *element) FindOne(selector string) (scraper.Element, error) {
	return e.page.wrapOne(e.sel, selector)
}
