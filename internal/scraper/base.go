// Contract consumed from the page renderer (browser automation engine)
// Keep selectors engine-neutral CSS so both adapters understand them

package scraper

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned by FindOne when nothing matches the selector.
	ErrNotFound = errors.New("element not found")
	// ErrListingsNotFound means listing tiles never became visible within the bounded wait.
	ErrListingsNotFound = errors.New("listing tiles not visible")
	// ErrJobIDNotFound means a tile has no labeled Job ID item.
	ErrJobIDNotFound = errors.New("job id not found in tile")
)

// Finder looks up elements below a page or an element.
type Finder interface {
	FindAll(selector string) ([]Element, error)
	FindOne(selector string) (Element, error)
}

// Element is one rendered DOM node.
type Element interface {
	Finder
	Text() (string, error)
	IsEnabled() (bool, error)
	Click() error
}

// Page is a loaded, rendered page that can be navigated and queried.
type Page interface {
	Finder
	Open(ctx context.Context, url string) error
	// WaitVisible reports whether an element matching selector became visible
	// before timeout. Expiry is (false, nil), not an error.
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) (bool, error)
}

// Session owns one browser page for the lifetime of a poll task run.
type Session interface {
	Page() Page
	// Screenshot writes a debug capture of the current page, best effort.
	Screenshot(name string) (string, error)
	Close() error
}

// Launcher opens a new browser session.
type Launcher interface {
	Launch(ctx context.Context) (Session, error)
}
