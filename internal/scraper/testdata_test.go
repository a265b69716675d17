package scraper_test

import (
	"fmt"
	"strings"
	"time"

	"go-jobwatch-automation/internal/config"
)

type nextState int

const (
	noNext nextState = iota
	enabledNext
	disabledNext
)

// listingPage renders one careers page with a tile per id.
func listingPage(ids []string, next nextState) string {
	var b strings.Builder
	b.WriteString(`<html><body><div class="results">`)
	for _, id := range ids {
		fmt.Fprintf(&b, `<div class="job-tile">
  <a class="job-link" href="/jobs/%[1]s">  Engineer
     %[1]s </a>
  <ul><li>Location: Remote</li><li>Job ID: %[1]s</li></ul>
</div>`, id)
	}
	b.WriteString(`</div>`)
	switch next {
	case enabledNext:
		b.WriteString(`<button class="btn circle right" aria-label="Next page">›</button>`)
	case disabledNext:
		b.WriteString(`<button class="btn circle right" aria-label="Next page" disabled>›</button>`)
	}
	b.WriteString(`</body></html>`)
	return b.String()
}

func testSource() config.SourceConfig {
	return config.SourceConfig{
		URL:              "https://careers.example.com/jobs",
		Selectors:        config.DefaultSelectors(),
		FirstPageTimeout: 50 * time.Millisecond,
		ElementTimeout:   10 * time.Millisecond,
		SettleDelay:      time.Millisecond,
	}
}
