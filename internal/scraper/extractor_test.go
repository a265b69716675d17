package scraper_test

import (
	"context"
	"testing"

	"go-jobwatch-automation/internal/config"
	"go-jobwatch-automation/internal/models"
	"go-jobwatch-automation/internal/scraper"
	"go-jobwatch-automation/internal/scraper/htmldoc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openPage(t *testing.T, html string) *htmldoc.Page {
	t.Helper()
	page := htmldoc.New(html)
	require.NoError(t, page.Open(context.Background(), "https://careers.example.com/jobs"))
	return page
}

func TestTileExtractor_Extract(t *testing.T) {
	page := openPage(t, listingPage([]string{"101", "102"}, noNext))

	listings, err := scraper.NewTileExtractor(config.DefaultSelectors()).Extract(page)

	require.NoError(t, err)
	assert.Equal(t, []models.Listing{
		{Title: "Engineer 101", ID: "101"},
		{Title: "Engineer 102", ID: "102"},
	}, listings)
}

func TestTileExtractor_EmptyPage(t *testing.T) {
	page := openPage(t, listingPage(nil, noNext))

	listings, err := scraper.NewTileExtractor(config.DefaultSelectors()).Extract(page)

	require.NoError(t, err)
	assert.Empty(t, listings)
}

func TestTileExtractor_Errors(t *testing.T) {
	tests := []struct {
		name    string
		html    string
		wantErr error
	}{
		{
			name:    "missing job id item",
			html:    `<div class="job-tile"><a class="job-link">A</a><ul><li>Location: Remote</li></ul></div>`,
			wantErr: scraper.ErrJobIDNotFound,
		},
		{
			name:    "job id without separator",
			html:    `<div class="job-tile"><a class="job-link">A</a><ul><li>Job ID 77</li></ul></div>`,
			wantErr: scraper.ErrJobIDNotFound,
		},
		{
			name:    "missing title link",
			html:    `<div class="job-tile"><span>A</span><ul><li>Job ID: 1</li></ul></div>`,
			wantErr: scraper.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := openPage(t, tt.html)
			_, err := scraper.NewTileExtractor(config.DefaultSelectors()).Extract(page)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTileExtractor_IDIsFieldBetweenFirstAndSecondColon(t *testing.T) {
	tests := []struct {
		item string
		want string
	}{
		{"Job ID:  4711 ", "4711"},
		{"Job ID: 12:34", "12"},
		{"Job ID:  REQ:42 ", "REQ"},
	}
	for _, tt := range tests {
		t.Run(tt.item, func(t *testing.T) {
			page := openPage(t, `<div class="job-tile"><a class="job-link">Ops</a><ul><li>`+tt.item+`</li></ul></div>`)

			listings, err := scraper.NewTileExtractor(config.DefaultSelectors()).Extract(page)

			require.NoError(t, err)
			require.Len(t, listings, 1)
			assert.Equal(t, tt.want, listings[0].ID)
		})
	}
}
