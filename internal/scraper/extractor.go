package scraper

import (
	"fmt"
	"strings"

	"go-jobwatch-automation/internal/config"
	"go-jobwatch-automation/internal/models"

	"golang.org/x/text/unicode/norm"
)

// Extractor pulls listings out of the page currently rendered.
type Extractor interface {
	Extract(page Finder) ([]models.Listing, error)
}

type TileExtractor struct {
	sel config.Selectors
}

func NewTileExtractor(sel config.Selectors) *TileExtractor {
	return &TileExtractor{sel: sel}
}

// Extract reads title and Job ID from every tile. A tile missing either field
// fails the whole page.
func (e *TileExtractor) Extract(page Finder) ([]models.Listing, error) {
	tiles, err := page.FindAll(e.sel.Tile)
	if err != nil {
		return nil, fmt.Errorf("find tiles: %w", err)
	}

	listings := make([]models.Listing, 0, len(tiles))
	for i, tile := range tiles {
		titleEl, err := tile.FindOne(e.sel.TitleLink)
		if err != nil {
			return nil, fmt.Errorf("tile %d: title link: %w", i, err)
		}
		title, err := titleEl.Text()
		if err != nil {
			return nil, fmt.Errorf("tile %d: title text: %w", i, err)
		}

		id, err := e.jobID(tile)
		if err != nil {
			return nil, fmt.Errorf("tile %d: %w", i, err)
		}

		listings = append(listings, models.Listing{
			Title: cleanText(title),
			ID:    id,
		})
	}
	return listings, nil
}

// jobID finds the item labeled "Job ID: 12345" and returns the field after
// the first colon, up to the next one.
func (e *TileExtractor) jobID(tile Element) (string, error) {
	items, err := tile.FindAll(e.sel.JobIDItem)
	if err != nil {
		return "", fmt.Errorf("find job id items: %w", err)
	}
	for _, item := range items {
		text, err := item.Text()
		if err != nil {
			return "", fmt.Errorf("job id text: %w", err)
		}
		if !strings.Contains(text, e.sel.JobIDLabel) {
			continue
		}
		fields := strings.Split(text, ":")
		if len(fields) < 2 {
			return "", fmt.Errorf("%w: no separator in %q", ErrJobIDNotFound, text)
		}
		return strings.TrimSpace(fields[1]), nil
	}
	return "", ErrJobIDNotFound
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}
