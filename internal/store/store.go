// Package store persists the collection of listings seen so far.
package store

import (
	"context"

	"go-jobwatch-automation/internal/models"
)

// Store is the listing collection. Merge is its only mutator and the
// collection never shrinks.
type Store interface {
	// Load returns persisted listings in discovery order. No prior state is an
	// empty slice, not an error.
	Load(ctx context.Context) ([]models.Listing, error)
	// Merge appends listings from pass whose id is not persisted yet and
	// returns them. Duplicates within pass are not collapsed.
	Merge(ctx context.Context, pass []models.Listing) ([]models.Listing, error)
}

// NewEntries returns the listings of pass whose id is absent from existing,
// in pass order.
func NewEntries(existing, pass []models.Listing) []models.Listing {
	seen := make(map[string]struct{}, len(existing))
	for _, l := range existing {
		seen[l.ID] = struct{}{}
	}

	var fresh []models.Listing
	for _, l := range pass {
		if _, ok := seen[l.ID]; !ok {
			fresh = append(fresh, l)
		}
	}
	return fresh
}
