package models

import "time"

// Listing is one job posting seen on the listing page. ID is its identity,
// Title is descriptive only.
type Listing struct {
	Title string `json:"title"`
	ID    string `json:"id"`
}

// Status is the read-only snapshot served by the status endpoint
type Status struct {
	StartedAt     time.Time `json:"started_at"`
	Uptime        string    `json:"uptime"`
	Attempts      int64     `json:"attempts"`
	TotalListings int       `json:"total_listings"`
}
