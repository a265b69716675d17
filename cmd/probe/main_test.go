package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go-jobwatch-automation/internal/config"
	"go-jobwatch-automation/internal/logger"
	"go-jobwatch-automation/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func probeConfig(t *testing.T) *config.Config {
	headless := true
	return &config.Config{
		Source: config.SourceConfig{
			URL:              "https://careers.example.com/jobs",
			Selectors:        config.DefaultSelectors(),
			FirstPageTimeout: 20 * time.Millisecond,
			ElementTimeout:   5 * time.Millisecond,
			SettleDelay:      time.Millisecond,
		},
		Browser: config.BrowserConfig{Headless: &headless, ScreenshotDir: filepath.Join(t.TempDir(), "shots")},
	}
}

func TestProbe_Snapshots(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "01.html"), []byte(`<html><body>
<div class="job-tile"><a class="job-link">Backend Engineer</a><ul><li>Job ID: 501</li></ul></div>
<button class="btn circle right" aria-label="Next page">›</button></body></html>`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "02.html"), []byte(`<html><body>
<div class="job-tile"><a class="job-link">QA Engineer</a><ul><li>Job ID: 502</li></ul></div>
<button class="btn circle right" aria-label="Next page" disabled>›</button></body></html>`), 0644))

	listings, err := probe(context.Background(), probeConfig(t), dir, logger.Discard())

	require.NoError(t, err)
	assert.Equal(t, []models.Listing{
		{Title: "Backend Engineer", ID: "501"},
		{Title: "QA Engineer", ID: "502"},
	}, listings)
}

func TestProbe_SnapshotFailureIsCaptured(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "01.html"), []byte(`<html><body><p>Down for maintenance</p></body></html>`), 0644))
	cfg := probeConfig(t)

	_, err := probe(context.Background(), cfg, dir, logger.Discard())

	require.Error(t, err)
	shots, err := os.ReadDir(cfg.Browser.ScreenshotDir)
	require.NoError(t, err)
	assert.Len(t, shots, 1)
}

func TestWriteListings(t *testing.T) {
	out := filepath.Join(t.TempDir(), "listings.json")

	require.NoError(t, writeListings(out, nil))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var got []models.Listing
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Empty(t, got)
	assert.Equal(t, "[]\n", string(data))
}
