// probe runs a single pass against the listing page and prints what it found.
// Nothing is stored and nothing is sent.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go-jobwatch-automation/internal/browser"
	"go-jobwatch-automation/internal/config"
	"go-jobwatch-automation/internal/logger"
	"go-jobwatch-automation/internal/models"
	"go-jobwatch-automation/internal/scraper"
	"go-jobwatch-automation/internal/scraper/htmldoc"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the yaml config file")
	out := flag.String("out", "", "write listings JSON here instead of stdout")
	snapshots := flag.String("snapshots", "", "walk saved *.html pages from this dir instead of a live browser")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	listings, err := probe(ctx, cfg, *snapshots, log)
	if err != nil {
		log.Error("❌ Probe failed", "error", err)
		os.Exit(1)
	}
	log.Info("📦 Probe finished", "listings", len(listings))

	if err := writeListings(*out, listings); err != nil {
		log.Error("❌ Failed to write listings", "error", err)
		os.Exit(1)
	}
}

func probe(ctx context.Context, cfg *config.Config, snapshotDir string, log *slog.Logger) ([]models.Listing, error) {
	walker := scraper.NewWalker(cfg.Source, scraper.NewTileExtractor(cfg.Source.Selectors), log)

	var launcher scraper.Launcher
	if snapshotDir != "" {
		pages, err := htmldoc.LoadPages(snapshotDir)
		if err != nil {
			return nil, err
		}
		log.Info("🗃️ Walking saved snapshots", "dir", snapshotDir, "pages", len(pages))
		launcher = &htmldoc.Launcher{Pages: pages, SnapshotDir: cfg.Browser.ScreenshotDir}
	} else {
		pm, err := browser.NewPlaywright(ctx, browser.Options{
			Headless:      *cfg.Browser.Headless,
			CookiesFile:   cfg.Browser.CookiesFile,
			ScreenshotDir: cfg.Browser.ScreenshotDir,
			SiteURL:       cfg.Source.URL,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("init playwright: %w", err)
		}
		defer pm.Close()
		launcher = pm
	}

	return passOnce(ctx, launcher, walker, log)
}

// passOnce runs a single pass on a fresh session, capturing the page on failure.
func passOnce(ctx context.Context, launcher scraper.Launcher, walker *scraper.Walker, log *slog.Logger) ([]models.Listing, error) {
	sess, err := launcher.Launch(ctx)
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	listings, err := walker.Pass(ctx, sess.Page())
	if err != nil {
		if path, shotErr := sess.Screenshot("probe_failure"); shotErr == nil && path != "" {
			log.Info("📸 Debug capture written", "path", path)
		}
		return nil, err
	}
	return listings, nil
}

func writeListings(path string, listings []models.Listing) error {
	if listings == nil {
		listings = []models.Listing{}
	}
	var w io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(listings)
}
