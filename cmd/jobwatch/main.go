package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go-jobwatch-automation/internal/browser"
	"go-jobwatch-automation/internal/config"
	"go-jobwatch-automation/internal/database"
	"go-jobwatch-automation/internal/logger"
	"go-jobwatch-automation/internal/notify"
	"go-jobwatch-automation/internal/scheduler"
	"go-jobwatch-automation/internal/scraper"
	"go-jobwatch-automation/internal/server"
	"go-jobwatch-automation/internal/store"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the yaml config file")
	flag.Parse()

	//load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("❌ jobwatch stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("🚀 Starting jobwatch", "url", cfg.Source.URL, "provider", cfg.Notifier.Provider, "storage", cfg.Storage.Driver)

	//listing store
	st, closeStore, err := openStore(ctx, cfg.Storage, log)
	if err != nil {
		return err
	}
	defer closeStore()

	//notifier
	provider, err := newProvider(cfg.Notifier)
	if err != nil {
		return err
	}
	notifier := notify.New(provider, cfg.Notifier.ChunkLimit, cfg.Notifier.SendInterval, log)

	//browser, launched once for the process
	pm, err := browser.NewPlaywright(ctx, browser.Options{
		Headless:      *cfg.Browser.Headless,
		CookiesFile:   cfg.Browser.CookiesFile,
		ScreenshotDir: cfg.Browser.ScreenshotDir,
		SiteURL:       cfg.Source.URL,
	}, log)
	if err != nil {
		return fmt.Errorf("init playwright: %w", err)
	}
	defer pm.Close()

	walker := scraper.NewWalker(cfg.Source, scraper.NewTileExtractor(cfg.Source.Selectors), log)
	state := scheduler.NewRunState()

	poll := scheduler.NewPollTask(pm, walker, st, notifier, state, scheduler.PollOptions{
		Interval:      cfg.Schedule.PollInterval,
		ProgressEvery: cfg.Schedule.ProgressEvery,
		RestartDelay:  cfg.Schedule.RestartDelay,
	}, log)

	hour, minute, err := cfg.Schedule.DailyClock()
	if err != nil {
		return err
	}
	daily := scheduler.NewDailyTask(st, notifier, state, hour, minute, cfg.Schedule.Tick, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return poll.Run(gctx) })
	g.Go(func() error { return daily.Run(gctx) })
	if cfg.Status.Addr != "" {
		gin.SetMode(gin.ReleaseMode)
		router := server.NewRouter(state, st, log)
		g.Go(func() error { return server.Run(gctx, cfg.Status.Addr, router, log) })
	}

	err = g.Wait()
	log.Info("👋 jobwatch shut down", "attempts", state.Attempts(), "uptime", notify.FormatUptime(state.Uptime()))
	return err
}

func openStore(ctx context.Context, cfg config.StorageConfig, log *slog.Logger) (store.Store, func(), error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		repo, err := database.ConnectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect listing database: %w", err)
		}
		log.Info("🗄️ Using PostgreSQL listing store")
		return repo, repo.Close, nil
	default:
		log.Info("🗂️ Using file listing store", "path", cfg.Path)
		return store.NewFileStore(cfg.Path, log), func() {}, nil
	}
}

func newProvider(cfg config.NotifierConfig) (notify.Provider, error) {
	switch cfg.Provider {
	case config.ProviderTelegram:
		p, err := notify.NewTelegramProvider(cfg.Telegram.Token, cfg.Telegram.ChatID)
		if err != nil {
			return nil, fmt.Errorf("init telegram bot: %w", err)
		}
		return p, nil
	default:
		tw := cfg.Twilio
		return notify.NewTwilioProvider(tw.AccountSID, tw.AuthToken, tw.From, tw.To), nil
	}
}
