package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go-jobwatch-automation/internal/models"
	"go-jobwatch-automation/internal/notify"
	"go-jobwatch-automation/internal/scraper"
	"go-jobwatch-automation/internal/store"

	"github.com/google/uuid"
)

// Passer walks the listing source once.
type Passer interface {
	Pass(ctx context.Context, page scraper.Page) ([]models.Listing, error)
}

// Alerter delivers the new-listing message.
type Alerter interface {
	NotifyNew(ctx context.Context, entries []models.Listing) error
}

var (
	_ Passer  = (*scraper.Walker)(nil)
	_ Alerter = (*notify.Notifier)(nil)
)

type PollOptions struct {
	Interval      time.Duration
	ProgressEvery int
	RestartDelay  time.Duration
}

// PollTask repeats pass, merge and notify forever. Any failure ends the
// current browser session; the task then opens a new one and carries on.
type PollTask struct {
	launcher scraper.Launcher
	walker   Passer
	store    store.Store
	notifier Alerter
	state    *RunState
	opts     PollOptions
	log      *slog.Logger
}

func NewPollTask(launcher scraper.Launcher, walker Passer, st store.Store, notifier Alerter, state *RunState, opts PollOptions, log *slog.Logger) *PollTask {
	return &PollTask{
		launcher: launcher,
		walker:   walker,
		store:    st,
		notifier: notifier,
		state:    state,
		opts:     opts,
		log:      log.With("component", "poll"),
	}
}

// Run blocks until ctx is cancelled. It only returns nil.
func (p *PollTask) Run(ctx context.Context) error {
	p.log.Info("🚀 Poll task started", "interval", p.opts.Interval)
	for restarts := 0; ; restarts++ {
		err := p.runSession(ctx)
		if ctx.Err() != nil {
			p.log.Info("🛑 Poll task stopped", "attempts", p.state.Attempts())
			return nil
		}
		level := slog.LevelError
		if IsTransient(err) {
			level = slog.LevelWarn
		}
		p.log.Log(ctx, level, "❌ Poll task failed, restarting", "error", err, "restarts", restarts+1, "delay", p.opts.RestartDelay)
		if sleep(ctx, p.opts.RestartDelay) != nil {
			p.log.Info("🛑 Poll task stopped", "attempts", p.state.Attempts())
			return nil
		}
	}
}

// runSession owns one browser session and loops on it until something fails.
func (p *PollTask) runSession(ctx context.Context) error {
	sess, err := p.launcher.Launch(ctx)
	if err != nil {
		return fmt.Errorf("launch browser session: %w", err)
	}
	defer func() {
		if err := sess.Close(); err != nil {
			p.log.Warn("⚠️ Failed to close browser session", "error", err)
		}
	}()

	for {
		if err := p.iterate(ctx, sess.Page()); err != nil {
			if ctx.Err() == nil {
				if path, shotErr := sess.Screenshot("poll_failure"); shotErr != nil {
					p.log.Warn("⚠️ Debug capture failed", "error", shotErr)
				} else if path != "" {
					p.log.Info("📸 Debug capture written", "path", path)
				}
			}
			return err
		}
		if err := sleep(ctx, p.opts.Interval); err != nil {
			return err
		}
	}
}

// iterate is one poll: pass, merge, notify, count.
func (p *PollTask) iterate(ctx context.Context, page scraper.Page) error {
	passID := uuid.NewString()
	log := p.log.With("pass_id", passID)
	started := time.Now()

	listings, err := p.walker.Pass(ctx, page)
	if err != nil {
		return fmt.Errorf("pass %s: %w", passID, err)
	}

	fresh, err := p.store.Merge(ctx, listings)
	if err != nil {
		return fmt.Errorf("pass %s: merge: %w", passID, err)
	}
	log.Debug("🔍 Pass complete", "listings", len(listings), "new", len(fresh), "took", time.Since(started).Round(time.Millisecond))

	if len(fresh) > 0 {
		log.Info("🆕 New listings found", "count", len(fresh))
		if err := p.notifier.NotifyNew(ctx, fresh); err != nil {
			return fmt.Errorf("pass %s: notify: %w", passID, err)
		}
	}

	attempts := p.state.Increment()
	if p.opts.ProgressEvery > 0 && attempts%int64(p.opts.ProgressEvery) == 0 {
		p.log.Info("⏱️ Still watching", "attempts", attempts, "uptime", notify.FormatUptime(p.state.Uptime()))
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// IsTransient reports whether err is a scrape failure expected to clear up
// on a later pass.
func IsTransient(err error) bool {
	return errors.Is(err, scraper.ErrListingsNotFound) ||
		errors.Is(err, scraper.ErrNotFound) ||
		errors.Is(err, scraper.ErrJobIDNotFound) ||
		errors.Is(err, context.DeadlineExceeded)
}
