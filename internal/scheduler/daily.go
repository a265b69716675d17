package scheduler

import (
	"context"
	"log/slog"
	"time"

	"go-jobwatch-automation/internal/notify"
	"go-jobwatch-automation/internal/store"
)

// Summarizer delivers the daily summary message.
type Summarizer interface {
	NotifyDailySummary(ctx context.Context, total int, uptime time.Duration) error
}

var _ Summarizer = (*notify.Notifier)(nil)

// DailyTask sends one summary a day at a fixed local wall-clock time.
type DailyTask struct {
	store    store.Store
	notifier Summarizer
	state    *RunState
	hour     int
	minute   int
	tick     time.Duration
	log      *slog.Logger
	now      func() time.Time

	next time.Time
}

func NewDailyTask(st store.Store, notifier Summarizer, state *RunState, hour, minute int, tick time.Duration, log *slog.Logger) *DailyTask {
	if tick <= 0 {
		tick = time.Second
	}
	return &DailyTask{
		store:    st,
		notifier: notifier,
		state:    state,
		hour:     hour,
		minute:   minute,
		tick:     tick,
		log:      log.With("component", "daily"),
		now:      time.Now,
	}
}

// Run checks the clock every tick until ctx is cancelled. Send failures are
// logged and the task keeps its schedule.
func (d *DailyTask) Run(ctx context.Context) error {
	d.next = nextRun(d.now(), d.hour, d.minute)
	d.log.Info("📅 Daily summary scheduled", "next", d.next.Format(time.DateTime))

	ticker := time.NewTicker(d.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			d.check(ctx, d.now())
		}
	}
}

// Next is the upcoming firing time.
func (d *DailyTask) Next() time.Time { return d.next }

// check fires when now has reached the scheduled time and moves the schedule
// to the following day. It reports whether it fired.
func (d *DailyTask) check(ctx context.Context, now time.Time) bool {
	if d.next.IsZero() {
		d.next = nextRun(now, d.hour, d.minute)
	}
	if now.Before(d.next) {
		return false
	}
	d.next = nextRun(now, d.hour, d.minute)

	listings, err := d.store.Load(ctx)
	if err != nil {
		d.log.Error("❌ Daily summary skipped, store unreadable", "error", err)
		return true
	}
	if err := d.notifier.NotifyDailySummary(ctx, len(listings), d.state.Uptime()); err != nil {
		d.log.Error("❌ Daily summary failed", "error", err)
		return true
	}
	d.log.Info("📊 Daily summary done", "total", len(listings), "next", d.next.Format(time.DateTime))
	return true
}

// nextRun is the first hour:minute in now's location strictly after now.
func nextRun(now time.Time, hour, minute int) time.Time {
	at := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !at.After(now) {
		at = time.Date(now.Year(), now.Month(), now.Day()+1, hour, minute, 0, 0, now.Location())
	}
	return at
}
