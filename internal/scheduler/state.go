// Package scheduler runs the two long-lived tasks of the watcher: the poll
// loop and the daily summary timer.
package scheduler

import (
	"sync/atomic"
	"time"

	"go-jobwatch-automation/internal/models"
	"go-jobwatch-automation/internal/notify"
)

// RunState is shared by both tasks and the status server. It lives as long
// as the process and survives poll task restarts.
type RunState struct {
	startedAt time.Time
	attempts  atomic.Int64
	now       func() time.Time
}

func NewRunState() *RunState {
	return newRunState(time.Now)
}

func newRunState(now func() time.Time) *RunState {
	return &RunState{startedAt: now(), now: now}
}

func (s *RunState) StartedAt() time.Time { return s.startedAt }

func (s *RunState) Uptime() time.Duration {
	return s.now().Sub(s.startedAt)
}

// Attempts is the number of completed poll iterations.
func (s *RunState) Attempts() int64 {
	return s.attempts.Load()
}

func (s *RunState) Increment() int64 {
	return s.attempts.Add(1)
}

// Snapshot pairs the run state with the current collection size.
func (s *RunState) Snapshot(totalListings int) models.Status {
	return models.Status{
		StartedAt:     s.startedAt,
		Uptime:        notify.FormatUptime(s.Uptime()),
		Attempts:      s.Attempts(),
		TotalListings: totalListings,
	}
}
