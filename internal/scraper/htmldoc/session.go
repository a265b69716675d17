package htmldoc

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"go-jobwatch-automation/internal/scraper"
)

// Launcher hands out sessions over the same snapshot set, the offline
// counterpart of the playwright manager used by probe -snapshots. Each launch
// gets a fresh Page so a restarted task starts from page one.
type Launcher struct {
	Pages []string
	// SnapshotDir, when set, receives the current HTML on Screenshot.
	SnapshotDir string

	launched atomic.Int64
	closed   atomic.Int64
}

func (l *Launcher) Launch(ctx context.Context) (scraper.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.launched.Add(1)
	return &session{launcher: l, page: New(l.Pages...)}, nil
}

// Launched and Closed count session lifecycle calls.
func (l *Launcher) Launched() int { return int(l.launched.Load()) }
func (l *Launcher) Closed() int   { return int(l.closed.Load()) }

type session struct {
	launcher *Launcher
	page     *Page
}

func (s *session) Page() scraper.Page { return s.page }

func (s *session) Screenshot(name string) (string, error) {
	if s.launcher.SnapshotDir == "" {
		return "", nil
	}
	html, err := s.page.HTML()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.launcher.SnapshotDir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(s.launcher.SnapshotDir, fmt.Sprintf("%s_%s.html", name, time.Now().Format("2006-01-02_15-04-05")))
	return path, os.WriteFile(path, []byte(html), 0644)
}

func (s *session) Close() error {
	s.launcher.closed.Add(1)
	return nil
}
