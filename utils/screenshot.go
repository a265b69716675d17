package utils

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

const defaultScreenshotDir = "logs/screenshots"

// Shooter is the part of playwright.Page the debugger needs.
type Shooter interface {
	Screenshot(options ...playwright.PageScreenshotOptions) ([]byte, error)
}

// ScreenShotDebugger writes full-page screenshots of failed passes
type ScreenShotDebugger struct {
	outputDir string
	log       *slog.Logger
	now       func() time.Time
}

func NewScreenShotDebugger(dir string, log *slog.Logger) *ScreenShotDebugger {
	if dir == "" {
		dir = defaultScreenshotDir
	}
	return &ScreenShotDebugger{
		outputDir: dir,
		log:       log.With("component", "screenshot"),
		now:       time.Now,
	}
}

// CaptureAndLog saves a screenshot named after name and the current time and
// returns the written path.
func (s *ScreenShotDebugger) CaptureAndLog(page Shooter, name, message string) (string, error) {
	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return "", fmt.Errorf("create screenshot dir: %w", err)
	}

	timestamp := s.now().Format("2006-01-02_15-04-05")
	filename := fmt.Sprintf("%s_%s.png", sanitizeName(name), timestamp)
	path := filepath.Join(s.outputDir, filename)
	s.log.Info("📸 " + message)

	_, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		s.log.Warn("⚠️ Failed to capture screenshot", "error", err)
		return "", fmt.Errorf("capture screenshot: %w", err)
	}

	s.log.Info("Screenshot saved", "path", path)
	return path, nil
}

func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "page"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', ' ':
			return '_'
		}
		return r
	}, name)
}
