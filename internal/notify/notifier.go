// Package notify turns listing events into text messages and hands them to
// one messaging provider.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go-jobwatch-automation/internal/models"

	"golang.org/x/time/rate"
)

// DefaultChunkLimit is the longest body a provider accepts in one message.
const DefaultChunkLimit = 1600

// Provider delivers one text message and returns the provider's message id.
type Provider interface {
	Send(ctx context.Context, body string) (string, error)
}

type Notifier struct {
	provider Provider
	limit    int
	limiter  *rate.Limiter
	log      *slog.Logger
}

// New builds a notifier. sendInterval paces consecutive sends; zero disables pacing.
func New(provider Provider, chunkLimit int, sendInterval time.Duration, log *slog.Logger) *Notifier {
	if chunkLimit <= 0 {
		chunkLimit = DefaultChunkLimit
	}
	limit := rate.Inf
	if sendInterval > 0 {
		limit = rate.Every(sendInterval)
	}
	return &Notifier{
		provider: provider,
		limit:    chunkLimit,
		limiter:  rate.NewLimiter(limit, 1),
		log:      log.With("component", "notifier"),
	}
}

// NotifyNew sends the new-listing alert, split into chunks when too long.
// The first provider error stops the remaining chunks.
func (n *Notifier) NotifyNew(ctx context.Context, entries []models.Listing) error {
	if len(entries) == 0 {
		return nil
	}
	chunks := Chunk(ComposeNewListings(entries), n.limit)
	for i, chunk := range chunks {
		id, err := n.send(ctx, chunk)
		if err != nil {
			return fmt.Errorf("send chunk %d/%d: %w", i+1, len(chunks), err)
		}
		n.log.Info("📨 Alert sent", "message_id", id, "chunk", i+1, "chunks", len(chunks))
	}
	return nil
}

// NotifyDailySummary sends the once-a-day aggregate. It is never chunked.
func (n *Notifier) NotifyDailySummary(ctx context.Context, total int, uptime time.Duration) error {
	id, err := n.send(ctx, ComposeDailySummary(total, uptime))
	if err != nil {
		return fmt.Errorf("send daily summary: %w", err)
	}
	n.log.Info("📊 Daily summary sent", "message_id", id, "total", total)
	return nil
}

func (n *Notifier) send(ctx context.Context, body string) (string, error) {
	if err := n.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return n.provider.Send(ctx, body)
}

func ComposeNewListings(entries []models.Listing) string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = fmt.Sprintf("%s (Job ID: %s)", e.Title, e.ID)
	}
	return "New job listings added:\n" + strings.Join(lines, "\n")
}

func ComposeDailySummary(total int, uptime time.Duration) string {
	return fmt.Sprintf("Daily Summary:\nTotal job listings: %d\nUptime: %s", total, FormatUptime(uptime))
}

// FormatUptime renders whole seconds, e.g. "26h3m7s".
func FormatUptime(d time.Duration) string {
	return d.Truncate(time.Second).String()
}

// Chunk splits body into consecutive pieces of at most limit characters.
// Boundaries are count based and may fall mid-line; concatenating the chunks
// gives back body.
func Chunk(body string, limit int) []string {
	if limit <= 0 {
		limit = DefaultChunkLimit
	}
	runes := []rune(body)
	if len(runes) == 0 {
		return nil
	}
	chunks := make([]string, 0, (len(runes)+limit-1)/limit)
	for start := 0; start < len(runes); start += limit {
		end := min(start+limit, len(runes))
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
