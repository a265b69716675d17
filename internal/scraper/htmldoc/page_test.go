package htmldoc

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go-jobwatch-automation/internal/scraper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	pageOne = `<html><body><div class="job-tile"><a class="job-link">One</a></div>
<button class="next">›</button><span class="ghost" hidden>x</span></body></html>`
	pageTwo = `<html><body><div class="job-tile"><a class="job-link">Two</a></div>
<button class="next" disabled>›</button></body></html>`
)

func TestPage_NotOpened(t *testing.T) {
	p := New(pageOne)

	_, err := p.FindAll(".job-tile")
	assert.Error(t, err)
}

func TestPage_OpenFindAndClick(t *testing.T) {
	ctx := context.Background()
	p := New(pageOne, pageTwo)
	require.NoError(t, p.Open(ctx, "https://careers.example.com/jobs"))

	visible, err := p.WaitVisible(ctx, ".job-tile", time.Second)
	require.NoError(t, err)
	assert.True(t, visible)

	visible, err = p.WaitVisible(ctx, ".ghost", time.Second)
	require.NoError(t, err)
	assert.False(t, visible)

	_, err = p.FindOne(".missing")
	assert.ErrorIs(t, err, scraper.ErrNotFound)

	next, err := p.FindOne(".next")
	require.NoError(t, err)
	enabled, err := next.IsEnabled()
	require.NoError(t, err)
	assert.True(t, enabled)
	require.NoError(t, next.Click())

	tiles, err := p.FindAll(".job-tile")
	require.NoError(t, err)
	require.Len(t, tiles, 1)
	link, err := tiles[0].FindOne(".job-link")
	require.NoError(t, err)
	text, err := link.Text()
	require.NoError(t, err)
	assert.Equal(t, "Two", text)

	next, err = p.FindOne(".next")
	require.NoError(t, err)
	enabled, err = next.IsEnabled()
	require.NoError(t, err)
	assert.False(t, enabled)
	assert.Error(t, next.Click(), "no snapshot past the last page")

	assert.Equal(t, 2, p.Clicks())
	assert.Equal(t, []string{"https://careers.example.com/jobs"}, p.Opened())
}

func TestPage_OpenResetsToFirstSnapshot(t *testing.T) {
	ctx := context.Background()
	p := New(pageOne, pageTwo)
	require.NoError(t, p.Open(ctx, "u"))
	next, err := p.FindOne(".next")
	require.NoError(t, err)
	require.NoError(t, next.Click())

	require.NoError(t, p.Open(ctx, "u"))

	html, err := p.HTML()
	require.NoError(t, err)
	assert.Contains(t, html, "One")
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "02.html"), []byte(pageTwo), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "01.html"), []byte(pageOne), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0644))

	p, err := LoadDir(dir)
	require.NoError(t, err)
	require.NoError(t, p.Open(context.Background(), "u"))

	html, err := p.HTML()
	require.NoError(t, err)
	assert.Contains(t, html, "One")

	_, err = LoadDir(t.TempDir())
	assert.Error(t, err)
}

func TestLauncher_Sessions(t *testing.T) {
	ctx := context.Background()
	snapDir := t.TempDir()
	l := &Launcher{Pages: []string{pageOne}, SnapshotDir: snapDir}

	sess, err := l.Launch(ctx)
	require.NoError(t, err)
	require.NoError(t, sess.Page().Open(ctx, "u"))

	path, err := sess.Screenshot("failure")
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Equal(t, snapDir, filepath.Dir(path))

	require.NoError(t, sess.Close())
	assert.Equal(t, 1, l.Launched())
	assert.Equal(t, 1, l.Closed())

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = l.Launch(cancelled)
	assert.ErrorIs(t, err, context.Canceled)
}
