package browser

import (
	"context"
	"errors"
	"testing"

	"go-jobwatch-automation/internal/logger"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTargetClosed = errors.New("target page, context or browser has been closed")

// fakeBrowser stands in for a chromium process. Unused methods panic through
// the nil embedded interface.
type fakeBrowser struct {
	playwright.Browser
	connected bool
	closed    int
}

func (b *fakeBrowser) IsConnected() bool { return b.connected }

func (b *fakeBrowser) NewContext(options ...playwright.BrowserNewContextOptions) (playwright.BrowserContext, error) {
	if !b.connected {
		return nil, errTargetClosed
	}
	return &fakeContext{}, nil
}

func (b *fakeBrowser) Close(options ...playwright.BrowserCloseOptions) error {
	b.closed++
	b.connected = false
	return nil
}

type fakeContext struct {
	playwright.BrowserContext
}

func (c *fakeContext) NewPage() (playwright.Page, error) { return nil, nil }

func (c *fakeContext) Close(options ...playwright.BrowserContextCloseOptions) error { return nil }

func TestLaunch_RelaunchesDisconnectedBrowser(t *testing.T) {
	crashed := &fakeBrowser{connected: false}
	fresh := &fakeBrowser{connected: true}
	launches := 0
	pm := newManager(func() (playwright.Browser, error) {
		launches++
		return fresh, nil
	}, t.TempDir(), logger.Discard())
	pm.browser = crashed

	sess, err := pm.Launch(context.Background())

	require.NoError(t, err)
	require.NoError(t, sess.Close())
	assert.Equal(t, 1, launches)
	assert.Equal(t, 1, crashed.closed)
	assert.Same(t, fresh, pm.browser)

	_, err = pm.Launch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, launches, "a connected browser is reused")
}

func TestLaunch_RelaunchFailureIsRetriedNextTime(t *testing.T) {
	fresh := &fakeBrowser{connected: true}
	fail := true
	pm := newManager(func() (playwright.Browser, error) {
		if fail {
			return nil, errors.New("chromium exited")
		}
		return fresh, nil
	}, t.TempDir(), logger.Discard())
	pm.browser = &fakeBrowser{connected: false}

	_, err := pm.Launch(context.Background())
	assert.ErrorContains(t, err, "chromium exited")

	fail = false
	_, err = pm.Launch(context.Background())
	require.NoError(t, err)
	assert.Same(t, fresh, pm.browser)
}

func TestClose_WithoutDriver(t *testing.T) {
	b := &fakeBrowser{connected: true}
	pm := newManager(nil, t.TempDir(), logger.Discard())
	pm.browser = b

	require.NoError(t, pm.Close())
	assert.Equal(t, 1, b.closed)
	assert.Nil(t, pm.browser)
}
