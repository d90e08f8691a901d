package scraper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"igprofile/pkg/config"
	errs "igprofile/pkg/errors"
	"igprofile/pkg/logger"
)

func newTestNavigator(b *fakeBrowser) (*Navigator, *sleepRecorder, *logger.TestLogger) {
	log := logger.NewTestLogger()
	nav := NewNavigator(b, config.DefaultConfig().Navigation, log)
	rec := &sleepRecorder{}
	nav.sleep = rec.sleep
	return nav, rec, log
}

func TestNavigatorProfileSequence(t *testing.T) {
	b := newFakeBrowser()
	url := testBase + "/instagram/"
	b.scripts[url] = &pageScript{html: "<html></html>", dialog: true, dialogBtn: true, heights: []int{1000, 2000, 2000}}

	nav, rec, _ := newTestNavigator(b)
	cfg := config.DefaultConfig().Navigation

	html, err := nav.Visit(context.Background(), url, ProfileTarget(cfg))
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", html)

	require.Len(t, b.pages, 1)
	page := b.pages[0]
	assert.Equal(t, []string{
		"navigate",
		`has div[role="dialog"]`,
		"click-within",
		"wait img",
		"height",
		"scroll", "height",
		"scroll", "height",
		"html",
	}, page.calls)
	assert.True(t, page.closed)

	assert.Equal(t, []time.Duration{
		cfg.ProfileSettleDelay,
		cfg.DialogPause,
		cfg.ScrollWait,
		cfg.ScrollWait,
	}, rec.delays)
}

func TestNavigatorDialogWithoutButtonClicksBackdrop(t *testing.T) {
	b := newFakeBrowser()
	url := testBase + "/instagram/"
	b.scripts[url] = &pageScript{dialog: true}

	nav, _, _ := newTestNavigator(b)
	_, err := nav.Visit(context.Background(), url, ProfileTarget(config.DefaultConfig().Navigation))
	require.NoError(t, err)

	assert.Equal(t, 1, b.pages[0].count("click-at 10,10"))
}

func TestNavigatorNoDialog(t *testing.T) {
	b := newFakeBrowser()
	url := testBase + "/instagram/"
	b.scripts[url] = &pageScript{}

	nav, rec, _ := newTestNavigator(b)
	cfg := config.DefaultConfig().Navigation
	_, err := nav.Visit(context.Background(), url, ProfileTarget(cfg))
	require.NoError(t, err)

	assert.Zero(t, b.pages[0].count("click-within"))
	assert.Zero(t, b.pages[0].count("click-at 10,10"))
	assert.Equal(t, []time.Duration{cfg.ProfileSettleDelay, cfg.ScrollWait}, rec.delays)
}

func TestNavigatorDialogErrorIsSwallowed(t *testing.T) {
	b := newFakeBrowser()
	url := testBase + "/instagram/"
	b.scripts[url] = &pageScript{hasErr: errors.New("execution context was destroyed")}

	nav, _, log := newTestNavigator(b)
	_, err := nav.Visit(context.Background(), url, ProfileTarget(config.DefaultConfig().Navigation))
	require.NoError(t, err)

	assert.Len(t, log.GetMessagesByLevel("WARN"), 1)
	assert.True(t, log.HasMessage("No login popup dismissed"))
	assert.Equal(t, 1, b.pages[0].count("wait img"))
}

func TestNavigatorScrollStopsWhenHeightSettles(t *testing.T) {
	tests := []struct {
		name        string
		heights     []int
		cycles      int
		wantScrolls int
	}{
		{name: "grows every cycle", heights: []int{1000, 2000, 3000, 4000, 5000}, cycles: 3, wantScrolls: 3},
		{name: "stops after first unchanged height", heights: []int{1000, 2000, 2000}, cycles: 3, wantScrolls: 2},
		{name: "never grows", heights: []int{1000}, cycles: 3, wantScrolls: 1},
		{name: "scrolling disabled", heights: []int{1000, 2000}, cycles: 0, wantScrolls: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newFakeBrowser()
			url := testBase + "/instagram/"
			b.scripts[url] = &pageScript{heights: tt.heights}

			nav, _, _ := newTestNavigator(b)
			target := ProfileTarget(config.DefaultConfig().Navigation)
			target.ScrollCycles = tt.cycles

			_, err := nav.Visit(context.Background(), url, target)
			require.NoError(t, err)
			assert.Equal(t, tt.wantScrolls, b.pages[0].count("scroll"))
		})
	}
}

func TestNavigatorPostTarget(t *testing.T) {
	b := newFakeBrowser()
	b.scripts[postURL(0)] = &pageScript{html: postHTML(1, 2), dialog: true}

	nav, rec, _ := newTestNavigator(b)
	cfg := config.DefaultConfig().Navigation

	_, err := nav.Visit(context.Background(), postURL(0), PostTarget(cfg))
	require.NoError(t, err)

	assert.Equal(t, []string{"navigate", "wait article", "html"}, b.pages[0].calls)
	assert.Equal(t, []time.Duration{cfg.PostSettleDelay}, rec.delays)
}

func TestNavigatorFailures(t *testing.T) {
	tests := []struct {
		name     string
		script   *pageScript
		wantType errs.ErrorType
		notCalls string
	}{
		{
			name:     "navigation error",
			script:   &pageScript{navErr: errors.New("navigation timeout")},
			wantType: errs.ErrorTypeNavigation,
			notCalls: "wait img",
		},
		{
			name:     "readiness timeout",
			script:   &pageScript{readyErr: context.DeadlineExceeded},
			wantType: errs.ErrorTypeReadiness,
			notCalls: "html",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newFakeBrowser()
			url := testBase + "/instagram/"
			b.scripts[url] = tt.script

			nav, _, _ := newTestNavigator(b)
			_, err := nav.Visit(context.Background(), url, ProfileTarget(config.DefaultConfig().Navigation))
			require.Error(t, err)

			assert.True(t, errs.Is(err, tt.wantType), "got %v", err)
			assert.Zero(t, b.pages[0].count(tt.notCalls))
			assert.True(t, b.pages[0].closed)
		})
	}
}

func TestNavigatorCancelledDuringSettle(t *testing.T) {
	b := newFakeBrowser()
	url := testBase + "/instagram/"
	b.scripts[url] = &pageScript{}

	nav, _, _ := newTestNavigator(b)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := nav.Visit(ctx, url, ProfileTarget(config.DefaultConfig().Navigation))
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, b.pages[0].closed)
}
