package scraper

import (
	"context"
	"fmt"
	"time"

	"igprofile/pkg/browser"
	"igprofile/pkg/config"
	errs "igprofile/pkg/errors"
	"igprofile/pkg/logger"
	"igprofile/pkg/retry"
)

const (
	dialogSelector = `div[role="dialog"]`
	dialogClose    = "button"
)

// backdrop coordinates clicked when a dialog has no button
const backdropX, backdropY = 10, 10

// Target describes how a page is brought to an extractable state.
type Target struct {
	Name          string
	ReadySelector string
	ReadyTimeout  time.Duration
	SettleDelay   time.Duration
	DismissDialog bool
	ScrollCycles  int
	ScrollWait    time.Duration
}

// ProfileTarget waits for the first image, dismisses the login dialog and
// scrolls to load more grid tiles.
func ProfileTarget(cfg config.NavigationConfig) Target {
	return Target{
		Name:          "profile",
		ReadySelector: "img",
		ReadyTimeout:  cfg.ProfileReadyTimeout,
		SettleDelay:   cfg.ProfileSettleDelay,
		DismissDialog: true,
		ScrollCycles:  cfg.ScrollCycles,
		ScrollWait:    cfg.ScrollWait,
	}
}

// PostTarget waits for the post article only.
func PostTarget(cfg config.NavigationConfig) Target {
	return Target{
		Name:          "post",
		ReadySelector: "article",
		ReadyTimeout:  cfg.PostReadyTimeout,
		SettleDelay:   cfg.PostSettleDelay,
	}
}

// Navigator loads pages in fresh tabs and returns their DOM.
type Navigator struct {
	browser     browser.Browser
	timeout     time.Duration
	dialogPause time.Duration
	logger      logger.Logger
	sleep       func(ctx context.Context, d time.Duration) error
}

// NewNavigator creates a navigator over b
func NewNavigator(b browser.Browser, cfg config.NavigationConfig, log logger.Logger) *Navigator {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Navigator{
		browser:     b,
		timeout:     cfg.Timeout,
		dialogPause: cfg.DialogPause,
		logger:      log,
		sleep:       retry.Wait,
	}
}

// Visit opens a tab, prepares url according to t and returns the serialized
// DOM. The tab is closed before Visit returns.
func (n *Navigator) Visit(ctx context.Context, url string, t Target) (string, error) {
	page, err := n.browser.NewPage(ctx)
	if err != nil {
		return "", errs.New(errs.ErrorTypeNavigation, "failed to open page", err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			n.logger.WithError(err).WithField("url", url).Debug("Failed to close page")
		}
	}()

	if err := n.Navigate(ctx, page, url, t); err != nil {
		return "", err
	}

	html, err := page.HTML()
	if err != nil {
		return "", errs.New(errs.ErrorTypeEvaluation, "failed to read page content", err)
	}
	return html, nil
}

// Navigate drives page to url and waits until it matches t.
func (n *Navigator) Navigate(ctx context.Context, page browser.Page, url string, t Target) error {
	start := time.Now()
	err := page.Navigate(url, n.timeout)
	logger.LogNavigation(url, time.Since(start), err)
	if err != nil {
		return errs.New(errs.ErrorTypeNavigation, fmt.Sprintf("failed to load %s", url), err)
	}

	if err := n.sleep(ctx, t.SettleDelay); err != nil {
		return err
	}

	if t.DismissDialog {
		if err := n.dismissDialog(ctx, page); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			n.logger.WithError(err).
				WithField("severity", errs.Classify(errs.StageDialog, err).String()).
				Warn("No login popup dismissed")
		}
	}

	if t.ReadySelector != "" {
		if err := page.WaitForSelector(t.ReadySelector, t.ReadyTimeout); err != nil {
			return errs.New(errs.ErrorTypeReadiness,
				fmt.Sprintf("%q did not appear within %s", t.ReadySelector, t.ReadyTimeout), err)
		}
	}

	return n.scroll(ctx, page, t)
}

// dismissDialog closes the first dialog overlay, preferring its own button
// over a click on the backdrop.
func (n *Navigator) dismissDialog(ctx context.Context, page browser.Page) error {
	has, err := page.Has(dialogSelector)
	if err != nil || !has {
		return err
	}

	clicked, err := page.ClickWithin(dialogSelector, dialogClose)
	if err != nil {
		return err
	}
	if !clicked {
		if err := page.ClickAt(backdropX, backdropY); err != nil {
			return err
		}
	}

	n.logger.Debug("Dismissed dialog overlay")
	return n.sleep(ctx, n.dialogPause)
}

// scroll repeats scroll-to-bottom up to t.ScrollCycles times and stops as
// soon as the document stops growing.
func (n *Navigator) scroll(ctx context.Context, page browser.Page, t Target) error {
	if t.ScrollCycles <= 0 {
		return nil
	}

	previous, err := page.ScrollHeight()
	if err != nil {
		return errs.New(errs.ErrorTypeEvaluation, "failed to read page height", err)
	}

	for i := 0; i < t.ScrollCycles; i++ {
		if err := page.ScrollToBottom(); err != nil {
			return errs.New(errs.ErrorTypeEvaluation, "failed to scroll page", err)
		}
		if err := n.sleep(ctx, t.ScrollWait); err != nil {
			return err
		}

		height, err := page.ScrollHeight()
		if err != nil {
			return errs.New(errs.ErrorTypeEvaluation, "failed to read page height", err)
		}
		if height == previous {
			break
		}
		previous = height
	}
	return nil
}
