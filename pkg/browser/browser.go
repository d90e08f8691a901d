package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"igprofile/pkg/config"
	"igprofile/pkg/logger"
)

const (
	clickTimeout = 5 * time.Second
	evalTimeout  = 10 * time.Second
)

// Page is one browser tab, driven by the navigator.
type Page interface {
	// Navigate loads url and returns once the network has gone idle
	Navigate(url string, timeout time.Duration) error
	// Has reports whether selector currently matches an element
	Has(selector string) (bool, error)
	// ClickWithin clicks the first target inside the first container
	// match. It reports false when either is missing.
	ClickWithin(container, target string) (bool, error)
	// ClickAt clicks the viewport at (x, y)
	ClickAt(x, y float64) error
	// WaitForSelector blocks until selector matches or timeout elapses
	WaitForSelector(selector string, timeout time.Duration) error
	ScrollHeight() (int, error)
	ScrollToBottom() error
	// HTML serializes the current DOM
	HTML() (string, error)
	Close() error
}

// Browser opens tabs that share one isolated browser process.
type Browser interface {
	NewPage(ctx context.Context) (Page, error)
	Close() error
}

// Options configures a browser session
type Options struct {
	Headless   bool
	NoSandbox  bool
	Stealth    bool
	UserAgent  string
	Width      int
	Height     int
	BinPath    string
	IdleWindow time.Duration
}

// OptionsFromConfig maps the browser and navigation config sections
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Headless:   cfg.Browser.Headless,
		NoSandbox:  cfg.Browser.NoSandbox,
		Stealth:    cfg.Browser.Stealth,
		UserAgent:  cfg.Browser.UserAgent,
		Width:      cfg.Browser.ViewportWidth,
		Height:     cfg.Browser.ViewportHeight,
		BinPath:    cfg.Browser.BinPath,
		IdleWindow: cfg.Navigation.IdleWindow,
	}
}

// Session is a launched browser process
type Session struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	opts     Options
	logger   logger.Logger
}

// Launch starts a fresh browser with its own profile directory
func Launch(ctx context.Context, opts Options, log logger.Logger) (*Session, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	l := launcher.New().
		Context(ctx).
		Headless(opts.Headless).
		NoSandbox(opts.NoSandbox)
	if opts.NoSandbox {
		l = l.Set("disable-setuid-sandbox")
	}
	if opts.BinPath != "" {
		l = l.Bin(opts.BinPath)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	logger.LogComponentStart("browser", map[string]interface{}{
		"headless": opts.Headless,
		"stealth":  opts.Stealth,
		"viewport": fmt.Sprintf("%dx%d", opts.Width, opts.Height),
	})

	return &Session{launcher: l, browser: b, opts: opts, logger: log}, nil
}

// NewPage opens a tab with the session's user agent and viewport. The tab is
// bound to ctx.
func (s *Session) NewPage(ctx context.Context) (Page, error) {
	var (
		p   *rod.Page
		err error
	)
	if s.opts.Stealth {
		p, err = stealth.Page(s.browser)
	} else {
		p, err = s.browser.Page(proto.TargetCreateTarget{})
	}
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	p = p.Context(ctx)

	if s.opts.Width > 0 && s.opts.Height > 0 {
		if err := p.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
			Width:             s.opts.Width,
			Height:            s.opts.Height,
			DeviceScaleFactor: 1,
		}); err != nil {
			_ = p.Close()
			return nil, fmt.Errorf("set viewport: %w", err)
		}
	}

	if s.opts.UserAgent != "" {
		if err := p.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: s.opts.UserAgent}); err != nil {
			_ = p.Close()
			return nil, fmt.Errorf("set user agent: %w", err)
		}
	}

	idle := s.opts.IdleWindow
	if idle <= 0 {
		idle = 500 * time.Millisecond
	}
	return &rodPage{page: p, idle: idle}, nil
}

// Close shuts the browser down and removes its profile directory
func (s *Session) Close() error {
	err := s.browser.Close()
	s.launcher.Cleanup()
	logger.LogComponentStop("browser", "session closed")
	if err != nil {
		return fmt.Errorf("close browser: %w", err)
	}
	return nil
}

type rodPage struct {
	page *rod.Page
	idle time.Duration
}

func (p *rodPage) Navigate(url string, timeout time.Duration) error {
	pg := p.page.Timeout(timeout)
	defer pg.CancelTimeout()

	wait := pg.WaitRequestIdle(p.idle, nil, nil, nil)
	if err := pg.Navigate(url); err != nil {
		return err
	}
	wait()
	return pg.GetContext().Err()
}

func (p *rodPage) Has(selector string) (bool, error) {
	has, _, err := p.page.Has(selector)
	return has, err
}

func (p *rodPage) ClickWithin(container, target string) (bool, error) {
	has, parent, err := p.page.Has(container)
	if err != nil || !has {
		return false, err
	}

	has, el, err := parent.Has(target)
	if err != nil || !has {
		return false, err
	}

	return true, withTimeout(el, clickTimeout, func(el *rod.Element) error {
		return el.Click(proto.InputMouseButtonLeft, 1)
	})
}

func (p *rodPage) ClickAt(x, y float64) error {
	if err := p.page.Mouse.MoveTo(proto.Point{X: x, Y: y}); err != nil {
		return err
	}
	return p.page.Mouse.Click(proto.InputMouseButtonLeft, 1)
}

func (p *rodPage) WaitForSelector(selector string, timeout time.Duration) error {
	pg := p.page.Timeout(timeout)
	defer pg.CancelTimeout()

	_, err := pg.Element(selector)
	return err
}

func (p *rodPage) ScrollHeight() (int, error) {
	var height int
	err := withTimeout(p.page, evalTimeout, func(pg *rod.Page) error {
		res, err := pg.Eval(`() => document.body.scrollHeight`)
		if err != nil {
			return err
		}
		height = res.Value.Int()
		return nil
	})
	return height, err
}

func (p *rodPage) ScrollToBottom() error {
	return withTimeout(p.page, evalTimeout, func(pg *rod.Page) error {
		_, err := pg.Eval(`() => window.scrollTo(0, document.body.scrollHeight)`)
		return err
	})
}

func (p *rodPage) HTML() (string, error) {
	var html string
	err := withTimeout(p.page, evalTimeout, func(pg *rod.Page) error {
		var err error
		html, err = pg.HTML()
		return err
	})
	return html, err
}

// timeoutScoped is implemented by *rod.Page and *rod.Element.
type timeoutScoped[T any] interface {
	Timeout(time.Duration) T
	CancelTimeout() T
}

// withTimeout runs fn against v bounded by d and releases the deadline's
// timer when fn returns.
func withTimeout[T timeoutScoped[T]](v T, d time.Duration, fn func(T) error) error {
	scoped := v.Timeout(d)
	defer scoped.CancelTimeout()
	return fn(scoped)
}

func (p *rodPage) Close() error {
	return p.page.Close()
}
