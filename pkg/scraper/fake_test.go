package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"igprofile/pkg/browser"
)

// pageScript is how a fake page behaves once navigated to a URL
type pageScript struct {
	navErr    error
	readyErr  error
	hasErr    error
	html      string
	dialog    bool
	dialogBtn bool
	heights   []int
}

type fakeBrowser struct {
	mu         sync.Mutex
	scripts    map[string]*pageScript
	onNavigate func(url string)
	pages      []*fakePage
	open       int
	maxOpen    int
	closed     bool
}

func newFakeBrowser() *fakeBrowser {
	return &fakeBrowser{scripts: make(map[string]*pageScript)}
}

func (b *fakeBrowser) launcher() LaunchFunc {
	return func(ctx context.Context) (browser.Browser, error) { return b, nil }
}

func (b *fakeBrowser) NewPage(ctx context.Context) (browser.Page, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p := &fakePage{browser: b}
	b.pages = append(b.pages, p)
	b.open++
	if b.open > b.maxOpen {
		b.maxOpen = b.open
	}
	return p, nil
}

func (b *fakeBrowser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

// visited lists the URLs navigated to, in order
func (b *fakeBrowser) visited() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var urls []string
	for _, p := range b.pages {
		urls = append(urls, p.url)
	}
	return urls
}

type fakePage struct {
	browser   *fakeBrowser
	script    *pageScript
	url       string
	calls     []string
	heightIdx int
	closed    bool
}

func (p *fakePage) record(format string, args ...interface{}) {
	p.calls = append(p.calls, fmt.Sprintf(format, args...))
}

func (p *fakePage) Navigate(url string, timeout time.Duration) error {
	p.url = url
	p.record("navigate")
	if p.browser.onNavigate != nil {
		p.browser.onNavigate(url)
	}

	p.browser.mu.Lock()
	script, ok := p.browser.scripts[url]
	p.browser.mu.Unlock()
	if !ok {
		script = &pageScript{navErr: errors.New("net::ERR_NAME_NOT_RESOLVED")}
	}
	p.script = script
	return script.navErr
}

func (p *fakePage) Has(selector string) (bool, error) {
	p.record("has %s", selector)
	return p.script.dialog, p.script.hasErr
}

func (p *fakePage) ClickWithin(container, target string) (bool, error) {
	p.record("click-within")
	return p.script.dialogBtn, nil
}

func (p *fakePage) ClickAt(x, y float64) error {
	p.record("click-at %.0f,%.0f", x, y)
	return nil
}

func (p *fakePage) WaitForSelector(selector string, timeout time.Duration) error {
	p.record("wait %s", selector)
	return p.script.readyErr
}

func (p *fakePage) ScrollHeight() (int, error) {
	p.record("height")
	if len(p.script.heights) == 0 {
		return 1000, nil
	}
	i := p.heightIdx
	if i >= len(p.script.heights) {
		i = len(p.script.heights) - 1
	}
	p.heightIdx++
	return p.script.heights[i], nil
}

func (p *fakePage) ScrollToBottom() error {
	p.record("scroll")
	return nil
}

func (p *fakePage) HTML() (string, error) {
	p.record("html")
	return p.script.html, nil
}

func (p *fakePage) Close() error {
	p.browser.mu.Lock()
	defer p.browser.mu.Unlock()
	p.closed = true
	p.browser.open--
	return nil
}

func (p *fakePage) count(call string) int {
	n := 0
	for _, c := range p.calls {
		if c == call {
			n++
		}
	}
	return n
}

// sleepRecorder replaces real delays and remembers what was asked for
type sleepRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.delays = append(s.delays, d)
	s.mu.Unlock()
	return ctx.Err()
}

const testBase = "https://www.instagram.com"

func profileHTML(username string, posts int) string {
	var b strings.Builder
	b.WriteString(`<html><head><meta property="og:image" content="https://cdn.example.com/pic.jpg"></head><body><main>`)
	fmt.Fprintf(&b, `<header><h2>%s</h2><section><h1>Test Account</h1>`, username)
	b.WriteString(`<ul><li>123 posts</li><li>4,567 followers</li><li>8 following</li></ul></section></header><article>`)
	for i := 0; i < posts; i++ {
		fmt.Fprintf(&b, `<a href="/p/code%d/"><img src="https://cdn.example.com/t%d.jpg" alt="caption %d"></a>`, i, i, i)
	}
	b.WriteString(`</article></main></body></html>`)
	return b.String()
}

func postHTML(likes, comments int) string {
	return fmt.Sprintf(`<html><head><meta property="og:description" content="%d likes, %d comments - someone on Jan 1"></head><body><article></article></body></html>`, likes, comments)
}

func postURL(i int) string {
	return fmt.Sprintf("%s/p/code%d/", testBase, i)
}
