package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const barWidth = 20

// PostProgress renders "Processing post i/n" lines with a bar while post
// detail pages are fetched
type PostProgress struct {
	mu        sync.Mutex
	username  string
	total     int
	done      int
	failed    int
	startTime time.Time
}

// NewPostProgress creates a tracker for total posts of username
func NewPostProgress(username string, total int) *PostProgress {
	return &PostProgress{
		username:  username,
		total:     total,
		startTime: time.Now(),
	}
}

// Start announces post index (zero-based) before it is fetched
func (p *PostProgress) Start(index int, url string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	printf("\r%s\r%s %s %s", strings.Repeat(" ", 100), p.bar(), Dim(fmt.Sprintf("Processing post %d/%d:", index+1, p.total)), url)
}

// Complete marks one post as read
func (p *PostProgress) Complete() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++
}

// Fail marks one post as unreadable
func (p *PostProgress) Fail(url string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done++
	p.failed++
	printf("\n%s %s: %v\n", Red("✗"), url, err)
}

// Finish prints the summary line
func (p *PostProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	elapsed := time.Since(p.startTime).Round(time.Second)
	line := fmt.Sprintf("%d/%d posts in %s", p.done-p.failed, p.total, elapsed)
	if p.failed > 0 {
		line += " • " + Red(fmt.Sprintf("%d failed", p.failed))
	}
	printf("\r%s\r%s %s\n", strings.Repeat(" ", 100), Green("✓"), line)
}

// Counts returns the posts processed and the posts that failed
func (p *PostProgress) Counts() (done, failed int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done, p.failed
}

func (p *PostProgress) bar() string {
	filled := 0
	if p.total > 0 {
		filled = p.done * barWidth / p.total
	}
	return Cyan(p.username) + " [" + strings.Repeat("━", filled) + strings.Repeat("─", barWidth-filled) + "]"
}
