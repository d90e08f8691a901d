package extract

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"igprofile/pkg/instagram"
	"igprofile/pkg/models"
)

const (
	profilePicSelector = `img[alt*="profile picture"], img[alt*="Profile photo"]`
	fullNameSelector   = `header h1, section h1`
	statsSelector      = `header section ul li, section > ul > li`
	postLinkSelector   = `article a[href*="/p/"], main article a[href*="/p/"]`

	// maxGridPosts caps the posts read from the first screen of the grid.
	maxGridPosts = 12
)

// Positional guesses for the display name, tried after the heading and
// og:title rules.
var fullNameFallbacks = []string{
	`header section div > span`,
	`header section > div:first-child > span`,
	`section > div:first-child > span`,
}

var ogTitleNamePattern = regexp.MustCompile(`^([^(]+)`)

// Options tunes profile and post extraction.
type Options struct {
	// MaxPosts caps the number of grid links considered, at most 12.
	MaxPosts int
	// ExpandStatSuffixes multiplies header statistics by their K/M/B suffix.
	ExpandStatSuffixes bool
	// BaseURL is prepended to relative post links.
	BaseURL string
	// MaxLikes and MaxComments bound values accepted from visible text.
	MaxLikes    int
	MaxComments int
}

// DefaultOptions returns the settings used by the CLI when no config is given.
func DefaultOptions() Options {
	return Options{
		MaxPosts:    12,
		BaseURL:     instagram.BaseURL,
		MaxLikes:    100_000_000,
		MaxComments: 10_000_000,
	}
}

// Identity is what a bio strategy may need to know about the profile.
type Identity struct {
	Username string
	FullName string
}

// BioStrategy returns a bio candidate from doc, or "" to defer to the next.
type BioStrategy func(doc *goquery.Document, id Identity) string

// DefaultBioStrategies tries the main section spans first, then walks the
// header from the name.
var DefaultBioStrategies = []BioStrategy{BioFromMainSection, BioFromHeaderWalk}

// ProfileExtractor turns a rendered profile page into a models.Profile.
type ProfileExtractor struct {
	opts Options
	bios []BioStrategy
}

// NewProfileExtractor creates an extractor with the default bio strategies.
func NewProfileExtractor(opts Options) *ProfileExtractor {
	return &ProfileExtractor{opts: opts, bios: DefaultBioStrategies}
}

// WithBioStrategies replaces the ordered bio strategy list.
func (e *ProfileExtractor) WithBioStrategies(strategies ...BioStrategy) *ProfileExtractor {
	e.bios = strategies
	return e
}

// Extract reads every profile field from html, the DOM serialized after
// navigation. pageURL is the address the page was loaded from. Missing fields
// keep their zero value; only unparsable markup is an error.
func (e *ProfileExtractor) Extract(html, pageURL string) (*models.Profile, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse profile page: %w", err)
	}

	base, _ := url.Parse(pageURL)
	segment := firstPathSegment(base)

	p := &models.Profile{}
	p.ProfilePicURL = profilePicture(doc, base)
	p.Username = username(doc, segment)
	p.FullName = fullName(doc)
	p.PostsCount, p.FollowersCount, p.FollowingCount = headerStats(doc, e.opts.ExpandStatSuffixes)

	id := Identity{Username: p.Username, FullName: p.FullName}
	for _, strategy := range e.bios {
		if bio := strategy(doc, id); bio != "" {
			p.Bio = bio
			break
		}
	}

	p.Posts = e.posts(doc, base)
	return p, nil
}

func profilePicture(doc *goquery.Document, base *url.URL) string {
	if src, ok := doc.Find(profilePicSelector).First().Attr("src"); ok {
		return resolve(base, src)
	}
	content, _ := doc.Find(`meta[property="og:image"]`).First().Attr("content")
	return content
}

func username(doc *goquery.Document, segment string) string {
	selector := "h2, header h2"
	if segment != "" {
		selector += fmt.Sprintf(`, a[href*="/%s/"]`, segment)
	}

	if sel := doc.Find(selector).First(); sel.Length() > 0 {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			return text
		}
	}
	return segment
}

func fullName(doc *goquery.Document) string {
	if name := strings.TrimSpace(doc.Find(fullNameSelector).First().Text()); name != "" {
		return name
	}

	if title, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		if m := ogTitleNamePattern.FindStringSubmatch(title); m != nil {
			if name := strings.TrimSpace(m[1]); name != "" {
				return name
			}
		}
	}

	for _, selector := range fullNameFallbacks {
		if name := strings.TrimSpace(doc.Find(selector).First().Text()); name != "" {
			return name
		}
	}
	return ""
}

// headerStats classifies each stats item by keyword. An item mentioning
// "post" is never read as a follower count, and "follower" wins over
// "following".
func headerStats(doc *goquery.Document, expand bool) (posts, followers, following int) {
	doc.Find(statsSelector).Each(func(_ int, item *goquery.Selection) {
		text := strings.TrimSpace(item.Text())
		switch {
		case strings.Contains(text, "post") || strings.Contains(text, "Post"):
			posts = ParseStatCount(text, expand)
		case strings.Contains(text, "follower") || strings.Contains(text, "Follower"):
			followers = ParseStatCount(text, expand)
		case strings.Contains(text, "following") || strings.Contains(text, "Following"):
			following = ParseStatCount(text, expand)
		}
	})
	return posts, followers, following
}

func mentionsStat(text string) bool {
	return strings.Contains(text, "post") ||
		strings.Contains(text, "follower") ||
		strings.Contains(text, "following")
}

// BioFromMainSection picks the first span of the first main section that is
// outside the stats list and is neither the name nor a statistic.
func BioFromMainSection(doc *goquery.Document, id Identity) string {
	section := doc.Find("main section").First()
	if section.Length() == 0 {
		return ""
	}
	stats := section.Find("ul").First()

	var bio string
	section.Find("span").EachWithBreak(func(_ int, span *goquery.Selection) bool {
		if stats.Length() > 0 && stats.Contains(span.Get(0)) {
			return true
		}
		raw := span.Text()
		if id.Username != "" && strings.Contains(raw, id.Username) {
			return true
		}
		text := strings.TrimSpace(raw)
		if text == "" || text == id.FullName || text == id.Username || mentionsStat(text) {
			return true
		}
		bio = text
		return false
	})
	return bio
}

// BioFromHeaderWalk scans header elements in document order and returns the
// first non-statistic text that follows the username or full name.
func BioFromHeaderWalk(doc *goquery.Document, id Identity) string {
	header := doc.Find("header").First()
	if header.Length() == 0 {
		return ""
	}

	var (
		bio       string
		foundName bool
	)
	header.Find("div, span, p").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		text := strings.TrimSpace(el.Text())
		if text == "" {
			return true
		}
		if text == id.Username || text == id.FullName {
			foundName = true
			return true
		}
		if foundName && !mentionsStat(text) {
			bio = text
			return false
		}
		return true
	})
	return bio
}

func (e *ProfileExtractor) posts(doc *goquery.Document, base *url.URL) []models.Post {
	limit := e.opts.MaxPosts
	if limit <= 0 || limit > maxGridPosts {
		limit = maxGridPosts
	}

	posts := make([]models.Post, 0, limit)
	doc.Find(postLinkSelector).EachWithBreak(func(i int, link *goquery.Selection) bool {
		if i >= limit {
			return false
		}

		img := link.Find("img").First()
		src, _ := img.Attr("src")
		if strings.TrimSpace(src) == "" {
			return true
		}
		alt, _ := img.Attr("alt")
		href, _ := link.Attr("href")

		posts = append(posts, models.Post{
			ID:           fmt.Sprintf("post-%d", i),
			URL:          instagram.PostURL(e.opts.BaseURL, href),
			ThumbnailURL: resolve(base, src),
			Caption:      alt,
		})
		return true
	})
	return posts
}

func firstPathSegment(u *url.URL) string {
	if u == nil {
		return ""
	}
	parts := strings.Split(u.Path, "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// resolve makes ref absolute against base, the way a browser reports img.src.
func resolve(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if base == nil || ref == "" {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(r).String()
}
