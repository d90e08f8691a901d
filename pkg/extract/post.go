package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"igprofile/pkg/models"
)

const (
	engagementTextSelector = `span, div, a, button`
	commentListSelector    = `[aria-label*="omment"]`
	siblingWalkSelector    = `span, div`
)

// PostRule inspects a parsed post page and updates counts. done stops the
// remaining rules.
type PostRule func(doc *goquery.Document, counts *models.Counts, opts Options) (done bool)

// DefaultPostRules are ordered from most to least trusted.
var DefaultPostRules = []PostRule{
	MetaDescriptionRule,
	MetaTitleRule,
	VisibleTextRule,
	CommentListRule,
	SiblingWalkRule,
}

// PostExtractor recovers like and comment counts from a post detail page.
type PostExtractor struct {
	opts  Options
	rules []PostRule
}

// NewPostExtractor creates an extractor using DefaultPostRules.
func NewPostExtractor(opts Options) *PostExtractor {
	return &PostExtractor{opts: opts, rules: DefaultPostRules}
}

// WithRules replaces the ordered rule list.
func (e *PostExtractor) WithRules(rules ...PostRule) *PostExtractor {
	e.rules = rules
	return e
}

// Extract applies the rules to html. Counts that no rule resolves stay zero.
func (e *PostExtractor) Extract(html string) (models.Counts, error) {
	var counts models.Counts

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return counts, fmt.Errorf("failed to parse post page: %w", err)
	}

	for _, rule := range e.rules {
		if rule(doc, &counts, e.opts) {
			break
		}
	}
	return counts, nil
}

func metaEngagement(doc *goquery.Document, property string, counts *models.Counts) bool {
	content, ok := doc.Find(fmt.Sprintf(`meta[property="%s"]`, property)).First().Attr("content")
	if !ok {
		return false
	}
	likes, comments, ok := ParseEngagement(content)
	if !ok {
		return false
	}
	counts.Likes, counts.Comments = likes, comments
	return true
}

// MetaDescriptionRule reads "<n> likes, <m> comments" from og:description.
func MetaDescriptionRule(doc *goquery.Document, counts *models.Counts, _ Options) bool {
	return metaEngagement(doc, "og:description", counts)
}

// MetaTitleRule reads the same pattern from og:title.
func MetaTitleRule(doc *goquery.Document, counts *models.Counts, _ Options) bool {
	return metaEngagement(doc, "og:title", counts)
}

// VisibleTextRule keeps the largest plausible number found next to the word
// "like" (and separately "comment") in visible text.
func VisibleTextRule(doc *goquery.Document, counts *models.Counts, opts Options) bool {
	doc.Find(engagementTextSelector).Each(func(_ int, el *goquery.Selection) {
		text := strings.ToLower(strings.TrimSpace(el.Text()))
		hasLike := strings.Contains(text, "like")
		hasComment := strings.Contains(text, "comment")

		switch {
		case hasLike && !hasComment:
			if n, ok := ParseCompactCount(text); ok && n > counts.Likes && n < opts.MaxLikes {
				counts.Likes = n
			}
		case hasComment && !hasLike:
			if n, ok := ParseCompactCount(text); ok && n > counts.Comments && n < opts.MaxComments {
				counts.Comments = n
			}
		}
	})
	return false
}

// CommentListRule counts the list items of the first comment container,
// minus the caption row.
func CommentListRule(doc *goquery.Document, counts *models.Counts, _ Options) bool {
	if counts.Comments != 0 {
		return false
	}
	container := doc.Find(commentListSelector).First()
	if container.Length() == 0 {
		return false
	}
	if n := container.Find("li").Length() - 1; n > 0 {
		counts.Comments = n
	}
	return false
}

// SiblingWalkRule starts at the first element mentioning "like" and takes
// the first number from a following sibling that does not.
func SiblingWalkRule(doc *goquery.Document, counts *models.Counts, _ Options) bool {
	if counts.Comments != 0 {
		return false
	}

	var anchor *goquery.Selection
	doc.Find(siblingWalkSelector).EachWithBreak(func(_ int, el *goquery.Selection) bool {
		if strings.Contains(strings.ToLower(el.Text()), "like") {
			anchor = el
			return false
		}
		return true
	})
	if anchor == nil {
		return false
	}

	anchor.NextAll().EachWithBreak(func(_ int, sib *goquery.Selection) bool {
		text := strings.ToLower(sib.Text())
		if firstDigitsPattern.MatchString(text) && !strings.Contains(text, "like") {
			counts.Comments = FirstInt(text)
			return false
		}
		return true
	})
	return false
}
