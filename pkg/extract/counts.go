package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	statNumberPattern    = regexp.MustCompile(`[\d,.]+`)
	compactNumberPattern = regexp.MustCompile(`(?i)(\d[\d,]*(?:\.\d+)?)\s?([km])?\b`)
	firstDigitsPattern   = regexp.MustCompile(`\d+`)
	engagementPattern    = regexp.MustCompile(`(?i)([\d][\d.,]*[km]?)\s+likes?,\s*([\d][\d.,]*[km]?)\s+comments?`)
)

var suffixMultipliers = map[byte]float64{
	'k': 1_000,
	'm': 1_000_000,
	'b': 1_000_000_000,
}

// ParseStatCount reads a header statistic such as "1,234 posts". It takes the
// first run of digits, commas and dots, drops the commas and keeps the integer
// part, so "5M posts" is 5 and "1.2K followers" is 1. With expandSuffix the
// K, M or B letter right after the number multiplies it instead.
func ParseStatCount(text string, expandSuffix bool) int {
	loc := statNumberPattern.FindStringIndex(text)
	if loc == nil {
		return 0
	}
	numeric := strings.ReplaceAll(text[loc[0]:loc[1]], ",", "")

	if expandSuffix && loc[1] < len(text) {
		if mult, ok := suffixMultipliers[lower(text[loc[1]])]; ok {
			if f, err := strconv.ParseFloat(strings.TrimRight(numeric, "."), 64); err == nil {
				return int(math.Round(f * mult))
			}
		}
	}

	return leadingInt(numeric)
}

// ParseCompactCount parses the first number in text with an optional K or M
// suffix ("2.5k likes" is 2500). The suffix must end its word, so the m of
// "5 more" is not a unit. ok is false when text has no digits.
func ParseCompactCount(text string) (n int, ok bool) {
	m := compactNumberPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}

	f, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0, false
	}
	if m[2] != "" {
		f *= suffixMultipliers[lower(m[2][0])]
	}
	return int(math.Round(f)), true
}

// FirstInt returns the first run of plain digits in text, or 0.
func FirstInt(text string) int {
	return leadingInt(firstDigitsPattern.FindString(text))
}

// ParseEngagement matches "<likes> likes, <comments> comments" anywhere in
// text, e.g. the og:description of a post page.
func ParseEngagement(text string) (likes, comments int, ok bool) {
	m := engagementPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, 0, false
	}
	likes, _ = ParseCompactCount(m[1])
	comments, _ = ParseCompactCount(m[2])
	return likes, comments, true
}

// leadingInt parses the digits at the start of s and ignores the rest.
func leadingInt(s string) int {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
