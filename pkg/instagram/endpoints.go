package instagram

import (
	"fmt"
	"strings"
)

const (
	// BaseURL is the web origin every profile and post link is resolved against
	BaseURL = "https://www.instagram.com"

	// DefaultUsername is scraped when no handle is given
	DefaultUsername = "instagram"

	maxUsernameLength = 30
)

// ProfileURL returns the public profile page for username under base.
// An empty base means BaseURL.
func ProfileURL(base, username string) string {
	if username == "" {
		return ""
	}
	if base == "" {
		base = BaseURL
	}
	return fmt.Sprintf("%s/%s/", strings.TrimRight(base, "/"), username)
}

// PostURL makes a post link taken from a profile grid absolute under base.
// Absolute links pass through; an empty base means BaseURL.
func PostURL(base, href string) string {
	if href == "" || strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if base == "" {
		base = BaseURL
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(href, "/")
}

// IsValidUsername checks if a username is valid according to Instagram rules
func IsValidUsername(username string) bool {
	if username == "" || len(username) > maxUsernameLength {
		return false
	}

	// letters, digits, periods and underscores only
	for _, char := range username {
		if !((char >= 'a' && char <= 'z') ||
			(char >= 'A' && char <= 'Z') ||
			(char >= '0' && char <= '9') ||
			char == '.' || char == '_') {
			return false
		}
	}
	return true
}

// SanitizeUsername strips surrounding spaces, a leading @ and trailing
// slashes, and reduces a pasted profile URL to its handle.
func SanitizeUsername(username string) string {
	username = strings.TrimSpace(username)
	if i := strings.Index(username, "instagram.com/"); i >= 0 {
		username = username[i+len("instagram.com/"):]
		if j := strings.IndexAny(username, "?#"); j >= 0 {
			username = username[:j]
		}
	}
	username = strings.TrimPrefix(username, "@")
	username = strings.TrimRight(username, "/ ")
	return username
}
