package instagram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfileURL(t *testing.T) {
	assert.Equal(t, "https://www.instagram.com/instagram/", ProfileURL("", "instagram"))
	assert.Equal(t, "http://127.0.0.1:8080/natgeo/", ProfileURL("http://127.0.0.1:8080/", "natgeo"))
	assert.Empty(t, ProfileURL("", ""))
}

func TestPostURL(t *testing.T) {
	tests := []struct {
		name, base, href, want string
	}{
		{"relative link", "", "/p/CxYz123/", "https://www.instagram.com/p/CxYz123/"},
		{"custom base", "http://127.0.0.1:8080/", "/p/AAA/", "http://127.0.0.1:8080/p/AAA/"},
		{"missing leading slash", "http://127.0.0.1:8080", "p/AAA/", "http://127.0.0.1:8080/p/AAA/"},
		{"absolute link", "http://127.0.0.1:8080", "https://www.instagram.com/p/BBB/", "https://www.instagram.com/p/BBB/"},
		{"empty link", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PostURL(tt.base, tt.href))
		})
	}
}

func TestIsValidUsername(t *testing.T) {
	tests := []struct {
		username string
		want     bool
	}{
		{"instagram", true},
		{"nat.geo_2024", true},
		{"", false},
		{"has space", false},
		{"dash-name", false},
		{"emoji😀", false},
		{strings.Repeat("a", 30), true},
		{strings.Repeat("a", 31), false},
	}

	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidUsername(tt.username))
		})
	}
}

func TestSanitizeUsername(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"instagram", "instagram"},
		{"@instagram", "instagram"},
		{"instagram/", "instagram"},
		{"  @natgeo//  ", "natgeo"},
		{"https://www.instagram.com/natgeo/", "natgeo"},
		{"https://instagram.com/natgeo?hl=en", "natgeo"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeUsername(tt.input))
		})
	}
}
