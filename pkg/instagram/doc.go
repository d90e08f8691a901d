// Package instagram holds the Instagram-specific addressing rules and the
// HTTP client used for optional media downloads.
//
// Handles typed by the operator go through SanitizeUsername and
// IsValidUsername before a browser is launched; ProfileURL builds the page
// the navigator loads. Client.DownloadMedia fetches profile pictures and post
// thumbnails with retry on transport errors, 429 and 5xx responses.
package instagram
