package stripewebhook

import (
	"regexp"
	"strings"
)

// FallbackArtworkURL is printed when session metadata carries no file URL.
const FallbackArtworkURL = "https://drive.google.com/uc?export=download&id=1b-f2b6WN17REvm0I3kr4kXNgr2-QZ89K"

var driveFileRe = regexp.MustCompile(`/file/d/([a-zA-Z0-9_-]+)`)

// RewriteDriveURL converts a Google Drive share link into its direct-download
// form. The fulfillment provider's file fetcher cannot follow interactive
// share pages. Non-Drive URLs pass through unchanged.
func RewriteDriveURL(url string) string {
	if !strings.Contains(url, "drive.google.com/file/d/") {
		return url
	}
	match := driveFileRe.FindStringSubmatch(url)
	if len(match) < 2 {
		return url
	}
	return "https://drive.google.com/uc?export=download&id=" + match[1]
}

// ResolveArtworkURL picks the production file URL for an order: session
// metadata first, then the fallback, with Drive share links rewritten.
func ResolveArtworkURL(metadata map[string]string) string {
	url := strings.TrimSpace(metadata["printful_file_url"])
	if url == "" {
		url = FallbackArtworkURL
	}
	return RewriteDriveURL(url)
}
