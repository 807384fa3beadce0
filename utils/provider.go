package utils

import (
	"net/url"
	"strings"
)

// InferProvider tags a resource URL with the provider it points at so the
// frontend can pick an icon. Unknown hosts fall back to "link".
func InferProvider(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "link"
	}

	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	switch {
	case host == "youtu.be" || strings.HasSuffix(host, "youtube.com"):
		return "youtube"
	case strings.HasSuffix(host, "vimeo.com"):
		return "vimeo"
	case strings.HasSuffix(host, "loom.com"):
		return "loom"
	case host == "drive.google.com" || host == "docs.google.com":
		return "google-drive"
	case strings.HasSuffix(host, "dropbox.com"):
		return "dropbox"
	case strings.HasSuffix(host, "notion.so") || strings.HasSuffix(host, "notion.site"):
		return "notion"
	case strings.HasSuffix(strings.ToLower(u.Path), ".pdf"):
		return "pdf"
	}
	return "link"
}
