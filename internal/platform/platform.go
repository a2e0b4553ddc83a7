// Package platform resolves which video service a URL belongs to and
// whether that service is enabled for ingestion.
package platform

import (
	"net/url"
	"strings"
)

type Platform string

const (
	YouTube   Platform = "youtube"
	Instagram Platform = "instagram"
	Twitter   Platform = "twitter"
	Facebook  Platform = "facebook"
	TikTok    Platform = "tiktok"
	Unknown   Platform = "unknown"
)

// Host fragments are matched by substring so subdomains (www., m.,
// mobile.) and regional variants resolve without enumerating them all.
var platformByHostFragment = []struct {
	fragment string
	platform Platform
}{
	{"youtube.com", YouTube},
	{"youtu.be", YouTube},
	{"instagram.com", Instagram},
	{"twitter.com", Twitter},
	{"x.com", Twitter},
	{"facebook.com", Facebook},
	{"fb.com", Facebook},
	{"tiktok.com", TikTok},
}

// Resolve maps a URL to the platform that hosts it. Unparseable URLs
// and unrecognized hosts resolve to Unknown.
func Resolve(rawURL string) Platform {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return Unknown
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return Unknown
	}

	for _, entry := range platformByHostFragment {
		if strings.Contains(host, entry.fragment) {
			return entry.platform
		}
	}
	return Unknown
}

// DefaultAllowList covers every platform we know how to ingest.
func DefaultAllowList() map[Platform]bool {
	return map[Platform]bool{
		YouTube:   true,
		Instagram: true,
		Twitter:   true,
		Facebook:  true,
		TikTok:    true,
	}
}

// ParseAllowList parses a comma-separated platform list (e.g. from
// ALLOWED_PLATFORMS). Entries are trimmed and lowercased. An empty
// string yields the default allow-list.
func ParseAllowList(csv string) map[Platform]bool {
	if strings.TrimSpace(csv) == "" {
		return DefaultAllowList()
	}

	allow := make(map[Platform]bool)
	for _, part := range strings.Split(csv, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		allow[Platform(name)] = true
	}
	return allow
}

// Allowed reports whether p is a member of the allow-list.
func Allowed(p Platform, allow map[Platform]bool) bool {
	return allow[p]
}
