package platform

import (
	"errors"
	"net/url"
	"strings"
)

// Host aliases collapsed before storage. Key: input host. Value: the
// canonical host we record. Only hosts that are truly the same site
// from a user perspective are aliased.
var canonicalHostAlias = map[string]string{
	"www.youtube.com":     "youtube.com",
	"m.youtube.com":       "youtube.com",
	"www.instagram.com":   "instagram.com",
	"x.com":               "twitter.com",
	"www.x.com":           "twitter.com",
	"www.twitter.com":     "twitter.com",
	"mobile.twitter.com":  "twitter.com",
	"www.facebook.com":    "facebook.com",
	"m.facebook.com":      "facebook.com",
	"fb.com":              "facebook.com",
	"www.fb.com":          "facebook.com",
	"www.tiktok.com":      "tiktok.com",
	"vm.tiktok.com":       "tiktok.com",
}

// NormalizeURL normalizes a user-provided video URL for stable storage
// and deduplication. It strips fragments and userinfo, upgrades http to
// https, collapses known host aliases, and rewrites YouTube shortlink
// and shorts/embed forms to the plain watch?v= form.
//
// Unknown hosts keep their query string untouched so yt-dlp still sees
// whatever the extractor needs.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("empty url")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	u.Fragment = ""
	u.User = nil
	if u.Scheme == "http" {
		u.Scheme = "https"
	}

	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")

	// Extract the YouTube video ID before the host rewrite so youtu.be
	// shortlinks still carry their ID in the path.
	youtubeID := ""
	if Resolve(raw) == YouTube {
		youtubeID = youtubeVideoID(host, u)
	}

	if canon, ok := canonicalHostAlias[host]; ok {
		host = canon
	}
	u.Host = host

	if youtubeID != "" {
		u.Host = "youtube.com"
		u.Path = "/watch"
		u.RawQuery = "v=" + url.QueryEscape(youtubeID)
	}

	if u.Path != "/" {
		u.Path = strings.TrimRight(u.Path, "/")
	}

	return u.String(), nil
}

// youtubeVideoID pulls the video ID out of the URL forms YouTube serves:
// watch?v=, youtu.be shortlinks, /shorts/, /live/, /embed/ and /v/.
// Returns "" when no ID can be found.
func youtubeVideoID(host string, u *url.URL) string {
	if host == "youtu.be" {
		return firstPathSegment(u.Path)
	}

	if v := u.Query().Get("v"); v != "" {
		return v
	}

	for _, prefix := range []string{"/shorts/", "/live/", "/embed/", "/v/"} {
		if strings.HasPrefix(u.Path, prefix) {
			if id := firstPathSegment(strings.TrimPrefix(u.Path, prefix)); id != "" {
				return id
			}
		}
	}
	return ""
}

func firstPathSegment(p string) string {
	p = strings.TrimPrefix(strings.TrimSpace(p), "/")
	seg, _, _ := strings.Cut(p, "/")
	return strings.TrimSpace(seg)
}
