package parse

import (
	"net"
	"net/url"
	"path"
	"strings"
)

// NormalizeURL standardizes a URL for comparison and visited-set keys.
// It lowercases scheme and host, drops default ports, trims a trailing slash (except root),
// makes an empty path "/", and removes fragment and query string.
// Does not modify the input *url.URL
func NormalizeURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	normalized := *u

	normalized.Scheme = strings.ToLower(normalized.Scheme)
	normalized.Host = strings.ToLower(normalized.Host)

	host, port, err := net.SplitHostPort(normalized.Host)
	if err == nil {
		if (normalized.Scheme == "http" && port == "80") ||
			(normalized.Scheme == "https" && port == "443") {
			normalized.Host = host
		}
	}

	if normalized.Path == "" {
		normalized.Path = "/"
	} else if len(normalized.Path) > 1 && strings.HasSuffix(normalized.Path, "/") {
		normalized.Path = strings.TrimRight(normalized.Path, "/")
		if normalized.Path == "" {
			normalized.Path = "/"
		}
	}
	normalized.RawPath = ""
	normalized.Fragment = ""
	normalized.RawFragment = ""
	normalized.RawQuery = ""
	normalized.ForceQuery = false

	return normalized.String()
}

// ParseAndNormalize parses with url.ParseRequestURI (scheme required) and normalizes.
// Returns the normalized string, the parsed URL, and any parse error
func ParseAndNormalize(urlStr string) (string, *url.URL, error) {
	parsed, err := url.ParseRequestURI(strings.TrimSpace(urlStr))
	if err != nil {
		return "", nil, err
	}
	return NormalizeURL(parsed), parsed, nil
}

// ResolveLink resolves href against base and returns the absolute http(s) URL.
// ok is false for empty, javascript:, mailto:, tel: and data: references.
func ResolveLink(base *url.URL, href string) (abs *url.URL, ok bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return nil, false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return nil, false
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}
	if ref.Scheme != "http" && ref.Scheme != "https" {
		return nil, false
	}
	if ref.Host == "" {
		return nil, false
	}
	return ref, true
}

// SameOrigin reports whether a and b share a host, ignoring case, default ports and a leading "www."
func SameOrigin(a, b *url.URL) bool {
	if a == nil || b == nil {
		return false
	}
	return siteHost(a) == siteHost(b)
}

func siteHost(u *url.URL) string {
	h := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(h, "www.")
}

var nonPageExtensions = map[string]struct{}{
	".pdf": {}, ".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {}, ".svg": {}, ".ico": {},
	".zip": {}, ".gz": {}, ".rar": {}, ".mp4": {}, ".mov": {}, ".mp3": {}, ".wav": {},
	".doc": {}, ".docx": {}, ".xls": {}, ".xlsx": {}, ".ppt": {}, ".pptx": {},
	".css": {}, ".js": {}, ".json": {}, ".xml": {}, ".txt": {},
}

// IsPageLike reports whether the URL path looks like an HTML page rather than a file download
func IsPageLike(u *url.URL) bool {
	ext := strings.ToLower(path.Ext(u.Path))
	_, isFile := nonPageExtensions[ext]
	return !isFile
}
