// Package urlutil provides URL normalization, filename slugging, and the
// link exclusion predicates used during discovery.
package urlutil

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"net/url"
	"path"
	"strings"
)

// Sentinel errors for URL operations.
var (
	ErrEmptyURL    = errors.New("url cannot be empty")
	ErrRelativeURL = errors.New("url must be absolute")
	ErrBadScheme   = errors.New("url scheme must be http or https")
)

// maxSlugLen caps generated filename slugs.
const maxSlugLen = 90

// downloadExtensions lists file extensions that mark a link as a download
// rather than a renderable page.
var downloadExtensions = map[string]bool{
	".zip": true, ".tar": true, ".gz": true, ".tgz": true, ".bz2": true,
	".dmg": true, ".pkg": true, ".exe": true, ".msi": true,
	".pdf": true, ".epub": true,
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".svg": true,
	".mp4": true, ".mov": true, ".webm": true,
}

// excludedPathSegments marks path segments that lead away from documentation
// content (forums, downloads, account pages).
var excludedPathSegments = map[string]bool{
	"forums":    true,
	"forum":     true,
	"downloads": true,
	"download":  true,
	"login":     true,
	"account":   true,
}

// Normalize canonicalizes an absolute URL: lowercases scheme and host,
// strips query, fragment, and default ports. The path is preserved as-is so
// substring pattern filters keep working on it.
func Normalize(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", ErrEmptyURL
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parsing url %q: %w", raw, err)
	}
	if !u.IsAbs() {
		return "", fmt.Errorf("%w: %q", ErrRelativeURL, raw)
	}

	return normalizeParsed(u)
}

// Resolve resolves href against base, then normalizes the result.
func Resolve(base, href string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing base url %q: %w", base, err)
	}

	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", fmt.Errorf("parsing href %q: %w", href, err)
	}

	return normalizeParsed(baseURL.ResolveReference(ref))
}

func normalizeParsed(u *url.URL) (string, error) {
	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: %q", ErrBadScheme, u.Scheme)
	}

	host := strings.ToLower(u.Hostname())
	switch port := u.Port(); {
	case port != "" && port != defaultPort(u.Scheme):
		// JoinHostPort re-brackets IPv6 literals, which Hostname strips.
		u.Host = net.JoinHostPort(host, port)
	case strings.Contains(host, ":"):
		u.Host = "[" + host + "]"
	default:
		u.Host = host
	}

	u.RawQuery = ""
	u.Fragment = ""
	u.RawFragment = ""
	if u.Path == "" {
		u.Path = "/"
	}

	return u.String(), nil
}

func defaultPort(scheme string) string {
	switch scheme {
	case "http":
		return "80"
	case "https":
		return "443"
	}
	return ""
}

// DedupeKey returns the identity key for a normalized URL. Trailing-slash
// variants of the same path collapse to one key.
func DedupeKey(normalized string) string {
	u, err := url.Parse(normalized)
	if err != nil {
		return normalized
	}
	if u.Path != "/" {
		u.Path = strings.TrimRight(u.Path, "/")
		if u.Path == "" {
			u.Path = "/"
		}
	}
	return u.String()
}

// IsFragmentOnly reports whether href points back into the same page.
func IsFragmentOnly(href string) bool {
	trimmed := strings.TrimSpace(href)
	return trimmed == "" || strings.HasPrefix(trimmed, "#")
}

// IsDownloadLink reports whether the URL path ends in a known binary or
// asset extension.
func IsDownloadLink(normalized string) bool {
	u, err := url.Parse(normalized)
	if err != nil {
		return false
	}
	ext := strings.ToLower(path.Ext(u.Path))
	return downloadExtensions[ext]
}

// IsExcludedPath reports whether the URL path contains a segment that leads
// away from documentation content (forums, downloads, login).
func IsExcludedPath(normalized string) bool {
	u, err := url.Parse(normalized)
	if err != nil {
		return false
	}
	for _, seg := range strings.Split(u.Path, "/") {
		if excludedPathSegments[strings.ToLower(seg)] {
			return true
		}
	}
	return false
}

// SameHost reports whether two normalized URLs share a host.
func SameHost(a, b string) bool {
	ua, errA := url.Parse(a)
	ub, errB := url.Parse(b)
	if errA != nil || errB != nil {
		return false
	}
	return strings.EqualFold(ua.Hostname(), ub.Hostname())
}

// Slugify converts a title into a safe lowercase filename fragment:
// alphanumerics, dots, dashes, and underscores survive, runs of anything
// else collapse to a single dash.
func Slugify(s string) string {
	var b strings.Builder
	lastDash := true // suppress leading dash
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	slug := strings.Trim(b.String(), "-")
	if len(slug) > maxSlugLen {
		slug = strings.Trim(slug[:maxSlugLen], "-")
	}
	if slug == "" {
		return "untitled"
	}
	return slug
}

// Digest returns a short stable hex digest of a URL, used to keep generated
// filenames unique when two pages share a title.
func Digest(u string) string {
	sum := sha256.Sum256([]byte(u))
	return hex.EncodeToString(sum[:4])
}

// LastPathSegment returns the final non-empty path segment of a URL, or ""
// if the path is empty or root.
func LastPathSegment(raw string) string {
	segments := nonEmptyPathSegments(raw)
	if len(segments) == 0 {
		return ""
	}
	return segments[len(segments)-1]
}

// ParentPathSegment returns the segment preceding the final one, or "" when
// the path has fewer than two segments. For a documentation page like
// /docs/api/auth it yields the section name "api".
func ParentPathSegment(raw string) string {
	segments := nonEmptyPathSegments(raw)
	if len(segments) < 2 {
		return ""
	}
	return segments[len(segments)-2]
}

// Hostname returns the lowercase host of a URL without the port, or "" when
// the URL does not parse.
func Hostname(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

func nonEmptyPathSegments(raw string) []string {
	u, err := url.Parse(raw)
	if err != nil {
		return nil
	}
	var out []string
	for _, seg := range strings.Split(u.Path, "/") {
		if seg != "" {
			out = append(out, seg)
		}
	}
	return out
}
