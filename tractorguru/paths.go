package tractorguru

import (
	"net/url"
	"strings"
)

// NormalizePath returns p with exactly one leading slash and no trailing
// slash. The site root normalizes to "/".
//
//	"brand/x/", "/brand/x", "//brand/x/" -> "/brand/x"
func NormalizePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	return "/" + p
}

// hasScheme reports whether s is an absolute URL with a host.
func hasScheme(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.IsAbs() && u.Host != ""
}

// resolve turns a path or absolute URL into the absolute URL that is
// fetched and used as the page cache key. Absolute URLs are used verbatim.
func (c *Client) resolve(pathOrURL string) string {
	if hasScheme(pathOrURL) {
		return pathOrURL
	}
	return c.base + "/" + strings.TrimLeft(pathOrURL, "/")
}

// toPath converts an href or caller-supplied path into a normalized site
// path. Links to other hosts, scheme-only links (javascript:, mailto:) and
// bare fragments have no site path and report false.
func (c *Client) toPath(href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}

	u, err := url.Parse(href)
	if err != nil {
		// Unparseable hrefs are taken literally, as the site would.
		return NormalizePath(href), true
	}
	if u.Scheme != "" || u.Host != "" {
		if !strings.EqualFold(u.Hostname(), c.host) {
			return "", false
		}
	}

	if u.Host == "" && u.Path == "" && u.RawQuery == "" {
		return "", false
	}
	return sitePathOf(u), true
}

// sitePathOf joins the normalized escaped path of u with its raw query.
// Only the path is normalized; the query is kept byte for byte.
func sitePathOf(u *url.URL) string {
	p := NormalizePath(u.EscapedPath())
	if u.RawQuery != "" {
		p += "?" + u.RawQuery
	}
	return p
}

// SitePath normalizes a caller-supplied path or site URL into the same form
// toPath gives links: escaped path, query kept, fragment dropped.
func (c *Client) SitePath(input string) (string, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", false
	}
	if hasScheme(input) {
		return c.toPath(input)
	}
	u, err := url.Parse("/" + strings.TrimLeft(input, "/"))
	if err != nil {
		return "", false
	}
	return sitePathOf(u), true
}

// absolute resolves a possibly relative reference (an image src) against
// the page it was found on.
func absolute(pageURL, ref string) string {
	if ref == "" {
		return ""
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return ref
	}
	resolved, err := base.Parse(ref)
	if err != nil {
		return ref
	}
	return resolved.String()
}
