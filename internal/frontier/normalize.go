package frontier

import (
	"net/url"
	"strings"
)

// Normalize turns an href found on a listing page into an absolute URL.
// Protocol-relative links get https, root-relative links get base's origin
// and other relative links resolve against base. Fragments are dropped.
// ok is false for empty, fragment-only and javascript: links.
func Normalize(base, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:") {
		return "", false
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	if !ref.IsAbs() {
		b, err := url.Parse(base)
		if err != nil || b.Scheme == "" || b.Host == "" {
			return "", false
		}
		ref = b.ResolveReference(ref)
	}
	if ref.Scheme != "http" && ref.Scheme != "https" {
		return "", false
	}
	ref.Fragment = ""
	return ref.String(), true
}
