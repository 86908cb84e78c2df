// Package canon holds string-level URL normalizations: protocol and www.
// prefixes, trailing slashes and percent-encoding. Functions are pure and never fail.
package canon

import (
	"net/url"
	"regexp"
	"strings"

	"linkaudit/internal/uri"
)

const (
	httpPrefix  = "http://"
	httpsPrefix = "https://"
	wwwPrefix   = "www."
)

var trailingSlashesRe = regexp.MustCompile(`/+$`)

// StripProtocol removes a leading http:// or https://.
func StripProtocol(u string) string {
	switch {
	case strings.HasPrefix(u, httpPrefix):
		return u[len(httpPrefix):]
	case strings.HasPrefix(u, httpsPrefix):
		return u[len(httpsPrefix):]
	}
	return u
}

// EnsureProtocol prepends http:// unless an http(s) protocol is already present.
func EnsureProtocol(u string) string {
	if strings.HasPrefix(u, httpPrefix) || strings.HasPrefix(u, httpsPrefix) {
		return u
	}
	return httpPrefix + u
}

// StripWww removes a leading "www." when at least one more dot remains.
func StripWww(u string) string {
	if strings.HasPrefix(u, wwwPrefix) && strings.Count(u, ".") > 1 {
		return u[len(wwwPrefix):]
	}
	return u
}

func StripTrailingSlashes(u string) string {
	return trailingSlashesRe.ReplaceAllString(u, "")
}

// ExcludeTrailingSlash removes exactly one trailing slash.
func ExcludeTrailingSlash(u string) string {
	return strings.TrimSuffix(u, "/")
}

// Host returns the part of u before the first slash once the protocol
// (and optionally www.) is gone.
func Host(u string, cutWww bool) string {
	u = StripProtocol(u)
	if cutWww {
		u = StripWww(u)
	}
	if i := strings.IndexByte(u, '/'); i >= 0 {
		return u[:i]
	}
	return u
}

// SplitURL separates the protocol from the rest of u; the protocol defaults to http.
func SplitURL(u string) (scheme, rest string) {
	scheme = "http"
	rest = u
	for _, candidate := range []string{"https", "http"} {
		if strings.HasPrefix(u, candidate) {
			scheme = candidate
			rest = u[len(candidate):]
			break
		}
	}
	rest = strings.TrimPrefix(rest, "://")
	return scheme, rest
}

// WithProtocol returns u with an explicit protocol, or "" when nothing is left after it.
func WithProtocol(u string) string {
	if u == "" {
		return u
	}
	scheme, rest := SplitURL(u)
	if rest == "" {
		return ""
	}
	return scheme + "://" + rest
}

// ClearVideoURL drops the protocol and a protocol-relative "//" prefix.
func ClearVideoURL(u string) string {
	return strings.TrimPrefix(StripProtocol(u), "//")
}

// Encode percent-encodes every slash-delimited segment of the path, query and
// fragment. Input that already carries escapes is returned unchanged.
func Encode(u string) string {
	if !strings.EqualFold(Decode(u), u) {
		return u
	}

	parts := uri.Parse(u)
	for _, part := range []*string{&parts.Path, &parts.Query, &parts.Fragment} {
		if *part == "" {
			continue
		}
		segments := strings.Split(*part, "/")
		for i, segment := range segments {
			segments[i] = url.PathEscape(segment)
		}
		*part = strings.Join(segments, "/")
	}
	return uri.Build(parts)
}
