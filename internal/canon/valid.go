package canon

import (
	"net"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	labelRe = regexp.MustCompile(`^[\p{L}\p{N}][\p{L}\p{N}_-]*$`)
	tldRe   = regexp.MustCompile(`^[\p{L}\p{N}_-]{2,10}$`)
	portRe  = regexp.MustCompile(`^[0-9]{1,4}$`)
)

const (
	pathPunctuation   = "_-.,'–@?^=%&:;/~+#!()[]{}*"
	badPathTerminator = ",:'("
	maxLabelLength    = 63
)

// IsValid reports whether u looks like an http(s) URL with a real host:
// an IPv4 address or at least two Unicode-aware labels. Percent-encoded input
// is accepted when its decoded form is valid.
func IsValid(u string) bool {
	if isValid(u) {
		return true
	}
	decoded := Decode(u)
	return decoded != u && isValid(decoded)
}

func isValid(u string) bool {
	lower := strings.ToLower(u)
	switch {
	case strings.HasPrefix(lower, httpsPrefix):
		u = u[len(httpsPrefix):]
	case strings.HasPrefix(lower, httpPrefix):
		u = u[len(httpPrefix):]
	}

	authority, path := u, ""
	if i := strings.IndexByte(u, '/'); i >= 0 {
		authority, path = u[:i], u[i:]
	}

	host := authority
	if i := strings.LastIndexByte(authority, ':'); i >= 0 {
		if !portRe.MatchString(authority[i+1:]) {
			return false
		}
		host = authority[:i]
	}

	return validHost(host) && validPath(path)
}

func validHost(host string) bool {
	if ip := net.ParseIP(host); ip != nil {
		return ip.To4() != nil && strings.Count(host, ".") == 3
	}

	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return false
	}
	last := len(labels) - 1
	for i, label := range labels {
		if i == last {
			if !tldRe.MatchString(label) {
				return false
			}
			continue
		}
		if utf8.RuneCountInString(label) > maxLabelLength || !labelRe.MatchString(label) {
			return false
		}
	}
	return true
}

func validPath(path string) bool {
	if path == "" || path == "/" {
		return true
	}
	var last rune
	for _, r := range path {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !strings.ContainsRune(pathPunctuation, r) {
			return false
		}
		last = r
	}
	return !strings.ContainsRune(badPathTerminator, last)
}
