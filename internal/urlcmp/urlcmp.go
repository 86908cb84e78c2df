// Package urlcmp decides whether two URL strings point at the same resource.
//
// Comparison tolerates protocol, "www." prefix, trailing slashes,
// percent-encoding, path segment and query parameter order, and Unicode versus
// punycode host forms. A Comparer is immutable and safe for concurrent use.
package urlcmp

import (
	"sort"
	"strings"

	"linkaudit/internal/canon"
	"linkaudit/internal/idn"
	"linkaudit/internal/models"
	"linkaudit/internal/uri"
)

type Comparer struct {
	idn *idn.Converter
}

// New builds a Comparer over codec; a nil codec selects idn.Profile.
func New(codec idn.Codec) *Comparer {
	return &Comparer{idn: idn.New(codec)}
}

var std = New(nil)

// HostIDN is canon.Host with the result converted to its ASCII form.
func (c *Comparer) HostIDN(u string, cutWww bool) string {
	return c.idn.Encode(canon.Host(u, cutWww))
}

// ToIDN replaces the host of u with its ASCII form.
func (c *Comparer) ToIDN(u string) string {
	host := canon.Host(u, false)
	if host == "" {
		return u
	}
	return strings.Replace(u, host, c.idn.Encode(host), 1)
}

// FromIDN returns u with a punycode host turned back into Unicode.
func (c *Comparer) FromIDN(u string) string {
	host := canon.Host(u, false)
	if host == "" {
		return u
	}
	return strings.Replace(u, host, c.idn.Decode(host), 1)
}

// URI strips the scheme and the site (plain, www., or punycode form) from u
// and returns what is left, or "/" when nothing is. An empty site is taken from u.
func (c *Comparer) URI(site, u string) string {
	if site == "" {
		site = canon.Host(u, false)
	}
	site = canon.StripWww(site)
	ascii := c.idn.Encode(site)

	page := canon.StripProtocol(u)
	for _, prefix := range []string{"www." + site, site, "www." + ascii, ascii} {
		if prefix != "" && strings.HasPrefix(page, prefix) {
			page = page[len(prefix):]
			break
		}
	}
	if page == "" {
		return "/"
	}
	return page
}

// IsSameHost compares hosts case-insensitively. Without strict, "www." is ignored.
func (c *Comparer) IsSameHost(u1, u2 string, strict bool) bool {
	return strings.EqualFold(canon.Host(u1, !strict), canon.Host(u2, !strict))
}

// IsSameHostIDNA is IsSameHost on the ASCII forms of both hosts.
func (c *Comparer) IsSameHostIDNA(u1, u2 string, strict bool) bool {
	return strings.EqualFold(c.HostIDN(u1, !strict), c.HostIDN(u2, !strict))
}

// IsSameURL reports whether u1 and u2 address the same page. strict only
// affects the host check; the path comparison always ignores "www.".
//
// A path or query that is empty on either side is not compared.
func (c *Comparer) IsSameURL(u1, u2 string, strict bool) bool {
	if !c.IsSameHostIDNA(u1, u2, strict) {
		return false
	}

	p1 := uri.Parse(canonical(u1))
	p2 := uri.Parse(canonical(u2))

	pairs := []struct {
		a, b      string
		delimiter string
	}{
		{p1.Path, p2.Path, "/"},
		{p1.Query, p2.Query, "&"},
	}
	for _, pair := range pairs {
		if pair.a == "" || pair.b == "" {
			continue
		}
		if !strings.EqualFold(sortedTokens(pair.a, pair.delimiter), sortedTokens(pair.b, pair.delimiter)) {
			return false
		}
	}
	return true
}

// IsSameURLFull is the fuzzy variant of IsSameURL: it also accepts inputs
// that are equal once lowercased, percent-decoded or punycode-converted.
func (c *Comparer) IsSameURLFull(u1, u2 string) bool {
	u1 = strings.ToLower(u1)
	u2 = strings.ToLower(u2)

	if c.IsSameURL(u1, u2, false) {
		return true
	}
	if strings.EqualFold(u1, u2) || strings.EqualFold(canon.DecodeForm(u1), u2) {
		return true
	}

	forms := c.ConvertToPunycode(u1)
	return strings.EqualFold(forms.Encoded, u2) || strings.EqualFold(forms.Decoded, u2)
}

// ConvertToPunycode returns u without its protocol, with only the host
// converted to ASCII (Encoded) or to Unicode (Decoded).
func (c *Comparer) ConvertToPunycode(u string) models.PunycodeForms {
	u = canon.StripProtocol(u)
	host := canon.Host(u, false)
	tail := strings.TrimPrefix(u, host)

	// the host is lowercased before decoding: mixed-case punycode does not
	// round-trip through every codec.
	return models.PunycodeForms{
		Encoded: c.idn.Encode(host) + tail,
		Decoded: c.idn.Decode(strings.ToLower(host)) + tail,
	}
}

func canonical(u string) string {
	return canon.EnsureProtocol(canon.StripTrailingSlashes(canon.StripWww(u)))
}

func sortedTokens(part, delimiter string) string {
	var tokens []string
	for _, token := range strings.Split(canon.DecodeForm(part), delimiter) {
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	sort.Strings(tokens)
	return strings.Join(tokens, delimiter)
}

func HostIDN(u string, cutWww bool) string { return std.HostIDN(u, cutWww) }

func ToIDN(u string) string { return std.ToIDN(u) }

func FromIDN(u string) string { return std.FromIDN(u) }

func URI(site, u string) string { return std.URI(site, u) }

func IsSameHost(u1, u2 string, strict bool) bool { return std.IsSameHost(u1, u2, strict) }

func IsSameHostIDNA(u1, u2 string, strict bool) bool { return std.IsSameHostIDNA(u1, u2, strict) }

func IsSameURL(u1, u2 string, strict bool) bool { return std.IsSameURL(u1, u2, strict) }

func IsSameURLFull(u1, u2 string) bool { return std.IsSameURLFull(u1, u2) }

func ConvertToPunycode(u string) models.PunycodeForms { return std.ConvertToPunycode(u) }
