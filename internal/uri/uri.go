// Package uri splits URL strings into named parts and joins them back.
//
// Parts keep the raw (not percent-decoded) text of the input, so Build(Parse(s))
// reproduces s for ordinary URLs. An empty string or zero port means the part is absent.
package uri

import (
	"net/url"
	"strconv"
	"strings"
)

type Parts struct {
	Scheme   string `json:"scheme,omitempty"`
	User     string `json:"user,omitempty"`
	Password string `json:"password,omitempty"`
	Host     string `json:"host,omitempty"`
	Port     int    `json:"port,omitempty"`
	Path     string `json:"path,omitempty"`
	Query    string `json:"query,omitempty"`
	Fragment string `json:"fragment,omitempty"`
}

type notation struct {
	before string
	after  string
}

// separators attached to each part when it is present.
var (
	schemeNotation   = notation{after: "://"}
	passwordNotation = notation{before: ":", after: "@"}
	portNotation     = notation{before: ":"}
	queryNotation    = notation{before: "?"}
	fragmentNotation = notation{before: "#"}
)

// strayPercent stands in for a '%' that does not start an escape while
// url.Parse runs. It is a private-use rune, so it never clashes with real input.
const strayPercent = "\uE000"

// Parse decomposes raw on a best-effort basis. Input that does not look like a URI
// comes back with only Path set to the input string. A '%' that is not
// followed by two hex digits is kept literally in whichever part holds it.
func Parse(raw string) Parts {
	if p, ok := parse(raw); ok {
		return p
	}
	masked := maskStrayPercents(raw)
	if masked == raw {
		return Parts{Path: raw}
	}
	p, ok := parse(masked)
	if !ok {
		return Parts{Path: raw}
	}
	for _, field := range []*string{&p.Scheme, &p.User, &p.Password, &p.Host, &p.Path, &p.Query, &p.Fragment} {
		*field = strings.ReplaceAll(*field, strayPercent, "%")
	}
	return p
}

func maskStrayPercents(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && !(i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2])) {
			b.WriteString(strayPercent)
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func parse(raw string) (Parts, bool) {
	u, err := url.Parse(raw)
	if err != nil || u.Opaque != "" {
		return Parts{}, false
	}

	p := Parts{
		Scheme: u.Scheme,
		Query:  u.RawQuery,
	}
	if u.User != nil {
		p.User = u.User.Username()
		p.Password, _ = u.User.Password()
	}

	p.Host = u.Host
	if port := u.Port(); port != "" {
		n, err := strconv.Atoi(port)
		if err != nil {
			return Parts{}, false
		}
		p.Port = n
		p.Host = strings.TrimSuffix(u.Host, ":"+port)
	}

	p.Path = u.RawPath
	if p.Path == "" {
		p.Path = u.EscapedPath()
	}
	p.Fragment = u.RawFragment
	if p.Fragment == "" {
		p.Fragment = u.EscapedFragment()
	}
	return p, true
}

// Build joins parts using the fixed separator of every present part.
func Build(p Parts) string {
	var b strings.Builder
	write := func(value string, n notation) {
		if value == "" {
			return
		}
		b.WriteString(n.before)
		b.WriteString(value)
		b.WriteString(n.after)
	}

	write(p.Scheme, schemeNotation)
	write(p.User, notation{})
	write(p.Password, passwordNotation)
	write(p.Host, notation{})
	if p.Port != 0 {
		write(strconv.Itoa(p.Port), portNotation)
	}
	write(p.Path, notation{})
	write(p.Query, queryNotation)
	write(p.Fragment, fragmentNotation)
	return b.String()
}
