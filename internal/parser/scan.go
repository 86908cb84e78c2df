package parser

import (
	"regexp"

	"linkaudit/internal/models"
)

var (
	quotedAnchorRe   = regexp.MustCompile(`(?is)<a\s[^<]*?href\s*=\s*(?:"\s*([^"]*?)"|'\s*([^']*?)').*?>(.*?)</a\s*>`)
	unquotedAnchorRe = regexp.MustCompile(`(?is)<a\s[^<]*?href\s*=\s*([^'"]+?)(?:\s[^>]*?>|>)(.*?)</a\s*>`)
)

// ScanAnchors finds href/anchor pairs with regular expressions instead of a
// DOM. Quoted hrefs come first in document order, then unquoted hrefs not
// seen yet. Anchors are returned as raw markup.
func ScanAnchors(page string) []models.RawAnchor {
	var out []models.RawAnchor
	seen := map[string]struct{}{}

	for _, m := range quotedAnchorRe.FindAllStringSubmatch(page, -1) {
		href := m[1]
		if href == "" {
			href = m[2]
		}
		out = append(out, models.RawAnchor{Href: href, Anchor: m[3]})
		seen[href] = struct{}{}
	}

	for _, m := range unquotedAnchorRe.FindAllStringSubmatch(page, -1) {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		out = append(out, models.RawAnchor{Href: m[1], Anchor: m[2]})
		seen[m[1]] = struct{}{}
	}
	return out
}
