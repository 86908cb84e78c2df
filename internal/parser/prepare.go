package parser

import (
	"regexp"
	"strings"
)

var (
	legacyCharsetRe   = regexp.MustCompile(`(?i)windows-1251|cp1251`)
	commentNoindexRe  = regexp.MustCompile(`(?isU)<!--noindex-->(.*)<!--/noindex-->`)
	misEscapeReplacer = strings.NewReplacer(
		"&#61;", "=", "&#061;", "=",
		"&#38;", "&", "&#038;", "&",
		"&amp;", "&",
		"&#37;", "%", "&#037;", "%",
		"&ndash;", "–",
	)
)

// prepare rewrites raw markup before it reaches the HTML parser. Order matters:
// NUL bytes go first, and comment-style noindex markers are turned into real
// <noindex> elements last so they become ancestors of the anchors they wrap.
func prepare(page string) string {
	page = strings.ReplaceAll(page, "\x00", " ")

	// text is already utf-8 by now; stale declarations only confuse the parser.
	page = legacyCharsetRe.ReplaceAllString(page, "utf-8")

	page = misEscapeReplacer.Replace(page)

	for commentNoindexRe.MatchString(page) {
		page = commentNoindexRe.ReplaceAllString(page, "<noindex>$1</noindex>")
	}
	return page
}
