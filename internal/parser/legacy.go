package parser

import (
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// fixDoubleEncoding undoes UTF-8 text that was read as ISO-8859-1 and encoded
// to UTF-8 a second time ("Ã©" for "é").
//
// Heuristic: href is re-encoded to ISO-8859-1 and the bytes are read back as
// UTF-8. Fewer runes than before means pairs of Latin-1 characters formed valid
// multi-byte sequences, so the shorter text is taken. Genuine Latin-1 hrefs
// whose bytes happen to form UTF-8 sequences are misclassified.
func fixDoubleEncoding(href string) string {
	if isASCII(href) {
		return href
	}
	legacy, err := encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder()).String(href)
	if err != nil {
		return href
	}
	if utf8.RuneCountInString(legacy) < utf8.RuneCountInString(href) {
		return legacy
	}
	return href
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
