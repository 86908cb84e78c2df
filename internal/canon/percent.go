package canon

import "strings"

// Decode percent-decodes the whole string. Malformed escapes are kept as-is
// instead of failing, unlike url.PathUnescape.
func Decode(s string) string {
	return unescape(s, false)
}

// DecodeForm is Decode that also turns '+' into a space, the way HTML forms
// encode query strings.
func DecodeForm(s string) string {
	return unescape(s, true)
}

func unescape(s string, plusAsSpace bool) string {
	if !strings.ContainsRune(s, '%') && !(plusAsSpace && strings.ContainsRune(s, '+')) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
		case c == '+' && plusAsSpace:
			b.WriteByte(' ')
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
