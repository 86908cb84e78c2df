// Package idn converts host names between their Unicode and ASCII (punycode) forms.
package idn

import "golang.org/x/net/idna"

// Codec is the IDNA capability. *idna.Profile satisfies it.
type Codec interface {
	ToASCII(s string) (string, error)
	ToUnicode(s string) (string, error)
}

// Profile maps like a browser lookup (case folding, NFC) but tolerates
// characters such as '_' and ':' that show up in real-world hosts.
var Profile Codec = idna.New(
	idna.MapForLookup(),
	idna.Transitional(false),
	idna.StrictDomainName(false),
)

// Converter wraps a Codec and never fails: on a codec error the input is returned untouched.
type Converter struct {
	codec Codec
}

// New returns a Converter over codec, or over Profile when codec is nil.
func New(codec Codec) *Converter {
	if codec == nil {
		codec = Profile
	}
	return &Converter{codec: codec}
}

// Encode returns the ASCII form of host.
func (c *Converter) Encode(host string) string {
	if host == "" {
		return host
	}
	ascii, err := c.codec.ToASCII(host)
	if err != nil {
		return host
	}
	return ascii
}

// Decode returns the Unicode form of host.
func (c *Converter) Decode(host string) string {
	if host == "" {
		return host
	}
	unicode, err := c.codec.ToUnicode(host)
	if err != nil {
		return host
	}
	return unicode
}
