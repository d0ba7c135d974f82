package urlnorm

import "strings"

// Reserved delimiters (RFC 3986 section 2.2) and unreserved characters
// (section 2.3).
const (
	genDelims  = ":/?#[]@"
	subDelims  = "!$&'()*+,;="
	unreserved = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-._~"
)

const upperHex = "0123456789ABCDEF"

type byteSet [256]bool

func newByteSet(chars ...string) byteSet {
	var s byteSet
	for _, group := range chars {
		for i := 0; i < len(group); i++ {
			s[group[i]] = true
		}
	}
	return s
}

func (s byteSet) with(chars string) byteSet {
	for i := 0; i < len(chars); i++ {
		s[chars[i]] = true
	}
	return s
}

func (s byteSet) without(chars string) byteSet {
	for i := 0; i < len(chars); i++ {
		s[chars[i]] = false
	}
	return s
}

var (
	// safeSet holds the bytes left unescaped in a normalized path. A literal
	// '%' is only kept as the lead of an escape triplet.
	safeSet = newByteSet(genDelims, subDelims, unreserved, "%")

	// The query safe sets drop the bytes that carry structure inside a query
	// string, so a decoded "%26" cannot turn into a pair separator.
	queryNameSafe  = safeSet.without("&;=+#%")
	queryValueSafe = queryNameSafe.with("=")

	// protectedPath are the octets that stay escaped in paths: an encoded
	// '/', '?' or '#' is never the same as the literal delimiter.
	protectedPath = newByteSet("/?#")
)

func ishex(c byte) bool {
	switch {
	case '0' <= c && c <= '9':
		return true
	case 'a' <= c && c <= 'f':
		return true
	case 'A' <= c && c <= 'F':
		return true
	}
	return false
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}

// isEscape reports whether s[i:] starts with a well-formed %XX triplet.
func isEscape(s string, i int) bool {
	return i+2 < len(s) && s[i] == '%' && ishex(s[i+1]) && ishex(s[i+2])
}

// unescapeBytes decodes every well-formed %XX triplet in s to its raw byte.
// Malformed escapes are copied through untouched and no UTF-8 validation
// happens, so arbitrary octets survive.
func unescapeBytes(s string) []byte {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if isEscape(s, i) {
			out = append(out, unhex(s[i+1])<<4|unhex(s[i+2]))
			i += 2
			continue
		}
		out = append(out, s[i])
	}
	return out
}

func writeEscaped(b *strings.Builder, c byte) {
	b.WriteByte('%')
	b.WriteByte(upperHex[c>>4])
	b.WriteByte(upperHex[c&0x0f])
}
