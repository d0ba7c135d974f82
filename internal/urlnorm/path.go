package urlnorm

import (
	"path"
	"strings"
)

// normalizePath canonicalizes the escaping of p and resolves its dot
// segments. The result always starts with '/'.
//
// path.Clean treats every run of leading slashes as a single root, so "//a"
// and "///a" both become "/a". It also drops the trailing slash; keepTrailing
// puts it back when p had one.
func normalizePath(p string, keepTrailing bool) string {
	trailing := strings.HasSuffix(p, "/")
	p = recodePath(p)
	if p == "" {
		p = "/"
	}
	cleaned := path.Clean(p)
	if keepTrailing && trailing && cleaned != "/" {
		cleaned += "/"
	}
	return cleaned
}

// recodePath decodes every escape triplet and re-encodes each byte outside
// the safe set with upper-case hex. Escaped '/', '?' and '#' are kept
// escaped, and a decoded or stray '%' becomes "%25" so that a second pass
// cannot decode it again.
func recodePath(p string) string {
	var b strings.Builder
	b.Grow(len(p))
	for i := 0; i < len(p); i++ {
		c := p[i]
		if isEscape(p, i) {
			c = unhex(p[i+1])<<4 | unhex(p[i+2])
			i += 2
			if protectedPath[c] || c == '%' {
				writeEscaped(&b, c)
				continue
			}
		} else if c == '%' {
			writeEscaped(&b, c)
			continue
		}
		if safeSet[c] {
			b.WriteByte(c)
		} else {
			writeEscaped(&b, c)
		}
	}
	return b.String()
}
