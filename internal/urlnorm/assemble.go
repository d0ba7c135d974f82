package urlnorm

import "strings"

// assemble joins normalized parts. An empty query or fragment leaves out its
// delimiter.
func assemble(scheme, authority, path, query, fragment string) string {
	var b strings.Builder
	b.Grow(len(scheme) + len(authority) + len(path) + len(query) + len(fragment) + 5)
	b.WriteString(scheme)
	b.WriteString("://")
	b.WriteString(authority)
	b.WriteString(path)
	if query != "" {
		b.WriteByte('?')
		b.WriteString(query)
	}
	if fragment != "" {
		b.WriteByte('#')
		b.WriteString(fragment)
	}
	return b.String()
}
