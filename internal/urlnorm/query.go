package urlnorm

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
)

// queryPair keeps names and values as raw octets. Percent-decoded bytes that
// are not valid UTF-8 stay as they are until they are escaped again.
type queryPair struct {
	name  []byte
	value []byte
}

func comparePairs(a, b queryPair) int {
	if c := bytes.Compare(a.name, b.name); c != 0 {
		return c
	}
	return bytes.Compare(a.value, b.value)
}

// normalizeQuery parses query, merges the extra arguments, sorts the pairs
// byte-wise by (name, value) and encodes them again.
func normalizeQuery(query string, opts Options) (string, error) {
	pairs, err := parseQuery(query, opts.KeepBlankValues, opts.StrictQuery)
	if err != nil {
		return "", err
	}
	for _, arg := range opts.ExtraQueryArgs {
		pairs = append(pairs, queryPair{name: []byte(arg.Name), value: []byte(arg.Value)})
	}
	slices.SortStableFunc(pairs, comparePairs)
	return encodeQuery(pairs), nil
}

// parseQuery splits on '&' and ';', then on the first '='. A field without
// '=' is dropped, kept with an empty value, or rejected depending on the
// policy; so is a field with an empty value. '+' means space.
func parseQuery(query string, keepBlank, strict bool) ([]queryPair, error) {
	if query == "" {
		return nil, nil
	}
	var pairs []queryPair
	for _, group := range strings.Split(query, "&") {
		for _, field := range strings.Split(group, ";") {
			if field == "" {
				if strict {
					return nil, fmt.Errorf("%w: empty field", ErrMalformedQuery)
				}
				continue
			}
			name, value, ok := strings.Cut(field, "=")
			if !ok {
				if strict {
					return nil, fmt.Errorf("%w %q", ErrMalformedQuery, field)
				}
				if !keepBlank {
					continue
				}
			}
			if value == "" && !keepBlank {
				continue
			}
			pairs = append(pairs, queryPair{
				name:  unescapeBytes(strings.ReplaceAll(name, "+", " ")),
				value: unescapeBytes(strings.ReplaceAll(value, "+", " ")),
			})
		}
	}
	return pairs, nil
}

func encodeQuery(pairs []queryPair) string {
	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		writeQueryComponent(&b, p.name, &queryNameSafe)
		b.WriteByte('=')
		writeQueryComponent(&b, p.value, &queryValueSafe)
	}
	return b.String()
}

func writeQueryComponent(b *strings.Builder, raw []byte, safe *byteSet) {
	for _, c := range raw {
		switch {
		case c == ' ':
			b.WriteByte('+')
		case safe[c]:
			b.WriteByte(c)
		default:
			writeEscaped(b, c)
		}
	}
}
