package urlnorm

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	errEmptyInput  = errors.New("empty input")
	errInvalidUTF8 = errors.New("input is not valid utf-8")
	errNoMatch     = errors.New("input does not look like a url")
	errUnsupported = errors.New("input is not text")
)

// schemePrefixes are the accepted schemes in the form they must lead the
// input; anything else is treated as a bare host.
var schemePrefixes = []string{"http://", "https://"}

// The gate pattern is a heuristic, not an RFC 3986 grammar: it accepts bare
// domains once a scheme has been supplied and rejects whitespace, malformed
// credentials and hosts without a recognizable shape.
const (
	letters   = `a-z\x{00a1}-\x{ffff}`
	ipv4Octet = `(?:25[0-5]|2[0-4][0-9]|1[0-9]{2}|[1-9]?[0-9])`
	ipv4Host  = ipv4Octet + `(?:\.` + ipv4Octet + `){3}`
	ipv6Host  = `\[[0-9a-f:.]+\]`
	hostLabel = `[` + letters + `0-9](?:[` + letters + `0-9-]{0,61}[` + letters + `0-9])?`
	domain    = hostLabel + `(?:\.` + hostLabel + `)*`
	tld       = `\.(?:[` + letters + `]{2,63}|xn--[a-z0-9-]{1,59})\.?`
	hostPart  = `(?:` + ipv4Host + `|` + ipv6Host + `|` + domain + tld + `|localhost)`
)

var urlPattern = regexp.MustCompile(`(?i)^` +
	`[a-z0-9.+-]*://` +
	`(?:[^\s:@/?#]+(?::[^\s:@/?#]*)?@)?` +
	hostPart +
	`(?::[0-9]{2,5}|:)?` +
	`(?:/\S*)?` +
	`(?:\?\S*)?` +
	`$`)

// encodedHostPattern is what an IDNA-encoded domain must still look like
// for the output to pass the gate again.
var encodedHostPattern = regexp.MustCompile(`(?i)^` + domain + tld + `$`)

// Valid reports whether raw passes the validity gate, after whitespace
// trimming and scheme defaulting.
func Valid(raw string) bool {
	_, err := gate(raw)
	return err == nil
}

func gate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errEmptyInput
	}
	if !utf8.ValidString(raw) {
		return "", errInvalidUTF8
	}
	if !hasScheme(raw) {
		if strings.HasPrefix(raw, "//") {
			raw = "http:" + raw
		} else {
			raw = "http://" + raw
		}
	}
	if !urlPattern.MatchString(raw) {
		return "", errNoMatch
	}
	return raw, nil
}

func hasScheme(raw string) bool {
	for _, prefix := range schemePrefixes {
		if len(raw) >= len(prefix) && strings.EqualFold(raw[:len(prefix)], prefix) {
			return true
		}
	}
	return false
}
