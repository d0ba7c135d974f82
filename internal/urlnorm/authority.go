package urlnorm

import (
	"errors"
	"fmt"
	"net/netip"
	"strings"

	"golang.org/x/net/idna"
)

var (
	errEmptyHost      = errors.New("empty host")
	errUnexpectedHost = errors.New("encoded host does not look like a domain")
)

// defaultPorts maps schemes to their registered default port.
var defaultPorts = map[string]int{
	"http":  80,
	"https": 443,
}

// hostProfile maps and encodes host labels for lookup. DNS length checks are
// on so that over-long labels fail; hyphen placement is left to the gate.
var hostProfile = idna.New(
	idna.MapForLookup(),
	idna.Transitional(true),
	idna.BidiRule(),
	idna.VerifyDNSLength(true),
	idna.StrictDomainName(false),
	idna.CheckHyphens(false),
)

// normalizeAuthority rebuilds the netloc: credentials verbatim, host encoded
// and lower-cased, default or empty port dropped.
func normalizeAuthority(c components) (string, error) {
	host, err := normalizeHost(c.host)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if c.username != "" {
		b.WriteString(c.username)
		if c.password != "" {
			b.WriteByte(':')
			b.WriteString(c.password)
		}
		b.WriteByte('@')
	}
	b.WriteString(host)
	if c.hasPort() && !isDefaultPort(c.scheme, c.portNum) {
		b.WriteByte(':')
		b.WriteString(c.port)
	}
	return b.String(), nil
}

func isDefaultPort(scheme string, port int) bool {
	def, ok := defaultPorts[scheme]
	return ok && def == port
}

func normalizeHost(host string) (string, error) {
	if strings.HasPrefix(host, "[") {
		return strings.ToLower(host), nil
	}
	host = strings.TrimRight(host, ".")
	if host == "" {
		return "", errEmptyHost
	}
	if _, err := netip.ParseAddr(host); err == nil {
		return host, nil
	}
	ascii, err := hostProfile.ToASCII(host)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnencodableHost, err)
	}
	ascii = strings.ToLower(ascii)
	if ascii != "localhost" && !encodedHostPattern.MatchString(ascii) {
		return "", fmt.Errorf("%w: %w %q", ErrUnencodableHost, errUnexpectedHost, ascii)
	}
	return ascii, nil
}
