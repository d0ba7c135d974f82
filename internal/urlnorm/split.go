package urlnorm

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var errMissingAuthority = errors.New("missing scheme separator")

// components is the decomposed form of a gate-accepted URL. Nothing in it is
// normalized yet.
type components struct {
	scheme   string
	netloc   string
	path     string
	query    string
	fragment string

	userinfo bool
	username string
	password string
	host     string
	port     string
	portNum  int
}

func (c components) hasPort() bool {
	return c.port != ""
}

// split decomposes raw in the same order as a generic URL splitter: the
// netloc ends at the first '/', '?' or '#', the fragment is cut before the
// query, and the port is checked for range.
func split(raw string) (components, error) {
	var c components
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return c, errMissingAuthority
	}
	c.scheme = strings.ToLower(scheme)

	end := strings.IndexAny(rest, "/?#")
	if end < 0 {
		end = len(rest)
	}
	c.netloc, rest = rest[:end], rest[end:]
	rest, c.fragment, _ = strings.Cut(rest, "#")
	c.path, c.query, _ = strings.Cut(rest, "?")

	hostinfo := c.netloc
	if at := strings.LastIndexByte(c.netloc, '@'); at >= 0 {
		c.userinfo = true
		c.username, c.password, _ = strings.Cut(c.netloc[:at], ":")
		hostinfo = c.netloc[at+1:]
	}

	if strings.HasPrefix(hostinfo, "[") {
		if closing := strings.IndexByte(hostinfo, ']'); closing >= 0 {
			c.host = hostinfo[:closing+1]
			_, c.port, _ = strings.Cut(hostinfo[closing+1:], ":")
		} else {
			c.host = hostinfo
		}
	} else {
		c.host, c.port, _ = strings.Cut(hostinfo, ":")
	}

	if c.port != "" {
		n, err := parsePort(c.port)
		if err != nil {
			return c, err
		}
		c.portNum = n
	}
	return c, nil
}

func parsePort(s string) (int, error) {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("%w %q", ErrInvalidPort, s)
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n > 65535 {
		return 0, fmt.Errorf("%w %q: out of range", ErrInvalidPort, s)
	}
	return n, nil
}
