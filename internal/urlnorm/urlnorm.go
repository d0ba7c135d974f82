// Package urlnorm canonicalizes http and https URLs so that different
// spellings of the same resource compare equal. The output is meant for
// deduplication and cache keys: normalization is idempotent, deterministic
// and never panics. Inputs that do not look like a URL fail with ErrNotURL.
package urlnorm

import (
	"errors"
	"fmt"
)

var (
	// ErrNotURL is returned for every input that cannot be normalized. All
	// errors from Normalize match it with errors.Is.
	ErrNotURL = errors.New("urlnorm: not a url")

	// ErrUnencodableHost reports a host label that IDNA encoding rejects.
	ErrUnencodableHost = errors.New("unencodable host")
	// ErrMalformedQuery reports a query field without '=' under StrictQuery.
	ErrMalformedQuery = errors.New("malformed query field")
	// ErrInvalidPort reports a port that is not a number in 0-65535.
	ErrInvalidPort = errors.New("invalid port")
)

// QueryArg is a caller-supplied query argument. Name and Value are text and
// are encoded as UTF-8.
type QueryArg struct {
	Name  string `yaml:"name" json:"name"`
	Value string `yaml:"value" json:"value"`
}

// Options tunes normalization. The zero value drops fragments and blank
// query values and adds no query arguments.
type Options struct {
	// ExtraQueryArgs are merged into the query and sorted with it.
	ExtraQueryArgs []QueryArg
	// KeepFragments keeps the #fragment verbatim instead of dropping it.
	KeepFragments bool
	// KeepBlankValues keeps query fields whose value is empty or missing.
	KeepBlankValues bool
	// StrictQuery fails on query fields without '='.
	StrictQuery bool
	// KeepTrailingSlash keeps a trailing '/' on non-root paths.
	KeepTrailingSlash bool
}

// Normalize returns the canonical form of raw. Scheme-less input is treated
// as http. On failure the returned string is empty and the error matches
// ErrNotURL; it may also match the more specific cause.
func Normalize(raw string, opts Options) (string, error) {
	candidate, err := gate(raw)
	if err != nil {
		return "", notURL(err)
	}
	parts, err := split(candidate)
	if err != nil {
		return "", notURL(err)
	}
	authority, err := normalizeAuthority(parts)
	if err != nil {
		return "", notURL(err)
	}
	query, err := normalizeQuery(parts.query, opts)
	if err != nil {
		return "", notURL(err)
	}
	path := normalizePath(parts.path, opts.KeepTrailingSlash)

	fragment := parts.fragment
	if !opts.KeepFragments {
		fragment = ""
	}
	return assemble(parts.scheme, authority, path, query, fragment), nil
}

// NormalizeValue normalizes an arbitrary value. Only string and []byte are
// treated as text; anything else, nil included, fails with ErrNotURL.
func NormalizeValue(v any, opts Options) (string, error) {
	switch raw := v.(type) {
	case string:
		return Normalize(raw, opts)
	case []byte:
		return Normalize(string(raw), opts)
	default:
		return "", notURL(fmt.Errorf("%w: %T", errUnsupported, v))
	}
}

func notURL(err error) error {
	return fmt.Errorf("%w: %w", ErrNotURL, err)
}
