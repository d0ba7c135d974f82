package dedup

import (
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// extractLinks returns the href of every anchor in the document, resolved
// against the document's <base href> and then baseURL. Script, mail and
// phone links are skipped.
func extractLinks(name string, in Input, baseURL string) ([]record, error) {
	doc, err := goquery.NewDocumentFromReader(in.Reader)
	if err != nil {
		return nil, err
	}

	base := parseBase(baseURL, nil)
	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		base = parseBase(strings.TrimSpace(href), base)
	}

	var records []record
	ordinal := 0
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || href == "#" {
			return
		}
		lower := strings.ToLower(href)
		switch {
		case strings.HasPrefix(lower, "javascript:"):
			return
		case strings.HasPrefix(lower, "mailto:"):
			return
		case strings.HasPrefix(lower, "tel:"):
			return
		}
		ordinal++
		records = append(records, record{source: name, line: ordinal, raw: resolve(base, href)})
	})
	return records, nil
}

func parseBase(raw string, parent *url.URL) *url.URL {
	if raw == "" {
		return parent
	}
	u, err := url.Parse(raw)
	if err != nil {
		return parent
	}
	if parent != nil && !u.IsAbs() {
		u = parent.ResolveReference(u)
	}
	if !u.IsAbs() {
		return parent
	}
	return u
}

// resolve makes href absolute against base. Hrefs that cannot be parsed, or
// have no base to resolve against, are returned unchanged for the normalizer
// to judge.
func resolve(base *url.URL, href string) string {
	if base == nil {
		return href
	}
	candidate, err := url.Parse(href)
	if err != nil || candidate.IsAbs() {
		return href
	}
	return base.ResolveReference(candidate).String()
}

func buildAllowedExtensions(list []string) map[string]struct{} {
	if len(list) == 0 {
		return nil
	}
	allowed := make(map[string]struct{})
	for _, item := range list {
		trimmed := strings.TrimSpace(item)
		if trimmed == "" {
			allowed[""] = struct{}{}
			continue
		}
		lowered := strings.ToLower(trimmed)
		if lowered != "/" && !strings.HasPrefix(lowered, ".") {
			lowered = "." + lowered
		}
		allowed[lowered] = struct{}{}
	}
	if _, ok := allowed[""]; !ok {
		allowed[""] = struct{}{}
	}
	return allowed
}

// allowedExtension filters on the extension of the normalized path. Paths
// without an extension pass whenever any filter is set.
func (d *deduper) allowedExtension(normalized string) bool {
	if len(d.allowedExt) == 0 {
		return true
	}
	u, err := url.Parse(normalized)
	if err != nil {
		return true
	}
	pathValue := u.EscapedPath()
	if pathValue == "" || strings.HasSuffix(pathValue, "/") {
		if _, ok := d.allowedExt[""]; ok {
			return true
		}
		_, ok := d.allowedExt["/"]
		return ok
	}
	ext := strings.ToLower(path.Ext(pathValue))
	if ext == "" {
		_, ok := d.allowedExt[""]
		return ok
	}
	_, ok := d.allowedExt[ext]
	return ok
}
