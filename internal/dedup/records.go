package dedup

import (
	"bufio"
	"fmt"
	"strings"
)

const maxLineSize = 1 << 20

// record is one raw URL and where it came from.
type record struct {
	source string
	line   int
	raw    string
}

func readRecords(cfg Config) ([]record, error) {
	var records []record
	for i, in := range cfg.Inputs {
		name := in.Name
		if name == "" {
			name = fmt.Sprintf("input-%d", i+1)
		}
		var (
			recs []record
			err  error
		)
		if cfg.HTML {
			recs, err = extractLinks(name, in, cfg.BaseURL)
		} else {
			recs, err = scanLines(name, in)
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		records = append(records, recs...)
	}
	return records, nil
}

// scanLines returns one record per non-blank line. Lines starting with '#'
// are comments.
func scanLines(name string, in Input) ([]record, error) {
	scanner := bufio.NewScanner(in.Reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var records []record
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		records = append(records, record{source: name, line: line, raw: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
