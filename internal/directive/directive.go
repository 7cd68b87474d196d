// Package directive splits list-tag bodies into key/value directives.
//
// The format is one "key=value" pair per line. Only the first '=' splits;
// the value may contain further '=' characters. Lines without '=' are
// skipped. Keys and values are not interpreted here: unknown keys and
// malformed values pass through for the spec builder to judge.
package directive

import "strings"

// Directive is one key/value instruction from the tag body.
type Directive struct {
	Key   string
	Value string
}

// Parse splits text into directives in document order.
// Parse is a pure function with no side effects.
func Parse(text string) []Directive {
	lines := strings.Split(text, "\n")
	directives := make([]Directive, 0, len(lines))
	for _, line := range lines {
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		directives = append(directives, Directive{
			Key:   strings.TrimSpace(key),
			Value: strings.TrimSpace(value),
		})
	}
	return directives
}
