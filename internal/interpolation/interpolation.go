package interpolation

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// ErrPlaceholderLost is returned by Restore when a translation dropped one
// of the protected placeholders.
var ErrPlaceholderLost = errors.New("placeholder lost in translation")

// Mapping stores the original placeholder and its safe replacement.
type Mapping struct {
	Original    string
	Placeholder string
	Index       int
}

type varMatch struct {
	start, end int
}

// patterns detect template variables and format verbs in document text.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`\{\{\s*[a-zA-Z_][a-zA-Z0-9_.]*\s*\}\}`), // {{field}}
	regexp.MustCompile(`\$\{[a-zA-Z_][a-zA-Z0-9_]*\}`),          // ${value}
	regexp.MustCompile(`\{[0-9]+\}`),                            // {0}, {1}
	regexp.MustCompile(`%[-+0-9]*\.?[0-9]*[dsfieEgGxXoubcpq]`),  // %d, %s, %2d
	regexp.MustCompile(`%%`),
}

// Protect replaces all interpolation variables with {{var_N}} placeholders.
// Returns the safe string and a mapping to restore originals after translation.
func Protect(text string) (string, []Mapping) {
	var matches []varMatch
	for _, p := range patterns {
		for _, loc := range p.FindAllStringIndex(text, -1) {
			matches = append(matches, varMatch{start: loc[0], end: loc[1]})
		}
	}
	if len(matches) == 0 {
		return text, nil
	}

	// Earliest first; the longer match wins on a shared start.
	slices.SortFunc(matches, func(a, b varMatch) int {
		if a.start != b.start {
			return a.start - b.start
		}
		return (b.end - b.start) - (a.end - a.start)
	})

	var (
		b        strings.Builder
		mappings []Mapping
		last     int
	)
	for _, m := range matches {
		if m.start < last {
			continue
		}
		idx := len(mappings) + 1
		placeholder := fmt.Sprintf("{{var_%d}}", idx)
		b.WriteString(text[last:m.start])
		b.WriteString(placeholder)
		mappings = append(mappings, Mapping{Original: text[m.start:m.end], Placeholder: placeholder, Index: idx})
		last = m.end
	}
	b.WriteString(text[last:])
	return b.String(), mappings
}

// Restore puts the original variables back. Every placeholder must still be
// present in translated.
func Restore(translated string, mappings []Mapping) (string, error) {
	result := translated
	for _, m := range mappings {
		if !strings.Contains(result, m.Placeholder) {
			return translated, fmt.Errorf("%w: %s", ErrPlaceholderLost, m.Original)
		}
		result = strings.Replace(result, m.Placeholder, m.Original, 1)
	}
	return result, nil
}
