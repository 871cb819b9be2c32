// Package translation turns document units into their translations through
// a pluggable provider.
package translation

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

const (
	// AutoSource asks the provider to detect the source language.
	AutoSource = "auto"
	// DefaultTarget is used when a direction names no target.
	DefaultTarget = "ja"
)

// Translator translates one text from source to target. source may be
// AutoSource.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// Direction is a source and target language pair.
type Direction struct {
	Source string
	Target string
}

func (d Direction) String() string {
	return d.Source + "->" + d.Target
}

// ParseDirection reads "<source>-><target>". A missing arrow, an empty
// part or a source that is not a language tag falls back to AutoSource and
// DefaultTarget.
func ParseDirection(s string) Direction {
	d := Direction{Source: AutoSource, Target: DefaultTarget}
	src, dst, ok := strings.Cut(s, "->")
	if !ok {
		return d
	}
	if src = strings.TrimSpace(src); src != "" && validTag(src) {
		d.Source = src
	}
	if dst = strings.TrimSpace(dst); dst != "" {
		d.Target = dst
	}
	return d
}

// NewDirection builds a direction from separate form fields.
func NewDirection(source, target string) Direction {
	return ParseDirection(source + "->" + target)
}

func validTag(s string) bool {
	if strings.EqualFold(s, AutoSource) {
		return true
	}
	_, err := language.Parse(s)
	return err == nil
}

// sourceTag returns the language tag for source, or language.Und when the
// provider should detect it.
func sourceTag(source string) (language.Tag, error) {
	if source == "" || strings.EqualFold(source, AutoSource) {
		return language.Und, nil
	}
	tag, err := language.Parse(source)
	if err != nil {
		return language.Und, fmt.Errorf("parse source language %q: %w", source, err)
	}
	return tag, nil
}

// Identity returns every text unchanged. It backs dry runs.
type Identity struct{}

func (Identity) Translate(_ context.Context, text, _, _ string) (string, error) {
	return text, nil
}
