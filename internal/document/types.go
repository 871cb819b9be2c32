package document

import (
	"path/filepath"
	"strings"
)

// Address names one text-bearing node inside a single document.
// Two addresses are equal when their keys are equal.
type Address interface {
	// Key is stable across reads of the same unmodified document and is used
	// as the lookup key when translations are applied.
	Key() string
	String() string
}

// Unit is one (address, text) pair. Readers emit units holding the original
// text; the translation pass returns units holding the translated text.
type Unit struct {
	Addr Address
	Text string
}

// Extraction is the output of a reader: units in traversal order plus the
// nodes that had to be skipped.
type Extraction struct {
	Units    []Unit
	Failures []UnitError
}

// Reader extracts translatable units from a document in deterministic order.
// A container that cannot be opened fails the whole read with an OpenError.
type Reader interface {
	Read(path string) (*Extraction, error)
}

// Writer reopens src as a template, applies units by address and commits the
// result to dest. Per-unit failures are returned, not raised.
type Writer interface {
	Write(src, dest string, units []Unit) ([]UnitError, error)
}

// Codec pairs the reader and writer of one format.
type Codec interface {
	Reader
	Writer
}

// Format is the closed set of document kinds the pipeline understands.
type Format int

const (
	FormatDOCX Format = iota + 1
	FormatPPTX
	FormatXLSX
	FormatText
)

var formatNames = map[Format]string{
	FormatDOCX: "docx",
	FormatPPTX: "pptx",
	FormatXLSX: "xlsx",
	FormatText: "text",
}

func (f Format) String() string {
	if n, ok := formatNames[f]; ok {
		return n
	}
	return "unknown"
}

// extensions maps lower-case file extensions to formats.
var extensions = map[string]Format{
	".docx": FormatDOCX,
	".pptx": FormatPPTX,
	".xlsx": FormatXLSX,
	".xlsm": FormatXLSX,
	".xltx": FormatXLSX,
	".xltm": FormatXLSX,
	".txt":  FormatText,
	".csv":  FormatText,
}

// FormatFor picks the format of path from its extension only.
func FormatFor(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := extensions[ext]; ok {
		return f, nil
	}
	return 0, &UnsupportedFormatError{Ext: ext}
}

// Supported reports whether path has a recognised extension.
func Supported(path string) bool {
	_, err := FormatFor(path)
	return err == nil
}

// IsBlank reports whether text has no visible content.
func IsBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}

// Index builds the key → text mapping writers use to look units up.
func Index(units []Unit) map[string]string {
	m := make(map[string]string, len(units))
	for _, u := range units {
		if u.Addr == nil {
			continue
		}
		m[u.Addr.Key()] = u.Text
	}
	return m
}
