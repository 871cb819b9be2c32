// Package textfile treats a plain text or CSV file as a single unit.
package textfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"doc-translator/internal/document"

	"github.com/rs/zerolog/log"
)

var errNotUTF8 = errors.New("file is not valid UTF-8")

// Address names the whole file. There is only one.
type Address struct{}

func (Address) Key() string    { return "file" }
func (Address) String() string { return "whole file" }

// Codec reads and writes UTF-8 text files.
type Codec struct{}

func NewCodec() *Codec { return &Codec{} }

// Read returns the file content as one unit, or no units when the file
// holds nothing but whitespace.
func (c *Codec) Read(path string) (*document.Extraction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &document.OpenError{Path: path, Format: document.FormatText, Err: err}
	}
	if !utf8.Valid(data) {
		return nil, &document.OpenError{Path: path, Format: document.FormatText, Err: errNotUTF8}
	}

	ex := &document.Extraction{}
	text := string(data)
	if !document.IsBlank(text) {
		ex.Units = append(ex.Units, document.Unit{Addr: Address{}, Text: text})
	}
	log.Debug().Str("file", path).Int("bytes", len(data)).Msg("Read text file")
	return ex, nil
}

// Write stores the translated text at dest. With no unit the source is
// copied byte for byte.
func (c *Codec) Write(src, dest string, units []document.Unit) ([]document.UnitError, error) {
	var (
		text     string
		found    bool
		failures []document.UnitError
	)
	for _, u := range units {
		if _, ok := u.Addr.(Address); !ok {
			failures = append(failures, document.UnitError{Addr: u.Addr, Stage: document.StageWrite, Err: document.ErrAddressNotFound})
			continue
		}
		text, found = u.Text, true
	}

	if !found {
		if err := copyFile(src, dest); err != nil {
			return failures, &document.SaveError{Path: dest, Causes: []error{err}}
		}
		return failures, nil
	}
	if err := os.WriteFile(dest, []byte(text), 0644); err != nil {
		return failures, &document.SaveError{Path: dest, Causes: []error{fmt.Errorf("write text file: %w", err)}}
	}
	return failures, nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy text file: %w", err)
	}
	return out.Close()
}
