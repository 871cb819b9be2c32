// Package docx extracts and re-injects paragraph text in WordprocessingML
// documents: body paragraphs, table cells and section headers and footers.
package docx

import (
	"doc-translator/internal/document"

	"github.com/rs/zerolog/log"
)

// Codec reads and writes .docx documents.
type Codec struct{}

func NewCodec() *Codec { return &Codec{} }

// Read lists the non-blank paragraphs of the document at path.
func (c *Codec) Read(path string) (*document.Extraction, error) {
	d, err := openDocument(path)
	if err != nil {
		return nil, &document.OpenError{Path: path, Format: document.FormatDOCX, Err: err}
	}
	refs, err := d.paragraphs()
	if err != nil {
		return nil, &document.OpenError{Path: path, Format: document.FormatDOCX, Err: err}
	}

	ex := &document.Extraction{}
	for _, ref := range refs {
		text := paragraphText(ref.node)
		if document.IsBlank(text) {
			continue
		}
		ex.Units = append(ex.Units, document.Unit{Addr: ref.addr, Text: text})
	}

	log.Debug().Str("file", path).Int("paragraphs", len(refs)).Int("units", len(ex.Units)).Msg("Read docx")
	return ex, nil
}

// Write reopens src, replaces the text of every addressed paragraph and
// saves the result to dest. Addresses that no longer resolve are reported
// and skipped.
func (c *Codec) Write(src, dest string, units []document.Unit) ([]document.UnitError, error) {
	d, err := openDocument(src)
	if err != nil {
		return nil, &document.OpenError{Path: src, Format: document.FormatDOCX, Err: err}
	}
	refs, err := d.paragraphs()
	if err != nil {
		return nil, &document.OpenError{Path: src, Format: document.FormatDOCX, Err: err}
	}

	byKey := make(map[string]paragraphRef, len(refs))
	for _, ref := range refs {
		byKey[ref.addr.Key()] = ref
	}

	var failures []document.UnitError
	applied := 0
	for _, u := range units {
		var ref paragraphRef
		ok := false
		if u.Addr != nil {
			ref, ok = byKey[u.Addr.Key()]
		}
		if !ok {
			failures = append(failures, document.UnitError{
				Addr:  u.Addr,
				Stage: document.StageWrite,
				Err:   document.ErrAddressNotFound,
			})
			continue
		}
		setParagraphText(ref.node, u.Text)
		d.pkg.Touch(ref.part)
		applied++
	}

	if err := d.pkg.Save(dest); err != nil {
		return failures, &document.SaveError{Path: dest, Causes: []error{err}}
	}

	log.Debug().Str("file", dest).Int("applied", applied).Int("failed", len(failures)).Msg("Wrote docx")
	return failures, nil
}
