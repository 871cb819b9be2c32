// Package pptx extracts and re-injects the text of slide shapes, following
// group nesting depth-first.
package pptx

import (
	"doc-translator/internal/document"

	"github.com/rs/zerolog/log"
)

// Deck is the full result of reading a presentation.
type Deck struct {
	Units    []document.Unit
	Failures []document.UnitError
	Images   []Image
}

// Codec reads and writes .pptx documents.
type Codec struct {
	maxDepth int
}

// NewCodec creates a codec that refuses group nesting deeper than maxDepth.
// A non-positive value selects DefaultMaxDepth.
func NewCodec(maxDepth int) *Codec {
	if maxDepth < 1 {
		maxDepth = DefaultMaxDepth
	}
	return &Codec{maxDepth: maxDepth}
}

// ReadDeck extracts text units and the pictures of every slide.
func (c *Codec) ReadDeck(path string) (*Deck, error) {
	d, err := openDeck(path)
	if err != nil {
		return nil, &document.OpenError{Path: path, Format: document.FormatPPTX, Err: err}
	}
	refs, failures, err := d.textShapes(c.maxDepth)
	if err != nil {
		return nil, &document.OpenError{Path: path, Format: document.FormatPPTX, Err: err}
	}

	deck := &Deck{Failures: failures, Images: d.images()}
	for _, ref := range refs {
		text := frameText(ref.txBody)
		if document.IsBlank(text) {
			continue
		}
		deck.Units = append(deck.Units, document.Unit{Addr: ref.addr, Text: text})
	}

	log.Debug().
		Str("file", path).
		Int("slides", len(d.slides)).
		Int("units", len(deck.Units)).
		Int("images", len(deck.Images)).
		Msg("Read pptx")
	return deck, nil
}

func (c *Codec) Read(path string) (*document.Extraction, error) {
	deck, err := c.ReadDeck(path)
	if err != nil {
		return nil, err
	}
	return &document.Extraction{Units: deck.Units, Failures: deck.Failures}, nil
}

// Write reopens src, distributes each unit's lines over its shape's
// paragraphs and saves the result to dest.
func (c *Codec) Write(src, dest string, units []document.Unit) ([]document.UnitError, error) {
	d, err := openDeck(src)
	if err != nil {
		return nil, &document.OpenError{Path: src, Format: document.FormatPPTX, Err: err}
	}
	refs, _, err := d.textShapes(c.maxDepth)
	if err != nil {
		return nil, &document.OpenError{Path: src, Format: document.FormatPPTX, Err: err}
	}

	byKey := make(map[string]shapeRef, len(refs))
	for _, ref := range refs {
		byKey[ref.addr.Key()] = ref
	}

	var failures []document.UnitError
	for _, u := range units {
		var ref shapeRef
		ok := false
		if u.Addr != nil {
			ref, ok = byKey[u.Addr.Key()]
		}
		if !ok {
			failures = append(failures, document.UnitError{Addr: u.Addr, Stage: document.StageWrite, Err: document.ErrAddressNotFound})
			continue
		}
		if !setFrameText(ref.txBody, u.Text) {
			failures = append(failures, document.UnitError{Addr: u.Addr, Stage: document.StageWrite, Err: errNoParagraphs})
			continue
		}
		d.pkg.Touch(ref.part)
	}

	if err := d.pkg.Save(dest); err != nil {
		return failures, &document.SaveError{Path: dest, Causes: []error{err}}
	}

	log.Debug().Str("file", dest).Int("units", len(units)).Int("failed", len(failures)).Msg("Wrote pptx")
	return failures, nil
}
