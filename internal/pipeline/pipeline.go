// Package pipeline runs one document through read, translate and write.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"doc-translator/internal/document"
	"doc-translator/internal/docx"
	"doc-translator/internal/pptx"
	"doc-translator/internal/textfile"
	"doc-translator/internal/translation"
	"doc-translator/internal/xlsx"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const timestampLayout = "20060102_150405"

// maxReserveAttempts bounds the _N suffixes tried for one output name.
const maxReserveAttempts = 1000

// Result describes one translated document.
type Result struct {
	ID       string
	Input    string
	Output   string
	Format   document.Format
	Units    int
	Failures []document.UnitError
	Duration time.Duration
}

// Pipeline translates documents into files under its output directory.
type Pipeline struct {
	outputDir string
	pass      *translation.Pass
	codecs    map[document.Format]document.Codec
	now       func() time.Time
}

// Option customises a Pipeline.
type Option func(*Pipeline)

// WithCodec replaces the codec used for one format.
func WithCodec(f document.Format, c document.Codec) Option {
	return func(p *Pipeline) { p.codecs[f] = c }
}

// WithClock sets the clock used for output timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New creates a pipeline writing into outputDir.
func New(outputDir string, pass *translation.Pass, opts ...Option) *Pipeline {
	p := &Pipeline{
		outputDir: outputDir,
		pass:      pass,
		codecs: map[document.Format]document.Codec{
			document.FormatDOCX: docx.NewCodec(),
			document.FormatPPTX: pptx.NewCodec(pptx.DefaultMaxDepth),
			document.FormatXLSX: xlsx.NewCodec(),
			document.FormatText: textfile.NewCodec(),
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// OutputDir is where translated documents are written.
func (p *Pipeline) OutputDir() string { return p.outputDir }

// Codec returns the codec handling f.
func (p *Pipeline) Codec(f document.Format) (document.Codec, error) {
	c, ok := p.codecs[f]
	if !ok {
		return nil, fmt.Errorf("no codec for %s", f)
	}
	return c, nil
}

// Extract reads the units of input without translating anything.
func (p *Pipeline) Extract(input string) (document.Format, *document.Extraction, error) {
	format, err := document.FormatFor(input)
	if err != nil {
		return 0, nil, err
	}
	codec, err := p.Codec(format)
	if err != nil {
		return 0, nil, err
	}
	ex, err := codec.Read(input)
	if err != nil {
		return 0, nil, err
	}
	return format, ex, nil
}

// TranslateDocument translates input and writes the result to a new file
// in the output directory. Unit-level problems are reported in
// Result.Failures; an error means no output file was produced.
//
// Cancellation is honoured until translation finishes. Once writing has
// started it runs to completion.
func (p *Pipeline) TranslateDocument(ctx context.Context, input string, dir translation.Direction) (*Result, error) {
	start := time.Now()
	id := uuid.NewString()

	format, err := document.FormatFor(input)
	if err != nil {
		return nil, err
	}
	codec, err := p.Codec(format)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger := log.With().Str("run", id).Str("file", filepath.Base(input)).Str("format", format.String()).Logger()
	logger.Info().Str("direction", dir.String()).Msg("Translating document")

	ex, err := codec.Read(input)
	if err != nil {
		return nil, err
	}
	failures := append([]document.UnitError(nil), ex.Failures...)

	translated, tfails := p.pass.Run(ctx, ex.Units, dir)
	failures = append(failures, tfails...)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("translate %s: %w", filepath.Base(input), err)
	}

	output, err := p.reserveOutput(input)
	if err != nil {
		return nil, err
	}

	wfails, err := codec.Write(input, output, changed(ex.Units, translated))
	if err != nil {
		if rmErr := os.Remove(output); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			logger.Warn().Err(rmErr).Str("output", output).Msg("Failed to remove partial output")
		}
		return nil, err
	}
	failures = append(failures, wfails...)

	res := &Result{
		ID:       id,
		Input:    input,
		Output:   output,
		Format:   format,
		Units:    len(ex.Units),
		Failures: failures,
		Duration: time.Since(start),
	}
	logger.Info().
		Str("output", output).
		Int("units", res.Units).
		Int("failed", len(failures)).
		Dur("duration", res.Duration).
		Msg("Document translated")
	return res, nil
}

// changed keeps the units whose text differs from what was read. Units
// left as they were are not rewritten, so their formatting is untouched.
func changed(original, translated []document.Unit) []document.Unit {
	var out []document.Unit
	for i, u := range translated {
		if u.Text != original[i].Text {
			out = append(out, u)
		}
	}
	return out
}

// reserveOutput creates an empty file named
// <base>_translated_<YYYYMMDD_HHMMSS><ext>, adding _1, _2, ... before the
// extension while the name is taken.
func (p *Pipeline) reserveOutput(input string) (string, error) {
	if err := os.MkdirAll(p.outputDir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	base := filepath.Base(input)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext) + "_translated_" + p.now().Format(timestampLayout)

	for n := 0; n < maxReserveAttempts; n++ {
		name := stem
		if n > 0 {
			name += "_" + strconv.Itoa(n)
		}
		path := filepath.Join(p.outputDir, name+ext)
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("reserve output file: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("reserve output file: %w", err)
		}
		return path, nil
	}
	return "", fmt.Errorf("reserve output file: no free name for %s", stem+ext)
}
