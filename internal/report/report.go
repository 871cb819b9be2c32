// Package report exports extracted units and run summaries as TSV or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"doc-translator/internal/document"
	"doc-translator/internal/pipeline"
	"doc-translator/internal/pptx"

	"github.com/rs/zerolog/log"
)

// Row is one exported unit or failure.
type Row struct {
	Key   string `json:"key"`
	Where string `json:"where"`
	Text  string `json:"text,omitempty"`
	Stage string `json:"stage,omitempty"`
	Error string `json:"error,omitempty"`
}

// ImageRow describes one picture found in a presentation.
type ImageRow struct {
	Slide  int    `json:"slide"`
	Shape  int    `json:"shape"`
	Part   string `json:"part"`
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Bytes  int    `json:"bytes"`
}

// Inspection is everything the inspect command reports about one file.
type Inspection struct {
	File     string     `json:"file"`
	Format   string     `json:"format"`
	Units    []Row      `json:"units"`
	Failures []Row      `json:"failures,omitempty"`
	Images   []ImageRow `json:"images,omitempty"`
}

// NewInspection builds an inspection from an extraction.
func NewInspection(file string, format document.Format, ex *document.Extraction) *Inspection {
	ins := &Inspection{File: file, Format: format.String(), Units: []Row{}}
	for _, u := range ex.Units {
		ins.Units = append(ins.Units, Row{Key: u.Addr.Key(), Where: u.Addr.String(), Text: u.Text})
	}
	ins.Failures = failureRows(ex.Failures)
	return ins
}

// AddImages appends a presentation's picture inventory.
func (ins *Inspection) AddImages(images []pptx.Image) {
	for _, img := range images {
		ins.Images = append(ins.Images, ImageRow{
			Slide:  img.Slide,
			Shape:  img.Shape,
			Part:   img.Part,
			Format: img.Format,
			Width:  img.Width,
			Height: img.Height,
			Bytes:  len(img.Data),
		})
	}
}

func failureRows(failures []document.UnitError) []Row {
	var rows []Row
	for _, f := range failures {
		row := Row{Stage: string(f.Stage), Error: fmt.Sprint(f.Err)}
		if f.Addr != nil {
			row.Key, row.Where = f.Addr.Key(), f.Addr.String()
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteTSV writes the units, then any failures, one per line.
func (ins *Inspection) WriteTSV(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "key\twhere\ttext\tstage\terror"); err != nil {
		return err
	}
	for _, rows := range [][]Row{ins.Units, ins.Failures} {
		for _, r := range rows {
			_, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				escapeTSV(r.Key),
				escapeTSV(r.Where),
				escapeTSV(r.Text),
				r.Stage,
				escapeTSV(r.Error),
			)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteJSON writes the inspection as indented JSON.
func (ins *Inspection) WriteJSON(w io.Writer) error {
	return encodeJSON(w, ins)
}

// Summary is the outcome of one document in a batch run.
type Summary struct {
	Input    string `json:"input"`
	Output   string `json:"output,omitempty"`
	Format   string `json:"format,omitempty"`
	Units    int    `json:"units"`
	Failed   int    `json:"failed"`
	Millis   int64  `json:"duration_ms"`
	Error    string `json:"error,omitempty"`
	Failures []Row  `json:"failures,omitempty"`
}

// NewSummary describes a finished document. err is the document-level
// error, if any.
func NewSummary(input string, res *pipeline.Result, err error) Summary {
	s := Summary{Input: input}
	if err != nil {
		s.Error = err.Error()
		return s
	}
	s.Output = res.Output
	s.Format = res.Format.String()
	s.Units = res.Units
	s.Failed = len(res.Failures)
	s.Millis = res.Duration.Milliseconds()
	s.Failures = failureRows(res.Failures)
	return s
}

// Export writes ins to path as "tsv" or "json".
func Export(path, format string, ins *Inspection) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s file: %w", strings.ToUpper(format), err)
	}
	defer f.Close()

	switch format {
	case "tsv":
		err = ins.WriteTSV(f)
	case "json":
		err = ins.WriteJSON(f)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	log.Info().Str("path", path).Int("units", len(ins.Units)).Msg("Exported units")
	return nil
}

// WriteSummaries writes batch results as indented JSON.
func WriteSummaries(w io.Writer, summaries []Summary) error {
	return encodeJSON(w, summaries)
}

func encodeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

// escapeTSV replaces tabs and newlines in a string for TSV safety.
func escapeTSV(s string) string {
	s = strings.ReplaceAll(s, "\t", "\\t")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\v", "\\v")
	return s
}
