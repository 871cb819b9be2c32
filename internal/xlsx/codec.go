// Package xlsx extracts and re-injects the text of spreadsheet cells and
// the names of sheets.
package xlsx

import (
	"errors"

	"doc-translator/internal/document"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// Codec reads workbooks with excelize and writes them through the first
// backend that succeeds.
type Codec struct {
	backends []Backend
}

// NewCodec creates a codec that tries backends in order. With no backends
// the structural backend is used.
func NewCodec(backends ...Backend) *Codec {
	if len(backends) == 0 {
		backends = []Backend{NewStructuralBackend()}
	}
	return &Codec{backends: backends}
}

// Read lists every non-blank text cell in sheet order, row by row, then
// one unit per sheet name. Numbers, booleans and formula results are not
// text and are skipped.
func (c *Codec) Read(path string) (*document.Extraction, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &document.OpenError{Path: path, Format: document.FormatXLSX, Err: err}
	}
	defer f.Close()

	ex := &document.Extraction{}
	sheets := f.GetSheetList()
	for _, sheet := range sheets {
		rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, &document.OpenError{Path: path, Format: document.FormatXLSX, Err: err}
		}
		for r, row := range rows {
			for col, value := range row {
				if document.IsBlank(value) {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(col+1, r+1)
				if err != nil {
					continue
				}
				if !isTextCell(f, sheet, cell) {
					continue
				}
				ex.Units = append(ex.Units, document.Unit{Addr: CellAddress(sheet, cell), Text: value})
			}
		}
	}
	for _, sheet := range sheets {
		ex.Units = append(ex.Units, document.Unit{Addr: SheetAddress(sheet), Text: sheet})
	}

	log.Debug().Str("file", path).Int("sheets", len(sheets)).Int("units", len(ex.Units)).Msg("Read xlsx")
	return ex, nil
}

func isTextCell(f *excelize.File, sheet, cell string) bool {
	typ, err := f.GetCellType(sheet, cell)
	if err != nil {
		return false
	}
	if typ != excelize.CellTypeSharedString && typ != excelize.CellTypeInlineString {
		return false
	}
	formula, err := f.GetCellFormula(sheet, cell)
	return err == nil && formula == ""
}

// Write applies cell text then sheet renames to a copy of src saved at
// dest. Each backend starts again from src; if every backend fails the
// returned SaveError carries all of their causes.
func (c *Codec) Write(src, dest string, units []document.Unit) ([]document.UnitError, error) {
	edits, planFailures := planEdits(units)

	var causes []error
	for _, b := range c.backends {
		failures, err := b.Apply(src, dest, edits)
		if err == nil {
			log.Debug().
				Str("file", dest).
				Str("backend", b.Name()).
				Int("cells", len(edits.Cells)).
				Int("renames", len(edits.Renames)).
				Int("failed", len(failures)).
				Msg("Wrote xlsx")
			return append(planFailures, failures...), nil
		}

		causes = append(causes, err)
		if errors.Is(err, document.ErrBackendUnavailable) {
			log.Debug().Str("backend", b.Name()).Msg("Workbook backend unavailable")
		} else {
			log.Warn().Err(err).Str("backend", b.Name()).Msg("Workbook backend failed, falling back")
		}
	}
	return planFailures, &document.SaveError{Path: dest, Causes: causes}
}
