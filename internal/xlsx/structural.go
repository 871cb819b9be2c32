package xlsx

import (
	"errors"
	"fmt"

	"doc-translator/internal/document"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// StructuralBackend edits the workbook package directly. Cell styles and
// rich text survive; drawing objects excelize does not model may not.
type StructuralBackend struct{}

func NewStructuralBackend() *StructuralBackend { return &StructuralBackend{} }

func (b *StructuralBackend) Name() string { return "structural" }

func (b *StructuralBackend) Apply(src, dest string, edits *Edits) ([]document.UnitError, error) {
	f, err := excelize.OpenFile(src)
	if err != nil {
		return nil, &document.OpenError{Path: src, Format: document.FormatXLSX, Err: err}
	}
	defer f.Close()

	var failures []document.UnitError
	for _, ce := range edits.Cells {
		if err := setCellText(f, ce.Sheet, ce.Cell, ce.Text); err != nil {
			failures = append(failures, document.UnitError{Addr: ce.Addr, Stage: document.StageWrite, Err: err})
		}
	}

	failures = append(failures, renamePlan(f.GetSheetList(), edits.Renames, func(from, to string) error {
		if !hasSheet(f, from) {
			return fmt.Errorf("%w: sheet %q", document.ErrAddressNotFound, from)
		}
		unprotect(f, from)
		return f.SetSheetName(from, to)
	})...)

	if err := f.SaveAs(dest); err != nil {
		return failures, fmt.Errorf("save workbook: %w", err)
	}
	return failures, nil
}

// setCellText writes text with the formatting-carrier rule: a cell with
// styled runs keeps its first run's font and loses the text of the others;
// a plain cell keeps its style.
func setCellText(f *excelize.File, sheet, cell, text string) error {
	if !hasSheet(f, sheet) {
		return fmt.Errorf("%w: sheet %q", document.ErrAddressNotFound, sheet)
	}
	runs, err := f.GetCellRichText(sheet, cell)
	if err != nil {
		return fmt.Errorf("read cell %s: %w", cell, err)
	}
	if len(runs) > 1 || (len(runs) == 1 && runs[0].Font != nil) {
		runs[0].Text = text
		for i := 1; i < len(runs); i++ {
			runs[i].Text = ""
		}
		return f.SetCellRichText(sheet, cell, runs)
	}
	return f.SetCellStr(sheet, cell, text)
}

func hasSheet(f *excelize.File, sheet string) bool {
	for _, name := range f.GetSheetList() {
		if name == sheet {
			return true
		}
	}
	return false
}

// unprotect lifts protection that has no password. Password-protected
// sheets stay protected.
func unprotect(f *excelize.File, sheet string) {
	err := f.UnprotectSheet(sheet, "")
	if err != nil && !errors.Is(err, excelize.ErrUnprotectSheet) {
		log.Debug().Err(err).Str("sheet", sheet).Msg("Sheet stays protected")
	}
}
