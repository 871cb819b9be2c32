package xlsx

import (
	"doc-translator/internal/document"
)

// CellEdit overwrites the text of one cell.
type CellEdit struct {
	Addr  Address
	Sheet string
	Cell  string
	Text  string
}

// Rename gives a sheet a new name. To is already a legal sheet title but
// may still collide with another sheet.
type Rename struct {
	Addr Address
	From string
	To   string
}

// Edits is everything a backend applies to one workbook: cell writes first,
// then renames.
type Edits struct {
	Cells   []CellEdit
	Renames []Rename
}

// planEdits sorts units into cell writes and renames. Units that are not
// workbook addresses are returned as failures.
func planEdits(units []document.Unit) (*Edits, []document.UnitError) {
	edits := &Edits{}
	var failures []document.UnitError
	for _, u := range units {
		addr, ok := u.Addr.(Address)
		if !ok {
			failures = append(failures, document.UnitError{Addr: u.Addr, Stage: document.StageWrite, Err: document.ErrAddressNotFound})
			continue
		}
		switch addr.Kind {
		case KindSheetName:
			title := SheetTitle(u.Text)
			if title == "" {
				continue
			}
			edits.Renames = append(edits.Renames, Rename{Addr: addr, From: addr.Sheet, To: title})
		default:
			edits.Cells = append(edits.Cells, CellEdit{Addr: addr, Sheet: addr.Sheet, Cell: addr.Cell, Text: u.Text})
		}
	}
	return edits, failures
}
