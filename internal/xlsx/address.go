package xlsx

import "fmt"

// Kind distinguishes cell text from sheet names.
type Kind uint8

const (
	KindCell Kind = iota
	KindSheetName
)

// Address is a (sheet, cell) pair, or a sheet on its own when the unit is
// the sheet's name.
type Address struct {
	Kind  Kind
	Sheet string
	Cell  string
}

func CellAddress(sheet, cell string) Address {
	return Address{Kind: KindCell, Sheet: sheet, Cell: cell}
}

func SheetAddress(sheet string) Address {
	return Address{Kind: KindSheetName, Sheet: sheet}
}

func (a Address) Key() string {
	if a.Kind == KindSheetName {
		return "sheet/" + a.Sheet
	}
	return "cell/" + a.Sheet + "!" + a.Cell
}

func (a Address) String() string {
	if a.Kind == KindSheetName {
		return fmt.Sprintf("sheet %q name", a.Sheet)
	}
	return fmt.Sprintf("sheet %q cell %s", a.Sheet, a.Cell)
}
