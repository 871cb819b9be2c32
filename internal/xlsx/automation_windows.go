//go:build windows

package xlsx

import (
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"doc-translator/internal/document"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
	"github.com/rs/zerolog/log"
)

func (b *AutomationBackend) Apply(src, dest string, edits *Edits) ([]document.UnitError, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		return nil, fmt.Errorf("%w: initialize COM: %v", document.ErrBackendUnavailable, err)
	}
	defer ole.CoUninitialize()

	unknown, err := oleutil.CreateObject("Excel.Application")
	if err != nil {
		return nil, fmt.Errorf("%w: start Excel: %v", document.ErrBackendUnavailable, err)
	}
	defer unknown.Release()

	excel, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return nil, fmt.Errorf("%w: query Excel dispatch: %v", document.ErrBackendUnavailable, err)
	}
	defer excel.Release()
	defer oleutil.CallMethod(excel, "Quit")

	_, _ = oleutil.PutProperty(excel, "DisplayAlerts", false)
	_, _ = oleutil.PutProperty(excel, "Visible", false)

	srcAbs, err := filepath.Abs(src)
	if err != nil {
		return nil, fmt.Errorf("resolve source path: %w", err)
	}
	destAbs, err := filepath.Abs(dest)
	if err != nil {
		return nil, fmt.Errorf("resolve output path: %w", err)
	}

	wb, err := b.openWorkbook(excel, srcAbs)
	if err != nil {
		return nil, err
	}
	defer wb.Release()
	defer oleutil.CallMethod(wb, "Close", false)

	var failures []document.UnitError
	for _, ce := range edits.Cells {
		if err := writeCell(wb, ce); err != nil {
			failures = append(failures, document.UnitError{Addr: ce.Addr, Stage: document.StageWrite, Err: err})
		}
	}

	existing, err := sheetNames(wb)
	if err != nil {
		return failures, fmt.Errorf("list sheets: %w", err)
	}
	failures = append(failures, renamePlan(existing, edits.Renames, func(from, to string) error {
		ws, err := worksheet(wb, from)
		if err != nil {
			return err
		}
		defer ws.Release()
		unprotectSheet(ws)
		if _, err := oleutil.PutProperty(ws, "Name", to); err != nil {
			return fmt.Errorf("rename sheet %q: %w", from, err)
		}
		return nil
	})...)

	if _, err := oleutil.CallMethod(wb, "SaveAs", destAbs, fileFormat(dest)); err != nil {
		return failures, fmt.Errorf("save workbook: %w", err)
	}
	return failures, nil
}

// openWorkbook opens path for editing, retrying while the file is locked.
// The final attempt opens it read-only, which is enough for SaveAs.
func (b *AutomationBackend) openWorkbook(excel *ole.IDispatch, path string) (*ole.IDispatch, error) {
	workbooks, err := oleutil.GetProperty(excel, "Workbooks")
	if err != nil {
		return nil, fmt.Errorf("%w: workbooks collection: %v", document.ErrBackendUnavailable, err)
	}
	books := workbooks.ToIDispatch()
	defer books.Release()

	var lastErr error
	for attempt := 1; attempt <= b.attempts; attempt++ {
		readOnly := attempt == b.attempts && b.attempts > 1
		if readOnly {
			log.Warn().Str("file", path).Msg("Workbook is locked, opening read-only")
		}
		wb, err := oleutil.CallMethod(books, "Open", path, 0, readOnly)
		if err == nil {
			return wb.ToIDispatch(), nil
		}
		lastErr = err
		if attempt < b.attempts {
			log.Warn().Err(err).Int("attempt", attempt).Dur("delay", b.delay).Msg("Workbook open failed, retrying")
			time.Sleep(b.delay)
		}
	}
	return nil, fmt.Errorf("open workbook after %d attempts: %w", b.attempts, lastErr)
}

func worksheet(wb *ole.IDispatch, name string) (*ole.IDispatch, error) {
	v, err := oleutil.GetProperty(wb, "Worksheets", name)
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q", document.ErrAddressNotFound, name)
	}
	return v.ToIDispatch(), nil
}

func writeCell(wb *ole.IDispatch, ce CellEdit) error {
	ws, err := worksheet(wb, ce.Sheet)
	if err != nil {
		return err
	}
	defer ws.Release()
	unprotectSheet(ws)

	rng, err := oleutil.GetProperty(ws, "Range", ce.Cell)
	if err != nil {
		return fmt.Errorf("%w: cell %s", document.ErrAddressNotFound, ce.Cell)
	}
	cell := rng.ToIDispatch()
	defer cell.Release()

	if _, err := oleutil.PutProperty(cell, "Value", ce.Text); err != nil {
		return fmt.Errorf("write cell %s: %w", ce.Cell, err)
	}
	return nil
}

// unprotectSheet lifts content protection that has an empty password.
func unprotectSheet(ws *ole.IDispatch) {
	v, err := oleutil.GetProperty(ws, "ProtectContents")
	if err != nil {
		return
	}
	if protected, _ := v.Value().(bool); protected {
		_, _ = oleutil.CallMethod(ws, "Unprotect", "")
	}
}

func sheetNames(wb *ole.IDispatch) ([]string, error) {
	v, err := oleutil.GetProperty(wb, "Worksheets")
	if err != nil {
		return nil, err
	}
	sheets := v.ToIDispatch()
	defer sheets.Release()

	count, err := oleutil.GetProperty(sheets, "Count")
	if err != nil {
		return nil, err
	}
	n := int(count.Val)
	names := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		item, err := oleutil.GetProperty(sheets, "Item", i)
		if err != nil {
			return nil, err
		}
		ws := item.ToIDispatch()
		name, err := oleutil.GetProperty(ws, "Name")
		ws.Release()
		if err != nil {
			return nil, err
		}
		names = append(names, name.ToString())
	}
	return names, nil
}
