package xlsx

import (
	"doc-translator/internal/document"
)

// Backend applies edits to a copy of a workbook. A backend that cannot run
// on this host returns document.ErrBackendUnavailable.
type Backend interface {
	Name() string
	Apply(src, dest string, edits *Edits) ([]document.UnitError, error)
}

// renamePlan resolves collision-free targets for every rename against the
// names the workbook currently holds. apply performs one rename; when it
// fails the original name is kept and the failure recorded.
func renamePlan(existing []string, renames []Rename, apply func(from, to string) error) []document.UnitError {
	names := newNameAllocator(existing)
	var failures []document.UnitError
	for _, r := range renames {
		names.release(r.From)
		target := names.claim(r.To)
		if target == r.From {
			continue
		}
		if err := apply(r.From, target); err != nil {
			names.release(target)
			names.claim(r.From)
			failures = append(failures, document.UnitError{Addr: r.Addr, Stage: document.StageWrite, Err: err})
		}
	}
	return failures
}
