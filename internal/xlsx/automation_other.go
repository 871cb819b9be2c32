//go:build !windows

package xlsx

import (
	"doc-translator/internal/document"
)

func (b *AutomationBackend) Apply(src, dest string, edits *Edits) ([]document.UnitError, error) {
	return nil, document.ErrBackendUnavailable
}
