//go:build !windows

package xlsx

import (
	"path/filepath"
	"testing"

	"doc-translator/internal/document"

	"github.com/stretchr/testify/assert"
)

func TestAutomationUnavailableOffWindows(t *testing.T) {
	b := NewAutomationBackend(3, 0)
	_, err := b.Apply("in.xlsx", filepath.Join(t.TempDir(), "out.xlsx"), &Edits{})
	assert.ErrorIs(t, err, document.ErrBackendUnavailable)
}

func TestFileFormatByExtension(t *testing.T) {
	assert.Equal(t, 51, fileFormat("a.xlsx"))
	assert.Equal(t, 52, fileFormat("a.XLSM"))
	assert.Equal(t, 53, fileFormat("a.xltm"))
	assert.Equal(t, 54, fileFormat("a.xltx"))
}
