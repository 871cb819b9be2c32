package xlsx

import (
	"path/filepath"
	"strings"
	"time"
)

// AutomationBackend drives a local Excel installation so shapes, text
// boxes and connectors survive the save. It only runs on Windows.
type AutomationBackend struct {
	attempts int
	delay    time.Duration
}

// NewAutomationBackend creates a backend that tries to open a locked
// workbook attempts times, delay apart, the last time read-only.
func NewAutomationBackend(attempts int, delay time.Duration) *AutomationBackend {
	if attempts < 1 {
		attempts = 1
	}
	return &AutomationBackend{attempts: attempts, delay: delay}
}

func (b *AutomationBackend) Name() string { return "automation" }

// Excel SaveAs file formats.
const (
	xlOpenXMLWorkbook      = 51
	xlOpenXMLWorkbookMacro = 52
	xlOpenXMLTemplateMacro = 53
	xlOpenXMLTemplate      = 54
)

func fileFormat(path string) int {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsm":
		return xlOpenXMLWorkbookMacro
	case ".xltm":
		return xlOpenXMLTemplateMacro
	case ".xltx":
		return xlOpenXMLTemplate
	default:
		return xlOpenXMLWorkbook
	}
}
