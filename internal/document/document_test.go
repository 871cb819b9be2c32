package document

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAddr string

func (a testAddr) Key() string    { return string(a) }
func (a testAddr) String() string { return "unit " + string(a) }

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"report.docx", FormatDOCX},
		{"deck.PPTX", FormatPPTX},
		{"book.xlsx", FormatXLSX},
		{"macro.xlsm", FormatXLSX},
		{"template.xltx", FormatXLSX},
		{"template.xltm", FormatXLSX},
		{"notes.txt", FormatText},
		{"dir.v2/data.CSV", FormatText},
	}
	for _, tt := range tests {
		got, err := FormatFor(tt.path)
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}
}

func TestFormatForUnsupported(t *testing.T) {
	for _, path := range []string{"old.doc", "slides.ppt", "Makefile", "archive.docx.zip"} {
		_, err := FormatFor(path)
		assert.ErrorIs(t, err, ErrUnsupportedFormat, path)
		assert.False(t, Supported(path))
	}

	_, err := FormatFor("Makefile")
	assert.EqualError(t, err, "unsupported file type: no extension")
}

func TestFormatString(t *testing.T) {
	assert.Equal(t, "docx", FormatDOCX.String())
	assert.Equal(t, "text", FormatText.String())
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(""))
	assert.True(t, IsBlank(" \t\r\n\v　"))
	assert.False(t, IsBlank(" a "))
}

func TestIndex(t *testing.T) {
	idx := Index([]Unit{
		{Addr: testAddr("a"), Text: "1"},
		{Addr: nil, Text: "skipped"},
		{Addr: testAddr("b"), Text: "2"},
	})
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, idx)
}

func TestErrors(t *testing.T) {
	cause := errors.New("zip: not a valid zip file")
	openErr := &OpenError{Path: "a.docx", Format: FormatDOCX, Err: cause}
	assert.ErrorIs(t, openErr, cause)
	assert.Equal(t, "open docx document a.docx: zip: not a valid zip file", openErr.Error())

	first, second := errors.New("automation failed"), errors.New("disk full")
	saveErr := &SaveError{Path: "out.xlsx", Causes: []error{first, second}}
	assert.ErrorIs(t, saveErr, first)
	assert.ErrorIs(t, saveErr, second)
	assert.Equal(t, "save out.xlsx: automation failed; disk full", saveErr.Error())

	unitErr := UnitError{Addr: testAddr("x"), Stage: StageWrite, Err: ErrAddressNotFound}
	assert.ErrorIs(t, unitErr, ErrAddressNotFound)
	assert.Equal(t, "write unit x: address not found", unitErr.Error())
	assert.Equal(t, "read <nil>: boom", UnitError{Stage: StageRead, Err: errors.New("boom")}.Error())
}
