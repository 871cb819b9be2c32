package xlsx

import (
	"errors"
	"strings"
	"testing"

	"doc-translator/internal/document"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSheetTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Summary", "Summary"},
		{"trimmed", "  Summary \n", "Summary"},
		{"invalid characters", "Q1/Q2: [draft]?", "Q1_Q2_ _draft__"},
		{"quotes", "'quoted'", "quoted"},
		{"blank", "   ", ""},
		{"truncated", strings.Repeat("x", 40), strings.Repeat("x", 31)},
		{"runes", strings.Repeat("表", 32), strings.Repeat("表", 31)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SheetTitle(tt.in))
		})
	}
}

func TestNameAllocatorSuffixes(t *testing.T) {
	names := newNameAllocator([]string{"Sheet1", "Sheet2"})

	assert.Equal(t, "Sheet1_1", names.claim("Sheet1"))
	assert.Equal(t, "sheet1_2", names.claim("sheet1"))
	assert.Equal(t, "Other", names.claim("Other"))

	names.release("Sheet2")
	assert.Equal(t, "Sheet2", names.claim("Sheet2"))
}

func TestNameAllocatorKeepsLimit(t *testing.T) {
	base := strings.Repeat("a", MaxSheetNameLength)
	names := newNameAllocator([]string{base})

	got := names.claim(base)
	assert.Equal(t, strings.Repeat("a", 29)+"_1", got)
	assert.LessOrEqual(t, len([]rune(got)), MaxSheetNameLength)
}

func TestRenamePlanContinuesAfterFailure(t *testing.T) {
	var applied []string
	failures := renamePlan(
		[]string{"A", "B", "C"},
		[]Rename{
			{Addr: SheetAddress("A"), From: "A", To: "X"},
			{Addr: SheetAddress("B"), From: "B", To: "Y"},
			{Addr: SheetAddress("C"), From: "C", To: "X"},
		},
		func(from, to string) error {
			if from == "B" {
				return errors.New("rename refused")
			}
			applied = append(applied, from+"->"+to)
			return nil
		},
	)

	assert.Equal(t, []string{"A->X", "C->X_1"}, applied)
	require.Len(t, failures, 1)
	assert.Equal(t, "sheet/B", failures[0].Addr.Key())
	assert.Equal(t, document.StageWrite, failures[0].Stage)
}

func TestRenamePlanSkipsUnchangedName(t *testing.T) {
	calls := 0
	failures := renamePlan([]string{"Same"}, []Rename{{From: "Same", To: "Same"}}, func(from, to string) error {
		calls++
		return nil
	})
	assert.Empty(t, failures)
	assert.Zero(t, calls)
}

func TestPlanEditsSkipsBlankNames(t *testing.T) {
	edits, failures := planEdits([]document.Unit{
		{Addr: SheetAddress("Sheet1"), Text: "  "},
		{Addr: SheetAddress("Sheet2"), Text: "Ventes"},
		{Addr: CellAddress("Sheet1", "A1"), Text: "x"},
		{Addr: nil, Text: "orphan"},
	})
	assert.Len(t, edits.Cells, 1)
	require.Len(t, edits.Renames, 1)
	assert.Equal(t, Rename{Addr: SheetAddress("Sheet2"), From: "Sheet2", To: "Ventes"}, edits.Renames[0])
	assert.Len(t, failures, 1)
}
