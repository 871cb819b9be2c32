package interpolation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProtectRestore(t *testing.T) {
	text := "Hello {{ name }}, you have {0} items costing %.2f (${currency}) 100%%"

	safe, mappings := Protect(text)
	assert.Equal(t, "Hello {{var_1}}, you have {{var_2}} items costing {{var_3}} ({{var_4}}) 100{{var_5}}", safe)
	require.Len(t, mappings, 5)
	assert.Equal(t, "{{ name }}", mappings[0].Original)

	restored, err := Restore(safe, mappings)
	require.NoError(t, err)
	assert.Equal(t, text, restored)
}

func TestProtectWithoutVariables(t *testing.T) {
	safe, mappings := Protect("plain sentence")
	assert.Equal(t, "plain sentence", safe)
	assert.Nil(t, mappings)
}

func TestRestoreReordered(t *testing.T) {
	_, mappings := Protect("%s has %d")
	got, err := Restore("{{var_2}} を {{var_1}} が持つ", mappings)
	require.NoError(t, err)
	assert.Equal(t, "%d を %s が持つ", got)
}

func TestRestoreLostPlaceholder(t *testing.T) {
	_, mappings := Protect("Total: {0}")
	_, err := Restore("合計", mappings)
	assert.ErrorIs(t, err, ErrPlaceholderLost)
}
