package pipeline

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"doc-translator/internal/document"
	"doc-translator/internal/textfile"
	"doc-translator/internal/translation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

type dictTranslator struct {
	mu    sync.Mutex
	dict  map[string]string
	calls int
}

func (d *dictTranslator) Translate(_ context.Context, text, _, _ string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	if tr, ok := d.dict[text]; ok {
		return tr, nil
	}
	return text, nil
}

// recordingCodec wraps a codec and remembers the units handed to Write.
type recordingCodec struct {
	document.Codec
	written  []document.Unit
	writeErr error
}

func (r *recordingCodec) Write(src, dest string, units []document.Unit) ([]document.UnitError, error) {
	r.written = units
	if r.writeErr != nil {
		return nil, r.writeErr
	}
	return r.Codec.Write(src, dest, units)
}

func newPipeline(t *testing.T, tr translation.Translator, opts ...Option) (*Pipeline, string) {
	t.Helper()
	out := filepath.Join(t.TempDir(), "outputs")
	opts = append([]Option{WithClock(func() time.Time { return fixedTime })}, opts...)
	return New(out, translation.NewPass(tr, 1), opts...), out
}

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestTranslateTextFile(t *testing.T) {
	tr := &dictTranslator{dict: map[string]string{"Hello world": "こんにちは世界"}}
	p, out := newPipeline(t, tr)
	input := writeInput(t, "notes.txt", "Hello world")

	res, err := p.TranslateDocument(context.Background(), input, translation.ParseDirection("en->ja"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(out, "notes_translated_20240102_030405.txt"), res.Output)
	assert.Equal(t, document.FormatText, res.Format)
	assert.Equal(t, 1, res.Units)
	assert.Empty(t, res.Failures)
	assert.NotEmpty(t, res.ID)

	got, err := os.ReadFile(res.Output)
	require.NoError(t, err)
	assert.Equal(t, "こんにちは世界", string(got))
}

func TestOutputNamesAreUnique(t *testing.T) {
	p, out := newPipeline(t, translation.Identity{})
	input := writeInput(t, "a.csv", "x,y")

	var outputs []string
	for range 3 {
		res, err := p.TranslateDocument(context.Background(), input, translation.ParseDirection(""))
		require.NoError(t, err)
		outputs = append(outputs, res.Output)
	}
	assert.Equal(t, []string{
		filepath.Join(out, "a_translated_20240102_030405.csv"),
		filepath.Join(out, "a_translated_20240102_030405_1.csv"),
		filepath.Join(out, "a_translated_20240102_030405_2.csv"),
	}, outputs)
}

func TestWhitespaceOnlyTextFile(t *testing.T) {
	tr := &dictTranslator{}
	p, _ := newPipeline(t, tr)
	input := writeInput(t, "blank.txt", " \n\t \n")

	res, err := p.TranslateDocument(context.Background(), input, translation.ParseDirection("en->ja"))
	require.NoError(t, err)
	assert.Zero(t, tr.calls)
	assert.Zero(t, res.Units)

	got, err := os.ReadFile(res.Output)
	require.NoError(t, err)
	assert.Equal(t, " \n\t \n", string(got))
}

func TestUnsupportedFormatDoesNoIO(t *testing.T) {
	p, out := newPipeline(t, translation.Identity{})

	_, err := p.TranslateDocument(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"), translation.ParseDirection(""))
	require.ErrorIs(t, err, document.ErrUnsupportedFormat)

	var unsupported *document.UnsupportedFormatError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, ".pdf", unsupported.Ext)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestOpenErrorLeavesNoOutput(t *testing.T) {
	p, out := newPipeline(t, translation.Identity{})
	input := writeInput(t, "broken.docx", "not a zip")

	_, err := p.TranslateDocument(context.Background(), input, translation.ParseDirection(""))
	var openErr *document.OpenError
	require.True(t, errors.As(err, &openErr))
	assert.Equal(t, document.FormatDOCX, openErr.Format)

	entries, _ := os.ReadDir(out)
	assert.Empty(t, entries)
}

func TestWriteFailureRemovesReservation(t *testing.T) {
	codec := &recordingCodec{Codec: textfile.NewCodec(), writeErr: &document.SaveError{Path: "x", Causes: []error{errors.New("disk full")}}}
	p, out := newPipeline(t, &dictTranslator{dict: map[string]string{"a": "b"}}, WithCodec(document.FormatText, codec))
	input := writeInput(t, "in.txt", "a")

	_, err := p.TranslateDocument(context.Background(), input, translation.ParseDirection(""))
	var saveErr *document.SaveError
	require.True(t, errors.As(err, &saveErr))

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUnchangedUnitsAreNotRewritten(t *testing.T) {
	codec := &recordingCodec{Codec: textfile.NewCodec()}
	p, _ := newPipeline(t, translation.Identity{}, WithCodec(document.FormatText, codec))
	input := writeInput(t, "same.txt", "unchanged")

	_, err := p.TranslateDocument(context.Background(), input, translation.ParseDirection(""))
	require.NoError(t, err)
	assert.Empty(t, codec.written)
}

func TestCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p, out := newPipeline(t, translation.Identity{})
	input := writeInput(t, "in.txt", "text")

	_, err := p.TranslateDocument(ctx, input, translation.ParseDirection(""))
	assert.ErrorIs(t, err, context.Canceled)
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

type cancellingTranslator struct {
	cancel context.CancelFunc
}

func (c cancellingTranslator) Translate(ctx context.Context, text, _, _ string) (string, error) {
	c.cancel()
	return "translated", nil
}

func TestCancelledDuringTranslation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p, out := newPipeline(t, cancellingTranslator{cancel: cancel})
	input := writeInput(t, "in.txt", "text")

	_, err := p.TranslateDocument(ctx, input, translation.ParseDirection(""))
	assert.ErrorIs(t, err, context.Canceled)
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

const minimalDocument = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
	`<w:p><w:r><w:rPr><w:b/></w:rPr><w:t>Hello</w:t></w:r><w:r><w:t xml:space="preserve"> world</w:t></w:r></w:p>` +
	`<w:p/>` +
	`</w:body></w:document>`

func writeMinimalDocx(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "greeting.docx")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range map[string]string{
		"[Content_Types].xml": `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`,
		"_rels/.rels": `<?xml version="1.0"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`,
		"word/document.xml": minimalDocument,
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return path
}

func TestTranslateDocx(t *testing.T) {
	tr := &dictTranslator{dict: map[string]string{"Hello world": "こんにちは世界"}}
	p, _ := newPipeline(t, tr)
	input := writeMinimalDocx(t)

	res, err := p.TranslateDocument(context.Background(), input, translation.ParseDirection("en->ja"))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Units)
	assert.Equal(t, ".docx", filepath.Ext(res.Output))

	_, ex, err := p.Extract(res.Output)
	require.NoError(t, err)
	require.Len(t, ex.Units, 1)
	assert.Equal(t, "こんにちは世界", ex.Units[0].Text)
	assert.Equal(t, "body/0", ex.Units[0].Addr.Key())
}

func TestExtractUnsupported(t *testing.T) {
	p, _ := newPipeline(t, translation.Identity{})
	_, _, err := p.Extract("slides.key")
	assert.ErrorIs(t, err, document.ErrUnsupportedFormat)
}
