package cli

import (
	"archive/zip"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"doc-translator/internal/config"
	"doc-translator/internal/report"
	"doc-translator/internal/translation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newRootCmd()
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func isolateEnv(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("OUTPUT_DIR", filepath.Join(root, "outputs"))
	t.Setenv("UPLOAD_DIR", filepath.Join(root, "uploads"))
	t.Setenv("DATABASE_URL", "")
	t.Setenv("EXCEL_AUTOMATION", "false")
	t.Setenv("LOG_LEVEL", "error")
	return root
}

func TestTranslateDirectoryDryRun(t *testing.T) {
	root := isolateEnv(t)
	in := filepath.Join(root, "docs")
	require.NoError(t, os.MkdirAll(in, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(in, "a.txt"), []byte("alpha"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(in, "b.csv"), []byte("x,y"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(in, "skip.pdf"), []byte("%PDF"), 0644))
	summary := filepath.Join(root, "summary.json")

	require.NoError(t, run(t, "translate", in, "--dry-run", "-d", "en->ja", "--summary", summary))

	outputs, err := os.ReadDir(filepath.Join(root, "outputs"))
	require.NoError(t, err)
	assert.Len(t, outputs, 2)

	data, err := os.ReadFile(summary)
	require.NoError(t, err)
	var summaries []report.Summary
	require.NoError(t, json.Unmarshal(data, &summaries))
	require.Len(t, summaries, 2)
	assert.Equal(t, "text", summaries[0].Format)
	assert.Empty(t, summaries[0].Error)
}

func TestTranslateUnsupportedFile(t *testing.T) {
	root := isolateEnv(t)
	path := filepath.Join(root, "scan.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF"), 0644))

	err := run(t, "translate", path, "--dry-run")
	assert.Error(t, err)
}

func TestTranslateMissingInput(t *testing.T) {
	isolateEnv(t)
	assert.Error(t, run(t, "translate", "does-not-exist.docx", "--dry-run"))
}

func TestInspectPresentationJSON(t *testing.T) {
	root := isolateEnv(t)
	path := filepath.Join(root, "deck.pptx")
	writeDeck(t, path)
	out := filepath.Join(root, "units.json")

	require.NoError(t, run(t, "inspect", path, "--format", "json", "--output", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var ins report.Inspection
	require.NoError(t, json.Unmarshal(data, &ins))
	assert.Equal(t, "pptx", ins.Format)
	require.Len(t, ins.Units, 1)
	assert.Equal(t, "slide/0/shape/0", ins.Units[0].Key)
	assert.Equal(t, "Title", ins.Units[0].Text)
}

func TestInspectText(t *testing.T) {
	root := isolateEnv(t)
	path := filepath.Join(root, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))
	out := filepath.Join(root, "units.tsv")

	require.NoError(t, run(t, "inspect", path, "--output", out))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "file\twhole file\thello")
}

func TestProviderName(t *testing.T) {
	cfg := &config.Config{TranslationProvider: "gemini"}
	assert.Equal(t, "gemini", providerName(cfg, "", false))
	assert.Equal(t, "google", providerName(cfg, "google", false))
	assert.Equal(t, translation.ProviderIdentity, providerName(cfg, "google", true))
}

const (
	presentationXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:presentation xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:sldIdLst><p:sldId id="256" r:id="rId2"/></p:sldIdLst></p:presentation>`
	presentationRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide1.xml"/></Relationships>`
	slideXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:cSld><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>` +
		`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Title 1"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr><p:spPr/><p:txBody><a:bodyPr/><a:p><a:r><a:t>Title</a:t></a:r></a:p></p:txBody></p:sp>` +
		`</p:spTree></p:cSld></p:sld>`
	rootRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="ppt/presentation.xml"/></Relationships>`
)

func writeDeck(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, part := range []struct{ name, content string }{
		{"[Content_Types].xml", `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`},
		{"_rels/.rels", rootRels},
		{"ppt/presentation.xml", presentationXML},
		{"ppt/_rels/presentation.xml.rels", presentationRels},
		{"ppt/slides/slide1.xml", slideXML},
	} {
		w, err := zw.Create(part.name)
		require.NoError(t, err)
		_, err = w.Write([]byte(part.content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}
