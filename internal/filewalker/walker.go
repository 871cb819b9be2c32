package filewalker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"doc-translator/internal/document"

	"github.com/rs/zerolog/log"
)

// Walker traverses directories looking for documents the pipeline handles.
type Walker struct {
	skipDirs map[string]bool
}

// NewWalker creates a Walker that does not descend into the given
// directories (typically the output directory).
func NewWalker(skipDirs ...string) *Walker {
	w := &Walker{skipDirs: make(map[string]bool)}
	for _, d := range skipDirs {
		if abs, err := filepath.Abs(d); err == nil {
			w.skipDirs[abs] = true
		}
	}
	return w
}

// FileEntry represents a discovered document ready for processing.
type FileEntry struct {
	Path   string
	Format document.Format
}

// Walk discovers all supported documents under root in lexical order.
// Office lock files ("~$name.docx") and hidden entries are skipped.
func (w *Walker) Walk(root string) ([]FileEntry, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root path: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", root)
	}

	var entries []FileEntry

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error walking path")
			return nil
		}

		name := d.Name()
		if d.IsDir() {
			if path != root && (w.skipDirs[path] || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, "~$") || strings.HasPrefix(name, ".") {
			return nil
		}

		format, err := document.FormatFor(path)
		if err != nil {
			return nil
		}
		entries = append(entries, FileEntry{Path: path, Format: format})
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	log.Info().Int("count", len(entries)).Str("root", root).Msg("Discovered documents")
	return entries, nil
}
