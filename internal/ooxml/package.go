// Package ooxml reads and writes Office Open XML packages: a zip container
// of XML parts linked by relationship files. Parts are parsed into mutable
// DOM trees on demand and only touched parts are re-serialized on save.
package ooxml

import (
	"archive/zip"
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/antchfx/xmlquery"
)

type entry struct {
	header zip.FileHeader
	data   []byte
	doc    *xmlquery.Node
	dirty  bool
}

// Package is an in-memory copy of an OOXML container.
type Package struct {
	entries []*entry
	byName  map[string]*entry
	rels    map[string]Relationships
}

// Open loads every entry of the container at path.
func Open(path string) (*Package, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open package: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat package: %w", err)
	}
	return Read(f, info.Size())
}

// Read loads a container from r.
func Read(r io.ReaderAt, size int64) (*Package, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("read zip container: %w", err)
	}

	p := &Package{
		byName: make(map[string]*entry, len(zr.File)),
		rels:   make(map[string]Relationships),
	}
	for _, zf := range zr.File {
		data, err := readZipFile(zf)
		if err != nil {
			return nil, fmt.Errorf("read part %s: %w", zf.Name, err)
		}
		e := &entry{header: zf.FileHeader, data: data}
		p.entries = append(p.entries, e)
		p.byName[zf.Name] = e
	}
	return p, nil
}

func readZipFile(zf *zip.File) ([]byte, error) {
	rc, err := zf.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Has reports whether the container holds a part with this name.
func (p *Package) Has(name string) bool {
	_, ok := p.byName[name]
	return ok
}

// Names lists part names in container order.
func (p *Package) Names() []string {
	names := make([]string, 0, len(p.entries))
	for _, e := range p.entries {
		names = append(names, e.header.Name)
	}
	return names
}

// Raw returns the stored bytes of a part.
func (p *Package) Raw(name string) ([]byte, error) {
	e, ok := p.byName[name]
	if !ok {
		return nil, fmt.Errorf("part %s: %w", name, os.ErrNotExist)
	}
	return e.data, nil
}

// Part returns the parsed DOM of an XML part. The tree is cached, so edits
// made through it are visible to later callers.
func (p *Package) Part(name string) (*xmlquery.Node, error) {
	e, ok := p.byName[name]
	if !ok {
		return nil, fmt.Errorf("part %s: %w", name, os.ErrNotExist)
	}
	if e.doc != nil {
		return e.doc, nil
	}
	doc, err := xmlquery.Parse(bytes.NewReader(e.data))
	if err != nil {
		return nil, fmt.Errorf("parse part %s: %w", name, err)
	}
	e.doc = doc
	return doc, nil
}

// Touch marks a part as modified so Save re-serializes its DOM.
func (p *Package) Touch(name string) {
	if e, ok := p.byName[name]; ok && e.doc != nil {
		e.dirty = true
	}
}

// Save writes the container to dest, keeping the original entry order.
func (p *Package) Save(dest string) error {
	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	if err := p.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", dest, err)
	}
	return nil
}

// WriteTo streams the container to w.
func (p *Package) WriteTo(w io.Writer) error {
	zw := zip.NewWriter(w)
	for _, e := range p.entries {
		hdr := &zip.FileHeader{
			Name:     e.header.Name,
			Method:   e.header.Method,
			Modified: e.header.Modified,
		}
		if strings.HasSuffix(hdr.Name, "/") {
			hdr.Method = zip.Store
		}
		fw, err := zw.CreateHeader(hdr)
		if err != nil {
			return fmt.Errorf("create entry %s: %w", hdr.Name, err)
		}
		if e.dirty {
			if err := serialize(fw, e.doc); err != nil {
				return fmt.Errorf("serialize part %s: %w", hdr.Name, err)
			}
			continue
		}
		if _, err := fw.Write(e.data); err != nil {
			return fmt.Errorf("write entry %s: %w", hdr.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize zip container: %w", err)
	}
	return nil
}

// serialize writes a parsed part to w. xmlquery ignores the error of its
// own final flush; bw.Flush surfaces it.
func serialize(w io.Writer, doc *xmlquery.Node) error {
	bw := bufio.NewWriter(w)
	if err := doc.WriteWithOptions(bw, xmlquery.WithEmptyTagSupport()); err != nil {
		return err
	}
	return bw.Flush()
}
