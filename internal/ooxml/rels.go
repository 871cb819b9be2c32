package ooxml

import (
	"fmt"
	"path"
	"strings"
)

// Relationship is one entry of a part's relationship file.
type Relationship struct {
	ID       string
	Type     string
	Target   string
	External bool
}

// Relationships maps relationship ids to entries.
type Relationships map[string]Relationship

// RelsName returns the relationship part that belongs to part.
func RelsName(part string) string {
	dir, file := path.Split(part)
	return dir + "_rels/" + file + ".rels"
}

// Rels parses the relationship part of part. A part without relationships
// yields an empty map.
func (p *Package) Rels(part string) (Relationships, error) {
	if rels, ok := p.rels[part]; ok {
		return rels, nil
	}

	rels := make(Relationships)
	name := RelsName(part)
	if !p.Has(name) {
		p.rels[part] = rels
		return rels, nil
	}

	doc, err := p.Part(name)
	if err != nil {
		return nil, err
	}
	root := Root(doc)
	if root == nil {
		return nil, fmt.Errorf("parse relationships %s: empty document", name)
	}
	for _, n := range Children(root, NSPackageRels, "Relationship") {
		r := Relationship{
			ID:       Attr(n, "", "Id"),
			Type:     Attr(n, "", "Type"),
			Target:   Attr(n, "", "Target"),
			External: Attr(n, "", "TargetMode") == "External",
		}
		if r.ID != "" {
			rels[r.ID] = r
		}
	}
	p.rels[part] = rels
	return rels, nil
}

// Resolve returns the part name an internal relationship of part points to.
func Resolve(part string, rel Relationship) string {
	if strings.HasPrefix(rel.Target, "/") {
		return strings.TrimPrefix(rel.Target, "/")
	}
	return path.Join(path.Dir(part), rel.Target)
}

// Target resolves relationship id of part to a part name in the package.
func (p *Package) Target(part, id string) (string, error) {
	rels, err := p.Rels(part)
	if err != nil {
		return "", err
	}
	rel, ok := rels[id]
	if !ok {
		return "", fmt.Errorf("relationship %s of %s not found", id, part)
	}
	if rel.External {
		return "", fmt.Errorf("relationship %s of %s is external", id, part)
	}
	name := Resolve(part, rel)
	if !p.Has(name) {
		return "", fmt.Errorf("relationship %s of %s targets missing part %s", id, part, name)
	}
	return name, nil
}

const relOfficeDocument = "/officeDocument"

// MainPart returns the package's main document part, following the root
// relationships and falling back to fallback when none is declared.
func (p *Package) MainPart(fallback string) (string, error) {
	rels, err := p.Rels("")
	if err != nil {
		return "", err
	}
	for _, rel := range rels {
		if rel.External || !strings.HasSuffix(rel.Type, relOfficeDocument) {
			continue
		}
		if name := Resolve("", rel); p.Has(name) {
			return name, nil
		}
	}
	if p.Has(fallback) {
		return fallback, nil
	}
	return "", fmt.Errorf("main document part %s not found", fallback)
}
