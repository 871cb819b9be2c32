package docx

import (
	"fmt"

	"doc-translator/internal/ooxml"

	"github.com/antchfx/xmlquery"
)

const mainPart = "word/document.xml"

const nsW = ooxml.NSWordML

// paragraphRef is one addressable paragraph of an opened package.
type paragraphRef struct {
	addr Address
	node *xmlquery.Node
	part string
}

// wordDocument is an opened .docx package with its main part parsed.
type wordDocument struct {
	pkg  *ooxml.Package
	main string
	body *xmlquery.Node
}

func openDocument(path string) (*wordDocument, error) {
	pkg, err := ooxml.Open(path)
	if err != nil {
		return nil, err
	}
	main, err := pkg.MainPart(mainPart)
	if err != nil {
		return nil, err
	}
	doc, err := pkg.Part(main)
	if err != nil {
		return nil, err
	}
	root := ooxml.Root(doc)
	if !ooxml.Is(root, nsW, "document") {
		return nil, fmt.Errorf("%s is not a wordprocessing document", main)
	}
	body := ooxml.Child(root, nsW, "body")
	if body == nil {
		return nil, fmt.Errorf("%s has no body", main)
	}
	return &wordDocument{pkg: pkg, main: main, body: body}, nil
}

// paragraphs lists every addressable paragraph in traversal order: body
// paragraphs, then table cells, then each section's header and footer. A
// header or footer part shared by several sections is addressed under the
// first section that uses it.
// Reader and writer both go through here so their orders cannot diverge.
func (d *wordDocument) paragraphs() ([]paragraphRef, error) {
	var refs []paragraphRef

	for i, p := range ooxml.Children(d.body, nsW, "p") {
		refs = append(refs, paragraphRef{addr: BodyParagraph(i), node: p, part: d.main})
	}

	for ti, tbl := range ooxml.Children(d.body, nsW, "tbl") {
		for ri, tr := range ooxml.Children(tbl, nsW, "tr") {
			for ci, tc := range ooxml.Children(tr, nsW, "tc") {
				for pi, p := range ooxml.Children(tc, nsW, "p") {
					refs = append(refs, paragraphRef{addr: TableParagraph(ti, ri, ci, pi), node: p, part: d.main})
				}
			}
		}
	}

	var header, footer string
	seen := make(map[string]bool)
	for si, sect := range d.sections() {
		if part, ok, err := d.sectionPart(sect, "headerReference"); err != nil {
			return nil, err
		} else if ok {
			header = part
		}
		if part, ok, err := d.sectionPart(sect, "footerReference"); err != nil {
			return nil, err
		} else if ok {
			footer = part
		}

		if !seen[header] {
			seen[header] = true
			hdr, err := d.partParagraphs(header, func(p int) Address { return HeaderParagraph(si, p) })
			if err != nil {
				return nil, err
			}
			refs = append(refs, hdr...)
		}

		if !seen[footer] {
			seen[footer] = true
			ftr, err := d.partParagraphs(footer, func(p int) Address { return FooterParagraph(si, p) })
			if err != nil {
				return nil, err
			}
			refs = append(refs, ftr...)
		}
	}

	return refs, nil
}

// sections returns the section properties in document order: those closing
// a paragraph first, then the body's final one.
func (d *wordDocument) sections() []*xmlquery.Node {
	var out []*xmlquery.Node
	for _, p := range ooxml.Children(d.body, nsW, "p") {
		if ppr := ooxml.Child(p, nsW, "pPr"); ppr != nil {
			if sect := ooxml.Child(ppr, nsW, "sectPr"); sect != nil {
				out = append(out, sect)
			}
		}
	}
	if sect := ooxml.Child(d.body, nsW, "sectPr"); sect != nil {
		out = append(out, sect)
	}
	return out
}

// sectionPart resolves the default header or footer a section declares.
// ok is false when the section has none and inherits the previous one.
func (d *wordDocument) sectionPart(sect *xmlquery.Node, ref string) (string, bool, error) {
	for _, r := range ooxml.Children(sect, nsW, ref) {
		typ := ooxml.Attr(r, nsW, "type")
		if typ != "" && typ != "default" {
			continue
		}
		id := ooxml.Attr(r, ooxml.NSOfficeRels, "id")
		if id == "" {
			continue
		}
		part, err := d.pkg.Target(d.main, id)
		if err != nil {
			return "", false, fmt.Errorf("resolve %s: %w", ref, err)
		}
		return part, true, nil
	}
	return "", false, nil
}

func (d *wordDocument) partParagraphs(part string, addr func(int) Address) ([]paragraphRef, error) {
	if part == "" {
		return nil, nil
	}
	doc, err := d.pkg.Part(part)
	if err != nil {
		return nil, err
	}
	root := ooxml.Root(doc)
	if root == nil {
		return nil, fmt.Errorf("part %s is empty", part)
	}
	var refs []paragraphRef
	for i, p := range ooxml.Children(root, nsW, "p") {
		refs = append(refs, paragraphRef{addr: addr(i), node: p, part: part})
	}
	return refs, nil
}
