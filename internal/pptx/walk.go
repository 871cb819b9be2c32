package pptx

import (
	"errors"
	"fmt"

	"doc-translator/internal/document"
	"doc-translator/internal/ooxml"

	"github.com/antchfx/xmlquery"
)

const (
	presentationPart = "ppt/presentation.xml"

	nsP = ooxml.NSPresML
	nsA = ooxml.NSDrawingML
)

// DefaultMaxDepth bounds group nesting during traversal.
const DefaultMaxDepth = 32

// ErrShapeTooDeep is recorded for a group nested beyond the depth limit.
var ErrShapeTooDeep = errors.New("shape nesting exceeds depth limit")

// shapeElements are the spTree children that count as shapes. Anything
// else (properties, extension lists, alternate content) is not indexed.
var shapeElements = map[string]bool{
	"sp":           true,
	"grpSp":        true,
	"graphicFrame": true,
	"cxnSp":        true,
	"pic":          true,
	"contentPart":  true,
}

type shapeRef struct {
	addr   Address
	node   *xmlquery.Node
	txBody *xmlquery.Node
	part   string
}

type deck struct {
	pkg    *ooxml.Package
	main   string
	slides []string
}

func openDeck(path string) (*deck, error) {
	pkg, err := ooxml.Open(path)
	if err != nil {
		return nil, err
	}
	main, err := pkg.MainPart(presentationPart)
	if err != nil {
		return nil, err
	}
	doc, err := pkg.Part(main)
	if err != nil {
		return nil, err
	}
	root := ooxml.Root(doc)
	if !ooxml.Is(root, nsP, "presentation") {
		return nil, fmt.Errorf("%s is not a presentation", main)
	}

	d := &deck{pkg: pkg, main: main}
	if lst := ooxml.Child(root, nsP, "sldIdLst"); lst != nil {
		for _, id := range ooxml.Children(lst, nsP, "sldId") {
			part, err := pkg.Target(main, ooxml.Attr(id, ooxml.NSOfficeRels, "id"))
			if err != nil {
				return nil, fmt.Errorf("resolve slide: %w", err)
			}
			d.slides = append(d.slides, part)
		}
	}
	return d, nil
}

// shapeTree returns the p:spTree of a slide part.
func (d *deck) shapeTree(slide string) (*xmlquery.Node, error) {
	doc, err := d.pkg.Part(slide)
	if err != nil {
		return nil, err
	}
	root := ooxml.Root(doc)
	if !ooxml.Is(root, nsP, "sld") {
		return nil, fmt.Errorf("%s is not a slide", slide)
	}
	csld := ooxml.Child(root, nsP, "cSld")
	if csld == nil {
		return nil, fmt.Errorf("%s has no common slide data", slide)
	}
	tree := ooxml.Child(csld, nsP, "spTree")
	if tree == nil {
		return nil, fmt.Errorf("%s has no shape tree", slide)
	}
	return tree, nil
}

func shapes(container *xmlquery.Node) []*xmlquery.Node {
	var out []*xmlquery.Node
	for _, c := range ooxml.Elements(container) {
		if c.NamespaceURI == nsP && shapeElements[c.Data] {
			out = append(out, c)
		}
	}
	return out
}

// textShapes walks every slide depth-first in sibling order and returns the
// shapes that carry a text frame. Groups deeper than maxDepth are skipped
// and reported without failing the rest of the deck.
func (d *deck) textShapes(maxDepth int) ([]shapeRef, []document.UnitError, error) {
	if maxDepth < 1 {
		maxDepth = DefaultMaxDepth
	}
	var refs []shapeRef
	var failures []document.UnitError

	var walk func(container *xmlquery.Node, part string, slide int, prefix []int)
	walk = func(container *xmlquery.Node, part string, slide int, prefix []int) {
		for i, sh := range shapes(container) {
			path := append(append(make([]int, 0, len(prefix)+1), prefix...), i)
			addr := Address{Slide: slide, Path: path}

			if sh.Data == "grpSp" {
				if len(path) >= maxDepth {
					failures = append(failures, document.UnitError{
						Addr:  addr,
						Stage: document.StageRead,
						Err:   fmt.Errorf("%w (%d)", ErrShapeTooDeep, maxDepth),
					})
					continue
				}
				walk(sh, part, slide, path)
				continue
			}

			if tx := ooxml.Child(sh, nsP, "txBody"); tx != nil {
				refs = append(refs, shapeRef{addr: addr, node: sh, txBody: tx, part: part})
			}
		}
	}

	for si, part := range d.slides {
		tree, err := d.shapeTree(part)
		if err != nil {
			return nil, nil, err
		}
		walk(tree, part, si, nil)
	}
	return refs, failures, nil
}

var errNoParagraphs = errors.New("text frame has no paragraphs")
