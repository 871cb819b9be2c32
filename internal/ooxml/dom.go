package ooxml

import (
	"encoding/xml"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// Namespaces used across the supported formats.
const (
	NSPackageRels = "http://schemas.openxmlformats.org/package/2006/relationships"
	NSOfficeRels  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	NSWordML      = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	NSDrawingML   = "http://schemas.openxmlformats.org/drawingml/2006/main"
	NSPresML      = "http://schemas.openxmlformats.org/presentationml/2006/main"
	NSXML         = "http://www.w3.org/XML/1998/namespace"
)

// Root returns the document element of a parsed part.
func Root(doc *xmlquery.Node) *xmlquery.Node {
	for n := doc.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == xmlquery.ElementNode {
			return n
		}
	}
	return nil
}

// Is reports whether n is the element {ns}local.
func Is(n *xmlquery.Node, ns, local string) bool {
	return n != nil && n.Type == xmlquery.ElementNode && n.Data == local && n.NamespaceURI == ns
}

// Elements returns the element children of n in document order.
func Elements(n *xmlquery.Node) []*xmlquery.Node {
	var out []*xmlquery.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// Children returns the element children of n named {ns}local.
func Children(n *xmlquery.Node, ns, local string) []*xmlquery.Node {
	var out []*xmlquery.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if Is(c, ns, local) {
			out = append(out, c)
		}
	}
	return out
}

// Child returns the first element child of n named {ns}local, or nil.
func Child(n *xmlquery.Node, ns, local string) *xmlquery.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if Is(c, ns, local) {
			return c
		}
	}
	return nil
}

// Attr returns the value of attribute {ns}local on n.
func Attr(n *xmlquery.Node, ns, local string) string {
	for _, a := range n.Attr {
		if a.Name.Local == local && a.NamespaceURI == ns {
			return a.Value
		}
	}
	return ""
}

// Find evaluates a compiled XPath expression below n.
func Find(n *xmlquery.Node, expr *xpath.Expr) []*xmlquery.Node {
	return xmlquery.QuerySelectorAll(n, expr)
}

// NewElement creates a detached element {ns}local written with prefix.
func NewElement(prefix, ns, local string) *xmlquery.Node {
	return &xmlquery.Node{
		Type:         xmlquery.ElementNode,
		Data:         local,
		Prefix:       prefix,
		NamespaceURI: ns,
	}
}

// NewTextElement creates {ns}local holding text. Leading or trailing
// whitespace is kept by marking the element xml:space="preserve".
func NewTextElement(prefix, ns, local, text string) *xmlquery.Node {
	el := NewElement(prefix, ns, local)
	if needsPreserve(text) {
		PreserveSpace(el)
	}
	if text != "" {
		xmlquery.AddChild(el, &xmlquery.Node{Type: xmlquery.TextNode, Data: text})
	}
	return el
}

// PreserveSpace sets xml:space="preserve" on el.
func PreserveSpace(el *xmlquery.Node) {
	for i, a := range el.Attr {
		if a.Name.Local == "space" && a.NamespaceURI == NSXML {
			el.Attr[i].Value = "preserve"
			return
		}
	}
	el.Attr = append(el.Attr, xmlquery.Attr{
		Name:         xml.Name{Space: "xml", Local: "space"},
		Value:        "preserve",
		NamespaceURI: NSXML,
	})
}

func needsPreserve(text string) bool {
	if text == "" {
		return false
	}
	first, last := text[0], text[len(text)-1]
	return first == ' ' || first == '\t' || last == ' ' || last == '\t'
}

// SetText replaces all children of el with a single text node.
func SetText(el *xmlquery.Node, text string) {
	for c := el.FirstChild; c != nil; {
		next := c.NextSibling
		xmlquery.RemoveFromTree(c)
		c = next
	}
	if needsPreserve(text) {
		PreserveSpace(el)
	}
	if text != "" {
		xmlquery.AddChild(el, &xmlquery.Node{Type: xmlquery.TextNode, Data: text})
	}
}

// InsertBefore links n into the tree immediately before ref.
func InsertBefore(ref, n *xmlquery.Node) {
	if ref.PrevSibling != nil {
		xmlquery.AddImmediateSibling(ref.PrevSibling, n)
		return
	}
	parent := ref.Parent
	n.Parent = parent
	n.PrevSibling = nil
	n.NextSibling = ref
	ref.PrevSibling = n
	if parent != nil {
		parent.FirstChild = n
	}
}

// InsertAfter links n into the tree immediately after ref.
func InsertAfter(ref, n *xmlquery.Node) {
	xmlquery.AddImmediateSibling(ref, n)
}

// Remove detaches n from its tree.
func Remove(n *xmlquery.Node) {
	xmlquery.RemoveFromTree(n)
}

// Clone deep-copies n into a detached tree.
func Clone(n *xmlquery.Node) *xmlquery.Node {
	c := &xmlquery.Node{
		Type:         n.Type,
		Data:         n.Data,
		Prefix:       n.Prefix,
		NamespaceURI: n.NamespaceURI,
	}
	if len(n.Attr) > 0 {
		c.Attr = append([]xmlquery.Attr(nil), n.Attr...)
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		xmlquery.AddChild(c, Clone(child))
	}
	return c
}
