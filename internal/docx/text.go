package docx

import (
	"slices"
	"strings"

	"doc-translator/internal/ooxml"

	"github.com/antchfx/xmlquery"
)

// runContainers hold runs that are still part of the paragraph's visible
// text. Deleted revisions (w:del) are not among them.
var runContainers = map[string]bool{
	"hyperlink": true,
	"ins":       true,
	"smartTag":  true,
	"fldSimple": true,
	"customXml": true,
}

// runs returns the text runs of a paragraph in reading order.
func runs(p *xmlquery.Node) []*xmlquery.Node {
	var out []*xmlquery.Node
	for _, c := range ooxml.Elements(p) {
		if c.NamespaceURI != nsW {
			continue
		}
		switch {
		case c.Data == "r":
			out = append(out, c)
		case runContainers[c.Data]:
			out = append(out, runs(c)...)
		}
	}
	return out
}

// runText renders the visible characters of one run.
func runText(r *xmlquery.Node) string {
	var sb strings.Builder
	for _, c := range ooxml.Elements(r) {
		if c.NamespaceURI != nsW {
			continue
		}
		switch c.Data {
		case "t":
			sb.WriteString(c.InnerText())
		case "tab", "ptab":
			sb.WriteByte('\t')
		case "cr":
			sb.WriteByte('\n')
		case "br":
			if isLineBreak(c) {
				sb.WriteByte('\n')
			}
		case "noBreakHyphen":
			sb.WriteByte('-')
		}
	}
	return sb.String()
}

func isLineBreak(br *xmlquery.Node) bool {
	typ := ooxml.Attr(br, nsW, "type")
	return typ == "" || typ == "textWrapping"
}

// isTextChild reports whether a run child carries text that a replacement
// overwrites. Drawings, field characters and page breaks stay.
func isTextChild(c *xmlquery.Node) bool {
	if c.Type != xmlquery.ElementNode || c.NamespaceURI != nsW {
		return false
	}
	switch c.Data {
	case "t", "tab", "ptab", "cr", "noBreakHyphen", "softHyphen":
		return true
	case "br":
		return isLineBreak(c)
	}
	return false
}

// visibleRuns drops the runs holding field instructions: those after a
// w:fldChar begin and before its separate. Field results stay.
func visibleRuns(rs []*xmlquery.Node) []*xmlquery.Node {
	var out []*xmlquery.Node
	var open []bool // one entry per open field, true while its code runs
	for _, r := range rs {
		if !slices.Contains(open, true) {
			out = append(out, r)
		}
		for _, c := range ooxml.Children(r, nsW, "fldChar") {
			switch ooxml.Attr(c, nsW, "fldCharType") {
			case "begin":
				open = append(open, true)
			case "separate":
				if len(open) > 0 {
					open[len(open)-1] = false
				}
			case "end":
				if len(open) > 0 {
					open = open[:len(open)-1]
				}
			}
		}
	}
	return out
}

func hasFieldChar(r *xmlquery.Node) bool {
	return ooxml.Child(r, nsW, "fldChar") != nil
}

func paragraphText(p *xmlquery.Node) string {
	var sb strings.Builder
	for _, r := range visibleRuns(runs(p)) {
		sb.WriteString(runText(r))
	}
	return sb.String()
}

// setParagraphText writes text onto the first visible run that carries
// text, keeping its properties, and empties every other visible run. Field
// instructions are never touched. A paragraph with no run to carry the
// text gets a new unstyled one.
func setParagraphText(p *xmlquery.Node, text string) {
	rs := visibleRuns(runs(p))
	carrier := -1
	for i, r := range rs {
		if len(textChildren(r)) > 0 {
			carrier = i
			break
		}
	}
	if carrier < 0 {
		for i, r := range rs {
			if !hasFieldChar(r) {
				carrier = i
				break
			}
		}
	}
	if carrier < 0 {
		if text == "" {
			return
		}
		r := ooxml.NewElement("w", nsW, "r")
		for _, n := range runContent(text) {
			xmlquery.AddChild(r, n)
		}
		xmlquery.AddChild(p, r)
		return
	}

	for i, r := range rs {
		if i == carrier {
			setRunText(r, text)
		} else {
			clearRun(r)
		}
	}
}

func setRunText(r *xmlquery.Node, text string) {
	old := textChildren(r)
	nodes := runContent(text)
	if len(old) > 0 {
		for _, n := range nodes {
			ooxml.InsertBefore(old[0], n)
		}
	} else {
		for _, n := range nodes {
			xmlquery.AddChild(r, n)
		}
	}
	for _, n := range old {
		ooxml.Remove(n)
	}
}

func clearRun(r *xmlquery.Node) {
	for _, n := range textChildren(r) {
		ooxml.Remove(n)
	}
}

func textChildren(r *xmlquery.Node) []*xmlquery.Node {
	var out []*xmlquery.Node
	for c := r.FirstChild; c != nil; c = c.NextSibling {
		if isTextChild(c) {
			out = append(out, c)
		}
	}
	return out
}

// runContent converts text into run children: tabs become w:tab, line
// breaks become w:br and everything else is carried by w:t elements.
func runContent(text string) []*xmlquery.Node {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var nodes []*xmlquery.Node
	var pending strings.Builder
	flush := func() {
		if pending.Len() > 0 {
			nodes = append(nodes, ooxml.NewTextElement("w", nsW, "t", pending.String()))
			pending.Reset()
		}
	}
	for _, ch := range text {
		switch ch {
		case '\t':
			flush()
			nodes = append(nodes, ooxml.NewElement("w", nsW, "tab"))
		case '\n':
			flush()
			nodes = append(nodes, ooxml.NewElement("w", nsW, "br"))
		default:
			pending.WriteRune(ch)
		}
	}
	flush()
	return nodes
}
