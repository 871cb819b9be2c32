package pptx

import (
	"strings"

	"doc-translator/internal/ooxml"

	"github.com/antchfx/xmlquery"
)

// frameText joins the paragraphs of a text body with newlines. Soft line
// breaks inside a paragraph read as vertical tabs; fields are dynamic and
// left out.
func frameText(txBody *xmlquery.Node) string {
	paras := ooxml.Children(txBody, nsA, "p")
	lines := make([]string, len(paras))
	for i, p := range paras {
		lines[i] = paragraphText(p)
	}
	return strings.Join(lines, "\n")
}

func paragraphText(p *xmlquery.Node) string {
	var sb strings.Builder
	for _, c := range ooxml.Elements(p) {
		switch {
		case ooxml.Is(c, nsA, "r"):
			if t := ooxml.Child(c, nsA, "t"); t != nil {
				sb.WriteString(t.InnerText())
			}
		case ooxml.Is(c, nsA, "br"):
			sb.WriteByte('\v')
		}
	}
	return sb.String()
}

// splitLines breaks translated text into paragraph lines. A trailing line
// break does not produce an empty last line and empty text is one empty
// line.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	if text == "" {
		return []string{""}
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// setFrameText distributes lines over the existing paragraphs: line k goes
// to paragraph k, surplus paragraphs are emptied and surplus lines are
// appended to the last paragraph. No paragraph is added or removed.
func setFrameText(txBody *xmlquery.Node, text string) bool {
	paras := ooxml.Children(txBody, nsA, "p")
	if len(paras) == 0 {
		return false
	}
	lines := splitLines(text)

	for k, p := range paras {
		line := ""
		if k < len(lines) {
			line = lines[k]
		}
		setParagraphText(p, line)
	}

	if len(lines) > len(paras) {
		remaining := strings.Join(lines[len(paras):], "\n")
		last := paras[len(paras)-1]
		current := paragraphText(last)
		if current != "" {
			remaining = current + "\n" + remaining
		}
		setParagraphText(last, remaining)
	}
	return true
}

// setParagraphText writes text to the first run of p and empties the other
// runs. Line breaks in text become a:br followed by a run cloned from the
// first run's properties.
func setParagraphText(p *xmlquery.Node, text string) {
	for _, br := range ooxml.Children(p, nsA, "br") {
		ooxml.Remove(br)
	}

	segments := strings.Split(strings.ReplaceAll(text, "\v", "\n"), "\n")

	runs := ooxml.Children(p, nsA, "r")
	var first *xmlquery.Node
	if len(runs) == 0 {
		if text == "" {
			return
		}
		first = ooxml.NewElement("a", nsA, "r")
		xmlquery.AddChild(first, ooxml.NewTextElement("a", nsA, "t", ""))
		if end := ooxml.Child(p, nsA, "endParaRPr"); end != nil {
			ooxml.InsertBefore(end, first)
		} else {
			xmlquery.AddChild(p, first)
		}
	} else {
		first = runs[0]
		for _, r := range runs[1:] {
			setRunText(r, "")
		}
	}

	setRunText(first, segments[0])
	prev := first
	for _, seg := range segments[1:] {
		br := ooxml.NewElement("a", nsA, "br")
		if rpr := ooxml.Child(first, nsA, "rPr"); rpr != nil {
			xmlquery.AddChild(br, ooxml.Clone(rpr))
		}
		ooxml.InsertAfter(prev, br)

		next := ooxml.NewElement("a", nsA, "r")
		if rpr := ooxml.Child(first, nsA, "rPr"); rpr != nil {
			xmlquery.AddChild(next, ooxml.Clone(rpr))
		}
		xmlquery.AddChild(next, ooxml.NewTextElement("a", nsA, "t", seg))
		ooxml.InsertAfter(br, next)
		prev = next
	}
}

func setRunText(r *xmlquery.Node, text string) {
	t := ooxml.Child(r, nsA, "t")
	if t == nil {
		t = ooxml.NewElement("a", nsA, "t")
		xmlquery.AddChild(r, t)
	}
	ooxml.SetText(t, text)
}
