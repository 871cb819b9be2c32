package docx

import "fmt"

// Kind discriminates the places a paragraph can live in a document.
type Kind uint8

const (
	KindBody Kind = iota
	KindTable
	KindHeader
	KindFooter
)

// Address locates one paragraph. Only the fields relevant to Kind are set.
type Address struct {
	Kind    Kind
	Section int
	Table   int
	Row     int
	Col     int
	Para    int
}

func BodyParagraph(para int) Address {
	return Address{Kind: KindBody, Para: para}
}

func TableParagraph(table, row, col, para int) Address {
	return Address{Kind: KindTable, Table: table, Row: row, Col: col, Para: para}
}

func HeaderParagraph(section, para int) Address {
	return Address{Kind: KindHeader, Section: section, Para: para}
}

func FooterParagraph(section, para int) Address {
	return Address{Kind: KindFooter, Section: section, Para: para}
}

func (a Address) Key() string {
	switch a.Kind {
	case KindTable:
		return fmt.Sprintf("table/%d/%d/%d/%d", a.Table, a.Row, a.Col, a.Para)
	case KindHeader:
		return fmt.Sprintf("header/%d/%d", a.Section, a.Para)
	case KindFooter:
		return fmt.Sprintf("footer/%d/%d", a.Section, a.Para)
	default:
		return fmt.Sprintf("body/%d", a.Para)
	}
}

func (a Address) String() string {
	switch a.Kind {
	case KindTable:
		return fmt.Sprintf("table %d row %d cell %d paragraph %d", a.Table, a.Row, a.Col, a.Para)
	case KindHeader:
		return fmt.Sprintf("section %d header paragraph %d", a.Section, a.Para)
	case KindFooter:
		return fmt.Sprintf("section %d footer paragraph %d", a.Section, a.Para)
	default:
		return fmt.Sprintf("paragraph %d", a.Para)
	}
}
