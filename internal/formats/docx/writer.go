package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// TableStyleID is the style applied to every table written.
const TableStyleID = "TableGrid"

// WriteDocument generates a .docx file from a Document struct, returning the raw bytes.
func WriteDocument(doc *Document) ([]byte, error) {
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	parts := []struct {
		name  string
		write func(*strings.Builder)
	}{
		{"[Content_Types].xml", writeContentTypes},
		{"_rels/.rels", writeRels},
		{"word/_rels/document.xml.rels", writeDocRels},
		{"word/styles.xml", writeStyles},
		{"word/document.xml", func(b *strings.Builder) { writeDocumentXML(b, doc) }},
	}

	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			return nil, fmt.Errorf("could not create %s: %w", p.name, err)
		}
		var b strings.Builder
		p.write(&b)
		if _, err := w.Write([]byte(b.String())); err != nil {
			return nil, fmt.Errorf("could not write %s: %w", p.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("could not finalize .docx archive: %w", err)
	}

	return buf.Bytes(), nil
}

func writeContentTypes(b *strings.Builder) {
	b.WriteString(xml.Header + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
  <Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>
</Types>`)
}

func writeRels(b *strings.Builder) {
	b.WriteString(xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`)
}

func writeDocRels(b *strings.Builder) {
	b.WriteString(xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
</Relationships>`)
}

func writeStyles(b *strings.Builder) {
	b.WriteString(xml.Header + `<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:qFormat/></w:style>
  <w:style w:type="table" w:default="1" w:styleId="TableNormal"><w:name w:val="Normal Table"/><w:tblPr><w:tblInd w:w="0" w:type="dxa"/><w:tblCellMar><w:top w:w="0" w:type="dxa"/><w:left w:w="108" w:type="dxa"/><w:bottom w:w="0" w:type="dxa"/><w:right w:w="108" w:type="dxa"/></w:tblCellMar></w:tblPr></w:style>
  <w:style w:type="table" w:styleId="` + TableStyleID + `"><w:name w:val="Table Grid"/><w:basedOn w:val="TableNormal"/><w:pPr><w:spacing w:after="0" w:line="240" w:lineRule="auto"/></w:pPr><w:tblPr><w:tblBorders><w:top w:val="single" w:sz="4" w:space="0" w:color="auto"/><w:left w:val="single" w:sz="4" w:space="0" w:color="auto"/><w:bottom w:val="single" w:sz="4" w:space="0" w:color="auto"/><w:right w:val="single" w:sz="4" w:space="0" w:color="auto"/><w:insideH w:val="single" w:sz="4" w:space="0" w:color="auto"/><w:insideV w:val="single" w:sz="4" w:space="0" w:color="auto"/></w:tblBorders></w:tblPr></w:style>
</w:styles>`)
}

func writeDocumentXML(b *strings.Builder, doc *Document) {
	b.WriteString(xml.Header)
	b.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">`)
	b.WriteString(`<w:body>`)

	for _, node := range doc.Nodes {
		writeNodeXML(b, node, doc.Page)
	}

	writeSectionXML(b, doc.Page)
	b.WriteString(`</w:body>`)
	b.WriteString(`</w:document>`)
}

func writeNodeXML(b *strings.Builder, n Node, page Page) {
	switch n.Type {
	case NodeParagraph:
		writeParagraphXML(b, n)
	case NodeTable:
		cols := 0
		for _, row := range n.Children {
			if len(row.Children) > cols {
				cols = len(row.Children)
			}
		}
		// Word rejects a table without cells.
		if cols == 0 {
			return
		}
		colW := page.TextWidthTwips() / cols

		b.WriteString(`<w:tbl><w:tblPr>`)
		fmt.Fprintf(b, `<w:tblStyle w:val="%s"/>`, TableStyleID)
		b.WriteString(`<w:tblW w:w="0" w:type="auto"/><w:tblLook w:val="04A0"/></w:tblPr><w:tblGrid>`)
		for i := 0; i < cols; i++ {
			fmt.Fprintf(b, `<w:gridCol w:w="%d"/>`, colW)
		}
		b.WriteString(`</w:tblGrid>`)
		for _, row := range n.Children {
			b.WriteString(`<w:tr>`)
			for j := 0; j < cols; j++ {
				cell := Node{Type: NodeParagraph}
				if j < len(row.Children) {
					cell = row.Children[j]
				}
				fmt.Fprintf(b, `<w:tc><w:tcPr><w:tcW w:w="%d" w:type="dxa"/></w:tcPr>`, colW)
				writeParagraphXML(b, cell)
				b.WriteString(`</w:tc>`)
			}
			b.WriteString(`</w:tr>`)
		}
		b.WriteString(`</w:tbl>`)
	}
}

func writeParagraphXML(b *strings.Builder, n Node) {
	b.WriteString(`<w:p>`)
	if n.Align == AlignCenter {
		b.WriteString(`<w:pPr><w:jc w:val="center"/></w:pPr>`)
	}
	writeRunsXML(b, n)
	b.WriteString(`</w:p>`)
}

func writeRunsXML(b *strings.Builder, n Node) {
	if len(n.Runs) == 0 {
		if n.Text != "" {
			// Write as a single unformatted run
			b.WriteString(`<w:r><w:t xml:space="preserve">`)
			b.WriteString(xmlEscape(n.Text))
			b.WriteString(`</w:t></w:r>`)
		}
		return
	}
	for _, r := range n.Runs {
		b.WriteString(`<w:r>`)
		writeRunPropsXML(b, r)
		b.WriteString(`<w:t xml:space="preserve">`)
		b.WriteString(xmlEscape(r.Text))
		b.WriteString(`</w:t></w:r>`)
	}
}

// writeRunPropsXML writes w:rPr children in schema order: rFonts, b, i, sz, u.
func writeRunPropsXML(b *strings.Builder, r Run) {
	if r.Font == "" && r.Bold == nil && r.Italic == nil && r.Underline == nil && r.SizePt <= 0 {
		return
	}
	b.WriteString(`<w:rPr>`)
	if r.Font != "" {
		f := xmlEscape(r.Font)
		fmt.Fprintf(b, `<w:rFonts w:ascii="%s" w:hAnsi="%s" w:eastAsia="%s" w:cs="%s"/>`, f, f, f, f)
	}
	writeOnOff(b, "b", r.Bold)
	writeOnOff(b, "i", r.Italic)
	if r.SizePt > 0 {
		halfPoints := int(math.Round(r.SizePt * 2))
		fmt.Fprintf(b, `<w:sz w:val="%d"/><w:szCs w:val="%d"/>`, halfPoints, halfPoints)
	}
	if r.Underline != nil {
		if *r.Underline {
			b.WriteString(`<w:u w:val="single"/>`)
		} else {
			b.WriteString(`<w:u w:val="none"/>`)
		}
	}
	b.WriteString(`</w:rPr>`)
}

func writeOnOff(b *strings.Builder, tag string, v *bool) {
	if v == nil {
		return
	}
	if *v {
		fmt.Fprintf(b, `<w:%s/>`, tag)
		return
	}
	fmt.Fprintf(b, `<w:%s w:val="0"/>`, tag)
}

func writeSectionXML(b *strings.Builder, p Page) {
	if p.WidthIn <= 0 || p.HeightIn <= 0 {
		return
	}
	b.WriteString(`<w:sectPr>`)
	fmt.Fprintf(b, `<w:pgSz w:w="%d" w:h="%d"/>`, Twips(p.WidthIn), Twips(p.HeightIn))
	fmt.Fprintf(b, `<w:pgMar w:top="%d" w:right="%d" w:bottom="%d" w:left="%d" w:header="720" w:footer="720" w:gutter="0"/>`,
		Twips(p.MarginTopIn), Twips(p.MarginRightIn), Twips(p.MarginBottomIn), Twips(p.MarginLeftIn))
	b.WriteString(`</w:sectPr>`)
}

func xmlEscape(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == utf8.RuneError || !isXMLChar(r) {
			return -1
		}
		return r
	}, s)
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	return s
}

// isXMLChar reports whether r may appear in XML 1.0 character data.
func isXMLChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		(r >= 0x20 && r <= 0xD7FF) ||
		(r >= 0xE000 && r <= 0xFFFD) ||
		(r >= 0x10000 && r <= 0x10FFFF)
}
