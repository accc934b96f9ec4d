// Package pptxtest builds minimal .pptx archives for tests and fixtures.
package pptxtest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"strings"
	"testing"
)

// Namespace URIs used by the generated parts.
const (
	NSP   = "http://schemas.openxmlformats.org/presentationml/2006/main"
	NSA   = "http://schemas.openxmlformats.org/drawingml/2006/main"
	NSR   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	NSDgm = "http://schemas.openxmlformats.org/drawingml/2006/diagram"
)

// Deck describes a presentation to generate.
type Deck struct {
	// Slides holds the inner XML of each slide's p:spTree.
	Slides []string
	// SlideRels holds extra Relationship elements per slide index.
	SlideRels map[int]string
	// Parts holds additional parts by name, such as diagram data.
	Parts map[string]string
}

// Bytes renders the deck as a .pptx archive.
func (d Deck) Bytes() ([]byte, error) {
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	write := func(name, content string) error {
		w, err := zw.Create(name)
		if err != nil {
			return err
		}
		_, err = w.Write([]byte(content))
		return err
	}

	var overrides, sldIDs, presRels strings.Builder
	for i := range d.Slides {
		n := i + 1
		fmt.Fprintf(&overrides, `<Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, n)
		fmt.Fprintf(&sldIDs, `<p:sldId id="%d" r:id="rId%d"/>`, 255+n, n+1)
		fmt.Fprintf(&presRels, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide%d.xml"/>`, n+1, n)
	}

	files := []struct{ name, content string }{
		{"[Content_Types].xml", xml.Header + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
			`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
			`<Default Extension="xml" ContentType="application/xml"/>` +
			`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>` +
			overrides.String() + `</Types>`},
		{"_rels/.rels", xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="ppt/presentation.xml"/>` +
			`</Relationships>`},
		{"ppt/presentation.xml", xml.Header + `<p:presentation xmlns:p="` + NSP + `" xmlns:r="` + NSR + `">` +
			`<p:sldIdLst>` + sldIDs.String() + `</p:sldIdLst></p:presentation>`},
		{"ppt/_rels/presentation.xml.rels", xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			presRels.String() + `</Relationships>`},
	}

	for i, tree := range d.Slides {
		n := i + 1
		files = append(files, struct{ name, content string }{
			fmt.Sprintf("ppt/slides/slide%d.xml", n),
			xml.Header + `<p:sld xmlns:p="` + NSP + `" xmlns:a="` + NSA + `" xmlns:r="` + NSR + `" xmlns:dgm="` + NSDgm + `">` +
				`<p:cSld><p:spTree>` +
				`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>` +
				tree + `</p:spTree></p:cSld></p:sld>`,
		})
		if rels, ok := d.SlideRels[i]; ok {
			files = append(files, struct{ name, content string }{
				fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", n),
				xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` + rels + `</Relationships>`,
			})
		}
	}

	for name, content := range d.Parts {
		files = append(files, struct{ name, content string }{name, content})
	}

	for _, f := range files {
		if err := write(f.name, f.content); err != nil {
			return nil, fmt.Errorf("could not write %s: %w", f.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Build renders a deck with the given slide trees, failing the test on error.
func Build(t testing.TB, slides ...string) []byte {
	t.Helper()
	data, err := Deck{Slides: slides}.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	return data
}

// WriteFile renders d into path, failing the test on error.
func WriteFile(t testing.TB, path string, d Deck) {
	t.Helper()
	data, err := d.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
}

// Escape returns s with XML special characters escaped.
func Escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// Run returns an a:r element. attrs is copied verbatim into a:rPr, for
// example `sz="3200" b="1"`.
func Run(text, attrs string) string {
	rPr := ""
	if attrs != "" {
		rPr = `<a:rPr lang="en-US" ` + attrs + `/>`
	}
	return `<a:r>` + rPr + `<a:t>` + Escape(text) + `</a:t></a:r>`
}

// Para returns an a:p element containing the given runs.
func Para(runs ...string) string {
	return `<a:p>` + strings.Join(runs, "") + `</a:p>`
}

// TextShape returns a p:sp with a text body made of the given paragraphs.
func TextShape(id int, paragraphs ...string) string {
	return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="TextBox %d"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr><p:spPr/>`, id, id) +
		`<p:txBody><a:bodyPr/><a:lstStyle/>` + strings.Join(paragraphs, "") + `</p:txBody></p:sp>`
}

// Text is shorthand for a text shape with one plain paragraph per line.
func Text(id int, lines ...string) string {
	ps := make([]string, 0, len(lines))
	for _, l := range lines {
		ps = append(ps, Para(Run(l, "")))
	}
	return TextShape(id, ps...)
}

// Group returns a p:grpSp containing the given shapes.
func Group(id int, children ...string) string {
	return fmt.Sprintf(`<p:grpSp><p:nvGrpSpPr><p:cNvPr id="%d" name="Group %d"/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>`, id, id) +
		strings.Join(children, "") + `</p:grpSp>`
}

// Picture returns a p:pic element.
func Picture(id int) string {
	return fmt.Sprintf(`<p:pic><p:nvPicPr><p:cNvPr id="%d" name="Picture %d"/><p:cNvPicPr/><p:nvPr/></p:nvPicPr><p:blipFill/><p:spPr/></p:pic>`, id, id)
}

// TableFrame returns a graphic frame holding a table with cols grid columns.
// Each row lists the cells' paragraphs; a cell with several paragraphs is
// written as text separated by "\n".
func TableFrame(id, cols int, rows ...[]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<p:graphicFrame><p:nvGraphicFramePr><p:cNvPr id="%d" name="Table %d"/><p:cNvGraphicFramePr/><p:nvPr/></p:nvGraphicFramePr><p:xfrm/>`, id, id)
	b.WriteString(`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/table"><a:tbl><a:tblPr/><a:tblGrid>`)
	for i := 0; i < cols; i++ {
		b.WriteString(`<a:gridCol w="1000"/>`)
	}
	b.WriteString(`</a:tblGrid>`)
	for _, row := range rows {
		b.WriteString(`<a:tr h="370">`)
		for _, cell := range row {
			b.WriteString(`<a:tc><a:txBody><a:bodyPr/><a:lstStyle/>`)
			for _, line := range strings.Split(cell, "\n") {
				if line == "" {
					b.WriteString(`<a:p/>`)
					continue
				}
				b.WriteString(Para(Run(line, "")))
			}
			b.WriteString(`</a:txBody><a:tcPr/></a:tc>`)
		}
		b.WriteString(`</a:tr>`)
	}
	b.WriteString(`</a:tbl></a:graphicData></a:graphic></p:graphicFrame>`)
	return b.String()
}

// DiagramFrame returns a graphic frame referencing diagram parts through
// relationship relID for its data model.
func DiagramFrame(id int, relID string) string {
	return fmt.Sprintf(`<p:graphicFrame><p:nvGraphicFramePr><p:cNvPr id="%d" name="Diagram %d"/><p:cNvGraphicFramePr/><p:nvPr/></p:nvGraphicFramePr><p:xfrm/>`, id, id) +
		`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/diagram">` +
		`<dgm:relIds r:dm="` + relID + `" r:lo="rIdLo" r:qs="rIdQs" r:cs="rIdCs"/>` +
		`</a:graphicData></a:graphic></p:graphicFrame>`
}

// DiagramData returns a diagram data part whose points carry the given texts.
func DiagramData(texts ...string) string {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<dgm:dataModel xmlns:dgm="` + NSDgm + `" xmlns:a="` + NSA + `"><dgm:ptLst>`)
	for i, t := range texts {
		fmt.Fprintf(&b, `<dgm:pt modelId="{%d}"><dgm:prSet/><dgm:spPr/><dgm:t><a:bodyPr/><a:lstStyle/>`, i)
		b.WriteString(Para(Run(t, "")))
		b.WriteString(`</dgm:t></dgm:pt>`)
	}
	b.WriteString(`</dgm:ptLst></dgm:dataModel>`)
	return b.String()
}

// DiagramRel returns the slide relationship pointing relID at target.
func DiagramRel(relID, target string) string {
	return `<Relationship Id="` + relID + `" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/diagramData" Target="` + target + `"/>`
}
