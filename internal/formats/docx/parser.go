package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
)

// OOXML internal types for unmarshalling

type xmlParagraph struct {
	Properties xmlParagraphProps `xml:"pPr"`
	Runs       []xmlRun          `xml:"r"`
	Hyperlinks []xmlHyperlink    `xml:"hyperlink"`
}

type xmlParagraphProps struct {
	Justify *xmlVal `xml:"jc"`
}

type xmlVal struct {
	Val string `xml:"val,attr"`
}

type xmlRun struct {
	Properties xmlRunProps `xml:"rPr"`
	Text       []xmlText   `xml:"t"`
}

type xmlRunProps struct {
	Fonts     *xmlFonts `xml:"rFonts"`
	Bold      *xmlVal   `xml:"b"`
	Italic    *xmlVal   `xml:"i"`
	Size      *xmlVal   `xml:"sz"`
	Underline *xmlVal   `xml:"u"`
}

type xmlFonts struct {
	ASCII string `xml:"ascii,attr"`
}

type xmlText struct {
	Space string `xml:"space,attr"`
	Value string `xml:",chardata"`
}

type xmlHyperlink struct {
	Runs []xmlRun `xml:"r"`
}

type xmlTable struct {
	Rows []xmlTableRow `xml:"tr"`
}

type xmlTableRow struct {
	Cells []xmlTableCell `xml:"tc"`
}

type xmlTableCell struct {
	Paragraphs []xmlParagraph `xml:"p"`
}

type xmlSection struct {
	Size   xmlPageSize   `xml:"pgSz"`
	Margin xmlPageMargin `xml:"pgMar"`
}

type xmlPageSize struct {
	W int `xml:"w,attr"`
	H int `xml:"h,attr"`
}

type xmlPageMargin struct {
	Top    int `xml:"top,attr"`
	Right  int `xml:"right,attr"`
	Bottom int `xml:"bottom,attr"`
	Left   int `xml:"left,attr"`
}

// ParseFile reads and parses a .docx file from the given path.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s — check that the path is correct", path)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("permission denied reading %s — check file permissions or close the file if it is open in another application", path)
		}
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse reads and parses a .docx file from the given byte slice. Empty
// paragraphs are kept so that spacing written by a Builder survives a
// round trip.
func Parse(data []byte) (*Document, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("invalid .docx file — the file does not appear to be a valid ZIP archive: %w", err)
	}

	for _, f := range reader.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("could not open document.xml inside .docx archive: %w", err)
		}
		defer rc.Close()

		body, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("could not read document.xml: %w", err)
		}

		doc := &Document{}
		if err := parseXMLBody(body, doc); err != nil {
			return nil, err
		}
		return doc, nil
	}
	return nil, fmt.Errorf("invalid .docx file — missing word/document.xml")
}

// ParseReader reads and parses a .docx file from a reader.
func ParseReader(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("could not read input: %w", err)
	}
	return Parse(data)
}

func parseXMLBody(data []byte, doc *Document) error {
	decoder := xml.NewDecoder(bytes.NewReader(data))

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			return fmt.Errorf("invalid .docx file — no body element found in document.xml")
		}
		if err != nil {
			return fmt.Errorf("XML parse error in document.xml: %w", err)
		}
		if se, ok := tok.(xml.StartElement); ok && se.Name.Local == "body" {
			break
		}
	}

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("XML parse error: %w", err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch se.Name.Local {
		case "p":
			var p xmlParagraph
			if err := decoder.DecodeElement(&p, &se); err != nil {
				return fmt.Errorf("could not parse paragraph: %w", err)
			}
			doc.Nodes = append(doc.Nodes, paragraphNode(p))
		case "tbl":
			var t xmlTable
			if err := decoder.DecodeElement(&t, &se); err != nil {
				return fmt.Errorf("could not parse table: %w", err)
			}
			doc.Nodes = append(doc.Nodes, tableNode(t))
		case "sectPr":
			var s xmlSection
			if err := decoder.DecodeElement(&s, &se); err != nil {
				return fmt.Errorf("could not parse section properties: %w", err)
			}
			doc.Page = Page{
				WidthIn:        inches(s.Size.W),
				HeightIn:       inches(s.Size.H),
				MarginLeftIn:   inches(s.Margin.Left),
				MarginRightIn:  inches(s.Margin.Right),
				MarginTopIn:    inches(s.Margin.Top),
				MarginBottomIn: inches(s.Margin.Bottom),
			}
		default:
			if err := decoder.Skip(); err != nil {
				return err
			}
		}
	}

	return nil
}

func paragraphNode(p xmlParagraph) Node {
	all := make([]xmlRun, 0, len(p.Runs))
	all = append(all, p.Runs...)
	for _, h := range p.Hyperlinks {
		all = append(all, h.Runs...)
	}

	node := Node{Type: NodeParagraph}
	if p.Properties.Justify != nil && p.Properties.Justify.Val == "center" {
		node.Align = AlignCenter
	}

	for _, r := range all {
		var text string
		for _, t := range r.Text {
			text += t.Value
		}
		run := Run{
			Text:      text,
			Bold:      onOff(r.Properties.Bold),
			Italic:    onOff(r.Properties.Italic),
			Underline: underline(r.Properties.Underline),
		}
		if r.Properties.Fonts != nil {
			run.Font = r.Properties.Fonts.ASCII
		}
		if r.Properties.Size != nil {
			if hp, err := strconv.Atoi(r.Properties.Size.Val); err == nil {
				run.SizePt = float64(hp) / 2
			}
		}
		node.Runs = append(node.Runs, run)
	}
	node.Text = RunsText(node.Runs)
	return node
}

func tableNode(t xmlTable) Node {
	node := Node{Type: NodeTable, Children: make([]Node, 0, len(t.Rows))}
	for _, row := range t.Rows {
		rowNode := Node{Children: make([]Node, 0, len(row.Cells))}
		for _, cell := range row.Cells {
			// Cells written by the Builder hold a single paragraph; join any extras.
			var cellNode Node
			for i, p := range cell.Paragraphs {
				pn := paragraphNode(p)
				if i == 0 {
					cellNode = pn
					continue
				}
				cellNode.Runs = append(cellNode.Runs, pn.Runs...)
				cellNode.Text += "\n" + pn.Text
			}
			cellNode.Type = NodeParagraph
			rowNode.Children = append(rowNode.Children, cellNode)
		}
		node.Children = append(node.Children, rowNode)
	}
	return node
}

// onOff decodes a w:ST_OnOff toggle. A missing element is unset.
func onOff(v *xmlVal) *bool {
	if v == nil {
		return nil
	}
	on := true
	switch v.Val {
	case "0", "false", "off":
		on = false
	}
	return &on
}

func underline(v *xmlVal) *bool {
	if v == nil {
		return nil
	}
	on := v.Val != "none" && v.Val != ""
	return &on
}

func inches(twips int) float64 {
	return float64(twips) / 1440
}
