// Package pptx provides reading capabilities for .pptx (PowerPoint) files.
//
// The reader preserves the document order of each slide's shape tree,
// including nested groups, and exposes graphic frames as raw markup so that
// content without a structured schema (diagrams) can still be scanned.
package pptx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/klytics/deckdoc/internal/markup"
)

// graphicData URIs that decide how a graphic frame is classified.
const (
	TableURI   = "http://schemas.openxmlformats.org/drawingml/2006/table"
	ChartURI   = "http://schemas.openxmlformats.org/drawingml/2006/chart"
	DiagramURI = "http://schemas.openxmlformats.org/drawingml/2006/diagram"
	OLEURI     = "http://schemas.openxmlformats.org/presentationml/2006/ole"
)

// ReadFile reads and parses a .pptx file from the given path.
func ReadFile(path string) (*Presentation, error) {
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

// ParseReader reads and parses a .pptx file from a reader.
func ParseReader(r io.Reader) (*Presentation, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("could not read input: %w", err)
	}
	return Parse(data)
}

// Parse reads and parses a .pptx file from the given byte slice.
func Parse(data []byte) (*Presentation, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("invalid .pptx file — the file does not appear to be a valid ZIP archive: %w", err)
	}

	pkg := &pkg{files: make(map[string]*zip.File, len(zr.File))}
	for _, f := range zr.File {
		pkg.files[f.Name] = f
	}

	if _, ok := pkg.files["ppt/presentation.xml"]; !ok {
		return nil, fmt.Errorf("invalid .pptx file — missing ppt/presentation.xml")
	}

	slidePaths := pkg.slideOrder()
	pres := &Presentation{Slides: make([]Slide, 0, len(slidePaths))}

	for i, sp := range slidePaths {
		slide, err := pkg.parseSlide(sp, i)
		if err != nil {
			return nil, fmt.Errorf("could not parse %s: %w", sp, err)
		}
		pres.Slides = append(pres.Slides, *slide)
	}

	return pres, nil
}

type pkg struct {
	files map[string]*zip.File
}

// rels maps relationship IDs to absolute part names.
type rels map[string]string

func (p *pkg) part(name string) (*markup.Node, error) {
	f, ok := p.files[name]
	if !ok {
		return nil, fmt.Errorf("part not found: %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return markup.Parse(rc)
}

// relsFor loads the relationships of the given part. Missing relationship
// parts yield an empty map.
func (p *pkg) relsFor(partName string) rels {
	dir, base := path.Split(partName)
	root, err := p.part(path.Join(dir, "_rels", base+".rels"))
	if err != nil {
		return rels{}
	}

	out := rels{}
	for _, rel := range root.ChildrenNamed("Relationship") {
		id, _ := rel.AttrValue("Id")
		target, _ := rel.AttrValue("Target")
		if mode, _ := rel.AttrValue("TargetMode"); mode == "External" {
			continue
		}
		if id == "" || target == "" {
			continue
		}
		if strings.HasPrefix(target, "/") {
			out[id] = strings.TrimPrefix(target, "/")
		} else {
			out[id] = path.Clean(path.Join(dir, target))
		}
	}
	return out
}

// slideOrder returns slide part names in presentation order, falling back to
// numeric part-name order when presentation.xml has no usable slide list.
func (p *pkg) slideOrder() []string {
	if order := p.presentationOrder(); len(order) > 0 {
		return order
	}

	var names []string
	for name := range p.files {
		if strings.HasPrefix(name, "ppt/slides/slide") && strings.HasSuffix(name, ".xml") {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		return slideNumber(names[i]) < slideNumber(names[j])
	})
	return names
}

func (p *pkg) presentationOrder() []string {
	root, err := p.part("ppt/presentation.xml")
	if err != nil {
		return nil
	}
	list := root.Child("sldIdLst")
	if list == nil {
		return nil
	}
	presRels := p.relsFor("ppt/presentation.xml")

	var order []string
	for _, sld := range list.ChildrenNamed("sldId") {
		// r:id names the relationship; the unqualified id is the numeric
		// slide ID.
		var rid string
		for _, a := range sld.Attr {
			if a.Name.Local == "id" && a.Name.Space != "" {
				rid = a.Value
			}
		}
		target, ok := presRels[rid]
		if !ok {
			continue
		}
		if _, exists := p.files[target]; exists {
			order = append(order, target)
		}
	}
	return order
}

func slideNumber(name string) int {
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, "ppt/slides/slide"), ".xml"))
	if err != nil {
		return 1 << 30
	}
	return n
}

func (p *pkg) parseSlide(partName string, index int) (*Slide, error) {
	root, err := p.part(partName)
	if err != nil {
		return nil, err
	}
	spTree := root.Path("cSld", "spTree")
	if spTree == nil {
		return nil, fmt.Errorf("slide has no shape tree")
	}

	r := &slideReader{pkg: p, rels: p.relsFor(partName)}
	return &Slide{
		Index:  index,
		Number: index + 1,
		Shapes: r.shapes(spTree.Children),
	}, nil
}

type slideReader struct {
	pkg  *pkg
	rels rels
}

// shapes converts the shape elements among nodes, in document order.
func (r *slideReader) shapes(nodes []*markup.Node) []Shape {
	var out []Shape
	for _, n := range nodes {
		switch n.Local() {
		case "sp":
			out = append(out, r.textShape(n))
		case "grpSp":
			s := identify(n, ShapeGroup)
			s.Children = r.shapes(n.Children)
			out = append(out, s)
		case "graphicFrame":
			out = append(out, r.graphicFrame(n))
		case "pic", "cxnSp", "contentPart":
			out = append(out, identify(n, ShapeOther))
		case "AlternateContent":
			out = append(out, r.shapes(alternate(n))...)
		}
	}
	return out
}

// alternate picks the markup-compatibility branch to read: the fallback when
// present, since it only uses the base schema.
func alternate(n *markup.Node) []*markup.Node {
	if fb := n.Child("Fallback"); fb != nil {
		return fb.Children
	}
	if ch := n.Child("Choice"); ch != nil {
		return ch.Children
	}
	return nil
}

func identify(n *markup.Node, kind ShapeKind) Shape {
	s := Shape{Kind: kind}
	for _, c := range n.Children {
		if !strings.HasPrefix(c.Local(), "nv") {
			continue
		}
		if cNvPr := c.Child("cNvPr"); cNvPr != nil {
			s.ID, _ = cNvPr.AttrValue("id")
			s.Name, _ = cNvPr.AttrValue("name")
		}
		break
	}
	return s
}

func (r *slideReader) textShape(n *markup.Node) Shape {
	txBody := n.Child("txBody")
	if txBody == nil {
		return identify(n, ShapeOther)
	}
	s := identify(n, ShapeText)
	s.Paragraphs = paragraphs(txBody)
	return s
}

func (r *slideReader) graphicFrame(n *markup.Node) Shape {
	data := n.Path("graphic", "graphicData")
	uri, _ := data.AttrValue("uri")

	switch uri {
	case TableURI:
		s := identify(n, ShapeTable)
		s.GraphicURI = uri
		if tbl := data.Child("tbl"); tbl != nil {
			s.Table = table(tbl)
		}
		return s
	case ChartURI, OLEURI:
		s := identify(n, ShapeOther)
		s.GraphicURI = uri
		return s
	}

	s := identify(n, ShapeGraphicFrame)
	s.GraphicURI = uri
	s.Markup = n
	if uri == DiagramURI {
		r.attachDiagramData(data)
	}
	return s
}

// attachDiagramData resolves the diagram data part referenced by a
// dgm:relIds element and grafts its root beneath that element. Missing or
// unreadable parts are left out; the frame is still scanned as-is.
func (r *slideReader) attachDiagramData(data *markup.Node) {
	relIds := data.Child("relIds")
	if relIds == nil {
		return
	}
	id, ok := relIds.AttrValue("dm")
	if !ok {
		return
	}
	target, ok := r.rels[id]
	if !ok {
		return
	}
	root, err := r.pkg.part(target)
	if err != nil {
		return
	}
	relIds.Children = append(relIds.Children, root)
}

func paragraphs(txBody *markup.Node) []Paragraph {
	ps := txBody.ChildrenNamed("p")
	out := make([]Paragraph, 0, len(ps))
	for _, p := range ps {
		out = append(out, paragraph(p))
	}
	return out
}

func paragraph(p *markup.Node) Paragraph {
	var para Paragraph
	var text strings.Builder
	for _, c := range p.Children {
		switch c.Local() {
		case "r":
			run := parseRun(c)
			para.Runs = append(para.Runs, run)
			text.WriteString(run.Text)
		case "fld":
			if t := c.Child("t"); t != nil {
				text.WriteString(t.Text)
			}
		case "br":
			text.WriteString("\n")
		}
	}
	para.text = text.String()
	return para
}

func parseRun(r *markup.Node) Run {
	run := Run{}
	if t := r.Child("t"); t != nil {
		run.Text = t.Text
	}
	rPr := r.Child("rPr")
	if rPr == nil {
		return run
	}
	if v, ok := rPr.AttrValue("b"); ok {
		run.Bold = parseOnOff(v)
	}
	if v, ok := rPr.AttrValue("i"); ok {
		run.Italic = parseOnOff(v)
	}
	if v, ok := rPr.AttrValue("u"); ok && v != "" {
		on := v != "none"
		run.Underline = &on
	}
	if v, ok := rPr.AttrValue("sz"); ok {
		if hundredths, err := strconv.Atoi(v); err == nil {
			pt := float64(hundredths) / 100
			run.SizePt = &pt
		}
	}
	return run
}

func parseOnOff(v string) *bool {
	var b bool
	switch strings.ToLower(v) {
	case "1", "true", "on":
		b = true
	case "0", "false", "off":
		b = false
	default:
		return nil
	}
	return &b
}

func table(tbl *markup.Node) *Table {
	t := &Table{}
	if grid := tbl.Child("tblGrid"); grid != nil {
		t.Columns = len(grid.ChildrenNamed("gridCol"))
	}
	for _, tr := range tbl.ChildrenNamed("tr") {
		tcs := tr.ChildrenNamed("tc")
		row := make([]TableCell, 0, len(tcs))
		for _, tc := range tcs {
			var cell TableCell
			if txBody := tc.Child("txBody"); txBody != nil {
				cell.Paragraphs = paragraphs(txBody)
			}
			row = append(row, cell)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
