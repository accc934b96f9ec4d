package pptx

import (
	"strings"
	"testing"

	"github.com/klytics/deckdoc/internal/formats/pptx/pptxtest"
	"github.com/klytics/deckdoc/internal/markup"
)

func TestParseInvalidData(t *testing.T) {
	_, err := Parse([]byte("not a zip file"))
	if err == nil {
		t.Fatal("expected error for invalid data")
	}
}

func TestReadFileNotFound(t *testing.T) {
	_, err := ReadFile("/nonexistent/deck.pptx")
	if err == nil || !strings.Contains(err.Error(), "file not found") {
		t.Fatalf("expected file not found error, got %v", err)
	}
}

func TestParseSlidesInPresentationOrder(t *testing.T) {
	slides := make([]string, 11)
	for i := range slides {
		slides[i] = pptxtest.Text(2, "slide text "+string(rune('A'+i)))
	}
	pres, err := Parse(pptxtest.Build(t, slides...))
	if err != nil {
		t.Fatal(err)
	}
	if len(pres.Slides) != 11 {
		t.Fatalf("expected 11 slides, got %d", len(pres.Slides))
	}
	// slide10 and slide11 must not sort before slide2.
	for i, s := range pres.Slides {
		if s.Index != i || s.Number != i+1 {
			t.Errorf("slide %d: index=%d number=%d", i, s.Index, s.Number)
		}
		want := "slide text " + string(rune('A'+i))
		if got := s.Shapes[0].Paragraphs[0].Text(); got != want {
			t.Errorf("slide %d text = %q, want %q", i, got, want)
		}
	}
}

func TestParseShapeTreeOrder(t *testing.T) {
	tree := pptxtest.Text(2, "first") +
		pptxtest.Group(3, pptxtest.Text(4, "in group"), pptxtest.Group(5, pptxtest.Text(6, "nested"))) +
		pptxtest.Picture(7) +
		pptxtest.TableFrame(8, 2, []string{"a", "b"}) +
		pptxtest.Text(9, "last")

	pres, err := Parse(pptxtest.Build(t, tree))
	if err != nil {
		t.Fatal(err)
	}
	shapes := pres.Slides[0].Shapes
	kinds := []ShapeKind{ShapeText, ShapeGroup, ShapeOther, ShapeTable, ShapeText}
	if len(shapes) != len(kinds) {
		t.Fatalf("expected %d shapes, got %d", len(kinds), len(shapes))
	}
	for i, k := range kinds {
		if shapes[i].Kind != k {
			t.Errorf("shape %d kind = %v, want %v", i, shapes[i].Kind, k)
		}
	}

	group := shapes[1]
	if group.Name != "Group 3" || group.ID != "3" {
		t.Errorf("group identity = %q/%q", group.ID, group.Name)
	}
	if len(group.Children) != 2 || group.Children[1].Kind != ShapeGroup {
		t.Fatalf("unexpected group children: %+v", group.Children)
	}
	if got := group.Children[1].Children[0].Paragraphs[0].Text(); got != "nested" {
		t.Errorf("nested text = %q", got)
	}
}

func TestParseRunAttributes(t *testing.T) {
	tree := pptxtest.TextShape(2,
		pptxtest.Para(
			pptxtest.Run("Big", `sz="3200" b="1" i="0" u="sng"`),
			pptxtest.Run("plain", ""),
			pptxtest.Run("off", `u="none" b="false"`),
		),
	)
	pres, err := Parse(pptxtest.Build(t, tree))
	if err != nil {
		t.Fatal(err)
	}
	runs := pres.Slides[0].Shapes[0].Paragraphs[0].Runs
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}

	big := runs[0]
	if big.SizePt == nil || *big.SizePt != 32 {
		t.Errorf("size = %v, want 32", big.SizePt)
	}
	if big.Bold == nil || !*big.Bold {
		t.Error("expected bold=true")
	}
	if big.Italic == nil || *big.Italic {
		t.Error("expected italic=false (explicit)")
	}
	if big.Underline == nil || !*big.Underline {
		t.Error("expected underline=true")
	}

	plain := runs[1]
	if plain.Bold != nil || plain.Italic != nil || plain.Underline != nil || plain.SizePt != nil {
		t.Errorf("expected unset attributes, got %+v", plain)
	}

	off := runs[2]
	if off.Underline == nil || *off.Underline {
		t.Error("u=none should be underline=false")
	}
	if off.Bold == nil || *off.Bold {
		t.Error("b=false should be bold=false")
	}
}

func TestParseParagraphTextIncludesFieldsAndBreaks(t *testing.T) {
	p := `<a:p>` + pptxtest.Run("Slide", "") + `<a:br/><a:fld id="{1}" type="slidenum"><a:t>3</a:t></a:fld></a:p>`
	pres, err := Parse(pptxtest.Build(t, pptxtest.TextShape(2, p)))
	if err != nil {
		t.Fatal(err)
	}
	para := pres.Slides[0].Shapes[0].Paragraphs[0]
	if para.Text() != "Slide\n3" {
		t.Errorf("text = %q", para.Text())
	}
	if len(para.Runs) != 1 {
		t.Errorf("fields are not runs; got %d runs", len(para.Runs))
	}
}

func TestParseTable(t *testing.T) {
	tree := pptxtest.TableFrame(4, 3,
		[]string{"h1", "h2", "h3"},
		[]string{"a", "two\nlines", ""},
	)
	pres, err := Parse(pptxtest.Build(t, tree))
	if err != nil {
		t.Fatal(err)
	}
	s := pres.Slides[0].Shapes[0]
	if s.Kind != ShapeTable || s.Table == nil {
		t.Fatalf("expected table shape, got %v", s.Kind)
	}
	if s.Table.Columns != 3 || len(s.Table.Rows) != 2 {
		t.Fatalf("table dims = %dx%d", len(s.Table.Rows), s.Table.Columns)
	}
	cell := s.Table.Rows[1][1]
	if len(cell.Paragraphs) != 2 {
		t.Fatalf("expected 2 paragraphs in cell, got %d", len(cell.Paragraphs))
	}
	if cell.Paragraphs[1].Text() != "lines" {
		t.Errorf("second paragraph = %q", cell.Paragraphs[1].Text())
	}
}

func TestParseDiagramAttachesDataPart(t *testing.T) {
	deck := pptxtest.Deck{
		Slides:    []string{pptxtest.DiagramFrame(5, "rId7")},
		SlideRels: map[int]string{0: pptxtest.DiagramRel("rId7", "../diagrams/data1.xml")},
		Parts:     map[string]string{"ppt/diagrams/data1.xml": pptxtest.DiagramData("Plan", "Do")},
	}
	data, err := deck.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	pres, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	s := pres.Slides[0].Shapes[0]
	if s.Kind != ShapeGraphicFrame || s.GraphicURI != DiagramURI {
		t.Fatalf("unexpected shape %v %q", s.Kind, s.GraphicURI)
	}
	var texts []string
	_ = markup.Walk(s.Markup, func(n *markup.Node) error {
		if markup.IsTextRun(n) && strings.TrimSpace(n.Text) != "" {
			texts = append(texts, n.Text)
		}
		return nil
	})
	if strings.Join(texts, ",") != "Plan,Do" {
		t.Errorf("diagram texts = %q", texts)
	}
}

func TestParseMissingPresentation(t *testing.T) {
	data, err := pptxtest.Deck{}.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	pres, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(pres.Slides) != 0 {
		t.Errorf("expected no slides, got %d", len(pres.Slides))
	}
}

func TestPlainText(t *testing.T) {
	pres := &Presentation{
		Slides: []Slide{
			{
				Number: 1,
				Shapes: []Shape{
					{Kind: ShapeText, Paragraphs: []Paragraph{NewParagraph(Run{Text: "Introduction"})}},
					{Kind: ShapeGroup, Children: []Shape{
						{Kind: ShapeText, Paragraphs: []Paragraph{NewParagraph(Run{Text: "Welcome "}, Run{Text: "all"})}},
					}},
				},
			},
		},
	}

	text := pres.PlainText()
	for _, want := range []string{"Slide 1", "Introduction", "Welcome all"} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in %q", want, text)
		}
	}
}
