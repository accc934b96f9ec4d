package extract

import (
	"errors"
	"io"
	"log"
	"strings"

	"github.com/klytics/deckdoc/internal/formats/docx"
	"github.com/klytics/deckdoc/internal/formats/pptx"
)

// Walker traverses slide shape trees and produces content blocks.
type Walker struct {
	Format Format
	Filter *Filter
	Logger *log.Logger
}

// NewWalker returns a walker. A nil logger discards diagnostics.
func NewWalker(f Format, filter *Filter, logger *log.Logger) *Walker {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Walker{Format: f, Filter: filter, Logger: logger}
}

type workItem struct {
	shape *pptx.Shape
	depth int
}

// WalkSlide extracts the blocks of one slide. Slide index 0 is the first slide.
func (w *Walker) WalkSlide(s *pptx.Slide) ([]Block, []error) {
	return w.walk(s.Shapes, s.Index, s.Index == 0)
}

// Walk extracts blocks from shapes in tree order. Groups are expanded in
// place. Each shape is processed in isolation: a failure is recorded as a
// *ShapeError and the walk continues with the next shape. Errors that are
// not benign are also logged.
func (w *Walker) Walk(shapes []pptx.Shape, firstSlide bool) ([]Block, []error) {
	slide := -1
	if firstSlide {
		slide = 0
	}
	return w.walk(shapes, slide, firstSlide)
}

func (w *Walker) walk(shapes []pptx.Shape, slide int, firstSlide bool) ([]Block, []error) {
	maxDepth := w.Format.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultFormat().MaxDepth
	}

	var blocks []Block
	var errs []error
	record := func(s *pptx.Shape, kind Kind, err error) {
		if strings.Contains(err.Error(), GraphicFrameMarker) {
			kind = KindBenign
		}
		se := &ShapeError{Kind: kind, Slide: slide, Shape: shapeLabel(s), Err: err}
		errs = append(errs, se)
		if kind != KindBenign {
			w.Logger.Printf("warning: %v", se)
		}
	}

	stack := make([]workItem, 0, len(shapes))
	for i := len(shapes) - 1; i >= 0; i-- {
		stack = append(stack, workItem{shape: &shapes[i]})
	}

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if item.shape.Kind == pptx.ShapeGroup {
			if item.depth >= maxDepth {
				record(item.shape, KindShape, ErrMaxDepth)
				continue
			}
			children := item.shape.Children
			for i := len(children) - 1; i >= 0; i-- {
				stack = append(stack, workItem{shape: &children[i], depth: item.depth + 1})
			}
			continue
		}

		out, kind, err := w.shape(item.shape, firstSlide)
		blocks = append(blocks, out...)
		if err != nil {
			record(item.shape, kind, err)
		}
	}
	return blocks, errs
}

// shape extracts a single non-group shape inside its own recover boundary.
func (w *Walker) shape(s *pptx.Shape, firstSlide bool) (blocks []Block, kind Kind, err error) {
	kind = KindShape
	defer func() {
		if v := recover(); v != nil {
			err = panicError(v)
		}
	}()

	switch s.Kind {
	case pptx.ShapeText:
		return w.text(s, firstSlide), kind, nil
	case pptx.ShapeTable:
		blk, err := ExtractTable(s, w.Format)
		if blk == nil {
			return nil, kind, err
		}
		if err != nil {
			return []Block{*blk}, kind, err
		}
		return []Block{*blk, {Kind: BlockSpacer}}, kind, nil
	case pptx.ShapeGraphicFrame:
		blocks, err = ExtractDiagram(s, firstSlide, w.Filter, w.Format)
		if err != nil && !errors.Is(err, ErrNoGraphicData) {
			kind = KindDiagram
		}
		return blocks, kind, err
	}
	return nil, kind, nil
}

func (w *Walker) text(s *pptx.Shape, firstSlide bool) []Block {
	var blocks []Block
	for _, p := range s.Paragraphs {
		text := strings.TrimSpace(p.Text())
		if text == "" || w.Filter.ShouldSkip(text, firstSlide) {
			continue
		}
		title := IsTitle(p, w.Format.TitleThreshold)
		align := docx.AlignLeft
		if title {
			align = docx.AlignCenter
		}
		blocks = append(blocks, Block{
			Kind:  BlockParagraph,
			Align: align,
			Title: title,
			Runs:  NormalizeRuns(p.Runs, title, w.Format),
		})
	}
	return blocks
}

func shapeLabel(s *pptx.Shape) string {
	if s.Name != "" {
		return s.Name
	}
	if s.ID != "" {
		return "#" + s.ID
	}
	return s.Kind.String()
}
