// Package convert turns presentations into documents: it drives the shape
// walker slide by slide, feeds the resulting blocks to a document sink and
// runs batches of files.
package convert

import (
	"context"
	"log"

	"github.com/klytics/deckdoc/internal/extract"
	"github.com/klytics/deckdoc/internal/formats/docx"
	"github.com/klytics/deckdoc/internal/formats/pptx"
)

// Sink receives content in document order. Implementations own the output
// document; page geometry is fixed before the first append.
type Sink interface {
	AppendParagraph(align docx.Alignment, runs []docx.Run)
	AppendTable(rows [][][]docx.Run)
	AppendEmptyParagraph()
}

// Report summarizes one conversion.
type Report struct {
	Slides     int      `json:"slides"`
	Paragraphs int      `json:"paragraphs"`
	Tables     int      `json:"tables"`
	Warnings   []string `json:"warnings,omitempty"`
	// Suppressed counts benign graphic-frame errors that were not reported.
	Suppressed int `json:"suppressed,omitempty"`
}

// Assembler appends the content of every slide of a presentation to a sink.
type Assembler struct {
	Walker  *extract.Walker
	Logger  *log.Logger
	Verbose bool
}

// Assemble walks the slides in order and applies their blocks to sink. The
// context is checked between slides.
func (a *Assembler) Assemble(ctx context.Context, pres *pptx.Presentation, sink Sink) (*Report, error) {
	report := &Report{}
	for i := range pres.Slides {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		slide := &pres.Slides[i]

		blocks, errs := a.Walker.WalkSlide(slide)
		for _, err := range errs {
			if extract.IsBenign(err) {
				report.Suppressed++
				continue
			}
			report.Warnings = append(report.Warnings, err.Error())
		}
		Apply(blocks, sink)

		for _, b := range blocks {
			switch b.Kind {
			case extract.BlockParagraph:
				report.Paragraphs++
			case extract.BlockTable:
				report.Tables++
			}
		}
		report.Slides++

		if a.Verbose && a.Logger != nil {
			a.Logger.Printf("slide %d: %d blocks, %d errors", slide.Number, len(blocks), len(errs))
		}
	}
	return report, nil
}

// Apply appends blocks to sink in order.
func Apply(blocks []extract.Block, sink Sink) {
	for _, b := range blocks {
		switch b.Kind {
		case extract.BlockParagraph:
			sink.AppendParagraph(b.Align, b.Runs)
		case extract.BlockTable:
			sink.AppendTable(b.Cells)
		case extract.BlockSpacer:
			sink.AppendEmptyParagraph()
		}
	}
}
