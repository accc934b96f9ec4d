package extract

import (
	"github.com/klytics/deckdoc/internal/formats/docx"
	"github.com/klytics/deckdoc/internal/formats/pptx"
)

// NormalizeRun converts a source run into an output run. The font family and
// size come from f; the source size is discarded. Bold, italic and underline
// keep their tri-state value.
func NormalizeRun(src pptx.Run, title bool, f Format) docx.Run {
	size := f.BodySize
	if title {
		size = f.TitleSize
	}
	return docx.Run{
		Text:      src.Text,
		Bold:      copyBool(src.Bold),
		Italic:    copyBool(src.Italic),
		Underline: copyBool(src.Underline),
		Font:      f.FontFamily,
		SizePt:    size,
	}
}

// NormalizeRuns normalizes every run of a paragraph.
func NormalizeRuns(src []pptx.Run, title bool, f Format) []docx.Run {
	out := make([]docx.Run, 0, len(src))
	for _, r := range src {
		out = append(out, NormalizeRun(r, title, f))
	}
	return out
}

// IsTitle reports whether any run of p is at least threshold points.
func IsTitle(p pptx.Paragraph, threshold float64) bool {
	for _, r := range p.Runs {
		if r.SizePt != nil && *r.SizePt >= threshold {
			return true
		}
	}
	return false
}

func copyBool(v *bool) *bool {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
