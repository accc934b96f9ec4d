package extract

import (
	"strings"

	"github.com/klytics/deckdoc/internal/formats/docx"
	"github.com/klytics/deckdoc/internal/formats/pptx"
	"github.com/klytics/deckdoc/internal/markup"
)

// ExtractDiagram scans a graphic frame's markup for text runs and returns one
// paragraph block per non-empty label. Labels are trimmed and filtered with
// the slide's first-slide flag; a label without terminal punctuation gets an
// extra "." run.
//
// On failure the blocks emitted so far are returned along with the error.
func ExtractDiagram(shape *pptx.Shape, firstSlide bool, filter *Filter, f Format) (blocks []Block, err error) {
	if shape == nil || shape.Markup == nil || shape.Markup.Path("graphic", "graphicData") == nil {
		return nil, ErrNoGraphicData
	}

	defer func() {
		if v := recover(); v != nil {
			err = panicError(v)
		}
	}()

	err = markup.Walk(shape.Markup, func(n *markup.Node) error {
		if !markup.IsTextRun(n) {
			return nil
		}
		text := strings.TrimSpace(n.Text)
		if text == "" || filter.ShouldSkip(text, firstSlide) {
			return nil
		}
		blocks = append(blocks, labelBlock(text, f))
		return nil
	})
	return blocks, err
}

func labelBlock(text string, f Format) Block {
	runs := []docx.Run{NormalizeRun(pptx.Run{Text: text}, false, f)}
	if !hasTerminalPunctuation(text) {
		runs = append(runs, NormalizeRun(pptx.Run{Text: "."}, false, f))
	}
	return Block{Kind: BlockParagraph, Align: docx.AlignLeft, Runs: runs}
}

func hasTerminalPunctuation(s string) bool {
	switch s[len(s)-1] {
	case '.', ':', '?', '!':
		return true
	}
	return false
}
