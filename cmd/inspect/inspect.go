// Package inspect provides the "deckdoc inspect" command, which shows the
// content blocks extracted from a presentation without writing a document.
package inspect

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/deckdoc/internal/config"
	"github.com/klytics/deckdoc/internal/extract"
	"github.com/klytics/deckdoc/internal/output"
	"github.com/klytics/deckdoc/internal/render"
)

type slideDump struct {
	Number int             `json:"number"`
	Blocks []extract.Block `json:"blocks"`
}

type inspectResult struct {
	File       string      `json:"file"`
	Slides     []slideDump `json:"slides"`
	Warnings   []string    `json:"warnings,omitempty"`
	Suppressed int         `json:"suppressed,omitempty"`
}

// NewCommand returns the inspect subcommand.
func NewCommand() *cobra.Command {
	var noPager bool

	cmd := &cobra.Command{
		Use:   "inspect <file.pptx>",
		Short: "Show the content extracted from a presentation",
		Long: `Walks every slide of a .pptx file and prints the paragraphs and tables
that a conversion would write, slide by slide. Titles are highlighted.
Shapes that could not be extracted are listed at the end.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")
			verbose, _ := cmd.Flags().GetBool("verbose")
			cfgPath, _ := cmd.Flags().GetString("config")

			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}

			// Warnings are collected below, so the walker logs nothing.
			c := cfg.Converter(nil, verbose)
			slides, errs, err := c.Extract(context.Background(), args[0])
			if err != nil {
				return err
			}

			result := inspectResult{File: args[0]}
			for i, blocks := range slides {
				result.Slides = append(result.Slides, slideDump{Number: i + 1, Blocks: blocks})
			}
			for _, e := range errs {
				if extract.IsBenign(e) {
					result.Suppressed++
					continue
				}
				result.Warnings = append(result.Warnings, e.Error())
			}

			if jsonFlag {
				return output.PrintJSON(cmd.OutOrStdout(), "inspect", result)
			}

			var sb strings.Builder
			writePretty(&sb, result)
			text := sb.String()
			if !noPager && output.ShouldPage(text, 50) {
				return output.Page(text)
			}
			return output.NewWriter(cmd.OutOrStdout()).WriteText(text)
		},
	}

	cmd.Flags().BoolVar(&noPager, "no-pager", false, "Do not pipe long output through $PAGER")

	return cmd
}

func writePretty(w io.Writer, r inspectResult) {
	heading := color.New(color.Bold, color.FgCyan)
	title := color.New(color.Bold)
	dim := color.New(color.FgHiBlack)
	warn := color.New(color.FgYellow)

	paragraphs, tables := 0, 0
	for _, s := range r.Slides {
		heading.Fprintf(w, "Slide %d\n", s.Number)
		if len(s.Blocks) == 0 {
			dim.Fprintln(w, "  (no content)")
		}
		for _, b := range s.Blocks {
			switch b.Kind {
			case extract.BlockParagraph:
				paragraphs++
				if b.Title {
					title.Fprintf(w, "  %s\n", b.Text())
				} else {
					fmt.Fprintf(w, "  %s\n", b.Text())
				}
			case extract.BlockTable:
				tables++
				t := render.NewText(render.Plain)
				t.AppendTable(b.Cells)
				for _, line := range strings.Split(strings.TrimRight(t.String(), "\n"), "\n") {
					fmt.Fprintf(w, "  %s\n", line)
				}
			}
		}
		fmt.Fprintln(w)
	}

	if len(r.Warnings) > 0 {
		warn.Fprintf(w, "Skipped shapes (%d):\n", len(r.Warnings))
		for _, msg := range r.Warnings {
			warn.Fprintf(w, "  %s\n", msg)
		}
		fmt.Fprintln(w)
	}

	dim.Fprintf(w, "--- %d slides, %d paragraphs, %d tables ---\n", len(r.Slides), paragraphs, tables)
}
