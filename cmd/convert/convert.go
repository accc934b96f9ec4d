// Package convert provides the "deckdoc convert" CLI command.
package convert

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/deckdoc/internal/config"
	conv "github.com/klytics/deckdoc/internal/convert"
	"github.com/klytics/deckdoc/internal/history"
	"github.com/klytics/deckdoc/internal/output"
)

type convertResult struct {
	Input  string       `json:"input"`
	Output string       `json:"output"`
	Format string       `json:"format"`
	Report *conv.Report `json:"report,omitempty"`
}

// NewCommand creates the "convert" command.
func NewCommand() *cobra.Command {
	var (
		toFmt   string
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "convert <file.pptx>",
		Short: "Convert one presentation to a document",
		Long: `Convert a single .pptx presentation.

Supported output formats: docx (default), txt, md, html, xlsx.
Without --output the result is written next to the input, named after it.

Examples:
  deckdoc convert lesson.pptx
  deckdoc convert lesson.pptx --to md
  deckdoc convert lesson.pptx -o notes/lesson.docx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")
			verbose, _ := cmd.Flags().GetBool("verbose")
			cfgPath, _ := cmd.Flags().GetString("config")

			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}

			in := args[0]
			to := toFmt
			if to == "" && outPath != "" {
				to = conv.DetectFormat(outPath)
			}
			if to == "" {
				to = cfg.Output.Format
			}
			to = strings.ToLower(to)

			out := outPath
			if out == "" {
				out = conv.OutputPath(in, filepath.Dir(in), to)
			}

			c := cfg.Converter(output.NewLogger(cmd.ErrOrStderr()), verbose)
			start := time.Now()
			report, err := c.ConvertFile(context.Background(), in, out, to)
			cfg.HistoryLog().Record(historyEntry(in, out, to, report, err, time.Since(start)))
			if err != nil {
				if jsonFlag {
					output.PrintJSONError(cmd.OutOrStdout(), "convert", err, output.ExitUserError)
				}
				return err
			}

			if jsonFlag {
				return output.PrintJSON(cmd.OutOrStdout(), "convert", convertResult{
					Input: in, Output: out, Format: to, Report: report,
				})
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Converted: %s → %s\n", in, out)
			color.New(color.FgHiBlack).Fprintf(w, "  %d slides, %d paragraphs, %d tables\n",
				report.Slides, report.Paragraphs, report.Tables)
			if n := len(report.Warnings); n > 0 {
				color.New(color.FgYellow).Fprintf(w, "  %d shape(s) skipped, see log above\n", n)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&toFmt, "to", "", "Output format: docx | txt | md | html | xlsx (default from config)")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Output file path")

	return cmd
}

func historyEntry(in, out, to string, report *conv.Report, err error, elapsed time.Duration) history.Entry {
	e := history.Entry{
		Command:    "convert",
		Input:      in,
		Output:     out,
		Format:     to,
		Status:     "ok",
		DurationMs: elapsed.Milliseconds(),
	}
	if report != nil {
		e.Slides = report.Slides
		e.Warnings = len(report.Warnings)
	}
	if err != nil {
		e.Status = "error"
		e.Error = err.Error()
		e.Output = ""
	}
	return e
}
