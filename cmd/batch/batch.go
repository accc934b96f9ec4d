// Package batch provides the "deckdoc batch" command, which converts every
// presentation in an input directory.
package batch

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/klytics/deckdoc/internal/config"
	"github.com/klytics/deckdoc/internal/convert"
	"github.com/klytics/deckdoc/internal/history"
	"github.com/klytics/deckdoc/internal/output"
	"github.com/klytics/deckdoc/internal/progress"
)

// NewCommand returns the batch subcommand.
func NewCommand() *cobra.Command {
	var (
		inDir  string
		outDir string
		toFmt  string
		wait   bool
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Convert every presentation in a directory",
		Long: `Converts all .ppt and .pptx files in the input directory, one at a time.

Both directories are created when missing. A file that cannot be converted
is reported and skipped; the batch always finishes with a summary line.
Legacy .ppt files are listed but reported as failures.

Examples:
  deckdoc batch
  deckdoc batch --in decks --out docs --to md
  deckdoc batch --wait`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")
			verbose, _ := cmd.Flags().GetBool("verbose")
			cfgPath, _ := cmd.Flags().GetString("config")

			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if inDir == "" {
				inDir = cfg.Paths.InputDir
			}
			if outDir == "" {
				outDir = cfg.Paths.OutputDir
			}
			if toFmt == "" {
				toFmt = cfg.Output.Format
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			runner := &convert.Runner{
				Converter: cfg.Converter(output.NewLogger(cmd.ErrOrStderr()), verbose),
				InputDir:  inDir,
				OutputDir: outDir,
				To:        toFmt,
				Progress:  progress.New("Converting", 0),
			}
			if !jsonFlag {
				runner.Out = cmd.OutOrStdout()
			}

			result, err := runner.Run(ctx)
			if result != nil {
				log := cfg.HistoryLog()
				for _, f := range result.Files {
					e := history.Entry{Command: "batch", Input: f.File, Output: f.Output, Format: toFmt, Status: f.Status, Error: f.Error}
					if f.Report != nil {
						e.Slides = f.Report.Slides
						e.Warnings = len(f.Report.Warnings)
					}
					log.Record(e)
				}
			}
			if err != nil {
				if jsonFlag {
					output.PrintJSONError(cmd.OutOrStdout(), "batch", err, output.ExitSystemError)
				}
				return err
			}

			if jsonFlag {
				if err := output.PrintJSON(cmd.OutOrStdout(), "batch", result); err != nil {
					return err
				}
			}

			if wait {
				return waitForEnter(cmd.InOrStdin(), cmd.OutOrStdout())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&inDir, "in", "", "Input directory (default from config: inputs)")
	cmd.Flags().StringVar(&outDir, "out", "", "Output directory (default from config: outputs)")
	cmd.Flags().StringVar(&toFmt, "to", "", "Output format: docx | txt | md | html | xlsx")
	cmd.Flags().BoolVar(&wait, "wait", false, "Wait for Enter before exiting")

	return cmd
}

// waitForEnter blocks until a line is read from in or input ends.
func waitForEnter(in io.Reader, out io.Writer) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "Press Enter to exit...",
		Stdin:           io.NopCloser(in),
		Stdout:          out,
		InterruptPrompt: "^C",
	})
	if err != nil {
		return fmt.Errorf("could not open prompt: %w", err)
	}
	defer rl.Close()

	// io.EOF and interrupts both end the wait.
	rl.Readline()
	return nil
}
