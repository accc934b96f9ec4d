// Package cmd contains all CLI commands for the deckdoc binary.
package cmd

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/deckdoc/cmd/batch"
	"github.com/klytics/deckdoc/cmd/completion"
	cmdconfig "github.com/klytics/deckdoc/cmd/config"
	"github.com/klytics/deckdoc/cmd/convert"
	"github.com/klytics/deckdoc/cmd/doctor"
	"github.com/klytics/deckdoc/cmd/history"
	"github.com/klytics/deckdoc/cmd/inspect"
	"github.com/klytics/deckdoc/cmd/version"
	cmdwatch "github.com/klytics/deckdoc/cmd/watch"
	"github.com/klytics/deckdoc/internal/config"
	"github.com/klytics/deckdoc/internal/output"
)

var (
	jsonOutput bool
	verbose    bool
	noColor    bool
	cfgFile    string
)

// NewRootCommand creates and returns the root cobra command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "deckdoc",
		Short: "Convert PowerPoint decks into Word documents",
		Long: `deckdoc converts .pptx presentations into Word (.docx) documents.

Text boxes, tables, grouped shapes and SmartArt diagrams are extracted in
slide order. Large text becomes centered headings, body text is normalized
to one font, and tables keep their grid. Output can also be plain text,
Markdown, HTML or an Excel workbook of the tables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				color.NoColor = true
			}
			if jsonOutput {
				// The progress bar reads this to stay off the terminal.
				os.Setenv("DECKDOC_JSON", "true")
			}
			// Commands that need the config report load errors themselves.
			if cfg, err := config.Load(cfgFile); err == nil && !cfg.Output.Color {
				color.NoColor = true
			}
			return nil
		},
	}

	// Global persistent flags
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as machine-readable JSON")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Log one line per slide")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable ANSI color output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ~/.deckdoc/config.yaml)")

	rootCmd.AddCommand(convert.NewCommand())
	rootCmd.AddCommand(batch.NewCommand())
	rootCmd.AddCommand(inspect.NewCommand())
	rootCmd.AddCommand(cmdwatch.NewCommand())
	rootCmd.AddCommand(cmdconfig.NewCommand())
	rootCmd.AddCommand(history.NewCommand())
	rootCmd.AddCommand(doctor.NewCommand())
	rootCmd.AddCommand(completion.NewCommand(rootCmd))
	rootCmd.AddCommand(version.NewCommand())

	return rootCmd
}

// Execute runs the root command and handles any returned errors.
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		output.WriteError("%s", err)
		os.Exit(1)
	}
}
