// Package history provides the "deckdoc history" command for listing past
// conversions.
package history

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/klytics/deckdoc/internal/config"
	hist "github.com/klytics/deckdoc/internal/history"
	"github.com/klytics/deckdoc/internal/output"
)

const inputWidth = 40

// NewCommand returns the history command.
func NewCommand() *cobra.Command {
	var (
		since  time.Duration
		failed bool
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past conversions",
		Long: `Shows conversions recorded by convert, batch and watch, newest last.

Examples:
  deckdoc history
  deckdoc history --since 24h --failed
  deckdoc history clear`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")
			cfgPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}

			entries, err := hist.ReadEntries(cfg.History.File)
			if err != nil {
				return fmt.Errorf("could not read history: %w", err)
			}
			var from time.Time
			if since > 0 {
				from = time.Now().Add(-since)
			}
			status := ""
			if failed {
				status = "error"
			}
			entries = hist.FilterEntries(entries, from, status)
			if limit > 0 && len(entries) > limit {
				entries = entries[len(entries)-limit:]
			}

			if jsonFlag {
				return output.PrintJSON(cmd.OutOrStdout(), "history", entries)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No conversions recorded")
				return nil
			}
			ok := color.New(color.FgGreen).SprintFunc()
			bad := color.New(color.FgRed).SprintFunc()
			dim := color.New(color.FgHiBlack).SprintFunc()
			for _, e := range entries {
				mark := ok("✓")
				if e.Status != "ok" {
					mark = bad("✗")
				}
				input := runewidth.FillRight(runewidth.Truncate(e.Input, inputWidth, "…"), inputWidth)
				fmt.Fprintf(out, "%s %s  %-7s %s  %s\n", mark, dim(e.Timestamp.Format("2006-01-02 15:04")), e.Command, input, e.Format)
				if e.Error != "" {
					fmt.Fprintf(out, "    %s\n", bad(e.Error))
				}
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&since, "since", 0, "Only show conversions within this duration (e.g. 24h)")
	cmd.Flags().BoolVar(&failed, "failed", false, "Only show failed conversions")
	cmd.Flags().IntVar(&limit, "limit", 50, "Show at most this many entries (0 for all)")

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete the conversion history",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if err := hist.Clear(cfg.History.File); err != nil {
				return fmt.Errorf("could not clear history: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
			return nil
		},
	})

	return cmd
}
