// Package watch provides the "deckdoc watch" commands, which convert
// presentations as they are dropped into a directory.
package watch

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/klytics/deckdoc/internal/config"
	"github.com/klytics/deckdoc/internal/history"
	"github.com/klytics/deckdoc/internal/output"
	w "github.com/klytics/deckdoc/internal/watch"
)

// NewCommand creates the "watch" command with subcommands.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Convert presentations as they appear in a directory",
		Long: `Watch input directories for new or modified .pptx files and convert each
one into the output directory as soon as it has been written.

Example:
  deckdoc watch start
  deckdoc watch start decks --out docs --to md
  deckdoc watch status
  deckdoc watch stop`,
	}

	cmd.AddCommand(newStartCmd())
	cmd.AddCommand(newStopCmd())
	cmd.AddCommand(newStatusCmd())

	return cmd
}

func newStartCmd() *cobra.Command {
	var (
		outDir    string
		toFmt     string
		recursive bool
		debounce  int
	)

	cmd := &cobra.Command{
		Use:   "start [directory...]",
		Short: "Start watching directories (default: the configured input directory)",
		RunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			cfgPath, _ := cmd.Flags().GetString("config")

			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			dirs := args
			if len(dirs) == 0 {
				dirs = []string{cfg.Paths.InputDir}
			}
			if outDir == "" {
				outDir = cfg.Paths.OutputDir
			}
			if toFmt == "" {
				toFmt = cfg.Output.Format
			}
			for _, d := range append(append([]string{}, dirs...), outDir) {
				if err := os.MkdirAll(d, 0755); err != nil {
					return fmt.Errorf("could not create directory %s: %w", d, err)
				}
			}

			logger := output.NewLogger(cmd.ErrOrStderr())
			conv := cfg.Converter(logger, verbose)
			handler := w.ConvertHandler(conv, outDir, toFmt)
			hist := cfg.HistoryLog()
			watcher, err := w.New(w.Config{
				Directories: dirs,
				Recursive:   recursive,
				Debounce:    time.Duration(debounce) * time.Millisecond,
			}, func(ctx context.Context, path string) (w.Result, error) {
				start := time.Now()
				res, err := handler(ctx, path)
				e := history.Entry{Command: "watch", Input: path, Output: res.Output, Format: toFmt, Status: "ok", Warnings: res.Warnings, DurationMs: time.Since(start).Milliseconds()}
				if err != nil {
					e.Status, e.Error = "error", err.Error()
				}
				hist.Record(e)
				return res, err
			})
			if err != nil {
				return err
			}
			watcher.Logger = logger

			configDir := config.Dir()
			if err := os.MkdirAll(configDir, 0700); err == nil {
				if err := w.WritePIDFile(configDir); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: could not write PID file: %v\n", err)
				}
				defer w.RemovePIDFile(configDir)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Watching %s for presentations → %s (%s)\n", strings.Join(dirs, ", "), outDir, toFmt)
			fmt.Fprintln(out, "Press Ctrl+C to stop")

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			if err := watcher.Start(ctx); err != nil {
				return err
			}

			converted, failed := 0, 0
			for _, e := range watcher.GetEvents() {
				switch e.Status {
				case "converted":
					converted++
				case "error":
					failed++
				}
			}
			fmt.Fprintf(out, "\nStopped. %d converted, %d failed.\n", converted, failed)
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "", "Output directory (default from config)")
	cmd.Flags().StringVar(&toFmt, "to", "", "Output format: docx | txt | md | html | xlsx")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Watch directories recursively")
	cmd.Flags().IntVar(&debounce, "debounce", 500, "Debounce interval in milliseconds")

	return cmd
}

func newStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the running watcher",
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir := config.Dir()
			pid, err := w.ReadPIDFile(configDir)
			if err != nil {
				return fmt.Errorf("no watcher running (PID file not found)")
			}

			process, err := os.FindProcess(pid)
			if err != nil {
				return fmt.Errorf("could not find process %d: %w", pid, err)
			}

			if err := process.Signal(syscall.SIGTERM); err != nil {
				w.RemovePIDFile(configDir)
				return fmt.Errorf("could not stop watcher (PID %d): %w", pid, err)
			}
			w.RemovePIDFile(configDir)

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return output.PrintJSON(cmd.OutOrStdout(), "watch stop", map[string]any{"stopped": true, "pid": pid})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stopped watcher (PID %d)\n", pid)
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a watcher is running",
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir := config.Dir()

			pid, err := w.ReadPIDFile(configDir)
			running := err == nil
			if running {
				process, err := os.FindProcess(pid)
				if err != nil || process.Signal(syscall.Signal(0)) != nil {
					running = false
					w.RemovePIDFile(configDir)
				}
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				status := map[string]any{"running": running}
				if running {
					status["pid"] = pid
				}
				return output.PrintJSON(cmd.OutOrStdout(), "watch status", status)
			}

			if !running {
				fmt.Fprintln(cmd.OutOrStdout(), "Watcher is not running")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Watcher is running (PID %d)\n", pid)
			return nil
		},
	}
}
