// Package doctor provides the "deckdoc doctor" command for checking that
// conversions can run in the current environment.
package doctor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/deckdoc/internal/config"
	"github.com/klytics/deckdoc/internal/convert"
	"github.com/klytics/deckdoc/internal/formats/pptx/pptxtest"
	"github.com/klytics/deckdoc/internal/formats/xlsx"
	"github.com/klytics/deckdoc/internal/output"
)

// Check represents a single health check result.
type Check struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "ok", "warning", "error"
	Message string `json:"message"`
}

// NewCommand creates the "doctor" command.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and directories",
		Long:  "Run diagnostic checks to verify deckdoc is configured and can write documents.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			checks := RunChecks(cfgPath)

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return output.PrintJSON(cmd.OutOrStdout(), "doctor", checks)
			}

			green := color.New(color.FgGreen).SprintFunc()
			yellow := color.New(color.FgYellow).SprintFunc()
			red := color.New(color.FgRed).SprintFunc()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "deckdoc doctor")
			fmt.Fprintln(out, "==============")
			fmt.Fprintln(out)

			okCount, warnCount, errCount := 0, 0, 0
			for _, c := range checks {
				var icon string
				switch c.Status {
				case "ok":
					icon = green("✓")
					okCount++
				case "warning":
					icon = yellow("!")
					warnCount++
				case "error":
					icon = red("✗")
					errCount++
				}
				fmt.Fprintf(out, "  %s %s: %s\n", icon, c.Name, c.Message)
			}

			fmt.Fprintln(out)
			fmt.Fprintf(out, "  %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

			if errCount > 0 {
				return fmt.Errorf("%d check(s) failed", errCount)
			}
			return nil
		},
	}
}

// RunChecks runs every health check with the config at cfgPath (or the
// default location when empty).
func RunChecks(cfgPath string) []Check {
	checks := []Check{{
		Name:    "Go Runtime",
		Status:  "ok",
		Message: fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH),
	}}

	configFile := cfgPath
	if configFile == "" {
		configFile = config.ConfigPath()
	}
	if _, err := os.Stat(configFile); err == nil {
		checks = append(checks, Check{Name: "Config File", Status: "ok", Message: configFile})
	} else {
		checks = append(checks, Check{Name: "Config File", Status: "warning", Message: "Not found, using defaults (run 'deckdoc config init')"})
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return append(checks, Check{Name: "Config", Status: "error", Message: err.Error()})
	}
	for _, issue := range cfg.Validate() {
		if issue.Severity == "error" {
			checks = append(checks, Check{Name: "Config " + issue.Key, Status: "error", Message: issue.Message})
		}
	}

	if info, err := os.Stat(cfg.Paths.InputDir); err == nil && info.IsDir() {
		files, _ := convert.FindPresentations(cfg.Paths.InputDir)
		checks = append(checks, Check{Name: "Input Directory", Status: "ok", Message: fmt.Sprintf("%s (%d presentation(s))", cfg.Paths.InputDir, len(files))})
	} else {
		checks = append(checks, Check{Name: "Input Directory", Status: "warning", Message: fmt.Sprintf("%s not found, 'deckdoc batch' will create it", cfg.Paths.InputDir)})
	}

	checks = append(checks, selfTest(cfg))
	return checks
}

// selfTest converts a one-slide deck with a table into a temporary
// directory, as .docx and as .xlsx, and reads the exported table back.
func selfTest(cfg *config.Config) Check {
	fail := func(err error) Check {
		return Check{Name: "Self Test", Status: "error", Message: err.Error()}
	}

	tmp, err := os.MkdirTemp("", "deckdoc-doctor-")
	if err != nil {
		return fail(err)
	}
	defer os.RemoveAll(tmp)

	deck := pptxtest.Deck{Slides: []string{
		pptxtest.Text(2, "deckdoc self test") + pptxtest.TableFrame(3, 2, []string{"slide", "text"}, []string{"1", "ok"}),
	}}
	data, err := deck.Bytes()
	if err != nil {
		return fail(err)
	}
	in := filepath.Join(tmp, "self-test.pptx")
	if err := os.WriteFile(in, data, 0644); err != nil {
		return fail(err)
	}

	conv := cfg.Converter(nil, false)
	if _, err := conv.ConvertFile(context.Background(), in, filepath.Join(tmp, "self-test.docx"), convert.FormatDocx); err != nil {
		return fail(err)
	}

	book := filepath.Join(tmp, "self-test.xlsx")
	if _, err := conv.ConvertFile(context.Background(), in, book, convert.FormatXLSX); err != nil {
		return fail(err)
	}
	wb, err := xlsx.ReadFile(book)
	if err != nil {
		return fail(err)
	}
	sheet, err := wb.Table(1)
	if err != nil {
		return fail(err)
	}
	if got := sheet.Cell(1, 1); got != "ok" {
		return fail(fmt.Errorf("exported table cell (2,2) = %q, want \"ok\"", got))
	}
	return Check{Name: "Self Test", Status: "ok", Message: "converted a sample deck to .docx and .xlsx"}
}
