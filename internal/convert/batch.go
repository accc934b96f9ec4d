package convert

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/klytics/deckdoc/internal/progress"
)

// FileResult is the outcome of converting one input file.
type FileResult struct {
	File   string  `json:"file"`
	Output string  `json:"output,omitempty"`
	Status string  `json:"status"`
	Error  string  `json:"error,omitempty"`
	Report *Report `json:"report,omitempty"`
}

// BatchResult summarizes a batch run.
type BatchResult struct {
	InputDir  string       `json:"inputDir"`
	OutputDir string       `json:"outputDir"`
	Files     []FileResult `json:"files"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
}

// Runner converts every presentation in an input directory, one file at a
// time. A failing file is reported and skipped; the batch always finishes.
type Runner struct {
	Converter *Converter
	InputDir  string
	OutputDir string
	To        string
	// Out receives progress messages. Nil silences them.
	Out io.Writer
	// Progress, when set, is sized to the file count and advanced once per file.
	Progress *progress.Bar
}

var (
	okColor   = color.New(color.FgGreen)
	failColor = color.New(color.FgRed)
	dimColor  = color.New(color.Faint)
)

// Run converts all files. It creates the input and output directories when
// they are missing. The context is checked between files.
func (r *Runner) Run(ctx context.Context) (*BatchResult, error) {
	to := r.To
	if to == "" {
		to = FormatDocx
	}
	if !isSupported(to) {
		return nil, fmt.Errorf("unsupported output format %q (supported: %s)", to, strings.Join(SupportedFormats, ", "))
	}

	for _, dir := range []string{r.InputDir, r.OutputDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("could not create directory %s: %w", dir, err)
		}
	}

	files, err := FindPresentations(r.InputDir)
	if err != nil {
		return nil, err
	}

	result := &BatchResult{InputDir: r.InputDir, OutputDir: r.OutputDir, Files: make([]FileResult, 0, len(files))}
	if len(files) == 0 {
		r.printf("No PowerPoint files found in %s.\n", r.InputDir)
		r.printf("\n%s\n", result.Summary())
		return result, nil
	}
	r.printf("Found %d PowerPoint file(s) to process.\n", len(files))
	if r.Progress != nil {
		r.Progress.Total = len(files)
	}

	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		name := filepath.Base(file)
		out := OutputPath(file, r.OutputDir, to)
		r.printf("\n[%d/%d] Processing %s...\n", i+1, len(files), name)

		fr := FileResult{File: file, Output: out, Status: "ok"}
		report, err := r.Converter.ConvertFile(ctx, file, out, to)
		fr.Report = report
		if err != nil {
			fr.Status = "error"
			fr.Error = err.Error()
			fr.Output = ""
			result.Failed++
			r.colorf(failColor, "  Failed: %s: %v\n", name, err)
		} else {
			result.Succeeded++
			r.colorf(okColor, "  Converted: %s\n", filepath.Base(out))
			if report != nil {
				for _, w := range report.Warnings {
					r.colorf(dimColor, "  warning: %s\n", w)
				}
			}
		}
		result.Files = append(result.Files, fr)

		if r.Progress != nil {
			r.Progress.Increment(name)
		}
	}

	if r.Progress != nil {
		r.Progress.Finish(fmt.Sprintf("%d file(s) processed", len(files)))
	}
	r.printf("\n%s\n", result.Summary())
	return result, nil
}

// Summary returns the completion line of the batch.
func (b *BatchResult) Summary() string {
	return fmt.Sprintf("Processed %d files. %d succeeded, %d failed.", len(b.Files), b.Succeeded, b.Failed)
}

// FindPresentations lists the .ppt and .pptx files directly inside dir,
// sorted by name. Office lock files (~$name.pptx) are ignored.
func FindPresentations(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("could not list %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), "~$") {
			continue
		}
		if IsPresentation(e.Name()) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// IsPresentation reports whether name has a PowerPoint extension.
func IsPresentation(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".ppt", ".pptx":
		return true
	}
	return false
}

func (r *Runner) printf(format string, args ...interface{}) {
	if r.Out != nil {
		fmt.Fprintf(r.Out, format, args...)
	}
}

func (r *Runner) colorf(c *color.Color, format string, args ...interface{}) {
	if r.Out != nil {
		c.Fprintf(r.Out, format, args...)
	}
}
