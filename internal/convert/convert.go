package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/klytics/deckdoc/internal/extract"
	"github.com/klytics/deckdoc/internal/formats/docx"
	"github.com/klytics/deckdoc/internal/formats/pptx"
	"github.com/klytics/deckdoc/internal/formats/xlsx"
	"github.com/klytics/deckdoc/internal/render"
)

// Output formats.
const (
	FormatDocx = "docx"
	FormatText = "txt"
	FormatMD   = "md"
	FormatHTML = "html"
	FormatXLSX = "xlsx"
)

// SupportedFormats lists the output formats in display order.
var SupportedFormats = []string{FormatDocx, FormatText, FormatMD, FormatHTML, FormatXLSX}

// ErrLegacyFormat is returned for binary .ppt input.
var ErrLegacyFormat = errors.New("legacy .ppt files are not supported — save the deck as .pptx and try again")

// Options configures a Converter.
type Options struct {
	Format   extract.Format
	Page     docx.Page
	Patterns []string
	Logger   *log.Logger
	Verbose  bool
}

// DefaultOptions returns the built-in formatting, A4 page and skip patterns.
func DefaultOptions() Options {
	return Options{
		Format:   extract.DefaultFormat(),
		Page:     docx.A4(),
		Patterns: extract.DefaultSkipPatterns,
	}
}

// Converter converts presentations to documents. Conversions are sequential;
// a Converter must not be shared between goroutines without external locking.
type Converter struct {
	opts      Options
	assembler *Assembler
}

// New returns a converter for opts. A nil logger discards diagnostics.
func New(opts Options) *Converter {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}
	w := extract.NewWalker(opts.Format, extract.NewFilter(opts.Patterns), opts.Logger)
	return &Converter{
		opts:      opts,
		assembler: &Assembler{Walker: w, Logger: opts.Logger, Verbose: opts.Verbose},
	}
}

// Walker returns the walker used for extraction.
func (c *Converter) Walker() *extract.Walker {
	return c.assembler.Walker
}

// ConvertFile converts the presentation at in and writes out in format to.
// An empty to is derived from the extension of out.
func (c *Converter) ConvertFile(ctx context.Context, in, out, to string) (*Report, error) {
	if to == "" {
		to = DetectFormat(out)
	}
	if !isSupported(to) {
		return nil, fmt.Errorf("unsupported output format %q (supported: %s)", to, strings.Join(SupportedFormats, ", "))
	}

	pres, err := c.read(in)
	if err != nil {
		return nil, err
	}

	switch to {
	case FormatDocx:
		b := docx.NewBuilder(c.opts.Page)
		report, err := c.assembler.Assemble(ctx, pres, b)
		if err != nil {
			return report, err
		}
		return report, b.WriteFile(out)

	case FormatXLSX:
		book := xlsx.NewTableBook()
		report, err := c.assembler.Assemble(ctx, pres, book)
		if err != nil {
			return report, err
		}
		return report, book.WriteFile(out)

	default:
		mode := render.Plain
		if to != FormatText {
			mode = render.Markdown
		}
		text := render.NewText(mode)
		report, err := c.assembler.Assemble(ctx, pres, text)
		if err != nil {
			return report, err
		}
		result := text.String()
		if to == FormatHTML {
			result = render.HTML(strings.TrimSuffix(filepath.Base(in), filepath.Ext(in)), result)
		}
		return report, writeFile(out, []byte(result))
	}
}

// Extract reads the presentation at in and returns its blocks per slide
// without writing anything.
func (c *Converter) Extract(ctx context.Context, in string) ([][]extract.Block, []error, error) {
	pres, err := c.read(in)
	if err != nil {
		return nil, nil, err
	}
	var slides [][]extract.Block
	var errs []error
	for i := range pres.Slides {
		if err := ctx.Err(); err != nil {
			return slides, errs, err
		}
		blocks, slideErrs := c.assembler.Walker.WalkSlide(&pres.Slides[i])
		slides = append(slides, blocks)
		errs = append(errs, slideErrs...)
	}
	return slides, errs, nil
}

func (c *Converter) read(in string) (*pptx.Presentation, error) {
	if strings.EqualFold(filepath.Ext(in), ".ppt") {
		return nil, ErrLegacyFormat
	}
	pres, err := pptx.ReadFile(in)
	if err != nil {
		return nil, fmt.Errorf("could not read presentation: %w", err)
	}
	return pres, nil
}

// OutputPath returns the output file for in inside dir: the input's base
// name with the extension of format to.
func OutputPath(in, dir, to string) string {
	base := filepath.Base(in)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + "." + to
	return filepath.Join(dir, name)
}

// DetectFormat maps an output file extension to a format name.
func DetectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".docx":
		return FormatDocx
	case ".txt":
		return FormatText
	case ".md", ".markdown":
		return FormatMD
	case ".html", ".htm":
		return FormatHTML
	case ".xlsx":
		return FormatXLSX
	default:
		return ""
	}
}

func isSupported(format string) bool {
	for _, f := range SupportedFormats {
		if f == format {
			return true
		}
	}
	return false
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("could not create output directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("could not write %s: %w", path, err)
	}
	return nil
}
