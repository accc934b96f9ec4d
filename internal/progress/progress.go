// Package progress draws a one-line progress bar for batch conversions.
// Output goes to stderr so stdout stays clean for --json.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Bar renders an ASCII progress bar.
type Bar struct {
	Total   int
	Current int
	Label   string
	Width   int
	Enabled bool
	Out     io.Writer

	mu sync.Mutex
}

// New creates a progress bar on stderr. It is disabled when stderr is not a
// terminal, or when DECKDOC_NO_PROGRESS=1 or DECKDOC_JSON=true is set.
func New(label string, total int) *Bar {
	return &Bar{
		Total:   total,
		Label:   label,
		Width:   30,
		Enabled: shouldEnable(),
		Out:     os.Stderr,
	}
}

// Increment advances the bar by one file and redraws it with status.
func (b *Bar) Increment(status string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.Current < b.Total {
		b.Current++
	}
	b.render(status)
}

// Finish clears the bar and prints a completion line.
func (b *Bar) Finish(summary string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.Enabled {
		return
	}
	fmt.Fprintf(b.writer(), "\r\033[K✓ %s\n", summary)
}

// Pct returns the completed share in percent.
func (b *Bar) Pct() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Total == 0 {
		return 0
	}
	return float64(b.Current) / float64(b.Total) * 100
}

func (b *Bar) render(status string) {
	if !b.Enabled {
		return
	}

	filled := 0
	if b.Total > 0 {
		filled = b.Current * b.Width / b.Total
	}
	bar := strings.Repeat("=", filled) + strings.Repeat(" ", b.Width-filled)
	fmt.Fprintf(b.writer(), "\r\033[K%s [%s] %d/%d  %s", b.Label, bar, b.Current, b.Total, status)
}

func (b *Bar) writer() io.Writer {
	if b.Out == nil {
		return os.Stderr
	}
	return b.Out
}

func shouldEnable() bool {
	if os.Getenv("DECKDOC_NO_PROGRESS") == "1" {
		return false
	}
	if os.Getenv("DECKDOC_JSON") == "true" {
		return false
	}
	stat, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice != 0
}
