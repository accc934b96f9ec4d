package extract

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DefaultSkipPatterns are the week and lesson-period labels that header
// slides of lesson decks carry.
var DefaultSkipPatterns = []string{"Tuần", "Tiết"}

// Filter suppresses header text on the first slide of a deck.
type Filter struct {
	patterns []string
}

// NewFilter returns a filter matching any of patterns. Empty patterns are
// ignored. Patterns and text are compared in NFC form so that composed and
// decomposed diacritics match.
func NewFilter(patterns []string) *Filter {
	f := &Filter{}
	for _, p := range patterns {
		if p = norm.NFC.String(p); p != "" {
			f.patterns = append(f.patterns, p)
		}
	}
	return f
}

// Patterns returns the normalized patterns in use.
func (f *Filter) Patterns() []string {
	return append([]string(nil), f.patterns...)
}

// ShouldSkip reports whether text must be dropped. Only text on the first
// slide is ever skipped.
func (f *Filter) ShouldSkip(text string, firstSlide bool) bool {
	if f == nil || !firstSlide || len(f.patterns) == 0 {
		return false
	}
	text = norm.NFC.String(text)
	for _, p := range f.patterns {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
