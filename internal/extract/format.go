// Package extract turns a slide's shape tree into an ordered sequence of
// content blocks ready to be appended to an output document.
package extract

// Format holds the fixed output formatting applied to every extracted run
// and the limits used while walking the shape tree.
type Format struct {
	FontFamily     string  `json:"fontFamily" yaml:"font_family"`
	TitleSize      float64 `json:"titleSize" yaml:"title_size"`
	BodySize       float64 `json:"bodySize" yaml:"body_size"`
	TitleThreshold float64 `json:"titleThreshold" yaml:"title_threshold"`
	MaxDepth       int     `json:"maxDepth" yaml:"max_depth"`
}

// DefaultFormat returns Times New Roman at 14pt for titles and 12pt for body
// text, with titles detected from a 28pt source run.
func DefaultFormat() Format {
	return Format{
		FontFamily:     "Times New Roman",
		TitleSize:      14,
		BodySize:       12,
		TitleThreshold: 28,
		MaxDepth:       64,
	}
}
