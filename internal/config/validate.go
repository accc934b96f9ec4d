package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/klytics/deckdoc/internal/convert"
)

// ConfigIssue represents a config validation problem.
type ConfigIssue struct {
	Key      string `json:"key"`
	Severity string `json:"severity"` // "error", "warning", "info"
	Message  string `json:"message"`
	Fix      string `json:"fix,omitempty"`
}

// Validate checks config values and returns a list of issues.
func (c *Config) Validate() []ConfigIssue {
	var issues []ConfigIssue

	supported := false
	for _, f := range convert.SupportedFormats {
		if c.Output.Format == f {
			supported = true
		}
	}
	if !supported {
		issues = append(issues, ConfigIssue{
			Key:      "output.format",
			Severity: "error",
			Message:  fmt.Sprintf("unsupported output format %q", c.Output.Format),
			Fix:      "deckdoc config set output.format " + strings.Join(convert.SupportedFormats, "|"),
		})
	}

	for key, v := range map[string]float64{
		"format.title_size": c.Format.TitleSize,
		"format.body_size":  c.Format.BodySize,
		"page.width_in":     c.Page.WidthIn,
		"page.height_in":    c.Page.HeightIn,
	} {
		if v <= 0 {
			issues = append(issues, ConfigIssue{
				Key:      key,
				Severity: "error",
				Message:  fmt.Sprintf("%s must be positive, got %g", key, v),
			})
		}
	}

	if c.Format.MaxDepth < 1 {
		issues = append(issues, ConfigIssue{
			Key:      "format.max_depth",
			Severity: "error",
			Message:  fmt.Sprintf("format.max_depth must be at least 1, got %d", c.Format.MaxDepth),
		})
	}

	if c.Page.WidthIn > 0 && c.Page.MarginLeftIn+c.Page.MarginRightIn >= c.Page.WidthIn {
		issues = append(issues, ConfigIssue{
			Key:      "page.margin_left_in",
			Severity: "error",
			Message:  "left and right margins leave no room for text",
		})
	}

	if c.Format.TitleThreshold <= c.Format.BodySize {
		issues = append(issues, ConfigIssue{
			Key:      "format.title_threshold",
			Severity: "warning",
			Message:  fmt.Sprintf("title threshold %gpt is not above the body size; most text will be centered", c.Format.TitleThreshold),
		})
	}

	if len(c.Filter.FirstSlidePatterns) == 0 {
		issues = append(issues, ConfigIssue{
			Key:      "filter.first_slide_patterns",
			Severity: "info",
			Message:  "no first-slide filter patterns; all first-slide text is kept",
		})
	}

	if info, err := os.Stat(c.Paths.InputDir); err != nil || !info.IsDir() {
		issues = append(issues, ConfigIssue{
			Key:      "paths.input_dir",
			Severity: "warning",
			Message:  fmt.Sprintf("input directory %s does not exist yet", c.Paths.InputDir),
			Fix:      "mkdir -p " + c.Paths.InputDir,
		})
	}

	return issues
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []ConfigIssue) bool {
	for _, i := range issues {
		if i.Severity == "error" {
			return true
		}
	}
	return false
}

// Set sets a config value and saves to disk.
func Set(key, value string) error {
	viper.Set(key, value)
	return SaveConfig()
}

// Get retrieves a config value.
func Get(key string) string {
	return viper.GetString(key)
}

// SaveConfig writes the current config to ~/.deckdoc/config.yaml.
func SaveConfig() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("could not create config directory: %w", err)
	}

	path := filepath.Join(dir, "config.yaml")
	if err := viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("could not write config: %w", err)
	}
	return os.Chmod(path, 0600)
}
