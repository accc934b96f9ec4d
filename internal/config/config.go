// Package config manages application configuration from files and environment.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/klytics/deckdoc/internal/convert"
	"github.com/klytics/deckdoc/internal/extract"
	"github.com/klytics/deckdoc/internal/formats/docx"
	"github.com/klytics/deckdoc/internal/history"
)

// EnvPrefix is the prefix of environment variable overrides, e.g.
// DECKDOC_FORMAT_TITLE_SIZE=16.
const EnvPrefix = "DECKDOC"

// Config holds the application configuration.
type Config struct {
	Format struct {
		FontFamily     string  `mapstructure:"font_family" yaml:"font_family"`
		TitleSize      float64 `mapstructure:"title_size" yaml:"title_size"`
		BodySize       float64 `mapstructure:"body_size" yaml:"body_size"`
		TitleThreshold float64 `mapstructure:"title_threshold" yaml:"title_threshold"`
		MaxDepth       int     `mapstructure:"max_depth" yaml:"max_depth"`
	} `mapstructure:"format" yaml:"format"`
	Page struct {
		WidthIn        float64 `mapstructure:"width_in" yaml:"width_in"`
		HeightIn       float64 `mapstructure:"height_in" yaml:"height_in"`
		MarginLeftIn   float64 `mapstructure:"margin_left_in" yaml:"margin_left_in"`
		MarginRightIn  float64 `mapstructure:"margin_right_in" yaml:"margin_right_in"`
		MarginTopIn    float64 `mapstructure:"margin_top_in" yaml:"margin_top_in"`
		MarginBottomIn float64 `mapstructure:"margin_bottom_in" yaml:"margin_bottom_in"`
	} `mapstructure:"page" yaml:"page"`
	Filter struct {
		FirstSlidePatterns []string `mapstructure:"first_slide_patterns" yaml:"first_slide_patterns"`
	} `mapstructure:"filter" yaml:"filter"`
	Paths struct {
		InputDir  string `mapstructure:"input_dir" yaml:"input_dir"`
		OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
	} `mapstructure:"paths" yaml:"paths"`
	Output struct {
		Format string `mapstructure:"format" yaml:"format"`
		Color  bool   `mapstructure:"color" yaml:"color"`
	} `mapstructure:"output" yaml:"output"`
	History struct {
		Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
		File    string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"history" yaml:"history"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	var cfg Config
	f := extract.DefaultFormat()
	cfg.Format.FontFamily = f.FontFamily
	cfg.Format.TitleSize = f.TitleSize
	cfg.Format.BodySize = f.BodySize
	cfg.Format.TitleThreshold = f.TitleThreshold
	cfg.Format.MaxDepth = f.MaxDepth

	p := docx.A4()
	cfg.Page.WidthIn = p.WidthIn
	cfg.Page.HeightIn = p.HeightIn
	cfg.Page.MarginLeftIn = p.MarginLeftIn
	cfg.Page.MarginRightIn = p.MarginRightIn
	cfg.Page.MarginTopIn = p.MarginTopIn
	cfg.Page.MarginBottomIn = p.MarginBottomIn

	cfg.Filter.FirstSlidePatterns = append([]string(nil), extract.DefaultSkipPatterns...)
	cfg.Paths.InputDir = "inputs"
	cfg.Paths.OutputDir = "outputs"
	cfg.Output.Format = convert.FormatDocx
	cfg.Output.Color = true
	cfg.History.Enabled = true
	cfg.History.File = history.DefaultPath(Dir())
	return &cfg
}

// SetDefaults registers the built-in defaults with viper.
func SetDefaults() {
	d := Defaults()
	viper.SetDefault("format.font_family", d.Format.FontFamily)
	viper.SetDefault("format.title_size", d.Format.TitleSize)
	viper.SetDefault("format.body_size", d.Format.BodySize)
	viper.SetDefault("format.title_threshold", d.Format.TitleThreshold)
	viper.SetDefault("format.max_depth", d.Format.MaxDepth)

	viper.SetDefault("page.width_in", d.Page.WidthIn)
	viper.SetDefault("page.height_in", d.Page.HeightIn)
	viper.SetDefault("page.margin_left_in", d.Page.MarginLeftIn)
	viper.SetDefault("page.margin_right_in", d.Page.MarginRightIn)
	viper.SetDefault("page.margin_top_in", d.Page.MarginTopIn)
	viper.SetDefault("page.margin_bottom_in", d.Page.MarginBottomIn)

	viper.SetDefault("filter.first_slide_patterns", d.Filter.FirstSlidePatterns)
	viper.SetDefault("paths.input_dir", d.Paths.InputDir)
	viper.SetDefault("paths.output_dir", d.Paths.OutputDir)
	viper.SetDefault("output.format", d.Output.Format)
	viper.SetDefault("output.color", d.Output.Color)
	viper.SetDefault("history.enabled", d.History.Enabled)
	viper.SetDefault("history.file", d.History.File)
}

// Load reads the configuration. Sources, lowest precedence first: built-in
// defaults, the config file (cfgFile, or ~/.deckdoc/config.yaml when empty),
// a .env file in the working directory, and DECKDOC_* environment variables.
// A missing default config file or .env is not an error.
func Load(cfgFile string) (*Config, error) {
	// .env only fills variables that are not already set.
	_ = godotenv.Load()

	SetDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(Dir())
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("could not read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// ExtractFormat returns the run formatting and walk limits.
func (c *Config) ExtractFormat() extract.Format {
	return extract.Format{
		FontFamily:     c.Format.FontFamily,
		TitleSize:      c.Format.TitleSize,
		BodySize:       c.Format.BodySize,
		TitleThreshold: c.Format.TitleThreshold,
		MaxDepth:       c.Format.MaxDepth,
	}
}

// PageGeometry returns the output page size and margins.
func (c *Config) PageGeometry() docx.Page {
	return docx.Page{
		WidthIn:        c.Page.WidthIn,
		HeightIn:       c.Page.HeightIn,
		MarginLeftIn:   c.Page.MarginLeftIn,
		MarginRightIn:  c.Page.MarginRightIn,
		MarginTopIn:    c.Page.MarginTopIn,
		MarginBottomIn: c.Page.MarginBottomIn,
	}
}

// ConvertOptions returns converter options for this configuration. The
// logger is left for the caller to set.
func (c *Config) ConvertOptions() convert.Options {
	return convert.Options{
		Format:   c.ExtractFormat(),
		Page:     c.PageGeometry(),
		Patterns: c.Filter.FirstSlidePatterns,
	}
}

// Converter returns a converter for this configuration. Diagnostics go to
// logger; verbose adds per-slide lines.
func (c *Config) Converter(logger *log.Logger, verbose bool) *convert.Converter {
	opts := c.ConvertOptions()
	opts.Logger = logger
	opts.Verbose = verbose
	return convert.New(opts)
}

// HistoryLog returns the conversion history log.
func (c *Config) HistoryLog() *history.Log {
	return history.New(c.History.File, c.History.Enabled)
}

// ConfigPath returns the path to the default config file.
func ConfigPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// ShowConfig returns the effective configuration as YAML.
func ShowConfig(cfg *Config) (string, error) {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("could not encode config: %w", err)
	}
	return string(out), nil
}

// WriteDefaults writes the built-in defaults to path as YAML. An existing
// file is left untouched unless force is set.
func WriteDefaults(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config already exists at %s — use --force to overwrite", path)
	}

	cfg := Defaults()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("could not encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("could not create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("could not write config: %w", err)
	}
	return nil
}

// Dir returns the per-user config directory, ~/.deckdoc.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".deckdoc"
	}
	return filepath.Join(home, ".deckdoc")
}
