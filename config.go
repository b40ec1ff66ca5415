package viewz

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config holds the tunables of the renderer and the terminal host.
type Config struct {
	WeightStep float64     `yaml:"weight_step"`
	Title      string      `yaml:"title"`
	Width      int         `yaml:"width"`
	ImageRows  int         `yaml:"image_rows"`
	GridTile   int         `yaml:"grid_tile"`
	Theme      ThemeConfig `yaml:"theme"`
	Log        LogConfig   `yaml:"log"`
}

// ThemeConfig names theme colors as hex strings ("#rrggbb").
// "mono" as Preset selects ThemeMonochrome; empty fields keep the preset.
type ThemeConfig struct {
	Preset string `yaml:"preset"`
	Base   string `yaml:"base"`
	Card   string `yaml:"card"`
	Border string `yaml:"border"`
	Header string `yaml:"header"`
	Accent string `yaml:"accent"`
	Muted  string `yaml:"muted"`
}

// LogConfig configures the zap logger of the command.
type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		WeightStep: DefaultStep,
		Title:      "DataViewz",
		ImageRows:  6,
		GridTile:   12,
		Log:        LogConfig{Level: "info"},
	}
}

// LoadConfig reads path and overlays it on DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.WeightStep < 0 || c.WeightStep > 1 {
		return fmt.Errorf("weight_step %v outside [0,1]", c.WeightStep)
	}
	if c.ImageRows < 1 {
		return fmt.Errorf("image_rows must be positive")
	}
	if c.GridTile < 1 {
		return fmt.Errorf("grid_tile must be positive")
	}
	_, err := c.Theme.Build()
	return err
}

// Build resolves the theme.
func (t ThemeConfig) Build() (Theme, error) {
	theme := ThemeDark
	if t.Preset == "mono" {
		theme = ThemeMonochrome
	}
	for _, f := range []struct {
		hex string
		dst *Color
	}{
		{t.Base, &theme.Base},
		{t.Card, &theme.Card},
		{t.Border, &theme.Border},
		{t.Header, &theme.Header},
		{t.Accent, &theme.Accent},
		{t.Muted, &theme.Muted},
	} {
		if f.hex == "" {
			continue
		}
		c, err := ParseHex(f.hex)
		if err != nil {
			return theme, err
		}
		*f.dst = c
	}
	return theme, nil
}

// Painter returns a painter configured from c.
func (c Config) Painter() (*Painter, error) {
	theme, err := c.Theme.Build()
	if err != nil {
		return nil, err
	}
	p := NewPainter()
	p.Theme = theme
	p.ImageRows = c.ImageRows
	p.GridTile = c.GridTile
	return p, nil
}

// Build returns a zap logger writing JSON lines to File at Level.
// Without a file it returns a no-op logger: the terminal belongs to the UI.
func (c LogConfig) Build() (*zap.Logger, error) {
	if c.File == "" {
		return zap.NewNop(), nil
	}
	level := zapcore.InfoLevel
	if c.Level != "" {
		l, err := zapcore.ParseLevel(c.Level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		level = l
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{c.File}
	cfg.ErrorOutputPaths = []string{c.File}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}
