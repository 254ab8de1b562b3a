// Package config defines the configuration types for blogc.
// These types are pure data structures; discovery, merging and validation
// live in internal/configloader.
package config

import (
	"slices"
	"time"
)

// Engine selects which source language a site is written in.
type Engine string

const (
	EngineDialect    Engine = "dialect"
	EngineCommonMark Engine = "commonmark"
)

// IsValid returns true if the engine is known.
func (e Engine) IsValid() bool {
	switch e {
	case EngineDialect, EngineCommonMark:
		return true
	default:
		return false
	}
}

// Flavor specifies the Markdown flavor used by the commonmark engine.
type Flavor string

const (
	FlavorCommonMark Flavor = "commonmark"
	FlavorGFM        Flavor = "gfm"
)

// IsValid returns true if the flavor is known.
func (f Flavor) IsValid() bool {
	switch f {
	case FlavorCommonMark, FlavorGFM:
		return true
	default:
		return false
	}
}

// Defaults.
const (
	DefaultContentDir = "content"
	DefaultOutputDir  = "static"
	DefaultStylesheet = "/style.css"
	DefaultMaxDepth   = 64
	DefaultServeAddr  = "0.0.0.0:8080"
	DefaultDebounce   = 250 * time.Millisecond
	DefaultExtension  = ".md"
)

// ServeConfig configures the preview server.
type ServeConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// WatchConfig configures the file watcher.
type WatchConfig struct {
	// Debounce is how long the watcher waits for a burst of events to settle.
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`
}

// Config is the root configuration structure for blogc.
type Config struct {
	// ContentDir is the source root.
	ContentDir string `mapstructure:"content_dir" yaml:"content_dir"`

	// OutputDir is where generated html is written.
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`

	// Engine is "dialect" or "commonmark".
	Engine Engine `mapstructure:"engine" yaml:"engine"`

	// Flavor applies to the commonmark engine only.
	Flavor Flavor `mapstructure:"flavor" yaml:"flavor,omitempty"`

	// Stylesheet is linked from every generated page.
	Stylesheet string `mapstructure:"stylesheet" yaml:"stylesheet"`

	// Jobs is the number of parallel workers. 0 means GOMAXPROCS.
	Jobs int `mapstructure:"jobs" yaml:"jobs"`

	// Ignore contains glob patterns for sources to skip.
	Ignore []string `mapstructure:"ignore" yaml:"ignore"`

	// Extensions lists source file extensions, each with a leading dot.
	Extensions []string `mapstructure:"extensions" yaml:"extensions"`

	// DetectLanguages toggles language classes on code blocks.
	// A pointer so a config file can switch it off.
	DetectLanguages *bool `mapstructure:"detect_languages" yaml:"detect_languages"`

	// MaxDepth is the dialect's nesting ceiling.
	MaxDepth int `mapstructure:"max_depth" yaml:"max_depth"`

	Serve ServeConfig `mapstructure:"serve" yaml:"serve"`
	Watch WatchConfig `mapstructure:"watch" yaml:"watch"`

	// CLI-level options (not persisted to config files).

	// Force rewrites outputs even when their content is unchanged.
	Force bool `mapstructure:"-" yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	detect := true
	return &Config{
		ContentDir:      DefaultContentDir,
		OutputDir:       DefaultOutputDir,
		Engine:          EngineDialect,
		Flavor:          FlavorCommonMark,
		Stylesheet:      DefaultStylesheet,
		Jobs:            0, // 0 means use GOMAXPROCS
		Ignore:          nil,
		Extensions:      []string{DefaultExtension},
		DetectLanguages: &detect,
		MaxDepth:        DefaultMaxDepth,
		Serve:           ServeConfig{Addr: DefaultServeAddr},
		Watch:           WatchConfig{Debounce: DefaultDebounce},
	}
}

// LanguageDetection reports the effective detect_languages setting.
// Unset means enabled.
func (c *Config) LanguageDetection() bool {
	if c == nil || c.DetectLanguages == nil {
		return true
	}
	return *c.DetectLanguages
}

// HasExtension reports whether ext (with leading dot) is a source extension.
func (c *Config) HasExtension(ext string) bool {
	return slices.Contains(c.Extensions, ext)
}
