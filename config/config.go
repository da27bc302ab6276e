// Package config loads site configuration from JSON or YAML files.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Environment variables overriding file values.
const (
	EnvLogLevel = "CACTUS_LOG_LEVEL"
	EnvBuildDir = "CACTUS_BUILD_DIR"
	EnvURL      = "CACTUS_URL"
)

// MarkdownConfig tunes Markdown conversion.
type MarkdownConfig struct {
	Sanitize       bool   `json:"sanitize" yaml:"sanitize"`
	HighlightStyle string `json:"highlightStyle" yaml:"highlightStyle"`
}

// Config encapsulates build and preview options.
type Config struct {
	Path         string         `json:"path" yaml:"path"`
	BuildDir     string         `json:"buildDir" yaml:"buildDir"`
	URL          string         `json:"url" yaml:"url"`
	PrettifyURLs bool           `json:"prettifyUrls" yaml:"prettifyUrls"`
	Context      map[string]any `json:"context" yaml:"context"`
	Minify       bool           `json:"minify" yaml:"minify"`
	Markdown     MarkdownConfig `json:"markdown" yaml:"markdown"`
	Workers      int            `json:"workers" yaml:"workers"`
	Listen       string         `json:"listen" yaml:"listen"`
	LogLevel     string         `json:"logLevel" yaml:"logLevel"`
	Ignore       []string       `json:"ignore" yaml:"ignore"`
	Language     string         `json:"language" yaml:"language"`
	languageTag  language.Tag   `json:"-" yaml:"-"`
}

// Load reads configuration from disk and applies sane defaults. Files ending
// in .yaml or .yml are parsed as YAML, anything else as JSON.
func Load(path string) (*Config, error) {
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(bytes, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	default:
		if err := json.Unmarshal(bytes, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	return cfg.finish()
}

// Default returns the configuration used when no file is present.
func Default() (*Config, error) {
	return (&Config{}).finish()
}

func (c *Config) finish() (*Config, error) {
	c.applyEnv()
	if err := c.applyDefaults(); err != nil {
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvBuildDir)); v != "" {
		c.BuildDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvURL)); v != "" {
		c.URL = v
	}
}

func (c *Config) applyDefaults() error {
	c.Path = strings.TrimSpace(c.Path)
	if c.Path == "" {
		c.Path = "."
	}
	c.BuildDir = strings.TrimSpace(c.BuildDir)
	if c.BuildDir == "" {
		c.BuildDir = filepath.Join(c.Path, ".build")
	}
	c.URL = strings.TrimSpace(c.URL)
	if c.Context == nil {
		c.Context = map[string]any{}
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Listen == "" {
		c.Listen = ":8000"
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	c.Markdown.HighlightStyle = strings.TrimSpace(c.Markdown.HighlightStyle)

	ignore := c.Ignore[:0]
	for _, pattern := range c.Ignore {
		if pattern = strings.TrimSpace(pattern); pattern != "" {
			ignore = append(ignore, pattern)
		}
	}
	c.Ignore = ignore

	tag := language.Und
	if lang := strings.TrimSpace(c.Language); lang != "" {
		parsed, err := language.Parse(lang)
		if err != nil {
			return fmt.Errorf("invalid language %q: %w", lang, err)
		}
		tag = parsed
	}
	c.languageTag = tag
	return nil
}

func (c *Config) validate() error {
	if c.URL != "" {
		parsed, err := url.ParseRequestURI(c.URL)
		if err != nil {
			return fmt.Errorf("invalid url: %w", err)
		}
		if parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("url must be absolute: %q", c.URL)
		}
	}
	if samePath(c.Path, c.BuildDir) {
		return fmt.Errorf("buildDir must differ from the site path")
	}
	for _, pattern := range c.Ignore {
		if _, err := path.Match(pattern, ""); err != nil {
			return fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return nil
}

// PagesDir holds the sources turned into pages.
func (c *Config) PagesDir() string { return filepath.Join(c.Path, "pages") }

// TemplatesDir holds the shared layouts.
func (c *Config) TemplatesDir() string { return filepath.Join(c.Path, "templates") }

// StaticDir is copied verbatim to BuildDir/static.
func (c *Config) StaticDir() string { return filepath.Join(c.Path, "static") }

// LanguageTag is the parsed Language, language.Und when unset.
func (c *Config) LanguageTag() language.Tag { return c.languageTag }

// IsIgnored reports whether a file or directory name matches an ignore pattern.
// Hidden names are always ignored.
func (c *Config) IsIgnored(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	for _, pattern := range c.Ignore {
		if ok, _ := path.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
