// Package config loads and validates the crawl configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-site2pdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxURLLength      = 2048 // Browser limit
	MaxPatternLength  = 256  // Substring filter
	MaxTitleLength    = 200  // Document/cover title
	MaxSubtitleLength = 200  // Cover subtitle
	MaxDirLength      = 1024 // Output directory path
)

// Crawl bounds. MaxPagesCeiling guards against runaway crawls from a typo'd
// config; MaxDepthCeiling bounds the link graph expansion.
const (
	MaxDepthCeiling = 10
	MaxPagesCeiling = 10000
)

// Config holds all configuration for a site-to-PDF run.
type Config struct {
	Crawl    CrawlConfig    `yaml:"crawl"`
	Render   RenderConfig   `yaml:"render"`
	Document DocumentConfig `yaml:"document"`
	Output   OutputConfig   `yaml:"output"`
}

// CrawlConfig defines discovery options.
type CrawlConfig struct {
	URL      string `yaml:"url"`      // Seed URL (required unless given on CLI)
	Pattern  string `yaml:"pattern"`  // Substring filter, links not containing it are skipped
	MaxDepth int    `yaml:"maxDepth"` // Recursion depth from seed, seed = 0
	MaxPages int    `yaml:"maxPages"` // Hard cap on discovered pages
}

// RenderConfig defines browser rendering options.
type RenderConfig struct {
	Timeout string `yaml:"timeout"` // Per-page timeout, e.g. "60s" (empty = default)
	Workers int    `yaml:"workers"` // Parallel renderers (0 = auto from CPU count)
}

// DocumentConfig defines cover page metadata.
type DocumentConfig struct {
	Title    string `yaml:"title"`    // Empty = derived from seed URL
	Subtitle string `yaml:"subtitle"` // Cover subtitle
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	Dir            string `yaml:"dir"`            // Empty = derived from seed URL
	KeepIndividual bool   `yaml:"keepIndividual"` // Retain per-page PDFs after merging
	Organize       bool   `yaml:"organize"`       // Move per-page PDFs into individual_pdfs/
}

// DefaultConfig returns the defaults used when no config file is given.
func DefaultConfig() *Config {
	return &Config{
		Crawl: CrawlConfig{
			MaxDepth: 2,
			MaxPages: 500,
		},
		Render: RenderConfig{
			Timeout: "60s",
		},
		Document: DocumentConfig{
			Subtitle: "A comprehensive offline reference",
		},
		Output: OutputConfig{
			KeepIndividual: true,
			Organize:       true,
		},
	}
}

// Validate checks field lengths and value bounds.
// Called automatically by LoadConfig, but available for consumers who
// construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("crawl.url", c.Crawl.URL, MaxURLLength); err != nil {
		return err
	}
	if err := validateFieldLength("crawl.pattern", c.Crawl.Pattern, MaxPatternLength); err != nil {
		return err
	}
	if c.Crawl.MaxDepth < 0 || c.Crawl.MaxDepth > MaxDepthCeiling {
		return fmt.Errorf("%w: crawl.maxDepth must be between 0 and %d, got %d",
			ErrInvalidValue, MaxDepthCeiling, c.Crawl.MaxDepth)
	}
	if c.Crawl.MaxPages < 1 || c.Crawl.MaxPages > MaxPagesCeiling {
		return fmt.Errorf("%w: crawl.maxPages must be between 1 and %d, got %d",
			ErrInvalidValue, MaxPagesCeiling, c.Crawl.MaxPages)
	}

	if c.Render.Timeout != "" {
		if _, err := time.ParseDuration(c.Render.Timeout); err != nil {
			return fmt.Errorf("%w: render.timeout %q: %v", ErrInvalidValue, c.Render.Timeout, err)
		}
	}
	if c.Render.Workers < 0 {
		return fmt.Errorf("%w: render.workers must be >= 0, got %d", ErrInvalidValue, c.Render.Workers)
	}

	if err := validateFieldLength("document.title", c.Document.Title, MaxTitleLength); err != nil {
		return err
	}
	if err := validateFieldLength("document.subtitle", c.Document.Subtitle, MaxSubtitleLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.dir", c.Output.Dir, MaxDirLength); err != nil {
		return err
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns an error if the file is not found (no silent fallback). Fields not
// present in the file keep their defaults.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !strings.ContainsAny(nameOrPath, "/\\") {
		resolved, err := resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
		configPath = resolved
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations:
// current directory first, then ~/.config/go-site2pdf/, trying .yaml then .yml.
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-site2pdf", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
