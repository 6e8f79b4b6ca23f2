package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/rebeliceyang/lazyinv/internal/models"
)

const appName = "lazyinv"

// Config holds all application configuration
type Config struct {
	UI       UIConfig                 `mapstructure:"ui"`
	Search   SearchConfig             `mapstructure:"search"`
	Log      LogConfig                `mapstructure:"log"`
	Segments map[string]SegmentConfig `mapstructure:"segments"`
}

type UIConfig struct {
	Theme           string `mapstructure:"theme"`
	MouseEnabled    bool   `mapstructure:"mouse_enabled"`
	DefaultSegment  string `mapstructure:"default_segment"`
	PanelWidthRatio int    `mapstructure:"panel_width_ratio"` // facet panel, percent
	HistorySize     int    `mapstructure:"history_size"`
}

type SearchConfig struct {
	MaxSuggestions  int  `mapstructure:"max_suggestions"`
	KeywordFallback bool `mapstructure:"keyword_fallback"`
	CopyOnSubmit    bool `mapstructure:"copy_on_submit"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// SegmentConfig overrides the built-in vocabulary and facets of a segment.
// Empty lists keep the defaults.
type SegmentConfig struct {
	SearchOptions    []models.Option `mapstructure:"search_options"`
	Operators        []models.Option `mapstructure:"operators"`
	BooleanOperators []models.Option `mapstructure:"boolean_operators"`
	Terms            []models.Option `mapstructure:"terms"`
	Facets           []models.Facet  `mapstructure:"facets"`
}

// GetDefaults returns a Config with all default values
func GetDefaults() *Config {
	return &Config{
		UI: UIConfig{
			Theme:           "default",
			MouseEnabled:    true,
			DefaultSegment:  string(models.SegmentInstances),
			PanelWidthRatio: 35,
			HistorySize:     20,
		},
		Search: SearchConfig{
			MaxSuggestions:  10,
			KeywordFallback: true,
			CopyOnSubmit:    false,
		},
		Log: LogConfig{
			Level: "info",
			File:  "",
		},
	}
}

// Load loads configuration from the default locations
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile loads configuration from path, or from the default locations
// when path is empty. A missing file in the default locations is not an error.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Add config paths in priority order
		if configDir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(configDir, appName))
		}
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	defaults := GetDefaults()
	v.SetDefault("ui.theme", defaults.UI.Theme)
	v.SetDefault("ui.mouse_enabled", defaults.UI.MouseEnabled)
	v.SetDefault("ui.default_segment", defaults.UI.DefaultSegment)
	v.SetDefault("ui.panel_width_ratio", defaults.UI.PanelWidthRatio)
	v.SetDefault("ui.history_size", defaults.UI.HistorySize)
	v.SetDefault("search.max_suggestions", defaults.Search.MaxSuggestions)
	v.SetDefault("search.keyword_fallback", defaults.Search.KeywordFallback)
	v.SetDefault("search.copy_on_submit", defaults.Search.CopyOnSubmit)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.file", defaults.Log.File)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values that would otherwise fail later at runtime
func (c *Config) Validate() error {
	if _, err := models.ParseSegment(c.UI.DefaultSegment); err != nil {
		return fmt.Errorf("ui.default_segment: %w", err)
	}
	if c.UI.PanelWidthRatio <= 0 || c.UI.PanelWidthRatio >= 100 {
		return fmt.Errorf("ui.panel_width_ratio must be between 1 and 99, got %d", c.UI.PanelWidthRatio)
	}
	if c.Search.MaxSuggestions < 0 {
		return fmt.Errorf("search.max_suggestions must not be negative, got %d", c.Search.MaxSuggestions)
	}
	for name, seg := range c.Segments {
		if _, err := models.ParseSegment(name); err != nil {
			return fmt.Errorf("segments: %w", err)
		}
		for _, opt := range seg.SearchOptions {
			if opt.Label == "" {
				return fmt.Errorf("segments.%s: search option without label", name)
			}
		}
		for _, f := range seg.Facets {
			switch f.Kind {
			case "", models.FacetValues, models.FacetBoolean, models.FacetDateRange:
			default:
				return fmt.Errorf("segments.%s: facet %s has unknown kind %q", name, f.Name, f.Kind)
			}
		}
	}
	return nil
}

// Vocabulary returns the vocabulary of a segment with configured overrides applied
func (c *Config) Vocabulary(seg models.Segment) models.Vocabulary {
	vocab := models.DefaultVocabulary(seg)
	override, ok := c.Segments[string(seg)]
	if !ok {
		return vocab.Normalize()
	}
	if len(override.SearchOptions) > 0 {
		vocab.SearchOptions = override.SearchOptions
	}
	if len(override.Operators) > 0 {
		vocab.Operators = override.Operators
	}
	if len(override.BooleanOperators) > 0 {
		vocab.BooleanOperators = override.BooleanOperators
	}
	if len(override.Terms) > 0 {
		vocab.Terms = override.Terms
	}
	return vocab.Normalize()
}

// Facets returns the facets of a segment with configured overrides applied
func (c *Config) Facets(seg models.Segment) []models.Facet {
	if override, ok := c.Segments[string(seg)]; ok && len(override.Facets) > 0 {
		return override.Facets
	}
	return models.DefaultFacets(seg)
}

// GetConfigPath returns the user config directory path
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appName), nil
}
