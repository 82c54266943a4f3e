// Package config provides configuration loading and structs for the Yomitori
// analytics pipeline and server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug    bool           `yaml:"debug"`
	Server   ServerConfig   `yaml:"server"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Store    StoreConfig    `yaml:"store"`
	Watch    WatchConfig    `yaml:"watch"`
	Export   ExportConfig   `yaml:"export"`
}

// AnalysisConfig holds the knobs of the analytics pipeline. The include
// flags are pointers so that "unset" and "false" stay distinguishable; use
// the OrDefault accessors to read them.
type AnalysisConfig struct {
	MaxSummarySentences int   `yaml:"max_summary_sentences"`
	TopKeywordCount     int   `yaml:"top_keyword_count"`
	IncludeKeywords     *bool `yaml:"include_keywords"`
	IncludeStats        *bool `yaml:"include_stats"`
	IncludeTables       *bool `yaml:"include_tables"`
	PersistToStore      bool  `yaml:"persist_to_store"`
}

// IncludeKeywordsOrDefault returns whether keyword ranking runs; defaults to
// true when unset.
func (a *AnalysisConfig) IncludeKeywordsOrDefault() bool {
	if a.IncludeKeywords != nil {
		return *a.IncludeKeywords
	}
	return true
}

// IncludeStatsOrDefault returns whether statistics run; defaults to true
// when unset.
func (a *AnalysisConfig) IncludeStatsOrDefault() bool {
	if a.IncludeStats != nil {
		return *a.IncludeStats
	}
	return true
}

// IncludeTablesOrDefault returns whether table extraction runs; defaults to
// true when unset.
func (a *AnalysisConfig) IncludeTablesOrDefault() bool {
	if a.IncludeTables != nil {
		return *a.IncludeTables
	}
	return true
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	CacheSize int    `yaml:"cache_size"`
}

// StoreConfig describes the persistence collaborator. Path is used by the
// sqlite3 driver; host, port, user, password, and database by mysql. Table
// names the target table for saves and reads.
type StoreConfig struct {
	Driver   string `yaml:"driver"`
	Path     string `yaml:"path"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	Table    string `yaml:"table"`
}

// WatchConfig holds directory watch settings.
type WatchConfig struct {
	Directories []string `yaml:"directories"`
	Extensions  []string `yaml:"extensions"`
	Recursive   *bool    `yaml:"recursive"`
}

// RecursiveOrDefault returns whether to watch recursively; defaults to true
// when unset.
func (w *WatchConfig) RecursiveOrDefault() bool {
	if w.Recursive != nil {
		return *w.Recursive
	}
	return true
}

// ExportConfig holds artifact export settings.
type ExportConfig struct {
	Directory string `yaml:"directory"`
}

// Load reads and parses the config file at path, applies defaults, and
// expands relative paths. Returns an error if the file cannot be read or
// parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Store.Path = expandPath(cfg.Store.Path, configDir)
	cfg.Export.Directory = expandPath(cfg.Export.Directory, configDir)
	for i := range cfg.Watch.Directories {
		cfg.Watch.Directories[i] = expandPath(cfg.Watch.Directories[i], configDir)
	}

	return &cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks the recognized option ranges.
func (c *Config) Validate() error {
	if c.Analysis.MaxSummarySentences < 3 || c.Analysis.MaxSummarySentences > 10 {
		return fmt.Errorf("max_summary_sentences must be between 3 and 10, got %d", c.Analysis.MaxSummarySentences)
	}
	if c.Analysis.TopKeywordCount < 5 || c.Analysis.TopKeywordCount > 20 {
		return fmt.Errorf("top_keyword_count must be between 5 and 20, got %d", c.Analysis.TopKeywordCount)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.CacheSize <= 0 {
		return fmt.Errorf("cache_size must be positive, got %d", c.Server.CacheSize)
	}
	switch c.Store.Driver {
	case "sqlite3", "mysql":
	default:
		return fmt.Errorf("store driver must be sqlite3 or mysql, got %q", c.Store.Driver)
	}
	if c.Store.Table == "" {
		return fmt.Errorf("store table must not be empty")
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are
// relative to configDir; other relative paths are relative to the home
// directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
