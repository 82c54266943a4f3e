package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  host: "127.0.0.1"
  port: 9000
analysis:
  max_summary_sentences: 7
store:
  driver: "mysql"
  database: "billing"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Analysis.MaxSummarySentences != 7 {
		t.Errorf("max_summary_sentences = %d, want 7", cfg.Analysis.MaxSummarySentences)
	}
	if cfg.Store.Driver != "mysql" || cfg.Store.Database != "billing" {
		t.Errorf("unexpected store config: %+v", cfg.Store)
	}
	// Unset options pick up defaults.
	if cfg.Analysis.TopKeywordCount != 10 {
		t.Errorf("top_keyword_count default = %d, want 10", cfg.Analysis.TopKeywordCount)
	}
	if cfg.Store.Table != "invoice_data" {
		t.Errorf("store table default = %q", cfg.Store.Table)
	}
	if cfg.Debug {
		t.Error("debug should default to false when unset")
	}
}

func TestLoad_expandPathDotSlashRelativeToConfigDir(t *testing.T) {
	path := writeConfig(t, `
store:
  path: "./data/invoices.db"
export:
  directory: "./out"
watch:
  directories: ["./inbox"]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	dir := filepath.Dir(path)
	if want := filepath.Join(dir, "data", "invoices.db"); cfg.Store.Path != want {
		t.Errorf("store path = %s, want %s", cfg.Store.Path, want)
	}
	if want := filepath.Join(dir, "out"); cfg.Export.Directory != want {
		t.Errorf("export directory = %s, want %s", cfg.Export.Directory, want)
	}
	if want := filepath.Join(dir, "inbox"); cfg.Watch.Directories[0] != want {
		t.Errorf("watch directory = %s, want %s", cfg.Watch.Directories[0], want)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	if cfg.Server.Host != "localhost" || cfg.Server.Port != 8080 {
		t.Errorf("server defaults: %+v", cfg.Server)
	}
	if cfg.Server.CacheSize != 128 {
		t.Errorf("cache_size default: got %d", cfg.Server.CacheSize)
	}
	if cfg.Analysis.MaxSummarySentences != 5 {
		t.Errorf("max_summary_sentences default: got %d", cfg.Analysis.MaxSummarySentences)
	}
	if cfg.Analysis.TopKeywordCount != 10 {
		t.Errorf("top_keyword_count default: got %d", cfg.Analysis.TopKeywordCount)
	}
	if cfg.Analysis.PersistToStore {
		t.Error("persist_to_store should default to false")
	}
	if cfg.Store.Driver != "sqlite3" {
		t.Errorf("store driver default: got %q", cfg.Store.Driver)
	}
	if cfg.Store.Port != 3306 || cfg.Store.User != "root" {
		t.Errorf("mysql defaults: %+v", cfg.Store)
	}
	if len(cfg.Watch.Extensions) != 5 || cfg.Watch.Extensions[0] != ".pdf" {
		t.Errorf("watch extensions: got %v", cfg.Watch.Extensions)
	}
	if cfg.Export.Directory != "./exports" {
		t.Errorf("export directory default: got %q", cfg.Export.Directory)
	}
}

func TestAnalysisConfig_includeFlagTriState(t *testing.T) {
	a := &AnalysisConfig{}
	if !a.IncludeKeywordsOrDefault() || !a.IncludeStatsOrDefault() || !a.IncludeTablesOrDefault() {
		t.Error("unset include flags should read as true")
	}

	f := false
	a = &AnalysisConfig{IncludeKeywords: &f, IncludeStats: &f, IncludeTables: &f}
	if a.IncludeKeywordsOrDefault() || a.IncludeStatsOrDefault() || a.IncludeTablesOrDefault() {
		t.Error("explicit false include flags should read as false")
	}

	v := true
	a = &AnalysisConfig{IncludeKeywords: &v}
	if !a.IncludeKeywordsOrDefault() {
		t.Error("explicit true should read as true")
	}
}

func TestWatchConfig_RecursiveOrDefault(t *testing.T) {
	w := &WatchConfig{}
	if !w.RecursiveOrDefault() {
		t.Error("nil recursive should read as true")
	}
	f := false
	w = &WatchConfig{Recursive: &f}
	if w.RecursiveOrDefault() {
		t.Error("explicit false should read as false")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		ApplyDefaults(cfg)
		return cfg
	}

	if err := valid().Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "summary sentences below range",
			mutate:  func(c *Config) { c.Analysis.MaxSummarySentences = 2 },
			wantErr: "max_summary_sentences",
		},
		{
			name:    "summary sentences above range",
			mutate:  func(c *Config) { c.Analysis.MaxSummarySentences = 11 },
			wantErr: "max_summary_sentences",
		},
		{
			name:    "keyword count below range",
			mutate:  func(c *Config) { c.Analysis.TopKeywordCount = 4 },
			wantErr: "top_keyword_count",
		},
		{
			name:    "keyword count above range",
			mutate:  func(c *Config) { c.Analysis.TopKeywordCount = 21 },
			wantErr: "top_keyword_count",
		},
		{
			name:    "bad driver",
			mutate:  func(c *Config) { c.Store.Driver = "postgres" },
			wantErr: "store driver",
		},
		{
			name:    "bad port",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "server port",
		},
		{
			name:    "empty table",
			mutate:  func(c *Config) { c.Store.Table = "" },
			wantErr: "store table",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")
	cfg := &Config{
		Server: ServerConfig{Host: "localhost", Port: 9090},
		Store:  StoreConfig{Driver: "sqlite3", Path: "/tmp/inv.db"},
	}
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Server.Port != 9090 {
		t.Errorf("loaded port: got %d", loaded.Server.Port)
	}
	if loaded.Store.Path != "/tmp/inv.db" {
		t.Errorf("loaded store path: got %q", loaded.Store.Path)
	}
}
