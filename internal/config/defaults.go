package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.CacheSize == 0 {
		cfg.Server.CacheSize = 128
	}
	if cfg.Analysis.MaxSummarySentences == 0 {
		cfg.Analysis.MaxSummarySentences = 5
	}
	if cfg.Analysis.TopKeywordCount == 0 {
		cfg.Analysis.TopKeywordCount = 10
	}
	// The include flags default to true when unset (nil); see the
	// OrDefault accessors.
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = "sqlite3"
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = "/usr/local/var/yomitori/data/invoices.db"
	}
	if cfg.Store.Host == "" {
		cfg.Store.Host = "localhost"
	}
	if cfg.Store.Port == 0 {
		cfg.Store.Port = 3306
	}
	if cfg.Store.User == "" {
		cfg.Store.User = "root"
	}
	if cfg.Store.Database == "" {
		cfg.Store.Database = "etl_pdf"
	}
	if cfg.Store.Table == "" {
		cfg.Store.Table = "invoice_data"
	}
	if cfg.Watch.Extensions == nil {
		cfg.Watch.Extensions = []string{".pdf", ".txt", ".md", ".docx", ".xlsx"}
	}
	if cfg.Export.Directory == "" {
		cfg.Export.Directory = "./exports"
	}
	// Recursive defaults to true when unset (nil).
	if len(cfg.Watch.Directories) > 0 && cfg.Watch.Recursive == nil {
		t := true
		cfg.Watch.Recursive = &t
	}
}
