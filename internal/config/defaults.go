package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/getlanded/data/db/analyses.db"
	}
	if cfg.Storage.SearchIndexPath == "" {
		cfg.Storage.SearchIndexPath = "/usr/local/var/getlanded/data/indices/bleve"
	}
	if cfg.Parser.MaxFileSize == 0 {
		cfg.Parser.MaxFileSize = 10485760
	}
	if cfg.Scoring.Model == "" {
		cfg.Scoring.Model = "gemini-1.5-flash"
	}
	if cfg.Scoring.Temperature == 0 {
		cfg.Scoring.Temperature = 0.1
	}
	if cfg.Watch.DebounceMS == 0 {
		cfg.Watch.DebounceMS = 400
	}
}
