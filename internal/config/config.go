// Package config provides configuration loading and structs for the
// GetLanded server. The Gemini API key deliberately has no yaml key: it is
// read from the environment only, so config files stay safe to commit.
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
	Debug   bool          `yaml:"debug"`
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Parser  ParserConfig  `yaml:"parser"`
	Scoring ScoringConfig `yaml:"scoring"`
	Watch   WatchConfig   `yaml:"watch"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds paths for the database and the search index.
type StorageConfig struct {
	DatabasePath    string `yaml:"database_path"`
	SearchIndexPath string `yaml:"search_index_path"`
}

// ParserConfig holds resume parsing settings.
type ParserConfig struct {
	// MaxFileSize bounds uploaded payloads in bytes.
	MaxFileSize int64 `yaml:"max_file_size"`
}

// ScoringConfig holds LLM scoring settings.
type ScoringConfig struct {
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
}

// WatchConfig holds directory screening settings. JobFile points to a
// plain-text job description every screened resume is analyzed against.
type WatchConfig struct {
	Directories []string `yaml:"directories"`
	JobFile     string   `yaml:"job_file"`
	DebounceMS  int      `yaml:"debounce_ms"`
}

// Load reads and parses the config file at path, applies defaults, and
// expands paths. Returns an error if the file cannot be read or parsed.
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
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	cfg.Storage.SearchIndexPath = expandPath(cfg.Storage.SearchIndexPath, configDir)
	if cfg.Watch.JobFile != "" {
		cfg.Watch.JobFile = expandPath(cfg.Watch.JobFile, configDir)
	}
	for i := range cfg.Watch.Directories {
		cfg.Watch.Directories[i] = expandPath(cfg.Watch.Directories[i], configDir)
	}

	return &cfg, nil
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
