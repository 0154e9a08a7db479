// Package config handles loading and managing leaddesk configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DataConfig holds data storage configuration.
type DataConfig struct {
	DataDir      string `toml:"data_dir"`
	DatabasePath string `toml:"database_path"`
}

// ServerConfig holds the backend HTTP server configuration.
type ServerConfig struct {
	BindAddr    string   `toml:"bind_addr"`    // Listen address (default: 127.0.0.1)
	Port        int      `toml:"port"`         // HTTP server port (default: 8000)
	CORSOrigins []string `toml:"cors_origins"` // Allowed browser origins
}

// APIConfig holds the dashboard's view of the backend.
type APIConfig struct {
	BaseURL string `toml:"base_url"` // Backend base address (default: http://localhost:8000)
}

// LLMConfig holds email-drafting model configuration.
type LLMConfig struct {
	Server string `toml:"server"` // Ollama server URL
	Model  string `toml:"model"`  // Model name
}

type Config struct {
	Data   DataConfig   `toml:"data"`
	Server ServerConfig `toml:"server"`
	API    APIConfig    `toml:"api"`
	LLM    LLMConfig    `toml:"llm"`

	// Computed paths (not from config file)
	HomeDir string `toml:"-"`
}

// DefaultHome returns the default leaddesk home directory.
// Respects the LEADDESK_HOME environment variable.
func DefaultHome() string {
	if h := os.Getenv("LEADDESK_HOME"); h != "" {
		return h
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".leaddesk"
	}
	return filepath.Join(home, ".leaddesk")
}

// Load reads the configuration from the specified file. If path is empty,
// the default location (~/.leaddesk/config.toml) is used. A missing config
// file is not an error; defaults apply. homeDir overrides LEADDESK_HOME
// when non-empty.
func Load(path, homeDir string) (*Config, error) {
	if homeDir == "" {
		homeDir = DefaultHome()
	}
	if path == "" {
		path = filepath.Join(homeDir, "config.toml")
	}

	cfg := &Config{
		HomeDir: homeDir,
		Data: DataConfig{
			DataDir: homeDir,
		},
		Server: ServerConfig{
			BindAddr:    "127.0.0.1",
			Port:        8000,
			CORSOrigins: []string{"http://localhost:3000"},
		},
		API: APIConfig{
			BaseURL: "http://localhost:8000",
		},
		LLM: LLMConfig{
			Server: "http://localhost:11434",
			Model:  "llama3.2",
		},
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.Data.DataDir = expandPath(cfg.Data.DataDir)
	cfg.Data.DatabasePath = expandPath(cfg.Data.DatabasePath)

	return cfg, nil
}

// DatabasePath returns the path to the SQLite database.
func (c *Config) DatabasePath() string {
	if c.Data.DatabasePath != "" {
		return c.Data.DatabasePath
	}
	return filepath.Join(c.Data.DataDir, "leaddesk.db")
}

// EnsureHomeDir creates the data directory if it does not exist.
func (c *Config) EnsureHomeDir() error {
	return os.MkdirAll(c.Data.DataDir, 0o755)
}

// ConfigFilePath returns the path of the config file for help text.
func (c *Config) ConfigFilePath() string {
	return filepath.Join(c.HomeDir, "config.toml")
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
