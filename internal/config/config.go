// Package config holds runtime settings for the mail analysis
// pipeline. Everything has a working default; a YAML file overlays the
// fields it names and leaves the rest alone.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// #region config
// Config is the full runtime configuration.
type Config struct {
	// Archive is the SQLite database path. Empty disables archiving.
	Archive string `yaml:"archive"`

	// IMAP settings for fetching from a live mailbox.
	IMAP IMAPConfig `yaml:"imap"`
}

// IMAPConfig describes one mailbox connection.
type IMAPConfig struct {
	Provider string `yaml:"provider"` // named provider preset, e.g. "gmail"
	Host     string `yaml:"host"`     // explicit host, overrides the preset
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"` // app password; prefer the IMAP_PASSWORD env var
	Mailbox  string `yaml:"mailbox"`
	Limit    int    `yaml:"limit"` // most recent N messages per fetch
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		IMAP: IMAPConfig{
			Mailbox: "INBOX",
			Port:    993,
			Limit:   50,
		},
	}
}

// #endregion config

// #region load

// envPassword overrides the file-based password so credentials can stay
// out of config files.
const envPassword = "IMAP_PASSWORD"

// Load reads a YAML config file over the defaults. An empty path
// returns the defaults untouched.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if pw := os.Getenv(envPassword); pw != "" {
		cfg.IMAP.Password = pw
	}
	if cfg.IMAP.Port == 0 {
		cfg.IMAP.Port = 993
	}
	if cfg.IMAP.Mailbox == "" {
		cfg.IMAP.Mailbox = "INBOX"
	}
	if cfg.IMAP.Limit <= 0 {
		cfg.IMAP.Limit = 50
	}

	return cfg, nil
}

// #endregion load
