// Package config handles the XDG configuration directory, the server
// address list and per-invocation settings.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// AppName is the application directory name.
	AppName = "gtodo"

	// ConfigFile is the optional settings filename inside the config directory.
	ConfigFile = "config.json"

	// PrimaryServer is the first base address tried for every request.
	PrimaryServer = "http://localhost:8081"

	// SecondaryServer is the fallback base address.
	SecondaryServer = "http://localhost:5050"
)

// Version is the application version. Set at build time.
var Version = "0.1.0"

// UserAgent returns the User-Agent sent to the backend.
func UserAgent() string {
	return AppName + "/" + Version
}

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Servers are the base addresses in the order they are tried.
	Servers []string

	// Timeout bounds one logical backend call. Zero means no timeout.
	Timeout time.Duration

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Logger receives structured logs. Nil discards them.
	Logger *slog.Logger
}

// fileConfig is the on-disk shape of config.json.
type fileConfig struct {
	Servers []string `json:"servers"`
	Timeout string   `json:"timeout"`
}

// DefaultServers returns the built-in address list.
func DefaultServers() []string {
	return []string{PrimaryServer, SecondaryServer}
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/gtodo or $HOME/.config/gtodo.
// Settings from config.json are applied when the file exists.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{Dir: dir, Servers: DefaultServers()}
	if err := cfg.load(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// Path returns the path to config.json.
func (c *Config) Path() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// HasFile checks if config.json exists.
func (c *Config) HasFile() bool {
	_, err := os.Stat(c.Path())
	return err == nil
}

// SetServers replaces the address list after validating every entry.
func (c *Config) SetServers(servers []string) error {
	normalized := make([]string, 0, len(servers))
	for _, s := range servers {
		n, err := NormalizeServer(s)
		if err != nil {
			return err
		}
		normalized = append(normalized, n)
	}
	if len(normalized) == 0 {
		return errors.New("at least one server is required")
	}
	c.Servers = normalized
	return nil
}

// Log returns the configured logger, or one that discards everything.
func (c *Config) Log() *slog.Logger {
	if c == nil || c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

// NormalizeServer validates a base address and strips any trailing slash.
func NormalizeServer(s string) (string, error) {
	s = strings.TrimSpace(s)
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("invalid server address: %s", s)
	}
	return strings.TrimRight(s, "/"), nil
}

func (c *Config) load() error {
	data, err := os.ReadFile(c.Path())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", ConfigFile, err)
	}

	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}

	if len(fc.Servers) > 0 {
		if err := c.SetServers(fc.Servers); err != nil {
			return fmt.Errorf("invalid %s: %w", ConfigFile, err)
		}
	}
	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil || d < 0 {
			return fmt.Errorf("invalid %s: bad timeout: %s", ConfigFile, fc.Timeout)
		}
		c.Timeout = d
	}
	return nil
}
