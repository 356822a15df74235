package config

import (
	"github.com/yhkl-dev/navisonic/storage"
	"github.com/yhkl-dev/navisonic/subsonic"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Client  ClientConfig  `mapstructure:"client"`
	Storage StorageConfig `mapstructure:"storage"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServerConfig contains Subsonic server connection settings.
// A non-empty URL pins the server: persisted sessions cannot change it.
type ServerConfig struct {
	URL      string `mapstructure:"url"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// ClientConfig contains Subsonic API client settings
type ClientConfig struct {
	ID         string `mapstructure:"id"`
	APIVersion string `mapstructure:"api_version"`
}

// StorageConfig locates the session database
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// HasLogin reports whether the file supplies a complete password login.
func (c *Config) HasLogin() bool {
	return c.Server.URL != "" && c.Server.Username != "" && c.Server.Password != ""
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		Client: ClientConfig{
			ID:         subsonic.DefaultClientID,
			APIVersion: subsonic.DefaultAPIVersion,
		},
		Storage: StorageConfig{
			Path: storage.DefaultDBPath,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
