// Package config loads the process configuration from environment variables.
// Values are read once at startup, defaults applied, and the result validated
// so a misconfigured process fails before it starts serving.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Dataset DatasetConfig
	Server  ServerConfig
	Logging LoggingConfig
}

// DatasetConfig controls where the item table is read from.
type DatasetConfig struct {
	// Path is an explicit CSV file overriding the conventional locations
	Path string `env:"CSV_PATH"`

	// DataDir is scanned for CSV-like files when no conventional path exists
	DataDir string `env:"DATA_DIR" default:"data"`

	// ReloadInterval re-reads the source periodically; 0 disables it
	ReloadInterval time.Duration `env:"DATASET_RELOAD_INTERVAL" default:"0s"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`
	Port int    `env:"SERVER_PORT" envAlt:"PORT" default:"8000"`

	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`

	// ReloadEndpoint exposes POST /admin/reload
	ReloadEndpoint bool `env:"RELOAD_ENDPOINT_ENABLED" default:"false"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
