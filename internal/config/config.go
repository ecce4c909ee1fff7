package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration settings.
type Config struct {
	Environment string `envconfig:"ENV" default:"development"`

	HTTPPort    int           `envconfig:"HTTP_PORT" default:"8080"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"15s"`

	TransferBaseURL     string        `envconfig:"TRANSFER_BASE_URL" default:"https://api.commadotai.com"`
	TransferToken       string        `envconfig:"TRANSFER_TOKEN"`
	TransferTimeout     time.Duration `envconfig:"TRANSFER_TIMEOUT" default:"2m"`
	TransferConcurrency int           `envconfig:"TRANSFER_CONCURRENCY" default:"5"`
	TransferRatePerSec  float64       `envconfig:"TRANSFER_RATE_PER_SEC" default:"20"`

	RoutesFile string `envconfig:"ROUTES_FILE" default:"./routes.json"`

	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
}

// Validate checks the configuration for invalid or missing values.
// Returns an error describing the first invalid setting found.
func (c *Config) Validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}

	if c.TransferBaseURL == "" {
		return fmt.Errorf("transfer base URL cannot be empty")
	}

	if c.TransferConcurrency <= 0 {
		return fmt.Errorf("transfer concurrency must be positive: %d", c.TransferConcurrency)
	}

	if c.TransferRatePerSec <= 0 {
		return fmt.Errorf("transfer rate must be positive: %v", c.TransferRatePerSec)
	}

	if c.TransferTimeout <= 0 {
		return fmt.Errorf("transfer timeout must be positive: %s", c.TransferTimeout)
	}

	if c.RoutesFile == "" {
		return fmt.Errorf("routes file cannot be empty")
	}

	return nil
}
