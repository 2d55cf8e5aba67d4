// internal/config/types.go
package config

import (
	"time"
)

// Session backends.
const (
	BackendSim    = "sim"
	BackendChrome = "chrome"
)

// SuiteConfig is the complete configuration for a conformance suite run.
type SuiteConfig struct {
	Name     string `yaml:"name" json:"name"`
	Backend  string `yaml:"backend" json:"backend"`
	LogLevel string `yaml:"log_level,omitempty" json:"log_level,omitempty"`

	// WaitTimeout and PollInterval are duration strings, e.g. "5s", "100ms".
	WaitTimeout  string `yaml:"wait_timeout,omitempty" json:"wait_timeout,omitempty"`
	PollInterval string `yaml:"poll_interval,omitempty" json:"poll_interval,omitempty"`

	// Checks selects a subset of registered checks by name. Empty runs all.
	Checks []string `yaml:"checks,omitempty" json:"checks,omitempty"`

	Browser  *BrowserConfig `yaml:"browser,omitempty" json:"browser,omitempty"`
	Fixtures FixtureConfig  `yaml:"fixtures" json:"fixtures"`
	Output   OutputConfig   `yaml:"output" json:"output"`
	Metrics  *MetricsConfig `yaml:"metrics,omitempty" json:"metrics,omitempty"`
}

// BrowserConfig configures the chrome backend.
type BrowserConfig struct {
	Headless       bool   `yaml:"headless" json:"headless"`
	UserDataDir    string `yaml:"user_data_dir,omitempty" json:"user_data_dir,omitempty"`
	UserAgent      string `yaml:"user_agent,omitempty" json:"user_agent,omitempty"`
	Timeout        string `yaml:"timeout,omitempty" json:"timeout,omitempty"`
	ViewportWidth  int    `yaml:"viewport_width,omitempty" json:"viewport_width,omitempty"`
	ViewportHeight int    `yaml:"viewport_height,omitempty" json:"viewport_height,omitempty"`
}

// FixtureConfig configures the two fixture origins.
type FixtureConfig struct {
	ListenAddr    string `yaml:"listen_addr" json:"listen_addr"`
	AltListenAddr string `yaml:"alt_listen_addr" json:"alt_listen_addr"`
}

// OutputConfig defines where suite results are written. An empty format
// writes no result file; the CLI still prints a summary.
type OutputConfig struct {
	Format   string          `yaml:"format,omitempty" json:"format,omitempty"`
	File     string          `yaml:"file,omitempty" json:"file,omitempty"`
	Database *DatabaseConfig `yaml:"database,omitempty" json:"database,omitempty"`
}

// DatabaseConfig configures a database result sink.
type DatabaseConfig struct {
	Type     string `yaml:"type" json:"type"` // sqlite, postgresql, mysql, mongodb
	DSN      string `yaml:"dsn" json:"dsn"`
	Database string `yaml:"database,omitempty" json:"database,omitempty"` // mongodb database name
	Table    string `yaml:"table" json:"table"`                           // collection name for mongodb
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled       bool   `yaml:"enabled" json:"enabled"`
	Namespace     string `yaml:"namespace,omitempty" json:"namespace,omitempty"`
	ListenAddress string `yaml:"listen_address,omitempty" json:"listen_address,omitempty"`
}

// WaitTimeoutDuration returns the parsed wait timeout.
func (c *SuiteConfig) WaitTimeoutDuration() time.Duration {
	return parseDuration(c.WaitTimeout, 5*time.Second)
}

// PollIntervalDuration returns the parsed poll interval.
func (c *SuiteConfig) PollIntervalDuration() time.Duration {
	return parseDuration(c.PollInterval, 100*time.Millisecond)
}

// TimeoutDuration returns the parsed browser command timeout.
func (b *BrowserConfig) TimeoutDuration() time.Duration {
	if b == nil {
		return 30 * time.Second
	}
	return parseDuration(b.Timeout, 30*time.Second)
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
