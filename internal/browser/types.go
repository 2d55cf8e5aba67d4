// internal/browser/types.go
package browser

import (
	"time"
)

// Config defines real-browser session configuration.
type Config struct {
	Headless       bool          `yaml:"headless" json:"headless"`
	UserDataDir    string        `yaml:"user_data_dir,omitempty" json:"user_data_dir,omitempty"`
	UserAgent      string        `yaml:"user_agent,omitempty" json:"user_agent,omitempty"`
	Timeout        time.Duration `yaml:"timeout" json:"timeout"`
	ViewportWidth  int           `yaml:"viewport_width" json:"viewport_width"`
	ViewportHeight int           `yaml:"viewport_height" json:"viewport_height"`
}

// DefaultConfig returns default browser configuration.
func DefaultConfig() *Config {
	return &Config{
		Headless:       true,
		Timeout:        30 * time.Second,
		ViewportWidth:  1280,
		ViewportHeight: 720,
	}
}

// SimConfig defines in-memory session configuration.
type SimConfig struct {
	// HTTPTimeout bounds document fetches from the fixture server.
	HTTPTimeout time.Duration `yaml:"http_timeout" json:"http_timeout"`
}

// DefaultSimConfig returns default in-memory session configuration.
func DefaultSimConfig() *SimConfig {
	return &SimConfig{
		HTTPTimeout: 10 * time.Second,
	}
}
