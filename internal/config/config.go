// internal/config/config.go
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(filename string) (*SuiteConfig, error) {
	if filename == "" {
		return nil, fmt.Errorf("configuration filename cannot be empty")
	}

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", filename)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %v", err)
	}

	return LoadFromBytes(data)
}

// LoadFromBytes loads configuration from YAML bytes
func LoadFromBytes(data []byte) (*SuiteConfig, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("configuration data cannot be empty")
	}

	// Substitute environment variables
	expanded := os.ExpandEnv(string(data))

	var config SuiteConfig
	if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML configuration: %v", err)
	}

	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %v", err)
	}

	return &config, nil
}

// LoadFromReader loads configuration from an io.Reader
func LoadFromReader(reader io.Reader) (*SuiteConfig, error) {
	if reader == nil {
		return nil, fmt.Errorf("reader cannot be nil")
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read from reader: %v", err)
	}

	return LoadFromBytes(data)
}

// SaveToFile saves configuration to a YAML file
func SaveToFile(config *SuiteConfig, filename string) error {
	if config == nil {
		return fmt.Errorf("configuration cannot be nil")
	}
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %v", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration to YAML: %v", err)
	}

	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write configuration file: %v", err)
	}

	return nil
}

// GenerateTemplate generates a template configuration for the specified type
func GenerateTemplate(templateType string) SuiteConfig {
	switch strings.ToLower(templateType) {
	case "chrome":
		return generateChromeTemplate()
	case "ci":
		return generateCITemplate()
	case "basic":
		return generateBasicTemplate()
	default:
		return generateBasicTemplate()
	}
}

// applyDefaults applies default values to the configuration
func applyDefaults(config *SuiteConfig) {
	if config.Name == "" {
		config.Name = "history_traversal"
	}
	if config.Backend == "" {
		config.Backend = BackendSim
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.WaitTimeout == "" {
		config.WaitTimeout = "5s"
	}
	if config.PollInterval == "" {
		config.PollInterval = "100ms"
	}

	if config.Fixtures.ListenAddr == "" {
		config.Fixtures.ListenAddr = "127.0.0.1:0"
	}
	if config.Fixtures.AltListenAddr == "" {
		config.Fixtures.AltListenAddr = "127.0.0.1:0"
	}

	if config.Browser != nil {
		if config.Browser.Timeout == "" {
			config.Browser.Timeout = "30s"
		}
		if config.Browser.ViewportWidth == 0 {
			config.Browser.ViewportWidth = 1280
		}
		if config.Browser.ViewportHeight == 0 {
			config.Browser.ViewportHeight = 720
		}
	}

	if config.Metrics != nil && config.Metrics.Namespace == "" {
		config.Metrics.Namespace = "bidiconformer"
	}
}

// Template generation functions

func generateBasicTemplate() SuiteConfig {
	return SuiteConfig{
		Name:         "history_traversal",
		Backend:      BackendSim,
		LogLevel:     "info",
		WaitTimeout:  "5s",
		PollInterval: "100ms",
		Fixtures: FixtureConfig{
			ListenAddr:    "127.0.0.1:0",
			AltListenAddr: "127.0.0.1:0",
		},
		Output: OutputConfig{
			Format: "json",
			File:   "results.json",
		},
	}
}

func generateChromeTemplate() SuiteConfig {
	return SuiteConfig{
		Name:         "history_traversal",
		Backend:      BackendChrome,
		LogLevel:     "info",
		WaitTimeout:  "10s",
		PollInterval: "100ms",
		Browser: &BrowserConfig{
			Headless:       true,
			Timeout:        "30s",
			ViewportWidth:  1280,
			ViewportHeight: 720,
		},
		Fixtures: FixtureConfig{
			ListenAddr:    "127.0.0.1:8800",
			AltListenAddr: "127.0.0.1:8801",
		},
		Output: OutputConfig{
			Format: "json",
			File:   "results.json",
		},
	}
}

func generateCITemplate() SuiteConfig {
	return SuiteConfig{
		Name:         "history_traversal",
		Backend:      BackendSim,
		LogLevel:     "warn",
		WaitTimeout:  "5s",
		PollInterval: "50ms",
		Fixtures: FixtureConfig{
			ListenAddr:    "127.0.0.1:0",
			AltListenAddr: "127.0.0.1:0",
		},
		Output: OutputConfig{
			Format: "sqlite",
			Database: &DatabaseConfig{
				Type:  "sqlite",
				DSN:   "results.db",
				Table: "conformance_results",
			},
		},
		Metrics: &MetricsConfig{
			Enabled:       true,
			Namespace:     "bidiconformer",
			ListenAddress: "127.0.0.1:9290",
		},
	}
}
