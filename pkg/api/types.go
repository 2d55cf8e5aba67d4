// pkg/api/types.go
package api

import (
	"io"

	"github.com/valpere/BiDiConformer/internal/config"
	"github.com/valpere/BiDiConformer/pkg/types"
)

// Configuration types re-exported so callers never import internal packages.
type (
	SuiteConfig    = config.SuiteConfig
	BrowserConfig  = config.BrowserConfig
	FixtureConfig  = config.FixtureConfig
	OutputConfig   = config.OutputConfig
	DatabaseConfig = config.DatabaseConfig
	MetricsConfig  = config.MetricsConfig
)

// Result types re-exported from pkg/types.
type (
	CheckResult  = types.CheckResult
	SuiteSummary = types.SuiteSummary
	Status       = types.Status
)

// Session backends.
const (
	BackendSim    = config.BackendSim
	BackendChrome = config.BackendChrome
)

// LoadConfig loads and validates a suite configuration from a YAML file.
func LoadConfig(filename string) (*SuiteConfig, error) {
	return config.LoadFromFile(filename)
}

// LoadConfigFromReader loads and validates a suite configuration from a reader.
func LoadConfigFromReader(reader io.Reader) (*SuiteConfig, error) {
	return config.LoadFromReader(reader)
}

// SaveConfig writes a suite configuration to a YAML file.
func SaveConfig(cfg *SuiteConfig, filename string) error {
	return config.SaveToFile(cfg, filename)
}

// GenerateTemplate returns a starter configuration of the given type
// ("basic", "chrome", or "ci").
func GenerateTemplate(templateType string) SuiteConfig {
	return config.GenerateTemplate(templateType)
}
