// internal/config/validation.go
package config

import (
	"fmt"
	"time"
)

var validBackends = map[string]bool{
	BackendSim:    true,
	BackendChrome: true,
}

var validFormats = map[string]bool{
	"json":       true,
	"csv":        true,
	"yaml":       true,
	"excel":      true,
	"sqlite":     true,
	"postgresql": true,
	"mysql":      true,
	"mongodb":    true,
}

var validDatabaseTypes = map[string]bool{
	"sqlite":     true,
	"postgresql": true,
	"mysql":      true,
	"mongodb":    true,
}

// Validate checks the configuration for consistency.
func (c *SuiteConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("suite name is required")
	}

	if !validBackends[c.Backend] {
		return fmt.Errorf("unsupported backend %q (must be %q or %q)", c.Backend, BackendSim, BackendChrome)
	}

	if c.Backend == BackendChrome && c.Browser == nil {
		return fmt.Errorf("chrome backend requires a browser section")
	}

	if err := validateDuration("wait_timeout", c.WaitTimeout); err != nil {
		return err
	}
	if err := validateDuration("poll_interval", c.PollInterval); err != nil {
		return err
	}
	if c.Browser != nil {
		if err := validateDuration("browser.timeout", c.Browser.Timeout); err != nil {
			return err
		}
	}

	if c.Output.Format != "" && !validFormats[c.Output.Format] {
		return fmt.Errorf("unsupported output format %q", c.Output.Format)
	}

	if isDatabaseFormat(c.Output.Format) {
		if c.Output.Database == nil {
			return fmt.Errorf("output format %q requires a database section", c.Output.Format)
		}
	} else if c.Output.Format != "" && c.Output.File == "" {
		return fmt.Errorf("output format %q requires an output file", c.Output.Format)
	}

	if db := c.Output.Database; db != nil {
		if !validDatabaseTypes[db.Type] {
			return fmt.Errorf("unsupported database type %q", db.Type)
		}
		if db.DSN == "" {
			return fmt.Errorf("database dsn is required")
		}
		if db.Table == "" {
			return fmt.Errorf("database table is required")
		}
	}

	if c.Metrics != nil && c.Metrics.Enabled && c.Metrics.ListenAddress == "" {
		return fmt.Errorf("metrics listen_address is required when metrics are enabled")
	}

	return nil
}

func isDatabaseFormat(format string) bool {
	return validDatabaseTypes[format]
}

func validateDuration(field, value string) error {
	if value == "" {
		return nil
	}
	if _, err := time.ParseDuration(value); err != nil {
		return fmt.Errorf("invalid %s %q: %v", field, value, err)
	}
	return nil
}
