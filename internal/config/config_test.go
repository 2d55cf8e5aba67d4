// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromBytesDefaults(t *testing.T) {
	data := []byte(`
name: history_traversal
`)

	cfg, err := LoadFromBytes(data)
	if err != nil {
		t.Fatalf("failed to load configuration: %v", err)
	}

	if cfg.Backend != BackendSim {
		t.Errorf("expected sim backend default, got %s", cfg.Backend)
	}
	if cfg.WaitTimeoutDuration() != 5*time.Second {
		t.Errorf("expected 5s wait timeout default, got %s", cfg.WaitTimeoutDuration())
	}
	if cfg.PollIntervalDuration() != 100*time.Millisecond {
		t.Errorf("expected 100ms poll interval default, got %s", cfg.PollIntervalDuration())
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected info log level default, got %s", cfg.LogLevel)
	}
	if cfg.Fixtures.ListenAddr == "" || cfg.Fixtures.AltListenAddr == "" {
		t.Error("expected fixture listen addresses to default")
	}
}

func TestLoadFromBytesFull(t *testing.T) {
	data := []byte(`
name: history_traversal
backend: chrome
wait_timeout: 10s
poll_interval: 50ms
checks:
  - top_level_contexts
  - iframe_cross_origin
browser:
  headless: true
  timeout: 20s
fixtures:
  listen_addr: 127.0.0.1:8800
  alt_listen_addr: 127.0.0.1:8801
output:
  format: sqlite
  database:
    type: sqlite
    dsn: results.db
    table: results
metrics:
  enabled: true
  listen_address: 127.0.0.1:9290
`)

	cfg, err := LoadFromBytes(data)
	if err != nil {
		t.Fatalf("failed to load configuration: %v", err)
	}

	if cfg.Backend != BackendChrome {
		t.Errorf("expected chrome backend, got %s", cfg.Backend)
	}
	if cfg.Browser.TimeoutDuration() != 20*time.Second {
		t.Errorf("expected 20s browser timeout, got %s", cfg.Browser.TimeoutDuration())
	}
	if len(cfg.Checks) != 2 {
		t.Errorf("expected 2 selected checks, got %d", len(cfg.Checks))
	}
	if cfg.Metrics.Namespace != "bidiconformer" {
		t.Errorf("expected default metrics namespace, got %s", cfg.Metrics.Namespace)
	}
}

func TestLoadExpandsEnvironment(t *testing.T) {
	os.Setenv("CONFORMER_TEST_ADDR", "127.0.0.1:9999")
	defer os.Unsetenv("CONFORMER_TEST_ADDR")

	data := []byte(`
name: history_traversal
fixtures:
  listen_addr: ${CONFORMER_TEST_ADDR}
`)

	cfg, err := LoadFromBytes(data)
	if err != nil {
		t.Fatalf("failed to load configuration: %v", err)
	}
	if cfg.Fixtures.ListenAddr != "127.0.0.1:9999" {
		t.Errorf("expected env expansion, got %s", cfg.Fixtures.ListenAddr)
	}
}

func TestValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown backend", "name: x\nbackend: firefox\n"},
		{"chrome without browser section", "name: x\nbackend: chrome\n"},
		{"bad wait timeout", "name: x\nwait_timeout: soon\n"},
		{"unknown output format", "name: x\noutput:\n  format: pdf\n"},
		{"file format without file", "name: x\noutput:\n  format: json\n"},
		{"database format without database", "name: x\noutput:\n  format: mysql\n"},
		{"database without dsn", "name: x\noutput:\n  format: sqlite\n  database:\n    type: sqlite\n    table: t\n"},
		{"metrics without address", "name: x\nmetrics:\n  enabled: true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadFromBytes([]byte(tt.data)); err == nil {
				t.Error("expected validation error but got none")
			}
		})
	}
}

func TestSaveAndReloadRoundTrip(t *testing.T) {
	cfg := GenerateTemplate("chrome")

	path := filepath.Join(t.TempDir(), "suite.yaml")
	if err := SaveToFile(&cfg, path); err != nil {
		t.Fatalf("failed to save configuration: %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("failed to reload configuration: %v", err)
	}
	if loaded.Backend != BackendChrome {
		t.Errorf("expected chrome backend after round trip, got %s", loaded.Backend)
	}
	if loaded.Browser == nil || !loaded.Browser.Headless {
		t.Error("expected headless browser section after round trip")
	}
}

func TestGenerateTemplateTypes(t *testing.T) {
	basic := GenerateTemplate("basic")
	if basic.Backend != BackendSim {
		t.Errorf("expected sim backend in basic template, got %s", basic.Backend)
	}

	chrome := GenerateTemplate("chrome")
	if chrome.Backend != BackendChrome || chrome.Browser == nil {
		t.Error("expected chrome template with browser section")
	}

	ci := GenerateTemplate("ci")
	if ci.Output.Database == nil || ci.Output.Database.Type != "sqlite" {
		t.Error("expected ci template with sqlite sink")
	}

	unknown := GenerateTemplate("whatever")
	if unknown.Backend != BackendSim {
		t.Error("expected unknown template type to fall back to basic")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile("does-not-exist.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := LoadFromFile(""); err == nil {
		t.Error("expected error for empty filename")
	}
}
