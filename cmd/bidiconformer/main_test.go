// cmd/bidiconformer/main_test.go
package main

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/valpere/BiDiConformer/pkg/types"
)

func TestCLIVersion(t *testing.T) {
	version = "test-version"
	buildTime = "2026-08-26"
	gitCommit = "abc123"

	output := captureOutput(func() {
		printVersion()
	})

	if !strings.Contains(output, "test-version") {
		t.Errorf("version output should contain version, got: %s", output)
	}
	if !strings.Contains(output, "2026-08-26") {
		t.Errorf("version output should contain build time, got: %s", output)
	}
	if !strings.Contains(output, "abc123") {
		t.Errorf("version output should contain git commit, got: %s", output)
	}
}

func TestCLIHelp(t *testing.T) {
	output := captureOutput(func() {
		printUsage()
	})

	commands := []string{"run", "validate", "template", "checks", "version", "help"}
	for _, cmd := range commands {
		if !strings.Contains(output, cmd) {
			t.Errorf("help output should contain command %q, got: %s", cmd, output)
		}
	}
}

func TestGenerateTemplate(t *testing.T) {
	template, err := generateTemplate(nil)
	if err != nil {
		t.Fatalf("template generation failed: %v", err)
	}
	if !strings.Contains(template, "backend: sim") {
		t.Errorf("basic template should use the sim backend, got: %s", template)
	}

	template, err = generateTemplate([]string{"--type", "chrome"})
	if err != nil {
		t.Fatalf("template generation failed: %v", err)
	}
	if !strings.Contains(template, "backend: chrome") {
		t.Errorf("chrome template should use the chrome backend, got: %s", template)
	}
}

func TestPrintSummary(t *testing.T) {
	summary := &types.SuiteSummary{
		Suite: "history_traversal",
	}
	summary.Add(types.CheckResult{
		Suite:    "history_traversal",
		Check:    "back_then_forward",
		Status:   types.StatusPassed,
		Duration: 25 * time.Millisecond,
	})
	summary.Add(types.CheckResult{
		Suite:    "history_traversal",
		Check:    "unknown_context",
		Status:   types.StatusFailed,
		Duration: 5 * time.Millisecond,
		Error:    "traversal on unknown context returned nil",
	})

	output := captureOutput(func() {
		printSummary(summary, false)
	})

	if !strings.Contains(output, "2 checks, 1 passed, 1 failed") {
		t.Errorf("summary line missing counts, got: %s", output)
	}
	if !strings.Contains(output, "unknown_context") {
		t.Errorf("failed checks should be listed, got: %s", output)
	}
	if strings.Contains(output, "✓ back_then_forward") {
		t.Errorf("passed checks should not be listed without verbose, got: %s", output)
	}

	verbose := captureOutput(func() {
		printSummary(summary, true)
	})
	if !strings.Contains(verbose, "back_then_forward") {
		t.Errorf("verbose summary should list every check, got: %s", verbose)
	}
}

func TestCheckNames(t *testing.T) {
	names := checkNames()
	if len(names) == 0 {
		t.Fatal("no checks registered")
	}
	for _, want := range []string{"top_level_contexts", "iframe_cross_origin"} {
		found := false
		for _, name := range names {
			if name == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("check %q missing from %v", want, names)
		}
	}
}

// captureOutput captures stdout during function execution
func captureOutput(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		io.Copy(&buf, r)
		outC <- buf.String()
	}()

	f()
	w.Close()
	os.Stdout = old
	out := <-outC

	return out
}
