package conformance

import (
	"context"
	"testing"
	"time"

	"github.com/valpere/BiDiConformer/pkg/types"
)

func TestRunnerRunsFullSuite(t *testing.T) {
	env := newTestEnv(t)
	runner := NewRunner("traverse-history", env)

	summary, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if summary.Suite != "traverse-history" {
		t.Errorf("suite = %q, want %q", summary.Suite, "traverse-history")
	}
	if summary.Total != len(Checks()) {
		t.Errorf("total = %d, want %d", summary.Total, len(Checks()))
	}
	if !summary.Success() {
		for _, r := range summary.FailedResults() {
			t.Errorf("unexpected failure: %s", r.String())
		}
	}
	if summary.Passed != summary.Total {
		t.Errorf("passed = %d, want %d", summary.Passed, summary.Total)
	}
}

func TestRunnerFilter(t *testing.T) {
	env := newTestEnv(t)
	runner := NewRunner("traverse-history", env)

	if err := runner.Filter([]string{"unknown_context", "back_then_forward"}); err != nil {
		t.Fatalf("filter failed: %v", err)
	}

	names := runner.CheckNames()
	if len(names) != 2 {
		t.Fatalf("expected 2 checks, got %v", names)
	}
	// Suite order is preserved regardless of filter order.
	if names[0] != "back_then_forward" || names[1] != "unknown_context" {
		t.Errorf("unexpected order: %v", names)
	}

	summary, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if summary.Total != 2 || summary.Passed != 2 {
		t.Errorf("summary = %d/%d, want 2/2", summary.Passed, summary.Total)
	}
}

func TestRunnerFilterRejectsUnknownName(t *testing.T) {
	env := newTestEnv(t)
	runner := NewRunner("traverse-history", env)

	if err := runner.Filter([]string{"not_a_check"}); err == nil {
		t.Error("expected an error for an unknown check name")
	}
}

func TestRunnerFilterEmptyKeepsAll(t *testing.T) {
	env := newTestEnv(t)
	runner := NewRunner("traverse-history", env)

	if err := runner.Filter(nil); err != nil {
		t.Fatalf("filter failed: %v", err)
	}
	if len(runner.CheckNames()) != len(Checks()) {
		t.Errorf("empty filter should keep the full suite")
	}
}

func TestRunnerRecordsFailures(t *testing.T) {
	env := newTestEnv(t)
	env.Session = &frozenSession{Client: env.Session}
	env.WaitTimeout = 300 * time.Millisecond
	env.PollInterval = 10 * time.Millisecond

	runner := NewRunner("traverse-history", env)
	if err := runner.Filter([]string{"back_then_forward"}); err != nil {
		t.Fatalf("filter failed: %v", err)
	}

	summary, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if summary.Success() {
		t.Fatal("expected the suite to fail")
	}
	if summary.Failed != 1 {
		t.Errorf("failed = %d, want 1", summary.Failed)
	}

	result := summary.Results[0]
	if result.Status != types.StatusFailed {
		t.Errorf("status = %q, want %q", result.Status, types.StatusFailed)
	}
	if result.Error == "" {
		t.Error("failed result carries no error message")
	}
}

func TestRunnerHonorsCancelledContext(t *testing.T) {
	env := newTestEnv(t)
	runner := NewRunner("traverse-history", env)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := runner.Run(ctx)
	if err == nil {
		t.Fatal("expected a context error")
	}
	if summary.Total != 0 {
		t.Errorf("no checks should have run, got %d", summary.Total)
	}
}
