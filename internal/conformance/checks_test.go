package conformance

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	stderrors "errors"

	"github.com/valpere/BiDiConformer/internal/browser"
	"github.com/valpere/BiDiConformer/internal/errors"
	"github.com/valpere/BiDiConformer/internal/fixtures"
	"github.com/valpere/BiDiConformer/internal/monitoring"
	"github.com/valpere/BiDiConformer/internal/session"
	"github.com/valpere/BiDiConformer/internal/utils"
)

func newTestEnv(t *testing.T) *Env {
	t.Helper()

	fx := fixtures.NewServer()
	primary := httptest.NewServer(fx.Handler())
	alt := httptest.NewServer(fx.Handler())
	t.Cleanup(primary.Close)
	t.Cleanup(alt.Close)
	fx.SetOrigins(primary.URL, alt.URL)

	sim := browser.NewSim(nil)
	t.Cleanup(func() { sim.Close() })

	return &Env{
		Session:  sim,
		Fixtures: fx,
		Log:      utils.NewLoggerWithOutput(utils.ErrorLevel, io.Discard),
		Metrics:  monitoring.NewCollector("conformancetest"),
	}
}

func TestChecksAllPassAgainstSim(t *testing.T) {
	env := newTestEnv(t)

	for _, check := range Checks() {
		check := check
		t.Run(check.Name, func(t *testing.T) {
			if err := check.Run(context.Background(), env); err != nil {
				t.Errorf("check failed: %v", err)
			}
		})
	}
}

func TestFindCheck(t *testing.T) {
	if c := FindCheck("back_then_forward"); c == nil || c.Name != "back_then_forward" {
		t.Errorf("FindCheck returned %v", c)
	}
	if c := FindCheck("does_not_exist"); c != nil {
		t.Errorf("expected nil for unknown check, got %v", c)
	}
}

func TestCheckNamesAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range Checks() {
		if seen[c.Name] {
			t.Errorf("duplicate check name %q", c.Name)
		}
		seen[c.Name] = true
		if c.Description == "" {
			t.Errorf("check %q has no description", c.Name)
		}
		if c.Run == nil {
			t.Errorf("check %q has no run function", c.Name)
		}
	}
}

// frozenSession wraps a working session but ignores traversal commands, so
// traversal-dependent checks must fail their assertions.
type frozenSession struct {
	session.Client
}

func (f *frozenSession) TraverseHistory(ctx context.Context, contextID string, delta int) error {
	// Report success without moving, like a session that acknowledges the
	// command but never performs it.
	tree, err := f.Client.GetTree(ctx, "")
	if err != nil {
		return err
	}
	if session.FindContext(tree, contextID) == nil {
		return session.NoSuchFrame(contextID)
	}
	return nil
}

func TestChecksDetectBrokenTraversal(t *testing.T) {
	env := newTestEnv(t)
	env.Session = &frozenSession{Client: env.Session}
	env.WaitTimeout = fixtures.DefaultPollInterval * 3
	env.PollInterval = fixtures.DefaultPollInterval / 10

	err := checkBackThenForward(context.Background(), env)
	if err == nil {
		t.Fatal("expected a broken session to fail the check")
	}

	var assertion *errors.AssertionError
	if !stderrors.As(err, &assertion) {
		t.Errorf("expected an assertion failure, got %T: %v", err, err)
	}
	if !strings.Contains(err.Error(), "back_then_forward") {
		t.Errorf("assertion does not name the check: %v", err)
	}
}

func TestUnknownContextCheck(t *testing.T) {
	env := newTestEnv(t)

	if err := checkUnknownContext(context.Background(), env); err != nil {
		t.Errorf("check failed: %v", err)
	}
}
