// Package conformance implements the history-traversal conformance checks.
// Each check drives an automation session through a navigation scenario and
// asserts the resulting history and context state.
package conformance

import (
	"context"
	"time"

	"github.com/valpere/BiDiConformer/internal/fixtures"
	"github.com/valpere/BiDiConformer/internal/monitoring"
	"github.com/valpere/BiDiConformer/internal/session"
	"github.com/valpere/BiDiConformer/internal/utils"
)

// Env holds the shared dependencies a check runs against.
type Env struct {
	Session      session.Client
	Fixtures     *fixtures.Server
	Log          utils.Logger
	Metrics      *monitoring.Collector
	WaitTimeout  time.Duration
	PollInterval time.Duration
}

// Check is a single named conformance scenario.
type Check struct {
	Name        string
	Description string
	Run         func(ctx context.Context, env *Env) error
}

// waitOptions builds fixture wait options from the environment. Zero values
// fall back to the fixture defaults.
func (e *Env) waitOptions() *fixtures.WaitOptions {
	return &fixtures.WaitOptions{
		Timeout:  e.WaitTimeout,
		Interval: e.PollInterval,
	}
}

// navigate drives the context to url with complete readiness and records the
// navigation metric.
func (e *Env) navigate(ctx context.Context, contextID, url string) error {
	_, err := e.Session.Navigate(ctx, contextID, url, session.ReadinessComplete)
	if err != nil {
		return err
	}
	e.Metrics.RecordNavigation()
	return nil
}

// traverse moves the context by delta history entries and records the metric.
func (e *Env) traverse(ctx context.Context, contextID string, delta int) error {
	if err := e.Session.TraverseHistory(ctx, contextID, delta); err != nil {
		return err
	}
	e.Metrics.RecordTraversal()
	return nil
}

// waitForURL polls the session until contextID reports url.
func (e *Env) waitForURL(ctx context.Context, contextID, url string) error {
	e.Metrics.RecordWaitPoll()
	return fixtures.WaitForURL(ctx, e.Session, contextID, url, e.waitOptions())
}

// newTab opens a fresh top-level context and returns a cleanup that closes it.
func (e *Env) newTab(ctx context.Context) (string, func(), error) {
	id, err := fixtures.NewTab(ctx, e.Session)
	if err != nil {
		return "", nil, err
	}
	cleanup := func() {
		if cerr := e.Session.CloseContext(context.Background(), id); cerr != nil {
			e.Log.WithField("context", id).Debugf("failed to close context: %v", cerr)
		}
	}
	return id, cleanup, nil
}
