// internal/conformance/runner.go
package conformance

import (
	"context"
	"fmt"
	"time"

	"github.com/valpere/BiDiConformer/pkg/types"
)

// Runner executes conformance checks sequentially against one environment.
// Checks share the fixture server but open their own browsing contexts, so
// order does not matter; sequential execution keeps session logs readable.
type Runner struct {
	env    *Env
	suite  string
	checks []Check
}

// NewRunner creates a runner over the full check suite.
func NewRunner(suite string, env *Env) *Runner {
	return &Runner{
		env:    env,
		suite:  suite,
		checks: Checks(),
	}
}

// Filter restricts the runner to the named checks, preserving suite order.
// Unknown names produce an error so typos in configuration do not silently
// skip coverage.
func (r *Runner) Filter(names []string) error {
	if len(names) == 0 {
		return nil
	}

	byName := make(map[string]bool, len(names))
	for _, name := range names {
		if FindCheck(name) == nil {
			return fmt.Errorf("unknown check %q", name)
		}
		byName[name] = true
	}

	var selected []Check
	for _, c := range r.checks {
		if byName[c.Name] {
			selected = append(selected, c)
		}
	}
	r.checks = selected
	return nil
}

// CheckNames returns the names of the checks the runner will execute.
func (r *Runner) CheckNames() []string {
	names := make([]string, 0, len(r.checks))
	for _, c := range r.checks {
		names = append(names, c.Name)
	}
	return names
}

// Run executes every selected check and returns the aggregated summary.
// A failing check never aborts the suite; the error is recorded in its
// result and the next check runs.
func (r *Runner) Run(ctx context.Context) (*types.SuiteSummary, error) {
	summary := &types.SuiteSummary{
		Suite:     r.suite,
		StartedAt: time.Now(),
	}

	for _, check := range r.checks {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		result := r.runCheck(ctx, check)
		summary.Add(result)
		r.env.Metrics.RecordCheck(result.Check, string(result.Status), result.Duration)
	}

	return summary, nil
}

func (r *Runner) runCheck(ctx context.Context, check Check) types.CheckResult {
	log := r.env.Log.WithFields(map[string]interface{}{
		"suite": r.suite,
		"check": check.Name,
	})
	log.Info("running check")

	started := time.Now()
	err := check.Run(ctx, r.env)
	duration := time.Since(started)

	result := types.CheckResult{
		Suite:     r.suite,
		Check:     check.Name,
		Status:    types.StatusPassed,
		Duration:  duration,
		StartedAt: started,
	}

	if err != nil {
		result.Status = types.StatusFailed
		result.Error = err.Error()
		log.WithField("duration", duration.Round(time.Millisecond)).Errorf("check failed: %v", err)
		return result
	}

	log.WithField("duration", duration.Round(time.Millisecond)).Info("check passed")
	return result
}
