// pkg/types/types.go
package types

import (
	"fmt"
	"time"
)

// Status represents the outcome of a single conformance check.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// ValidStatuses returns all valid status values.
func ValidStatuses() []Status {
	return []Status{StatusPassed, StatusFailed, StatusSkipped}
}

// IsValidStatus checks if a status value is valid.
func IsValidStatus(status Status) bool {
	for _, valid := range ValidStatuses() {
		if status == valid {
			return true
		}
	}
	return false
}

// CheckResult records the outcome of one conformance check run.
type CheckResult struct {
	Suite     string        `yaml:"suite" json:"suite"`
	Check     string        `yaml:"check" json:"check"`
	Status    Status        `yaml:"status" json:"status"`
	Duration  time.Duration `yaml:"duration" json:"duration"`
	Error     string        `yaml:"error,omitempty" json:"error,omitempty"`
	StartedAt time.Time     `yaml:"started_at" json:"started_at"`
}

// Passed reports whether the check succeeded.
func (r CheckResult) Passed() bool {
	return r.Status == StatusPassed
}

// String returns a short human-readable form of the result.
func (r CheckResult) String() string {
	if r.Error != "" {
		return fmt.Sprintf("%s: %s (%s): %s", r.Check, r.Status, r.Duration.Round(time.Millisecond), r.Error)
	}
	return fmt.Sprintf("%s: %s (%s)", r.Check, r.Status, r.Duration.Round(time.Millisecond))
}

// SuiteSummary aggregates the results of a conformance suite run.
type SuiteSummary struct {
	Suite     string        `yaml:"suite" json:"suite"`
	Total     int           `yaml:"total" json:"total"`
	Passed    int           `yaml:"passed" json:"passed"`
	Failed    int           `yaml:"failed" json:"failed"`
	Skipped   int           `yaml:"skipped" json:"skipped"`
	Duration  time.Duration `yaml:"duration" json:"duration"`
	StartedAt time.Time     `yaml:"started_at" json:"started_at"`
	Results   []CheckResult `yaml:"results" json:"results"`
}

// Add appends a check result and updates the aggregate counters.
func (s *SuiteSummary) Add(result CheckResult) {
	s.Results = append(s.Results, result)
	s.Total++
	s.Duration += result.Duration

	switch result.Status {
	case StatusPassed:
		s.Passed++
	case StatusFailed:
		s.Failed++
	case StatusSkipped:
		s.Skipped++
	}
}

// Success reports whether every non-skipped check passed.
func (s *SuiteSummary) Success() bool {
	return s.Failed == 0
}

// FailedResults returns only the failed check results.
func (s *SuiteSummary) FailedResults() []CheckResult {
	var failed []CheckResult
	for _, r := range s.Results {
		if r.Status == StatusFailed {
			failed = append(failed, r)
		}
	}
	return failed
}
