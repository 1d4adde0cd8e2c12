package doctor

import (
	"context"
	"time"
)

// Check is the interface that diagnostic checks must implement.
type Check interface {
	// Name returns the unique identifier for this check.
	Name() string

	// Category returns the grouping for this check.
	Category() string

	// Run executes the diagnostic check and returns its result.
	Run(ctx context.Context) *CheckResult
}

// Runner executes diagnostic checks and aggregates their results.
type Runner struct {
	checks []Check
	now    func() time.Time
}

// NewRunner creates a new diagnostic runner.
func NewRunner() *Runner {
	return &Runner{
		checks: make([]Check, 0),
		now:    time.Now,
	}
}

// AddCheck registers a diagnostic check with the runner.
func (r *Runner) AddCheck(c Check) {
	r.checks = append(r.checks, c)
}

// Checks returns the registered checks in order.
func (r *Runner) Checks() []Check {
	return r.checks
}

// Run executes all registered checks in order and returns a report.
// A cancelled context stops the run before the next check.
func (r *Runner) Run(ctx context.Context) *Report {
	report := &Report{
		Timestamp: r.now().UTC(),
		Results:   make([]*CheckResult, 0, len(r.checks)),
	}

	for _, check := range r.checks {
		if ctx.Err() != nil {
			break
		}
		result := check.Run(ctx)
		if result.Name == "" {
			result.Name = check.Name()
		}
		if result.Category == "" {
			result.Category = check.Category()
		}
		report.add(result)
	}

	return report
}

// Report aggregates all check results with timing and summary.
type Report struct {
	// Timestamp is when the diagnostic run started.
	Timestamp time.Time `json:"timestamp"`

	Results []*CheckResult `json:"results"`
	Summary Summary        `json:"summary"`
}

func (r *Report) add(result *CheckResult) {
	r.Results = append(r.Results, result)
	switch result.Status {
	case SeverityPass:
		r.Summary.Passed++
	case SeverityInfo:
		r.Summary.Info++
	case SeverityWarning:
		r.Summary.Warnings++
	case SeverityError:
		r.Summary.Errors++
	}
}

// HasErrors returns true if any check has SeverityError.
func (r *Report) HasErrors() bool {
	return r.Summary.Errors > 0
}

// HasWarnings returns true if any check has SeverityWarning.
func (r *Report) HasWarnings() bool {
	return r.Summary.Warnings > 0
}
