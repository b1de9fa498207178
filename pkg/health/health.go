// Package health holds the pass/fail report shape used by diagnostic endpoints.
package health

import "time"

// Check is a single diagnostic step.
type Check struct {
	Name      string `json:"name"`
	Passed    bool   `json:"passed"`
	LatencyMs int64  `json:"latency_ms"`
	Detail    string `json:"detail,omitempty"`
}

// Report aggregates checks for one target.
type Report struct {
	Target string  `json:"target"`
	Passed bool    `json:"passed"`
	Checks []Check `json:"checks"`
}

// NewReport starts an empty, passing report.
func NewReport(target string) *Report {
	return &Report{Target: target, Passed: true, Checks: []Check{}}
}

// Run times fn, appends the outcome and reports whether it passed.
func (r *Report) Run(name string, fn func() (string, error)) bool {
	began := time.Now()
	detail, err := fn()
	check := Check{Name: name, Passed: err == nil, LatencyMs: time.Since(began).Milliseconds(), Detail: detail}
	if err != nil {
		check.Detail = err.Error()
	}
	r.Add(check)
	return check.Passed
}

// Add appends a pre-built check.
func (r *Report) Add(c Check) {
	r.Checks = append(r.Checks, c)
	if !c.Passed {
		r.Passed = false
	}
}

// Skip records a check that could not run because an earlier one failed.
func (r *Report) Skip(name, reason string) {
	r.Add(Check{Name: name, Passed: false, Detail: "skipped: " + reason})
}
