package health

import (
	"context"
	"sync"
	"time"
)

// Checker represents a dependency health check.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

// ReadinessUseCase describes readiness verification.
type ReadinessUseCase interface {
	Report(ctx context.Context) Report
}

const (
	StatusUp   = "up"
	StatusDown = "down"
)

// CheckResult is the outcome of one dependency check. Err is kept for logs
// and never serialized.
type CheckResult struct {
	Name      string `json:"name"`
	Status    string `json:"status"`
	LatencyMS int64  `json:"latencyMs"`
	Err       error  `json:"-"`
}

// Report aggregates all checks; Ready is false if any dependency is down.
type Report struct {
	Ready  bool          `json:"ready"`
	Checks []CheckResult `json:"checks"`
}

// Failing returns the results of the checks that did not pass.
func (r Report) Failing() []CheckResult {
	var out []CheckResult
	for _, c := range r.Checks {
		if c.Status != StatusUp {
			out = append(out, c)
		}
	}
	return out
}

type service struct {
	checkers []Checker
	now      func() time.Time
}

// NewService aggregates dependency checkers.
func NewService(checkers ...Checker) ReadinessUseCase {
	return &service{checkers: checkers, now: time.Now}
}

// Report runs every checker concurrently and keeps their registration order.
func (s *service) Report(ctx context.Context) Report {
	results := make([]CheckResult, len(s.checkers))
	var wg sync.WaitGroup
	for i, ch := range s.checkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start := s.now()
			err := ch.Check(ctx)
			res := CheckResult{Name: ch.Name(), Status: StatusUp, LatencyMS: s.now().Sub(start).Milliseconds()}
			if err != nil {
				res.Status = StatusDown
				res.Err = err
			}
			results[i] = res
		}()
	}
	wg.Wait()

	rep := Report{Ready: true, Checks: results}
	for _, r := range results {
		if r.Status != StatusUp {
			rep.Ready = false
		}
	}
	return rep
}
