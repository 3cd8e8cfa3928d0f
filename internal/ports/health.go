package ports

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"
)

// ErrDuplicateChecker is returned when a checker name is registered twice.
var ErrDuplicateChecker = errors.New("duplicate health checker")

// HealthChecker reports whether one dependency is reachable. The LMS facade
// registers itself as "axcelerate".
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}

// HealthStatus is the outcome of a check or of the whole registry.
type HealthStatus string

// Health statuses.
const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthResult is the aggregate served on the readiness probe.
type HealthResult struct {
	Status    HealthStatus            `json:"status"`
	Checks    map[string]*CheckResult `json:"checks"`
	Timestamp time.Time               `json:"timestamp"`
}

// CheckResult is the outcome of one checker.
type CheckResult struct {
	Status   HealthStatus  `json:"status"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration"`
}

// HealthRegistry runs registered checkers concurrently, each bounded by
// CheckTimeout when it is positive.
type HealthRegistry struct {
	mu       sync.RWMutex
	checkers []HealthChecker

	CheckTimeout time.Duration
}

// NewHealthRegistry creates an empty registry with the given per-check timeout.
func NewHealthRegistry(checkTimeout time.Duration) *HealthRegistry {
	return &HealthRegistry{CheckTimeout: checkTimeout}
}

// Register adds checker. Names must be unique.
func (r *HealthRegistry) Register(checker HealthChecker) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := checker.Name()
	if slices.ContainsFunc(r.checkers, func(c HealthChecker) bool { return c.Name() == name }) {
		return fmt.Errorf("%w: %s", ErrDuplicateChecker, name)
	}

	r.checkers = append(r.checkers, checker)

	return nil
}

// Names returns the registered checker names in registration order.
func (r *HealthRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.checkers))
	for _, c := range r.checkers {
		names = append(names, c.Name())
	}

	return names
}

// CheckAll runs every checker and reports unhealthy if any one fails.
func (r *HealthRegistry) CheckAll(ctx context.Context) *HealthResult {
	r.mu.RLock()
	checkers := slices.Clone(r.checkers)
	r.mu.RUnlock()

	result := &HealthResult{
		Status:    HealthStatusHealthy,
		Checks:    make(map[string]*CheckResult, len(checkers)),
		Timestamp: time.Now(),
	}

	results := make([]*CheckResult, len(checkers))

	var wg sync.WaitGroup
	for i, checker := range checkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = r.run(ctx, checker)
		}()
	}
	wg.Wait()

	for i, checker := range checkers {
		result.Checks[checker.Name()] = results[i]
		if results[i].Status == HealthStatusUnhealthy {
			result.Status = HealthStatusUnhealthy
		}
	}

	return result
}

func (r *HealthRegistry) run(ctx context.Context, checker HealthChecker) *CheckResult {
	if r.CheckTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.CheckTimeout)
		defer cancel()
	}

	start := time.Now()
	err := checker.Check(ctx)

	res := &CheckResult{Status: HealthStatusHealthy, Duration: time.Since(start)}
	if err != nil {
		res.Status = HealthStatusUnhealthy
		res.Message = err.Error()
	}

	return res
}
