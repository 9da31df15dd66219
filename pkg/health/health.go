// Package health exposes Kubernetes-style liveness and readiness probes.
//
// Checks are registered before Start and evaluated together by a single
// background goroutine at a fixed interval. The HTTP endpoints report the
// result of the most recent evaluation, so probe handlers never block on a
// slow dependency.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// CheckFunc reports the health of one component. A nil return means healthy.
type CheckFunc func(ctx context.Context) error

type check struct {
	name    string
	timeout time.Duration
	fn      CheckFunc
}

// Service runs registered health checks and serves probe endpoints.
type Service struct {
	ready  atomic.Bool
	cancel context.CancelFunc

	mu        sync.RWMutex
	liveness  []check
	readiness []check
	// failures maps check name to the error message from the last
	// evaluation. Checks absent from the map passed.
	failures map[string]string
}

// New returns a Service with no checks registered. The service starts not
// ready; call SetReady(true) once initialization finishes.
func New() *Service {
	return &Service{failures: make(map[string]string)}
}

// AddLivenessCheck registers a check for the /livez endpoint.
func (s *Service) AddLivenessCheck(name string, timeout time.Duration, fn CheckFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.liveness = append(s.liveness, check{name: name, timeout: timeout, fn: fn})
}

// AddReadinessCheck registers a check for the /readyz endpoint. A failing
// readiness check also makes IsReady report false.
func (s *Service) AddReadinessCheck(name string, timeout time.Duration, fn CheckFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readiness = append(s.readiness, check{name: name, timeout: timeout, fn: fn})
}

// Start runs every registered check once, then re-evaluates all of them at
// the given interval until Stop is called or ctx is cancelled.
func (s *Service) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	s.evaluate(ctx)

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.evaluate(ctx)
			}
		}
	}()
}

// Stop halts background evaluation. Safe to call more than once.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// evaluate runs every check once and replaces the failure snapshot.
func (s *Service) evaluate(ctx context.Context) {
	s.mu.RLock()
	checks := make([]check, 0, len(s.liveness)+len(s.readiness))
	checks = append(checks, s.liveness...)
	checks = append(checks, s.readiness...)
	s.mu.RUnlock()

	failures := make(map[string]string)
	for _, c := range checks {
		checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
		if err := c.fn(checkCtx); err != nil {
			failures[c.name] = err.Error()
		}
		cancel()
	}

	s.mu.Lock()
	s.failures = failures
	s.mu.Unlock()
}

// SetReady flips the manual readiness gate. It is set to true once startup
// completes and back to false when shutdown begins, so load balancers drain
// traffic before the listener closes.
func (s *Service) SetReady(ready bool) {
	s.ready.Store(ready)
}

// IsReady reports whether the service is marked ready and every readiness
// check passed its last evaluation.
func (s *Service) IsReady() bool {
	if !s.ready.Load() {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.readiness {
		if _, failed := s.failures[c.name]; failed {
			return false
		}
	}
	return true
}

type statusResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// LiveEndpoint serves the /livez probe.
func (s *Service) LiveEndpoint(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	failures := s.collectFailures(s.liveness)
	s.mu.RUnlock()

	writeStatus(w, failures)
}

// ReadyEndpoint serves the /readyz probe. It fails while the manual
// readiness gate is down even if every check passes.
func (s *Service) ReadyEndpoint(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	failures := s.collectFailures(s.readiness)
	s.mu.RUnlock()

	if !s.ready.Load() {
		failures["_readiness"] = "service is not ready"
	}
	writeStatus(w, failures)
}

// collectFailures must be called with mu held.
func (s *Service) collectFailures(checks []check) map[string]string {
	failures := make(map[string]string)
	for _, c := range checks {
		if msg, failed := s.failures[c.name]; failed {
			failures[c.name] = msg
		}
	}
	return failures
}

func writeStatus(w http.ResponseWriter, failures map[string]string) {
	resp := statusResponse{Status: "ok"}
	code := http.StatusOK
	if len(failures) > 0 {
		resp.Status = "unhealthy"
		resp.Checks = failures
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}
