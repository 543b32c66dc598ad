// AngelaMos | 2026
// handler.go

package health

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/carterperez-dev/tournament-backend/internal/core"
)

const checkTimeout = 3 * time.Second

type Checker interface {
	Ping(ctx context.Context) error
}

// Dependency is a named backing service checked by /readyz.
type Dependency struct {
	Name    string
	Checker Checker
}

type phase int32

const (
	phaseServing phase = iota
	phaseWarming
	phaseDraining
)

func (p phase) String() string {
	switch p {
	case phaseWarming:
		return "warming_up"
	case phaseDraining:
		return "draining"
	default:
		return "ok"
	}
}

type Handler struct {
	version string
	deps    []Dependency
	phase   atomic.Int32
}

func NewHandler(version string, deps ...Dependency) *Handler {
	return &Handler{version: version, deps: deps}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(noStore)
		r.Get("/healthz", h.Liveness)
		r.Get("/livez", h.Liveness)
		r.Get("/readyz", h.Readiness)
	})
}

// SetReady toggles between serving and warming up. It has no effect once
// draining has started.
func (h *Handler) SetReady(ready bool) {
	next := phaseWarming
	if ready {
		next = phaseServing
	}
	for {
		cur := h.phase.Load()
		if phase(cur) == phaseDraining || h.phase.CompareAndSwap(cur, int32(next)) {
			return
		}
	}
}

// MarkDraining fails every health check from now on so load balancers stop
// routing here before the listener closes.
func (h *Handler) MarkDraining() {
	h.phase.Store(int32(phaseDraining))
}

func (h *Handler) current() phase {
	return phase(h.phase.Load())
}

func (h *Handler) Liveness(w http.ResponseWriter, _ *http.Request) {
	if p := h.current(); p == phaseDraining {
		core.JSON(w, http.StatusServiceUnavailable, Report{Status: p.String()})
		return
	}
	core.OK(w, Report{Status: "ok", Version: h.version})
}

func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	if p := h.current(); p != phaseServing {
		core.JSON(w, http.StatusServiceUnavailable, Report{Status: p.String()})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	report := Report{Status: "ok", Version: h.version, Checks: h.check(ctx)}
	for _, c := range report.Checks {
		if !c.Healthy {
			report.Status = "degraded"
			core.JSON(w, http.StatusServiceUnavailable, report)
			return
		}
	}

	core.OK(w, report)
}

// check pings every dependency concurrently. A failed ping is recorded,
// never returned, so one slow service cannot cancel the others.
func (h *Handler) check(ctx context.Context) []Check {
	results := make([]Check, len(h.deps))

	var g errgroup.Group
	for i, dep := range h.deps {
		g.Go(func() error {
			results[i] = ping(ctx, dep)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // goroutines never fail

	return results
}

func ping(ctx context.Context, dep Dependency) Check {
	c := Check{Name: dep.Name}
	if dep.Checker == nil {
		c.Message = "no checker configured"
		return c
	}

	start := time.Now()
	err := dep.Checker.Ping(ctx)
	c.Latency = time.Since(start).Round(time.Microsecond).String()

	if err != nil {
		c.Message = "ping failed"
		return c
	}
	c.Healthy = true
	return c
}

func noStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

type Report struct {
	Status  string  `json:"status"`
	Version string  `json:"version,omitempty"`
	Checks  []Check `json:"checks,omitempty"`
}

type Check struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Latency string `json:"latency,omitempty"`
	Message string `json:"message,omitempty"`
}
