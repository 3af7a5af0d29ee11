package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/appshell/pkg/health"
)

// Handler exposes the shell's ops surface: liveness/readiness probes,
// Prometheus metrics, and read-only resolution endpoints for debugging
// what the index would hand to the rendering layer.
func (s *Shell) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/health/live", health.LivenessHandler())
	r.Get("/health/ready", health.ReadinessHandler(s.readinessChecks(), health.WithLogger(s.logger)))
	r.Handle("/metrics", s.metrics.Handler())

	r.Get("/shell/resolve", s.handleResolve)
	r.Get("/shell/slots/{slot}", s.handleSlot)
	r.Get("/shell/modules", s.handleModules)

	return r
}

// readinessChecks combines the built-in catalog and gate checks with the
// host's own.
func (s *Shell) readinessChecks() health.Checks {
	checks := health.Checks{
		"catalog": func(context.Context) error {
			if s.registry.Len() == 0 {
				return fmt.Errorf("no modules registered")
			}
			return nil
		},
		"gate": func(context.Context) error {
			var blocked []string
			for _, d := range s.registry.Snapshot() {
				if s.coordinator.Blocked(d.Name) {
					blocked = append(blocked, d.Name)
				}
			}
			if len(blocked) > 0 {
				return fmt.Errorf("blocked modules: %s", strings.Join(blocked, ", "))
			}
			return nil
		},
	}
	maps.Copy(checks, s.extraReady)
	return checks
}

func (s *Shell) handleResolve(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		http.Error(w, `missing "path" query parameter`, http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]any{
		"path":    path,
		"entries": s.ResolveRoute(path),
	})
}

func (s *Shell) handleSlot(w http.ResponseWriter, r *http.Request) {
	slot := chi.URLParam(r, "slot")
	writeJSON(w, map[string]any{
		"slot":    slot,
		"entries": s.ResolveSlot(slot),
	})
}

func (s *Shell) handleModules(w http.ResponseWriter, _ *http.Request) {
	type moduleInfo struct {
		Name                string   `json:"name"`
		Pages               int      `json:"pages"`
		Extensions          int      `json:"extensions"`
		Started             bool     `json:"started"`
		Degraded            bool     `json:"degraded,omitempty"`
		Blocked             bool     `json:"blocked,omitempty"`
		FailingDependencies []string `json:"failingDependencies,omitempty"`
		StartupError        string   `json:"startupError,omitempty"`
	}

	out := []moduleInfo{}
	for _, d := range s.registry.Snapshot() {
		st := s.coordinator.Status(d.Name)
		info := moduleInfo{
			Name:                d.Name,
			Pages:               len(d.Pages),
			Extensions:          len(d.Extensions),
			Started:             st.Started,
			Degraded:            st.Degraded,
			Blocked:             st.Blocked,
			FailingDependencies: st.FailingDependencies,
		}
		if st.Err != nil {
			info.StartupError = st.Err.Error()
		}
		out = append(out, info)
	}
	writeJSON(w, out)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
