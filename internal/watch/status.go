package watch

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jhlabs/unfold/docsite/internal/build"
	"github.com/jhlabs/unfold/docsite/internal/metrics"
)

// RenderStatus describes the most recent render.
type RenderStatus struct {
	ID       string    `json:"id,omitempty"`
	Outcome  string    `json:"outcome"`
	Finished time.Time `json:"finished"`
	Error    string    `json:"error,omitempty"`
}

// Status is served on /healthz.
type Status struct {
	ConfigPath string        `json:"config_path"`
	ConfigHash string        `json:"config_hash,omitempty"`
	LastRender *RenderStatus `json:"last_render,omitempty"`
}

func (s *Service) recordStatus(report *build.Report, err error) {
	st := &RenderStatus{Finished: time.Now()}
	if report != nil {
		st.ID = report.ID
		st.Outcome = string(report.Outcome)
	}
	if err != nil {
		st.Error = err.Error()
	}
	s.mu.Lock()
	s.last = st
	s.mu.Unlock()
}

// Status reports the active config and the last render.
func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Status{ConfigPath: s.opts.ConfigPath}
	if s.cfg != nil {
		st.ConfigHash = s.cfg.Snapshot()
	}
	if s.last != nil {
		last := *s.last
		st.LastRender = &last
	}
	return st
}

func (s *Service) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Method(http.MethodGet, "/metrics", metrics.HTTPHandler(s.opts.Registry))
	r.Get("/healthz", s.handleHealth)
	return r
}

// handleHealth answers 503 until the first render finishes.
func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	st := s.Status()
	code := http.StatusOK
	if st.LastRender == nil {
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(st)
}
