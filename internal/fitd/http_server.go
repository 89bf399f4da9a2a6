// Package fitd serves rate-law fits over HTTP and gRPC.
package fitd

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/GoSim-25-26J-441/kinfit/internal/dataset"
	"github.com/GoSim-25-26J-441/kinfit/internal/kinetics"
	"github.com/GoSim-25-26J-441/kinfit/pkg/logger"
)

// maxBodyBytes caps POST /v1/fits request bodies
const maxBodyBytes = 4 << 20

type HTTPServer struct {
	mux      *http.ServeMux
	store    *FitStore
	Executor *FitExecutor
	metrics  *Metrics
	limiter  *rate.Limiter
}

// NewHTTPServer wires the REST routes. rps <= 0 disables rate limiting of
// the /v1/fits routes.
func NewHTTPServer(store *FitStore, executor *FitExecutor, metrics *Metrics, rps float64, burst int) *HTTPServer {
	s := &HTTPServer{
		mux:      http.NewServeMux(),
		store:    store,
		Executor: executor,
		metrics:  metrics,
	}
	if rps > 0 {
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}

	s.mux.HandleFunc("/healthz", s.instrument("healthz", s.handleHealthz))
	s.mux.HandleFunc("/v1/models", s.instrument("models", s.handleModels))
	s.mux.HandleFunc("/v1/datasets", s.instrument("datasets", s.handleDatasets))
	s.mux.HandleFunc("/v1/fits", s.instrument("fits", s.limit(s.handleFits)))
	s.mux.HandleFunc("/v1/fits/", s.instrument("fit", s.limit(s.handleFitByID)))
	s.mux.Handle("/metrics", metrics.Handler())

	return s
}

func (s *HTTPServer) Handler() http.Handler {
	return s.mux
}

// statusRecorder captures the response code for request metrics
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *HTTPServer) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next(rec, r)
		s.metrics.request(route, rec.code)
	}
}

func (s *HTTPServer) limit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			s.metrics.rateLimited.Inc()
			w.Header().Set("Retry-After", "1")
			s.writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next(w, r)
	}
}

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleModels handles GET /v1/models
func (s *HTTPServer) handleModels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"models": modelDescriptions()})
}

// handleDatasets handles GET /v1/datasets
func (s *HTTPServer) handleDatasets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	out := make([]map[string]any, 0, len(dataset.Names()))
	for _, name := range dataset.Names() {
		set, err := dataset.Load(name)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		out = append(out, map[string]any{
			"name":        name,
			"points":      len(set),
			"sources":     set.Sources(),
			"description": dataset.Describe(name),
		})
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"datasets": out})
}

// handleFits handles /v1/fits
func (s *HTTPServer) handleFits(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateFit(w, r)
	case http.MethodGet:
		s.handleListFits(w, r)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleCreateFit handles POST /v1/fits. The fit runs synchronously unless
// the query has wait=false.
func (s *HTTPServer) handleCreateFit(w http.ResponseWriter, r *http.Request) {
	var req FitRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	wait := true
	if v := r.URL.Query().Get("wait"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid wait parameter: "+v)
			return
		}
		wait = parsed
	}

	rec, err := s.Executor.Submit(r.Context(), req, wait)
	if err != nil {
		s.writeError(w, httpStatus(err), err.Error())
		return
	}

	code := http.StatusCreated
	if !wait {
		code = http.StatusAccepted
	}
	s.writeJSON(w, code, map[string]any{"fit": rec})
}

// handleListFits handles GET /v1/fits with pagination and status filtering
func (s *HTTPServer) handleListFits(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
			// Cap at reasonable maximum
			if limit > 1000 {
				limit = 1000
			}
		}
	}

	offset := 0
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if parsed, err := strconv.Atoi(offsetStr); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	statusFilter, err := ParseStatus(strings.ToLower(r.URL.Query().Get("status")))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	fits := s.store.List(limit, offset, statusFilter)
	s.writeJSON(w, http.StatusOK, map[string]any{
		"fits": fits,
		"pagination": map[string]any{
			"limit":  limit,
			"offset": offset,
			"count":  len(fits),
		},
	})
}

// handleFitByID handles GET /v1/fits/{id}
func (s *HTTPServer) handleFitByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/fits/")
	if id == "" {
		s.writeError(w, http.StatusBadRequest, "fit ID is required")
		return
	}
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rec, ok := s.store.Get(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, "fit not found")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"fit": rec})
}

// Helper functions

func (s *HTTPServer) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

func (s *HTTPServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]any{
		"error": message,
	})
}

// modelDescriptions lists every registered model with its parameter names
func modelDescriptions() []map[string]any {
	names := kinetics.ModelNames()
	out := make([]map[string]any, 0, len(names))
	for _, name := range names {
		m, err := kinetics.NewModel(name)
		if err != nil {
			continue
		}
		out = append(out, map[string]any{
			"name":   m.Name(),
			"params": m.ParamNames(),
		})
	}
	return out
}
