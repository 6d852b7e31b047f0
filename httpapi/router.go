// Package httpapi serves stored digests read-only over HTTP.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// NewRouter mounts the digest routes, the health check and, when set, the metrics handler
func NewRouter(handler *Handler, metrics http.Handler) http.Handler {
	r := mux.NewRouter()
	r.Use(handler.logRequests)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)
	if metrics != nil {
		r.Handle("/metrics", metrics).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/v1").Subrouter()
	api.HandleFunc("/runs", handler.Runs).Methods(http.MethodGet)
	api.HandleFunc("/{kind}/summaries/{tier}", handler.Summaries).Methods(http.MethodGet)
	api.HandleFunc("/{kind}/proposals/{id}", handler.Proposal).Methods(http.MethodGet)
	return r
}

// NewServer wraps router with the timeouts used for the digest API
func NewServer(addr string, router http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.logf("http method=%s path=%s status=%d elapsed=%s", r.Method, r.URL.Path, rec.status, time.Since(started))
	})
}
