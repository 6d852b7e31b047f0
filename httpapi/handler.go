package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/viant/digestius/proposal"
	"github.com/viant/digestius/store"
)

// Reader reads stored digests, an empty corpus selects the only corpus storing kind and tier
type Reader interface {
	Artifact(ctx context.Context, corpus, kind, tier string) (string, error)
	Digest(ctx context.Context, corpus, kind, tier, id string) (*store.Digest, error)
	Runs(ctx context.Context, limit int) ([]store.Run, error)
}

// Handler serves digests over HTTP
type Handler struct {
	reader Reader
	logf   func(format string, args ...any)
}

// NewHandler creates a handler
func NewHandler(reader Reader, logf func(format string, args ...any)) *Handler {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Handler{reader: reader, logf: logf}
}

// Summaries writes the artifact text of a kind and tier, the corpus query parameter picks one of several corpora
func (h *Handler) Summaries(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	kind, tier, ok := h.selector(w, vars["kind"], vars["tier"])
	if !ok {
		return
	}
	text, err := h.reader.Artifact(r.Context(), r.URL.Query().Get("corpus"), kind.String(), tier.Name)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

// Proposal writes one digest record, the tier query parameter defaults to short
func (h *Handler) Proposal(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	tierName := r.URL.Query().Get("tier")
	if tierName == "" {
		tierName = proposal.Tiers()[0].Name
	}
	kind, tier, ok := h.selector(w, vars["kind"], tierName)
	if !ok {
		return
	}
	digest, err := h.reader.Digest(r.Context(), r.URL.Query().Get("corpus"), kind.String(), tier.Name, vars["id"])
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(digest.Body))
		return
	}
	h.respondJSON(w, http.StatusOK, digest)
}

// Runs lists recent runs, newest first
func (h *Handler) Runs(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if value := r.URL.Query().Get("limit"); value != "" {
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		limit = n
	}
	runs, err := h.reader.Runs(r.Context(), limit)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if runs == nil {
		runs = []store.Run{}
	}
	h.respondJSON(w, http.StatusOK, runs)
}

func (h *Handler) selector(w http.ResponseWriter, kindName, tierName string) (proposal.Kind, proposal.Tier, bool) {
	kind, err := proposal.ParseKind(kindName)
	if err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return kind, proposal.Tier{}, false
	}
	tier, err := proposal.TierByName(tierName)
	if err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return kind, tier, false
	}
	return kind, tier, true
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logf("http encode failed err=%v", err)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.respondJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	case errors.Is(err, store.ErrAmbiguous):
		h.respondJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}
	h.logf("http error method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	h.respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}
