package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rustyeddy/fxrisk/correlation"
	"github.com/rustyeddy/fxrisk/internal/service"
	"github.com/rustyeddy/fxrisk/journal"
	"github.com/rustyeddy/fxrisk/risk"
)

const (
	journalIDHeader = "X-Journal-Id"
	maxBodyBytes    = 1 << 20
	maxJournalLimit = 500
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"version": s.version,
		"service": "fxrisk",
	})
}

// CorrelationsResponse lists every pair in the engine's table.
type CorrelationsResponse struct {
	Symbols []string           `json:"symbols"`
	Pairs   []correlation.Pair `json:"pairs"`
}

func (s *Server) handleCorrelations(w http.ResponseWriter, r *http.Request) {
	t := s.svc.Engine().Table()
	s.writeJSON(w, http.StatusOK, CorrelationsResponse{
		Symbols: t.Symbols(),
		Pairs:   t.Pairs(),
	})
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req service.EvaluateRequest
	if !s.decode(w, r, &req) {
		return
	}
	out, entryID, err := s.svc.Evaluate(r.Context(), req)
	s.respond(w, out, entryID, err)
}

func (s *Server) handleSize(w http.ResponseWriter, r *http.Request) {
	var req risk.SizingRequest
	if !s.decode(w, r, &req) {
		return
	}
	out, entryID, err := s.svc.Size(r.Context(), req)
	s.respond(w, out, entryID, err)
}

func (s *Server) handleSignals(w http.ResponseWriter, r *http.Request) {
	var req service.SignalsRequest
	if !s.decode(w, r, &req) {
		return
	}
	out, entryID, err := s.svc.Signals(r.Context(), req)
	s.respond(w, out, entryID, err)
}

func (s *Server) handleTrailing(w http.ResponseWriter, r *http.Request) {
	var req service.TrailingRequest
	if !s.decode(w, r, &req) {
		return
	}
	out, entryID, err := s.svc.Trailing(r.Context(), req)
	s.respond(w, out, entryID, err)
}

func (s *Server) handleSRStop(w http.ResponseWriter, r *http.Request) {
	var req service.SRStopRequest
	if !s.decode(w, r, &req) {
		return
	}
	out, entryID, err := s.svc.SRStop(r.Context(), req)
	s.respond(w, out, entryID, err)
}

func (s *Server) handleJournalList(w http.ResponseWriter, r *http.Request) {
	f := journal.Filter{Kind: journal.Kind(r.URL.Query().Get("kind"))}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxJournalLimit {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("limit must be between 1 and %d", maxJournalLimit))
			return
		}
		f.Limit = n
	}

	entries, err := s.svc.Journal().List(r.Context(), f)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to list journal")
		s.writeError(w, http.StatusInternalServerError, "failed to list journal")
		return
	}
	if entries == nil {
		entries = []journal.Entry{}
	}
	s.writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleJournalGet(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "id")
	e, err := s.svc.Journal().Get(r.Context(), entryID)
	if errors.Is(err, journal.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		s.log.Error().Err(err).Str("id", entryID).Msg("Failed to read journal entry")
		s.writeError(w, http.StatusInternalServerError, "failed to read journal entry")
		return
	}
	s.writeJSON(w, http.StatusOK, e)
}

// decode reads a JSON body into v, writing a 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func (s *Server) respond(w http.ResponseWriter, out interface{}, entryID string, err error) {
	if errors.Is(err, service.ErrInvalidRequest) {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.log.Error().Err(err).Msg("Request failed")
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if entryID != "" {
		w.Header().Set(journalIDHeader, entryID)
	}
	s.writeJSON(w, http.StatusOK, out)
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
