package web

import (
	"errors"
	"net/http"
	"strconv"

	"coachsite/internal/domain/outbox"
)

// errOutboxDisabled answers retry and abandon when no processor is wired.
var errOutboxDisabled = errors.New("outbox processing disabled")

// handleListOutbox handles GET /api/admin/outbox?status=&limit=
// Status defaults to failed; "all" lists every entry.
func (s *Server) handleListOutbox(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 50
	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n > 0 && n <= 100 {
		limit = n
	}

	status := q.Get("status")
	switch status {
	case "":
		status = outbox.StatusFailed
	case "all":
		status = ""
	}

	var entries []outbox.Entry
	var err error
	if status == outbox.StatusFailed {
		entries, err = s.Stores.Outbox.ListFailed(r.Context(), limit)
	} else {
		entries, err = s.Stores.Outbox.List(r.Context(), status, limit)
	}
	if err != nil {
		internalError(w, err)
		return
	}
	if entries == nil {
		entries = []outbox.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// handleOutboxStats handles GET /api/admin/outbox/stats
func (s *Server) handleOutboxStats(w http.ResponseWriter, r *http.Request) {
	counts, err := s.Stores.Outbox.CountByStatus(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

// handleRetryOutbox handles POST /api/admin/outbox/{id}/retry
func (s *Server) handleRetryOutbox(w http.ResponseWriter, r *http.Request) {
	if s.Outbox == nil {
		writeJSONError(w, http.StatusServiceUnavailable, errOutboxDisabled.Error())
		return
	}
	entry, err := s.Outbox.ProcessSingle(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// handleAbandonOutbox handles POST /api/admin/outbox/{id}/abandon
func (s *Server) handleAbandonOutbox(w http.ResponseWriter, r *http.Request) {
	if s.Outbox == nil {
		writeJSONError(w, http.StatusServiceUnavailable, errOutboxDisabled.Error())
		return
	}
	id := r.PathValue("id")
	if err := s.Outbox.AbandonEntry(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": outbox.StatusAbandoned})
}

// handleDeleteOutbox handles DELETE /api/admin/outbox/{id} for finished entries.
func (s *Server) handleDeleteOutbox(w http.ResponseWriter, r *http.Request) {
	if s.Outbox == nil {
		writeJSONError(w, http.StatusServiceUnavailable, errOutboxDisabled.Error())
		return
	}
	if err := s.Outbox.DeleteEntry(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
