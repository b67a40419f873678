package web

import (
	"net/http"
	"time"

	"coachsite/internal/application/orchestrators"
	"coachsite/internal/domain/push"
)

func (s *Server) pushDeps() orchestrators.PushDeps {
	return orchestrators.PushDeps{
		PushStore:   s.Stores.Push,
		MemberStore: s.Stores.Members,
		Publisher:   s.Publisher,
		Email:       s.emailDeps(),
		GenerateID:  s.GenerateID,
		Now:         s.Now,
	}
}

// pushRequest is the JSON body for creating or editing a push message.
type pushRequest struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Audience string `json:"audience"`
}

func (p pushRequest) input() orchestrators.PushInput {
	return orchestrators.PushInput{Title: p.Title, Body: p.Body, Audience: p.Audience}
}

// handleListPush handles GET /api/admin/push?status=
func (s *Server) handleListPush(w http.ResponseWriter, r *http.Request) {
	messages, err := s.Stores.Push.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		internalError(w, err)
		return
	}
	if messages == nil {
		messages = []push.Message{}
	}
	writeJSON(w, http.StatusOK, messages)
}

// handleCreatePush handles POST /api/admin/push
func (s *Server) handleCreatePush(w http.ResponseWriter, r *http.Request) {
	var req pushRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	m, err := orchestrators.ExecuteCreatePush(r.Context(), req.input(), s.pushDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// handleUpdatePush handles PUT /api/admin/push/{id}
func (s *Server) handleUpdatePush(w http.ResponseWriter, r *http.Request) {
	var req pushRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	m, err := orchestrators.ExecuteUpdatePush(r.Context(), r.PathValue("id"), req.input(), s.pushDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// scheduleRequest carries an RFC 3339 send time. Empty unschedules.
type scheduleRequest struct {
	ScheduledAt string `json:"scheduledAt"`
}

// handleSchedulePush handles POST /api/admin/push/{id}/schedule
func (s *Server) handleSchedulePush(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	var at time.Time
	if req.ScheduledAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.ScheduledAt)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "scheduledAt must be RFC 3339")
			return
		}
		at = parsed
	}
	m, err := orchestrators.ExecuteSchedulePush(r.Context(), r.PathValue("id"), at, s.pushDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// handleSendPush handles POST /api/admin/push/{id}/send
func (s *Server) handleSendPush(w http.ResponseWriter, r *http.Request) {
	m, err := orchestrators.ExecuteSendPush(r.Context(), r.PathValue("id"), s.pushDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// handleDeletePush handles DELETE /api/admin/push/{id}
func (s *Server) handleDeletePush(w http.ResponseWriter, r *http.Request) {
	if err := orchestrators.ExecuteDeletePush(r.Context(), r.PathValue("id"), s.pushDeps()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
