package web

import (
	"log/slog"
	"net/http"
	"time"

	"coachsite/internal/adapters/http/middleware"
	"coachsite/internal/application/orchestrators"
)

// loginRequest is the JSON body for POST /api/admin/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// sessionResponse describes the signed-in admin.
type sessionResponse struct {
	Token     string    `json:"token,omitempty"`
	AccountID string    `json:"accountId"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// handleLogin handles POST /api/admin/login. The token is returned in the body
// for bearer use and set as an HttpOnly cookie for the browser.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		Email: req.Email, Password: req.Password,
	}, orchestrators.LoginDeps{
		AccountStore: s.Stores.Accounts,
		Now:          s.Now,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	token, sess, err := s.Tokens.Issue(result.AccountID, result.Email, result.Role)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token, s.Tokens.TTL(), s.SecureCookies)
	writeJSON(w, http.StatusOK, sessionResponse{
		Token: token, AccountID: sess.AccountID, Email: sess.Email, Role: sess.Role, ExpiresAt: sess.ExpiresAt,
	})
}

// handleLogout handles POST /api/admin/logout. Logging out without a session is a no-op.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
		s.Tokens.Revoke(sess)
		slog.Info("auth_event", "event", "logout", "email", sess.Email)
	}
	middleware.ClearSessionCookie(w, s.SecureCookies)
	w.WriteHeader(http.StatusNoContent)
}

// handleMe handles GET /api/admin/me. Cookie sessions read the CSRF token for
// unsafe calls from the X-CSRF-Token response header.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	writeJSON(w, http.StatusOK, sessionResponse{
		AccountID: sess.AccountID, Email: sess.Email, Role: sess.Role, ExpiresAt: sess.ExpiresAt,
	})
}
