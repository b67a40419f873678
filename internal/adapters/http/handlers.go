package web

import (
	"bytes"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"coachsite/internal/adapters/http/middleware"
	"coachsite/internal/application/orchestrators"
	"coachsite/internal/domain/content"
	"coachsite/internal/domain/outbox"
	"coachsite/internal/domain/push"
)

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// renderMarkdown converts md to HTML, falling back to escaped text.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

//go:embed templates/*.html
var templateFS embed.FS

// pageTemplates pairs each page with the shared layout. Request-bound
// functions are placeholders here and rebound on a clone per request.
var pageTemplates = mustParsePages(
	"home.html", "page.html", "stories.html", "resources.html",
	"booking.html", "booking_done.html", "quiz.html", "quiz_result.html", "not_found.html",
)

func baseFuncs() template.FuncMap {
	return template.FuncMap{
		"csrfField":      func() template.HTML { return "" },
		"isLoggedIn":     func() bool { return false },
		"renderMarkdown": renderMarkdown,
		"site":           content.Site,
		"year":           func() int { return time.Now().Year() },
	}
}

func mustParsePages(names ...string) map[string]*template.Template {
	out := make(map[string]*template.Template, len(names))
	for _, name := range names {
		out[name] = template.Must(template.New("layout.html").Funcs(baseFuncs()).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name))
	}
	return out
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// decodeJSON decodes the body into v and answers 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := strictDecode(r, v); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func isHTMLRequest(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") || strings.Contains(accept, "application/xhtml+xml")
}

// wantsJSON reports whether a public page request asked for JSON instead of HTML.
func wantsJSON(r *http.Request) bool {
	return !isHTMLRequest(r) && strings.Contains(r.Header.Get("Accept"), "application/json")
}

func isJSONBody(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// statusFor maps orchestrator and store errors onto HTTP status codes.
// Zero means the error is internal.
func statusFor(err error) int {
	switch {
	case errors.Is(err, orchestrators.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, sql.ErrNoRows):
		return http.StatusNotFound
	case errors.Is(err, orchestrators.ErrAlreadyMember),
		errors.Is(err, push.ErrAlreadySent),
		errors.Is(err, outbox.ErrNotRetryable):
		return http.StatusConflict
	case errors.Is(err, orchestrators.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, orchestrators.ErrAccountLocked):
		return http.StatusTooManyRequests
	}
	return 0
}

// writeError answers with the mapped status, or logs and hides internal errors.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	switch status {
	case 0:
		internalError(w, err)
	case http.StatusNotFound:
		writeJSONError(w, status, "not found")
	default:
		writeJSONError(w, status, err.Error())
	}
}

// render executes a page template with request-bound helpers.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	base, ok := pageTemplates[name]
	if !ok {
		internalError(w, errors.New("unknown template "+name))
		return
	}
	tpl, err := base.Clone()
	if err != nil {
		internalError(w, err)
		return
	}
	_, loggedIn := middleware.GetSessionFromContext(r.Context())
	now := s.Now()
	tpl.Funcs(template.FuncMap{
		"csrfField":  func() template.HTML { return csrf.TemplateField(r) },
		"isLoggedIn": func() bool { return loggedIn },
		"year":       func() int { return now.Year() },
	})

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// respond serves data as JSON when asked, otherwise as the named page.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	if wantsJSON(r) {
		writeJSON(w, status, data)
		return
	}
	s.render(w, r, status, name, data)
}
