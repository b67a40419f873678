package web

import (
	"errors"
	"net/http"
	"strings"

	"coachsite/internal/application/orchestrators"
	"coachsite/internal/application/projections"
	"coachsite/internal/domain/content"
	"coachsite/internal/domain/quiz"
)

// emailDeps bundles the sender with the outbox that catches its failures.
func (s *Server) emailDeps() orchestrators.EmailDeps {
	return orchestrators.EmailDeps{
		Sender:      s.Email,
		OutboxStore: s.Stores.Outbox,
		GenerateID:  s.GenerateID,
		Now:         s.Now,
	}
}

func embeddableVideos() []content.ShortVideo {
	var out []content.ShortVideo
	for _, v := range content.ShortVideos() {
		if v.IsEmbeddable() || v.LinkURL != "" {
			out = append(out, v)
		}
	}
	return out
}

// handleHome handles GET /
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, http.StatusOK, "home.html", map[string]any{
		"site":          content.Site(),
		"introFeatures": content.IntroFeatures(),
		"introPreview":  content.IntroPreview(),
		"testimonials":  content.Testimonials(),
		"quote":         content.QuoteOfDay(s.Now()),
		"videos":        embeddableVideos(),
	})
}

// handlePage handles GET /about, /method and /privacy.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	page, ok := content.PageBySlug(strings.TrimPrefix(r.URL.Path, "/"))
	if !ok {
		s.handleNotFound(w, r)
		return
	}
	data := map[string]any{
		"title":       page.Title,
		"description": page.Description,
		"page":        page,
	}
	if page.Slug == content.PageAbout {
		data["transformations"] = content.AboutTransformations()
	}
	s.respond(w, r, http.StatusOK, "page.html", data)
}

// handleStories handles GET /stories
func (s *Server) handleStories(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, http.StatusOK, "stories.html", map[string]any{
		"title":   "學員故事",
		"stories": content.Stories(),
		"gallery": content.GalleryPhotos(),
	})
}

// handleResources handles GET /resources
func (s *Server) handleResources(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, http.StatusOK, "resources.html", map[string]any{
		"title":     "免費資源",
		"resources": content.Resources(),
		"quote":     content.QuoteOfDay(s.Now()),
		"videos":    embeddableVideos(),
	})
}

// bookingForm is the booking form body, as JSON or form fields.
type bookingForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// handleBookingForm handles GET /booking
func (s *Server) handleBookingForm(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, http.StatusOK, "booking.html", map[string]any{
		"title":    "預約陪跑",
		"features": content.BookingFeatures(),
		"form":     bookingForm{},
	})
}

// handleBookingSubmit handles POST /booking from the form or as JSON.
func (s *Server) handleBookingSubmit(w http.ResponseWriter, r *http.Request) {
	jsonMode := isJSONBody(r)
	var form bookingForm
	if jsonMode {
		if !decodeJSON(w, r, &form) {
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		form = bookingForm{Name: r.FormValue("name"), Email: r.FormValue("email"), Message: r.FormValue("message")}
	}

	b, err := orchestrators.ExecuteSubmitBooking(r.Context(), orchestrators.SubmitBookingInput{
		Name: form.Name, Email: form.Email, Message: form.Message,
	}, orchestrators.SubmitBookingDeps{
		BookingStore: s.Stores.Bookings,
		Email:        s.emailDeps(),
		NotifyEmail:  s.NotifyEmail,
		AdminURL:     strings.TrimRight(s.BaseURL, "/") + "/admin/bookings",
		GenerateID:   s.GenerateID,
		Now:          s.Now,
	})
	switch {
	case err == nil:
	case jsonMode:
		writeError(w, err)
		return
	case errors.Is(err, orchestrators.ErrValidation):
		s.render(w, r, http.StatusBadRequest, "booking.html", map[string]any{
			"title":    "預約陪跑",
			"features": content.BookingFeatures(),
			"form":     form,
			"error":    "請確認姓名與電子信箱是否填寫正確。",
		})
		return
	default:
		internalError(w, err)
		return
	}

	if jsonMode {
		writeJSON(w, http.StatusCreated, b)
		return
	}
	s.render(w, r, http.StatusOK, "booking_done.html", map[string]any{"title": "預約完成", "booking": b})
}

// handleQuiz handles GET /quiz
func (s *Server) handleQuiz(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, http.StatusOK, "quiz.html", map[string]any{
		"title":     "身體語言小測驗",
		"questions": quiz.Questions(),
	})
}

// quizSubmission is the JSON body for POST /quiz.
type quizSubmission struct {
	Answers map[string]string `json:"answers"`
}

// handleQuizSubmit handles POST /quiz. Form fields are named after question ids.
func (s *Server) handleQuizSubmit(w http.ResponseWriter, r *http.Request) {
	jsonMode := isJSONBody(r)
	answers := map[string]string{}
	if jsonMode {
		var body quizSubmission
		if !decodeJSON(w, r, &body) {
			return
		}
		for k, v := range body.Answers {
			answers[k] = v
		}
	} else {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		for _, q := range quiz.Questions() {
			if v := r.PostForm.Get(q.ID); v != "" {
				answers[q.ID] = v
			}
		}
	}

	if err := quiz.ValidateAnswers(answers); err != nil {
		if jsonMode {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.render(w, r, http.StatusBadRequest, "quiz.html", map[string]any{
			"title":     "身體語言小測驗",
			"questions": quiz.Questions(),
			"error":     "有些答案無法辨識，請再選一次。",
		})
		return
	}

	outcome := quiz.Compute(answers)
	if jsonMode {
		writeJSON(w, http.StatusOK, outcome)
		return
	}
	s.render(w, r, http.StatusOK, "quiz_result.html", map[string]any{"title": outcome.Result.Title, "outcome": outcome})
}

// contentSections are the public JSON content tables under /api/content/.
func (s *Server) contentSections() map[string]func() any {
	return map[string]func() any{
		"site":             func() any { return content.Site() },
		"testimonials":     func() any { return content.Testimonials() },
		"stories":          func() any { return content.Stories() },
		"gallery":          func() any { return content.GalleryPhotos() },
		"resources":        func() any { return content.Resources() },
		"quotes":           func() any { return content.DailyQuotes() },
		"quote-of-day":     func() any { return map[string]string{"quote": content.QuoteOfDay(s.Now())} },
		"booking-features": func() any { return content.BookingFeatures() },
		"intro": func() any {
			return map[string]any{"features": content.IntroFeatures(), "preview": content.IntroPreview()}
		},
		"about-transformations": func() any { return content.AboutTransformations() },
		"videos":                func() any { return content.ShortVideos() },
		"note-templates":        func() any { return content.ProgressNoteTemplates() },
		"quiz": func() any {
			return map[string]any{"questions": quiz.Questions(), "results": quiz.Results()}
		},
		"pages": func() any {
			out := make([]content.Page, 0, 3)
			for _, slug := range []string{content.PageAbout, content.PageMethod, content.PagePrivacy} {
				p, _ := content.PageBySlug(slug)
				out = append(out, p)
			}
			return out
		},
	}
}

// handleContent handles GET /api/content/{section}
func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	section, ok := s.contentSections()[r.PathValue("section")]
	if !ok {
		writeJSONError(w, http.StatusNotFound, "unknown content section")
		return
	}
	writeJSON(w, http.StatusOK, section())
}

// handleSiteTheme handles GET /api/site/theme
func (s *Server) handleSiteTheme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, projections.QueryGetTheme(r.Context(), s.Stores.Settings))
}

// handleThemeCSS handles GET /theme.css with the stored colours as CSS variables.
func (s *Server) handleThemeCSS(w http.ResponseWriter, r *http.Request) {
	t := projections.QueryGetTheme(r.Context(), s.Stores.Settings)
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write([]byte(t.CSS()))
}

// handleNotFound answers unknown paths: JSON under /api/, a page otherwise.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") || wantsJSON(r) {
		writeJSONError(w, http.StatusNotFound, "not found")
		return
	}
	s.render(w, r, http.StatusNotFound, "not_found.html", map[string]any{"title": "找不到頁面"})
}

// handleHealth handles GET /healthz
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.Health != nil {
		if err := s.Health(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
