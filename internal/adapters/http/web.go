package web

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"coachsite/internal/adapters/broker"
	"coachsite/internal/adapters/email"
	"coachsite/internal/adapters/http/middleware"
	"coachsite/internal/adapters/http/perf"
	"coachsite/internal/adapters/objectstore"
	accountStore "coachsite/internal/adapters/storage/account"
	bookingStore "coachsite/internal/adapters/storage/booking"
	mediaStore "coachsite/internal/adapters/storage/media"
	memberStore "coachsite/internal/adapters/storage/member"
	outboxStore "coachsite/internal/adapters/storage/outbox"
	pushStore "coachsite/internal/adapters/storage/push"
	noteStore "coachsite/internal/adapters/storage/sessionnote"
	settingStore "coachsite/internal/adapters/storage/setting"
	taskStore "coachsite/internal/adapters/storage/task"
	"coachsite/internal/adapters/telemetry"
	"coachsite/internal/application/orchestrators"
)

// Stores holds all storage dependencies.
type Stores struct {
	Accounts accountStore.Store
	Bookings bookingStore.Store
	Members  memberStore.Store
	Tasks    taskStore.Store
	Notes    noteStore.Store
	Push     pushStore.Store
	Media    mediaStore.Store
	Settings settingStore.Store
	Outbox   outboxStore.Store
}

// Deps holds everything the HTTP layer needs. Nil integrations disable the
// feature that uses them.
type Deps struct {
	Stores    Stores
	Email     email.Sender
	Objects   objectstore.Store
	Publisher broker.Publisher
	Outbox    *orchestrators.OutboxProcessor
	Tokens    *middleware.Tokens
	Perf      *perf.Collector
	Metrics   prometheus.Gatherer
	// Health reports whether the service can serve traffic.
	Health func(ctx context.Context) error

	NotifyEmail    string // coach inbox for booking notifications
	BaseURL        string
	CSRFKey        []byte // 32 bytes
	SecureCookies  bool
	TrustedOrigins []string
	RateLimit      int // unsafe requests per RateWindow per IP
	RateWindow     time.Duration
	SlowRequest    time.Duration
	UploadDir      string // served under /uploads/ when set

	Now        func() time.Time
	GenerateID func() string
}

// Server carries the dependencies shared by every handler.
type Server struct {
	Deps
}

// NewServer fills defaults for clock and id generation.
func NewServer(deps Deps) *Server {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.GenerateID == nil {
		deps.GenerateID = generateID
	}
	if deps.RateLimit <= 0 {
		deps.RateLimit = 10
	}
	if deps.RateWindow <= 0 {
		deps.RateWindow = time.Minute
	}
	return &Server{Deps: deps}
}

// NewMux wires HTTP handlers for the app.
func NewMux(deps Deps) http.Handler {
	s := NewServer(deps)

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	limiter := middleware.NewRateLimiter(s.RateLimit, s.RateWindow)

	// Timing must see the mux's r.Pattern, so it wraps the mux directly.
	// Order, inner to outer: Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> tracing
	return middleware.Chain(mux,
		middleware.Timing(s.Perf, s.SlowRequest),
		middleware.RateLimit(limiter),
		middleware.Auth(s.Tokens),
		middleware.CSRF(s.CSRFKey, s.SecureCookies, s.TrustedOrigins),
		middleware.SecurityHeaders,
		telemetry.Middleware,
	)
}

// registerRoutes maps every route onto its handler.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	admin := func(h http.HandlerFunc) http.Handler { return middleware.RequireAdmin(h) }

	// Public site
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /", s.handleNotFound)
	mux.HandleFunc("GET /about", s.handlePage)
	mux.HandleFunc("GET /method", s.handlePage)
	mux.HandleFunc("GET /privacy", s.handlePage)
	mux.HandleFunc("GET /stories", s.handleStories)
	mux.HandleFunc("GET /resources", s.handleResources)
	mux.HandleFunc("GET /booking", s.handleBookingForm)
	mux.HandleFunc("POST /booking", s.handleBookingSubmit)
	mux.HandleFunc("GET /quiz", s.handleQuiz)
	mux.HandleFunc("POST /quiz", s.handleQuizSubmit)
	mux.HandleFunc("GET /api/content/{section}", s.handleContent)
	mux.HandleFunc("GET /api/site/theme", s.handleSiteTheme)
	mux.HandleFunc("GET /theme.css", s.handleThemeCSS)
	if s.UploadDir != "" {
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.UploadDir))))
	}

	// Admin session
	mux.HandleFunc("POST /api/admin/login", s.handleLogin)
	mux.HandleFunc("POST /api/admin/logout", s.handleLogout)
	mux.Handle("GET /api/admin/me", admin(s.handleMe))

	// Admin overview
	mux.Handle("GET /api/admin/dashboard", admin(s.handleDashboard))
	mux.Handle("GET /api/admin/calendar", admin(s.handleCalendar))
	mux.Handle("GET /api/admin/perf", admin(s.handlePerf))

	// Bookings
	mux.Handle("GET /api/admin/bookings", admin(s.handleListBookings))
	mux.Handle("PATCH /api/admin/bookings/{id}", admin(s.handleUpdateBooking))
	mux.Handle("DELETE /api/admin/bookings/{id}", admin(s.handleDeleteBooking))
	mux.Handle("POST /api/admin/bookings/{id}/convert", admin(s.handleConvertBooking))

	// Members, notes and tasks
	mux.Handle("GET /api/admin/members", admin(s.handleListMembers))
	mux.Handle("POST /api/admin/members", admin(s.handleCreateMember))
	mux.Handle("POST /api/admin/members/line", admin(s.handleUpsertLineMember))
	mux.Handle("GET /api/admin/members/{id}", admin(s.handleMemberDetail))
	mux.Handle("PATCH /api/admin/members/{id}", admin(s.handleUpdateMember))
	mux.Handle("DELETE /api/admin/members/{id}", admin(s.handleDeleteMember))
	mux.Handle("GET /api/admin/members/{id}/notes", admin(s.handleListNotes))
	mux.Handle("POST /api/admin/members/{id}/notes", admin(s.handleAddNote))
	mux.Handle("DELETE /api/admin/notes/{id}", admin(s.handleDeleteNote))
	mux.Handle("POST /api/admin/members/{id}/tasks", admin(s.handleCreateTask))
	mux.Handle("GET /api/admin/tasks", admin(s.handleListTasks))
	mux.Handle("PATCH /api/admin/tasks/{id}", admin(s.handleUpdateTask))
	mux.Handle("DELETE /api/admin/tasks/{id}", admin(s.handleDeleteTask))

	// Push
	mux.Handle("GET /api/admin/push", admin(s.handleListPush))
	mux.Handle("POST /api/admin/push", admin(s.handleCreatePush))
	mux.Handle("PUT /api/admin/push/{id}", admin(s.handleUpdatePush))
	mux.Handle("POST /api/admin/push/{id}/schedule", admin(s.handleSchedulePush))
	mux.Handle("POST /api/admin/push/{id}/send", admin(s.handleSendPush))
	mux.Handle("DELETE /api/admin/push/{id}", admin(s.handleDeletePush))

	// Media
	mux.Handle("GET /api/admin/media", admin(s.handleListMedia))
	mux.Handle("POST /api/admin/media", admin(s.handleUploadMedia))
	mux.Handle("PATCH /api/admin/media/{id}", admin(s.handleUpdateMedia))
	mux.Handle("DELETE /api/admin/media/{id}", admin(s.handleDeleteMedia))

	// Settings
	mux.Handle("GET /api/admin/settings", admin(s.handleGetSettings))
	mux.Handle("PUT /api/admin/settings/theme", admin(s.handleSaveTheme))
	mux.Handle("DELETE /api/admin/settings/theme", admin(s.handleResetTheme))
	mux.Handle("PUT /api/admin/settings/tag-colors", admin(s.handleSaveTagColors))
	mux.Handle("PUT /api/admin/settings/stale-days", admin(s.handleSaveStaleDays))
	mux.Handle("PUT /api/admin/settings/line-oa", admin(s.handleSaveLineOA))

	// Outbox
	mux.Handle("GET /api/admin/outbox", admin(s.handleListOutbox))
	mux.Handle("GET /api/admin/outbox/stats", admin(s.handleOutboxStats))
	mux.Handle("POST /api/admin/outbox/{id}/retry", admin(s.handleRetryOutbox))
	mux.Handle("POST /api/admin/outbox/{id}/abandon", admin(s.handleAbandonOutbox))
	mux.Handle("DELETE /api/admin/outbox/{id}", admin(s.handleDeleteOutbox))

	// Operations
	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.Metrics != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.Metrics, promhttp.HandlerOpts{}))
	}
}

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}
