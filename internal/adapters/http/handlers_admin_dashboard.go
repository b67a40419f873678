package web

import (
	"net/http"
	"strconv"
	"time"

	"coachsite/internal/application/projections"
)

// taipei is the coach's calendar zone; calendar days are counted in it.
var taipei = time.FixedZone("Asia/Taipei", 8*60*60)

// handleDashboard handles GET /api/admin/dashboard
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryGetDashboard(r.Context(), projections.GetDashboardQuery{Now: s.Now()}, projections.GetDashboardDeps{
		BookingStore: s.Stores.Bookings,
		MemberStore:  s.Stores.Members,
		TaskStore:    s.Stores.Tasks,
		PushStore:    s.Stores.Push,
		SettingStore: s.Stores.Settings,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleCalendar handles GET /api/admin/calendar?week=N&member=ID
// week is clamped to [0, projections.MaxWeekOffset].
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	week, _ := strconv.Atoi(q.Get("week"))
	week = min(max(week, 0), projections.MaxWeekOffset)
	result, err := projections.QueryGetWeekCalendar(r.Context(), projections.GetWeekCalendarQuery{
		WeekOffset: week,
		MemberID:   q.Get("member"),
		Now:        s.Now().In(taipei),
	}, projections.GetWeekCalendarDeps{
		TaskStore:    s.Stores.Tasks,
		BookingStore: s.Stores.Bookings,
		MemberStore:  s.Stores.Members,
		SettingStore: s.Stores.Settings,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handlePerf handles GET /api/admin/perf?minutes=N
func (s *Server) handlePerf(w http.ResponseWriter, r *http.Request) {
	if s.Perf == nil {
		writeJSONError(w, http.StatusNotFound, "performance collection disabled")
		return
	}
	minutes, err := strconv.Atoi(r.URL.Query().Get("minutes"))
	if err != nil || minutes <= 0 || minutes > 24*60 {
		minutes = 60
	}
	writeJSON(w, http.StatusOK, s.Perf.Snapshot(s.Now().Add(-time.Duration(minutes)*time.Minute), 10))
}
