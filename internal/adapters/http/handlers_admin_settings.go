package web

import (
	"net/http"

	"coachsite/internal/application/orchestrators"
	"coachsite/internal/application/projections"
	"coachsite/internal/domain/settings"
	"coachsite/internal/domain/theme"
)

func (s *Server) settingsDeps() orchestrators.SettingsDeps {
	return orchestrators.SettingsDeps{
		SettingStore: s.Stores.Settings,
		GenerateID:   s.GenerateID,
		Now:          s.Now,
	}
}

// handleGetSettings handles GET /api/admin/settings
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, projections.QueryGetSiteSettings(r.Context(), s.Stores.Settings, s.GenerateID))
}

// handleSaveTheme handles PUT /api/admin/settings/theme
func (s *Server) handleSaveTheme(w http.ResponseWriter, r *http.Request) {
	var t theme.SiteTheme
	if !decodeJSON(w, r, &t) {
		return
	}
	saved, err := orchestrators.ExecuteSaveTheme(r.Context(), t, s.settingsDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// handleResetTheme handles DELETE /api/admin/settings/theme
func (s *Server) handleResetTheme(w http.ResponseWriter, r *http.Request) {
	saved, err := orchestrators.ExecuteResetTheme(r.Context(), s.settingsDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// handleSaveTagColors handles PUT /api/admin/settings/tag-colors
func (s *Server) handleSaveTagColors(w http.ResponseWriter, r *http.Request) {
	var colors settings.TagColors
	if !decodeJSON(w, r, &colors) {
		return
	}
	saved, err := orchestrators.ExecuteSaveTagColors(r.Context(), colors, s.settingsDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

type staleDaysRequest struct {
	Days int `json:"days"`
}

// handleSaveStaleDays handles PUT /api/admin/settings/stale-days
func (s *Server) handleSaveStaleDays(w http.ResponseWriter, r *http.Request) {
	var req staleDaysRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := orchestrators.ExecuteSaveStaleDays(r.Context(), req.Days, s.settingsDeps()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// handleSaveLineOA handles PUT /api/admin/settings/line-oa. The secret comes back masked.
func (s *Server) handleSaveLineOA(w http.ResponseWriter, r *http.Request) {
	var cfg settings.LineOAConfig
	if !decodeJSON(w, r, &cfg) {
		return
	}
	saved, err := orchestrators.ExecuteSaveLineOAConfig(r.Context(), cfg, s.settingsDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}
