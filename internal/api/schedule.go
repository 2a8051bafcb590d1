package api

import (
	"net/http"

	"github.com/nexla-ia/Centro-Terap-utico-Bem-Estar/internal/metrics"
	"github.com/nexla-ia/Centro-Terap-utico-Bem-Estar/internal/models"
)

// handleGetSchedule returns the effective generation schedule.
// GET /api/schedule
func (s *HTTPServer) handleGetSchedule(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("schedule_get")

	sched, err := s.engine.GetDefaultSchedule(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("load schedule failed")
		writeError(w, http.StatusInternalServerError, "failed to load schedule")
		return
	}
	writeJSON(w, http.StatusOK, sched)
}

// handleSaveSchedule validates and persists the weekly template.
// PUT /api/schedule
func (s *HTTPServer) handleSaveSchedule(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("schedule_save")

	var sched models.DefaultSchedule
	if !decodeBody(w, r, &sched) {
		return
	}

	if err := s.engine.SaveDefaultSchedule(r.Context(), sched); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.cache.InvalidateAll(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// handleGetWorkingHours returns all seven weekday template entries.
// GET /api/working-hours
func (s *HTTPServer) handleGetWorkingHours(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("working_hours")

	hours, err := s.db.ListWorkingHours(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("list working hours failed")
		writeError(w, http.StatusInternalServerError, "failed to list working hours")
		return
	}
	if hours == nil {
		hours = []models.WorkingHours{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"working_hours": hours})
}
