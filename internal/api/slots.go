package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/nexla-ia/Centro-Terap-utico-Bem-Estar/internal/database"
	"github.com/nexla-ia/Centro-Terap-utico-Bem-Estar/internal/metrics"
	"github.com/nexla-ia/Centro-Terap-utico-Bem-Estar/internal/models"
)

// GenerateSlotsRequest is the request body for POST /api/slots/generate.
type GenerateSlotsRequest struct {
	StartDate string `json:"start_date"` // Format: YYYY-MM-DD
	EndDate   string `json:"end_date"`   // Format: YYYY-MM-DD
}

// BlockSlotsRequest is the request body for POST /api/slots/block.
type BlockSlotsRequest struct {
	Date   string   `json:"date"`  // Format: YYYY-MM-DD
	Times  []string `json:"times"` // Format: HH:MM
	Reason string   `json:"reason,omitempty"`
}

// UpdateSlotRequest is the request body for PATCH /api/slots/{id}.
// Omitted fields are left untouched.
type UpdateSlotRequest struct {
	Status         *string `json:"status,omitempty"`
	BookingID      *string `json:"booking_id,omitempty"`
	ClearBookingID bool    `json:"clear_booking_id,omitempty"`
	BlockedReason  *string `json:"blocked_reason,omitempty"`
}

// handleGetSlots returns every slot of a date regardless of status.
// GET /api/slots?date=YYYY-MM-DD
func (s *HTTPServer) handleGetSlots(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("slots_all")

	date := r.URL.Query().Get("date")
	if err := models.ValidateDate(date); err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
		return
	}

	slots, err := s.engine.GetAllSlots(r.Context(), date)
	if err != nil {
		s.logger.Error().Err(err).Str("date", date).Msg("list slots failed")
		writeError(w, http.StatusInternalServerError, "failed to list slots")
		return
	}
	if slots == nil {
		slots = []models.Slot{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"slots": slots})
}

// handleGetAvailableSlots returns the date's bookable slots, served
// from the Redis cache when warm.
// GET /api/slots/available?date=YYYY-MM-DD
func (s *HTTPServer) handleGetAvailableSlots(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("slots_available")

	date := r.URL.Query().Get("date")
	if err := models.ValidateDate(date); err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
		return
	}

	if slots, ok := s.cache.GetAvailable(r.Context(), date); ok {
		writeJSON(w, http.StatusOK, map[string]any{"slots": slots, "cached": true})
		return
	}

	slots, err := s.engine.GetAvailableSlots(r.Context(), date)
	if err != nil {
		s.logger.Error().Err(err).Str("date", date).Msg("list available slots failed")
		writeError(w, http.StatusInternalServerError, "failed to list slots")
		return
	}
	if slots == nil {
		slots = []models.Slot{}
	}
	s.cache.SetAvailable(r.Context(), date, slots)
	writeJSON(w, http.StatusOK, map[string]any{"slots": slots})
}

// handleGenerateSlots fills the slot grid over a date range.
// POST /api/slots/generate
func (s *HTTPServer) handleGenerateSlots(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("slots_generate")

	var req GenerateSlotsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.StartDate == "" || req.EndDate == "" {
		writeError(w, http.StatusBadRequest, "start_date and end_date are required")
		return
	}
	if err := validateRange(req.StartDate, req.EndDate); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.engine.GenerateSlots(r.Context(), req.StartDate, req.EndDate)
	if err != nil {
		s.logger.Error().Err(err).Msg("slot generation failed")
		writeError(w, http.StatusInternalServerError, "slot generation failed")
		return
	}

	s.cache.InvalidateAll(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"created": created})
}

// handleBlockSlots blocks specific times on a date.
// POST /api/slots/block
func (s *HTTPServer) handleBlockSlots(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("slots_block")

	var req BlockSlotsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Date == "" || len(req.Times) == 0 {
		writeError(w, http.StatusBadRequest, "date and times are required")
		return
	}

	if err := s.engine.SaveBlockedSlots(r.Context(), req.Date, req.Times, req.Reason); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.cache.InvalidateDate(r.Context(), req.Date)
	writeJSON(w, http.StatusOK, map[string]any{"blocked": len(req.Times)})
}

// handleUpdateSlot merges fields into one slot.
// PATCH /api/slots/{id}
func (s *HTTPServer) handleUpdateSlot(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("slots_update")

	id := r.PathValue("id")
	var req UpdateSlotRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Status != nil {
		switch *req.Status {
		case models.SlotStatusAvailable, models.SlotStatusBlocked, models.SlotStatusBooked:
		default:
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown slot status %q", *req.Status))
			return
		}
	}

	err := s.engine.UpdateSlot(r.Context(), id, database.SlotUpdate{
		Status:         req.Status,
		BookingID:      req.BookingID,
		ClearBookingID: req.ClearBookingID,
		BlockedReason:  req.BlockedReason,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("slot_id", id).Msg("slot update failed")
		writeError(w, http.StatusInternalServerError, "slot update failed")
		return
	}

	s.cache.InvalidateAll(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// handleResetSlots deletes every non-booked slot.
// DELETE /api/slots
func (s *HTTPServer) handleResetSlots(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("slots_reset")

	if err := s.engine.DeleteAllSlots(r.Context()); err != nil {
		s.logger.Error().Err(err).Msg("slot reset failed")
		writeError(w, http.StatusInternalServerError, "slot reset failed")
		return
	}

	s.cache.InvalidateAll(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func validateRange(startDate, endDate string) error {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return fmt.Errorf("invalid start_date format; expected YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return fmt.Errorf("invalid end_date format; expected YYYY-MM-DD")
	}
	if start.After(end) {
		return fmt.Errorf("start_date must be before or equal to end_date")
	}
	if int(end.Sub(start).Hours()/24) > MaxGenerateDaysRange {
		return fmt.Errorf("date range exceeds maximum of %d days", MaxGenerateDaysRange)
	}
	return nil
}
