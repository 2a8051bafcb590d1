package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nexla-ia/Centro-Terap-utico-Bem-Estar/internal/database"
	"github.com/nexla-ia/Centro-Terap-utico-Bem-Estar/internal/export"
	"github.com/nexla-ia/Centro-Terap-utico-Bem-Estar/internal/metrics"
	"github.com/nexla-ia/Centro-Terap-utico-Bem-Estar/internal/models"
	"github.com/nexla-ia/Centro-Terap-utico-Bem-Estar/internal/scheduling"
)

// UpdateBookingStatusRequest is the request body for
// PATCH /api/bookings/{id}/status.
type UpdateBookingStatusRequest struct {
	Status string `json:"status"`
}

// handleCreateBooking books services at a date/time.
// POST /api/bookings
func (s *HTTPServer) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("bookings_create")

	var req scheduling.CreateBookingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Customer.Name == "" || req.Customer.Phone == "" {
		writeError(w, http.StatusBadRequest, "customer name and phone are required")
		return
	}

	booking, err := s.engine.CreateBooking(r.Context(), req)
	if err != nil {
		if errors.Is(err, database.ErrSlotUnavailable) {
			writeError(w, http.StatusConflict, "time slot is not available")
			return
		}
		s.logger.Error().Err(err).Msg("booking creation failed")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.cache.InvalidateDate(r.Context(), booking.BookingDate)
	writeJSON(w, http.StatusCreated, booking)
}

// handleGetBookings lists bookings with customer and service details.
// GET /api/bookings?date=YYYY-MM-DD
func (s *HTTPServer) handleGetBookings(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("bookings_list")

	date := r.URL.Query().Get("date")
	bookings, err := s.engine.GetBookings(r.Context(), date)
	if err != nil {
		if date != "" && models.ValidateDate(date) != nil {
			writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
			return
		}
		s.logger.Error().Err(err).Msg("list bookings failed")
		writeError(w, http.StatusInternalServerError, "failed to list bookings")
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

// handleUpdateBookingStatus transitions a booking's lifecycle status.
// PATCH /api/bookings/{id}/status
func (s *HTTPServer) handleUpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("bookings_status")

	id := r.PathValue("id")
	var req UpdateBookingStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if !models.ValidBookingStatus(req.Status) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown booking status %q", req.Status))
		return
	}

	booking, err := s.engine.UpdateBookingStatus(r.Context(), id, req.Status)
	if err != nil {
		s.logger.Error().Err(err).Str("booking_id", id).Msg("booking status update failed")
		writeError(w, http.StatusInternalServerError, "failed to update booking")
		return
	}
	if booking == nil {
		writeError(w, http.StatusNotFound, "booking not found")
		return
	}

	s.cache.InvalidateDate(r.Context(), booking.BookingDate)
	writeJSON(w, http.StatusOK, booking)
}

// handleExportBookings streams an Excel report of bookings.
// GET /api/bookings/export?date=YYYY-MM-DD
func (s *HTTPServer) handleExportBookings(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("bookings_export")

	date := r.URL.Query().Get("date")
	bookings, err := s.engine.GetBookings(r.Context(), date)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	filename := fmt.Sprintf("bookings_%s.xlsx", time.Now().Format("20060102"))
	if date != "" {
		filename = fmt.Sprintf("bookings_%s.xlsx", date)
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := export.BookingsReport(w, bookings); err != nil {
		s.logger.Error().Err(err).Msg("bookings export failed")
	}
}
