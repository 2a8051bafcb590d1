// Package api exposes the scheduling engine over HTTP/JSON.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/nexla-ia/Centro-Terap-utico-Bem-Estar/internal/cache"
	"github.com/nexla-ia/Centro-Terap-utico-Bem-Estar/internal/database"
	"github.com/nexla-ia/Centro-Terap-utico-Bem-Estar/internal/scheduling"
)

// MaxGenerateDaysRange caps a single slot generation request.
const MaxGenerateDaysRange = 90

// HTTPServer serves the scheduling API.
type HTTPServer struct {
	engine *scheduling.Engine
	db     *database.DB
	cache  *cache.SlotCache
	logger *zerolog.Logger
	server *http.Server
}

// NewHTTPServer wires the engine and its stores into an HTTP server
// listening on the given port.
func NewHTTPServer(port int, engine *scheduling.Engine, db *database.DB, slotCache *cache.SlotCache, logger *zerolog.Logger) *HTTPServer {
	s := &HTTPServer{
		engine: engine,
		db:     db,
		cache:  slotCache,
		logger: logger,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/slots", s.handleGetSlots)
	mux.HandleFunc("GET /api/slots/available", s.handleGetAvailableSlots)
	mux.HandleFunc("POST /api/slots/generate", s.handleGenerateSlots)
	mux.HandleFunc("POST /api/slots/block", s.handleBlockSlots)
	mux.HandleFunc("PATCH /api/slots/{id}", s.handleUpdateSlot)
	mux.HandleFunc("DELETE /api/slots", s.handleResetSlots)

	mux.HandleFunc("POST /api/bookings", s.handleCreateBooking)
	mux.HandleFunc("GET /api/bookings", s.handleGetBookings)
	mux.HandleFunc("PATCH /api/bookings/{id}/status", s.handleUpdateBookingStatus)
	mux.HandleFunc("GET /api/bookings/export", s.handleExportBookings)

	mux.HandleFunc("GET /api/schedule", s.handleGetSchedule)
	mux.HandleFunc("PUT /api/schedule", s.handleSaveSchedule)
	mux.HandleFunc("GET /api/working-hours", s.handleGetWorkingHours)

	mux.HandleFunc("GET /api/services", s.handleGetServices)
	mux.HandleFunc("POST /api/services", s.handleCreateService)
	mux.HandleFunc("PUT /api/services/{id}", s.handleUpdateService)
	mux.HandleFunc("DELETE /api/services/{id}", s.handleDeleteService)

	mux.HandleFunc("GET /api/reviews", s.handleGetReviews)
	mux.HandleFunc("POST /api/reviews", s.handleCreateReview)
	mux.HandleFunc("POST /api/reviews/{id}/approve", s.handleApproveReview)
	mux.HandleFunc("DELETE /api/reviews/{id}", s.handleDeleteReview)

	mux.HandleFunc("GET /api/salon", s.handleGetSalon)

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routing handler, mainly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

// Start blocks serving requests until the listener fails or the server
// is shut down.
func (s *HTTPServer) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("API server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
