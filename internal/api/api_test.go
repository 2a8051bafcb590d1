package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexla-ia/Centro-Terap-utico-Bem-Estar/internal/cache"
	"github.com/nexla-ia/Centro-Terap-utico-Bem-Estar/internal/database"
	"github.com/nexla-ia/Centro-Terap-utico-Bem-Estar/internal/events"
	"github.com/nexla-ia/Centro-Terap-utico-Bem-Estar/internal/models"
	"github.com/nexla-ia/Centro-Terap-utico-Bem-Estar/internal/scheduling"
)

// 2025-06-02 is a Monday.
const testDate = "2025-06-02"

type testServer struct {
	handler http.Handler
	db      *database.DB
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zerolog.Nop()
	db, err := database.New(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Seed(context.Background()))

	engine := scheduling.NewEngine(db, events.NewBus(), &logger)
	server := NewHTTPServer(0, engine, db, cache.NewSlotCache(nil, 0), &logger)
	return &testServer{handler: server.Handler(), db: db}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (s *testServer) serviceIDs(t *testing.T) []string {
	t.Helper()
	services, err := s.db.GetServices(context.Background())
	require.NoError(t, err)
	ids := make([]string, len(services))
	for i, svc := range services {
		ids[i] = svc.ID
	}
	return ids
}

func (s *testServer) generateSlots(t *testing.T) {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/slots/generate", map[string]string{
		"start_date": testDate,
		"end_date":   testDate,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestGenerateAndListSlots(t *testing.T) {
	srv := setupTestServer(t)
	srv.generateSlots(t)

	w := srv.do(t, http.MethodGet, "/api/slots/available?date="+testDate, nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[struct {
		Slots []models.Slot `json:"slots"`
	}](t, w)
	// Seeded hours are 08:00-18:00 with a 12:00-13:00 break and 30
	// minute slots: 20 grid steps minus 2 in the break.
	assert.Len(t, resp.Slots, 18)
	assert.Equal(t, "08:00", resp.Slots[0].TimeSlot)

	t.Run("missing date", func(t *testing.T) {
		w := srv.do(t, http.MethodGet, "/api/slots/available", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("generate validation", func(t *testing.T) {
		w := srv.do(t, http.MethodPost, "/api/slots/generate", map[string]string{"start_date": testDate})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = srv.do(t, http.MethodPost, "/api/slots/generate", map[string]string{
			"start_date": "2025-01-01", "end_date": "2025-12-31",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "exceeds maximum")
	})
}

func TestBookingLifecycle(t *testing.T) {
	srv := setupTestServer(t)
	srv.generateSlots(t)
	ids := srv.serviceIDs(t)

	createBody := map[string]any{
		"customer":    map[string]string{"name": "Maria Silva", "phone": "+5511999990001"},
		"date":        testDate,
		"time":        "08:00",
		"service_ids": ids[:2],
	}

	w := srv.do(t, http.MethodPost, "/api/bookings", createBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	booking := decode[models.Booking](t, w)
	assert.Equal(t, models.BookingStatusConfirmed, booking.Status)
	require.NotNil(t, booking.Customer)
	assert.Len(t, booking.Services, 2)

	t.Run("double booking conflicts", func(t *testing.T) {
		w := srv.do(t, http.MethodPost, "/api/bookings", createBody)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("list includes details", func(t *testing.T) {
		w := srv.do(t, http.MethodGet, "/api/bookings?date="+testDate, nil)
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[struct {
			Bookings []models.Booking `json:"bookings"`
		}](t, w)
		require.Len(t, resp.Bookings, 1)
		assert.Equal(t, booking.ID, resp.Bookings[0].ID)
		require.NotNil(t, resp.Bookings[0].Customer)
		assert.Equal(t, "Maria Silva", resp.Bookings[0].Customer.Name)
	})

	t.Run("status transition frees the slot", func(t *testing.T) {
		path := fmt.Sprintf("/api/bookings/%s/status", booking.ID)
		w := srv.do(t, http.MethodPatch, path, map[string]string{"status": "completed"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		updated := decode[models.Booking](t, w)
		assert.Equal(t, models.BookingStatusCompleted, updated.Status)

		slot, err := srv.db.FindSlot(context.Background(), testDate, "08:00")
		require.NoError(t, err)
		assert.Equal(t, models.SlotStatusAvailable, slot.Status)
	})

	t.Run("unknown booking id", func(t *testing.T) {
		w := srv.do(t, http.MethodPatch, "/api/bookings/nope/status", map[string]string{"status": "completed"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unknown status", func(t *testing.T) {
		path := fmt.Sprintf("/api/bookings/%s/status", booking.ID)
		w := srv.do(t, http.MethodPatch, path, map[string]string{"status": "finished"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "unknown booking status")
	})

	t.Run("validation", func(t *testing.T) {
		w := srv.do(t, http.MethodPost, "/api/bookings", map[string]any{
			"customer":    map[string]string{"name": "", "phone": ""},
			"date":        testDate,
			"time":        "09:00",
			"service_ids": ids[:1],
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		// Zero services is permitted and yields a zero-total booking.
		w = srv.do(t, http.MethodPost, "/api/bookings", map[string]any{
			"customer":    map[string]string{"name": "Maria", "phone": "+55"},
			"date":        testDate,
			"time":        "09:00",
			"service_ids": []string{},
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		empty := decode[models.Booking](t, w)
		assert.Zero(t, empty.TotalPrice)
		assert.Zero(t, empty.TotalDurationMinutes)
	})
}

func TestBlockSlots(t *testing.T) {
	srv := setupTestServer(t)
	srv.generateSlots(t)

	w := srv.do(t, http.MethodPost, "/api/slots/block", map[string]any{
		"date":   testDate,
		"times":  []string{"08:00", "08:30"},
		"reason": "maintenance",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	slot, err := srv.db.FindSlot(context.Background(), testDate, "08:00")
	require.NoError(t, err)
	assert.Equal(t, models.SlotStatusBlocked, slot.Status)
	assert.Equal(t, "maintenance", slot.BlockedReason)

	t.Run("validation", func(t *testing.T) {
		w := srv.do(t, http.MethodPost, "/api/slots/block", map[string]any{
			"date": testDate, "times": []string{},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = srv.do(t, http.MethodPost, "/api/slots/block", map[string]any{
			"date": testDate, "times": []string{"8am"},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestScheduleEndpoints(t *testing.T) {
	srv := setupTestServer(t)

	w := srv.do(t, http.MethodGet, "/api/schedule", nil)
	require.Equal(t, http.StatusOK, w.Code)
	sched := decode[models.DefaultSchedule](t, w)
	assert.Equal(t, "08:00", sched.OpenTime)

	w = srv.do(t, http.MethodPut, "/api/schedule", models.DefaultSchedule{
		OpenTime: "09:00", CloseTime: "17:00", SlotDuration: 45,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = srv.do(t, http.MethodGet, "/api/schedule", nil)
	sched = decode[models.DefaultSchedule](t, w)
	assert.Equal(t, "09:00", sched.OpenTime)
	assert.Equal(t, 45, sched.SlotDuration)

	t.Run("rejects invalid schedule", func(t *testing.T) {
		w := srv.do(t, http.MethodPut, "/api/schedule", models.DefaultSchedule{
			OpenTime: "17:00", CloseTime: "09:00", SlotDuration: 45,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("working hours", func(t *testing.T) {
		w := srv.do(t, http.MethodGet, "/api/working-hours", nil)
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[struct {
			WorkingHours []models.WorkingHours `json:"working_hours"`
		}](t, w)
		require.Len(t, resp.WorkingHours, 7)
		assert.False(t, resp.WorkingHours[0].IsOpen)
	})
}

func TestServiceCatalog(t *testing.T) {
	srv := setupTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/services", map[string]any{
		"name": "Drenagem Linfática", "price": 130.0, "duration_minutes": 50,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.Service](t, w)
	assert.True(t, created.Active)

	w = srv.do(t, http.MethodPut, "/api/services/"+created.ID, map[string]any{
		"name": "Drenagem Linfática", "price": 140.0, "duration_minutes": 50,
	})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[models.Service](t, w)
	assert.Equal(t, 140.0, updated.Price)

	t.Run("unknown id on update", func(t *testing.T) {
		w := srv.do(t, http.MethodPut, "/api/services/nope", map[string]any{
			"name": "X", "price": 1.0, "duration_minutes": 10,
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	w = srv.do(t, http.MethodDelete, "/api/services/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = srv.do(t, http.MethodGet, "/api/services", nil)
	resp := decode[struct {
		Services []models.Service `json:"services"`
	}](t, w)
	assert.Len(t, resp.Services, 3) // the seeded catalog

	t.Run("validation", func(t *testing.T) {
		w := srv.do(t, http.MethodPost, "/api/services", map[string]any{
			"name": "", "price": 10.0, "duration_minutes": 30,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestReviews(t *testing.T) {
	srv := setupTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/reviews", map[string]any{
		"customer_name": "Maria Silva", "rating": 5, "comment": "Excelente atendimento",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	review := decode[models.Review](t, w)
	assert.Equal(t, "mariasilva", review.CustomerIdentifier)
	assert.True(t, review.Approved)

	w = srv.do(t, http.MethodGet, "/api/reviews", nil)
	resp := decode[struct {
		Reviews []models.Review `json:"reviews"`
	}](t, w)
	require.Len(t, resp.Reviews, 1)

	t.Run("rating bounds", func(t *testing.T) {
		w := srv.do(t, http.MethodPost, "/api/reviews", map[string]any{
			"customer_name": "Maria", "rating": 6,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	w = srv.do(t, http.MethodDelete, "/api/reviews/"+review.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestSalonProfile(t *testing.T) {
	srv := setupTestServer(t)

	w := srv.do(t, http.MethodGet, "/api/salon", nil)
	require.Equal(t, http.StatusOK, w.Code)
	salon := decode[models.Salon](t, w)
	assert.Equal(t, "Centro Terapêutico", salon.Name)
}

func TestExportBookings(t *testing.T) {
	srv := setupTestServer(t)
	srv.generateSlots(t)
	ids := srv.serviceIDs(t)

	w := srv.do(t, http.MethodPost, "/api/bookings", map[string]any{
		"customer":    map[string]string{"name": "Maria Silva", "phone": "+5511999990001"},
		"date":        testDate,
		"time":        "08:00",
		"service_ids": ids[:1],
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = srv.do(t, http.MethodGet, "/api/bookings/export?date="+testDate, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, w.Header().Get("Content-Disposition"), testDate)
	assert.NotEmpty(t, w.Body.Bytes())
}

func TestResetSlots(t *testing.T) {
	srv := setupTestServer(t)
	srv.generateSlots(t)

	w := srv.do(t, http.MethodDelete, "/api/slots", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = srv.do(t, http.MethodGet, "/api/slots?date="+testDate, nil)
	resp := decode[struct {
		Slots []models.Slot `json:"slots"`
	}](t, w)
	assert.Empty(t, resp.Slots)
}
