package api

import (
	"net/http"

	"github.com/nexla-ia/Centro-Terap-utico-Bem-Estar/internal/metrics"
	"github.com/nexla-ia/Centro-Terap-utico-Bem-Estar/internal/models"
)

// ServiceRequest is the request body for service create/update.
type ServiceRequest struct {
	Name            string  `json:"name"`
	Description     string  `json:"description,omitempty"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"duration_minutes"`
	Category        string  `json:"category,omitempty"`
	Active          *bool   `json:"active,omitempty"`
	Popular         bool    `json:"popular,omitempty"`
}

// ReviewRequest is the request body for POST /api/reviews.
type ReviewRequest struct {
	CustomerName string `json:"customer_name"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment,omitempty"`
}

// handleGetServices lists the active service catalog.
// GET /api/services
func (s *HTTPServer) handleGetServices(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("services_list")

	services, err := s.db.GetServices(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("list services failed")
		writeError(w, http.StatusInternalServerError, "failed to list services")
		return
	}
	if services == nil {
		services = []models.Service{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"services": services})
}

// handleCreateService adds a service to the catalog.
// POST /api/services
func (s *HTTPServer) handleCreateService(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("services_create")

	var req ServiceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" || req.Price < 0 || req.DurationMinutes <= 0 {
		writeError(w, http.StatusBadRequest, "name, non-negative price and positive duration_minutes are required")
		return
	}

	svc := models.Service{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		DurationMinutes: req.DurationMinutes,
		Category:        req.Category,
		Active:          true,
		Popular:         req.Popular,
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}

	if err := s.db.CreateService(r.Context(), &svc); err != nil {
		s.logger.Error().Err(err).Msg("create service failed")
		writeError(w, http.StatusInternalServerError, "failed to create service")
		return
	}
	writeJSON(w, http.StatusCreated, svc)
}

// handleUpdateService overwrites a service's editable fields.
// PUT /api/services/{id}
func (s *HTTPServer) handleUpdateService(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("services_update")

	id := r.PathValue("id")
	var req ServiceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" || req.Price < 0 || req.DurationMinutes <= 0 {
		writeError(w, http.StatusBadRequest, "name, non-negative price and positive duration_minutes are required")
		return
	}

	svc := models.Service{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		DurationMinutes: req.DurationMinutes,
		Category:        req.Category,
		Active:          true,
		Popular:         req.Popular,
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}

	updated, err := s.db.UpdateService(r.Context(), id, svc)
	if err != nil {
		s.logger.Error().Err(err).Str("service_id", id).Msg("update service failed")
		writeError(w, http.StatusInternalServerError, "failed to update service")
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "service not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// handleDeleteService removes a service from the catalog.
// DELETE /api/services/{id}
func (s *HTTPServer) handleDeleteService(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("services_delete")

	if err := s.db.DeleteService(r.Context(), r.PathValue("id")); err != nil {
		s.logger.Error().Err(err).Msg("delete service failed")
		writeError(w, http.StatusInternalServerError, "failed to delete service")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// handleGetReviews lists reviews; by default only approved ones.
// GET /api/reviews?all=true
func (s *HTTPServer) handleGetReviews(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("reviews_list")

	approvedOnly := r.URL.Query().Get("all") != "true"
	reviews, err := s.db.ListReviews(r.Context(), approvedOnly)
	if err != nil {
		s.logger.Error().Err(err).Msg("list reviews failed")
		writeError(w, http.StatusInternalServerError, "failed to list reviews")
		return
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"reviews": reviews})
}

// handleCreateReview stores a customer review.
// POST /api/reviews
func (s *HTTPServer) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("reviews_create")

	var req ReviewRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.CustomerName == "" {
		writeError(w, http.StatusBadRequest, "customer_name is required")
		return
	}

	review, err := s.db.CreateReview(r.Context(), req.CustomerName, req.Rating, req.Comment)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

// handleApproveReview marks a review as approved.
// POST /api/reviews/{id}/approve
func (s *HTTPServer) handleApproveReview(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("reviews_approve")

	if err := s.db.ApproveReview(r.Context(), r.PathValue("id")); err != nil {
		s.logger.Error().Err(err).Msg("approve review failed")
		writeError(w, http.StatusInternalServerError, "failed to approve review")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// handleDeleteReview removes a review.
// DELETE /api/reviews/{id}
func (s *HTTPServer) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("reviews_delete")

	if err := s.db.DeleteReview(r.Context(), r.PathValue("id")); err != nil {
		s.logger.Error().Err(err).Msg("delete review failed")
		writeError(w, http.StatusInternalServerError, "failed to delete review")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// handleGetSalon returns the center's profile.
// GET /api/salon
func (s *HTTPServer) handleGetSalon(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("salon_get")

	salon, err := s.db.GetSalon(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("load salon failed")
		writeError(w, http.StatusInternalServerError, "failed to load salon profile")
		return
	}
	if salon == nil {
		writeError(w, http.StatusNotFound, "salon profile not found")
		return
	}
	writeJSON(w, http.StatusOK, salon)
}
