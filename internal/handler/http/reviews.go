package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Ahmed-Mansy/shoe-zone-online/internal/reviews"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/session"
	"github.com/Ahmed-Mansy/shoe-zone-online/pkg/httputil"
	"github.com/Ahmed-Mansy/shoe-zone-online/pkg/validator"
)

// ReviewsHandler serves product reviews and ratings. Listing is public;
// writing needs a session.
type ReviewsHandler struct {
	reviews  *reviews.Service
	sessions session.Store
	logger   *slog.Logger
}

// NewReviewsHandler creates a reviews HTTP handler.
func NewReviewsHandler(svc *reviews.Service, sessions session.Store, logger *slog.Logger) *ReviewsHandler {
	return &ReviewsHandler{reviews: svc, sessions: sessions, logger: logger}
}

// List handles GET /api/products/{id}/reviews.
func (h *ReviewsHandler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	list, err := h.reviews.ForProduct(r.Context(), id)
	if err != nil {
		writeError(w, r, err, h.sessions, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: list})
}

// CreateReviewRequest is the JSON body for POST /api/products/{id}/reviews.
type CreateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"required"`
}

// Create handles POST /api/products/{id}/reviews.
func (h *ReviewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req CreateReviewRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	review, err := h.reviews.Create(r.Context(), sess.AccessToken, id, req.Rating, req.Comment)
	if err != nil {
		writeError(w, r, err, h.sessions, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: review})
}

// Delete handles DELETE /api/reviews/{id}.
func (h *ReviewsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.reviews.Delete(r.Context(), sess.AccessToken, id); err != nil {
		writeError(w, r, err, h.sessions, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RateRequest is the JSON body for POST /api/products/{id}/ratings.
type RateRequest struct {
	Score int `json:"score" validate:"required,gte=1,lte=5"`
}

// Rate handles POST /api/products/{id}/ratings.
func (h *ReviewsHandler) Rate(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req RateRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	rating, err := h.reviews.Rate(r.Context(), sess.AccessToken, id, req.Score)
	if err != nil {
		writeError(w, r, err, h.sessions, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: rating})
}
