package fakeapi

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/doudou-app/doudou/internal/domain"
	"github.com/doudou-app/doudou/pkg/httputil"
	"github.com/doudou-app/doudou/pkg/validator"
)

// RootMessage is returned by GET /api/.
const RootMessage = "Doudou API - Breastfeeding Location Finder"

// Handler serves the backend REST contract from a Store.
type Handler struct {
	store  *Store
	logger *slog.Logger
}

// NewHandler creates a handler over store.
func NewHandler(store *Store, logger *slog.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// SaveRequest is the body of POST /api/saved.
type SaveRequest struct {
	LocationID string `json:"location_id" validate:"required"`
	UserID     string `json:"user_id"`
}

// SaveResponse acknowledges a save or unsave.
type SaveResponse struct {
	Message string `json:"message"`
	Saved   bool   `json:"saved"`
}

// SavedCheckResponse is the body of GET /api/saved/check/{id}.
type SavedCheckResponse struct {
	Saved bool `json:"saved"`
}

// SeedResponse is the body of POST /api/seed.
type SeedResponse struct {
	Message        string `json:"message"`
	LocationsCount int    `json:"locations_count"`
}

// Root handles GET /api/
func (h *Handler) Root(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.MessageResponse{Message: RootMessage})
}

// ListLocations handles GET /api/locations
func (h *Handler) ListLocations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ListFilter{
		LocationType: q.Get("location_type"),
		PrivacyLevel: q.Get("privacy_level"),
	}

	var invalid []httputil.FieldDetail
	flags := []struct {
		name string
		dst  *bool
	}{
		{"free_only", &filter.FreeOnly},
		{"verified_only", &filter.VerifiedOnly},
	}
	for _, f := range flags {
		name, dst := f.name, f.dst
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			invalid = append(invalid, httputil.FieldDetail{
				Loc:  []string{"query", name},
				Msg:  "value could not be parsed to a boolean",
				Type: "type_error.bool",
			})
			continue
		}
		*dst = v
	}
	if len(invalid) > 0 {
		httputil.WriteJSON(w, http.StatusUnprocessableEntity, httputil.DetailResponse{Detail: invalid})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, h.store.ListLocations(filter))
}

// CreateLocation handles POST /api/locations
func (h *Handler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var req domain.NewLocation
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	loc := h.store.CreateLocation(req)
	h.logger.InfoContext(r.Context(), "location created",
		slog.String("location_id", loc.ID),
		slog.String("location_type", string(loc.LocationType)),
	)
	httputil.WriteJSON(w, http.StatusOK, loc)
}

// GetLocation handles GET /api/locations/{id}
func (h *Handler) GetLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"), "location")
	if !ok {
		return
	}

	loc, err := h.store.GetLocation(id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, loc)
}

// DeleteLocation handles DELETE /api/locations/{id}
func (h *Handler) DeleteLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"), "location")
	if !ok {
		return
	}

	if err := h.store.DeleteLocation(id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.MessageResponse{Message: "Location deleted successfully"})
}

// CreateReview handles POST /api/reviews
func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req domain.NewReview
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}
	if _, ok := httputil.ParseID(w, req.LocationID, "location"); !ok {
		return
	}

	review, err := h.store.CreateReview(req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	h.logger.InfoContext(r.Context(), "review created",
		slog.String("review_id", review.ID),
		slog.String("location_id", review.LocationID),
		slog.Float64("overall_rating", review.OverallRating),
	)
	httputil.WriteJSON(w, http.StatusOK, review)
}

// ListReviews handles GET /api/reviews/{id}
func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.store.ListReviews(chi.URLParam(r, "id")))
}

// MarkHelpful handles POST /api/reviews/{id}/helpful
func (h *Handler) MarkHelpful(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"), "review")
	if !ok {
		return
	}

	if err := h.store.MarkHelpful(id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.MessageResponse{Message: "Review marked as helpful"})
}

// SaveLocation handles POST /api/saved
func (h *Handler) SaveLocation(w http.ResponseWriter, r *http.Request) {
	var req SaveRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}
	if req.UserID == "" {
		req.UserID = DefaultUser
	}

	msg := "Location saved"
	if h.store.Save(req.UserID, req.LocationID) {
		msg = "Location already saved"
	}
	httputil.WriteJSON(w, http.StatusOK, SaveResponse{Message: msg, Saved: true})
}

// UnsaveLocation handles DELETE /api/saved/{id}
func (h *Handler) UnsaveLocation(w http.ResponseWriter, r *http.Request) {
	h.store.Unsave(userID(r), chi.URLParam(r, "id"))
	httputil.WriteJSON(w, http.StatusOK, SaveResponse{Message: "Location removed from saved", Saved: false})
}

// ListSaved handles GET /api/saved
func (h *Handler) ListSaved(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.store.Saved(userID(r)))
}

// CheckSaved handles GET /api/saved/check/{id}
func (h *Handler) CheckSaved(w http.ResponseWriter, r *http.Request) {
	saved := h.store.IsSaved(userID(r), chi.URLParam(r, "id"))
	httputil.WriteJSON(w, http.StatusOK, SavedCheckResponse{Saved: saved})
}

// Seed handles POST /api/seed
func (h *Handler) Seed(w http.ResponseWriter, r *http.Request) {
	n := h.store.Seed()
	h.logger.InfoContext(r.Context(), "database seeded", slog.Int("locations", n))
	httputil.WriteJSON(w, http.StatusOK, SeedResponse{
		Message:        "Database seeded with sample data",
		LocationsCount: n,
	})
}

// NotFound answers unknown routes the way the backend framework does.
func (h *Handler) NotFound(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteDetail(w, http.StatusNotFound, "Not Found")
}

// MethodNotAllowed answers known routes called with the wrong method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
}

func userID(r *http.Request) string {
	if id := r.URL.Query().Get("user_id"); id != "" {
		return id
	}
	return DefaultUser
}
