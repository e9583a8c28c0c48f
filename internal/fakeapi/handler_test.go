package fakeapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doudou-app/doudou/internal/domain"
	"github.com/doudou-app/doudou/pkg/health"
	"github.com/doudou-app/doudou/pkg/httputil"
	"github.com/doudou-app/doudou/pkg/logger"
)

// ============================================================================
// Test helpers
// ============================================================================

func newTestServer(t *testing.T) (*httptest.Server, *Store) {
	t.Helper()
	store := NewStore()
	registry := health.NewRegistry(0)
	registry.Register("store", store.Check)
	srv := httptest.NewServer(NewRouter(store, registry, logger.Discard()))
	t.Cleanup(srv.Close)
	return srv, store
}

func doJSON(t *testing.T, method, url string, body any, out any) int {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func newLocationBody() domain.NewLocation {
	return domain.NewLocation{
		Name:         "Coworking Bébé",
		Address:      "9 Rue Oberkampf, Paris 75011",
		Latitude:     48.8647,
		Longitude:    2.3706,
		LocationType: domain.LocationTypeCoworking,
		PrivacyLevel: domain.PrivacyPrivate,
		Amenities:    []string{"wifi"},
	}
}

func newReviewBody(locationID string, staff, comfort, privacy, safety int) domain.NewReview {
	return domain.NewReview{
		LocationID:    locationID,
		StaffRating:   staff,
		ComfortRating: comfort,
		PrivacyRating: privacy,
		SafetyRating:  safety,
		WouldReturn:   true,
	}
}

// ============================================================================
// Root & seed
// ============================================================================

func TestRoot(t *testing.T) {
	srv, _ := newTestServer(t)

	var body httputil.MessageResponse
	status := doJSON(t, http.MethodGet, srv.URL+"/api/", nil, &body)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, RootMessage, body.Message)
}

func TestSeed(t *testing.T) {
	srv, store := newTestServer(t)
	store.Save(DefaultUser, "stale")

	var body SeedResponse
	status := doJSON(t, http.MethodPost, srv.URL+"/api/seed", nil, &body)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Database seeded with sample data", body.Message)
	assert.Equal(t, 5, body.LocationsCount)

	var locs []domain.Location
	doJSON(t, http.MethodGet, srv.URL+"/api/locations", nil, &locs)
	require.Len(t, locs, 5)
	assert.Equal(t, "Le Petit Jardin Café", locs[0].Name)
	assert.Equal(t, 4.5, locs[0].AverageRating)
	assert.Equal(t, 128, locs[0].TotalReviews)
	assert.True(t, locs[0].Verified)
	assert.NotNil(t, locs[0].Photos)

	var reviews []domain.Review
	doJSON(t, http.MethodGet, srv.URL+"/api/reviews/"+locs[0].ID, nil, &reviews)
	require.Len(t, reviews, 2)
	names := []string{reviews[0].DisplayName(), reviews[1].DisplayName()}
	assert.ElementsMatch(t, []string{"Sarah M.", "Jessica W."}, names)

	assert.False(t, store.IsSaved(DefaultUser, "stale"))
}

func TestSeed_ReplacesExistingData(t *testing.T) {
	_, store := newTestServer(t)
	store.CreateLocation(newLocationBody())

	assert.Equal(t, 5, store.Seed())
	assert.Equal(t, 5, store.Seed())
	assert.Len(t, store.ListLocations(ListFilter{}), 5)
}

// ============================================================================
// Locations
// ============================================================================

func TestListLocations_Filters(t *testing.T) {
	srv, store := newTestServer(t)
	store.Seed()

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{name: "no filter", query: "", want: 5},
		{name: "type", query: "?location_type=cafe", want: 2},
		{name: "privacy", query: "?privacy_level=private", want: 2},
		{name: "free only", query: "?free_only=true", want: 2},
		{name: "free only false", query: "?free_only=false", want: 5},
		{name: "verified only", query: "?verified_only=true", want: 5},
		{name: "combined", query: "?location_type=cafe&free_only=true", want: 0},
		{name: "unknown distance ignored", query: "?distance_km=1", want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var locs []domain.Location
			status := doJSON(t, http.MethodGet, srv.URL+"/api/locations"+tt.query, nil, &locs)
			assert.Equal(t, http.StatusOK, status)
			assert.Len(t, locs, tt.want)
		})
	}
}

func TestListLocations_InvalidBool(t *testing.T) {
	srv, _ := newTestServer(t)

	var body struct {
		Detail []httputil.FieldDetail `json:"detail"`
	}
	status := doJSON(t, http.MethodGet, srv.URL+"/api/locations?free_only=maybe", nil, &body)

	assert.Equal(t, http.StatusUnprocessableEntity, status)
	require.Len(t, body.Detail, 1)
	assert.Equal(t, []string{"query", "free_only"}, body.Detail[0].Loc)
}

func TestListLocations_EmptyIsArray(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/locations")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.JSONEq(t, `[]`, string(raw))
}

func TestCreateLocation(t *testing.T) {
	srv, _ := newTestServer(t)

	var loc domain.Location
	status := doJSON(t, http.MethodPost, srv.URL+"/api/locations", newLocationBody(), &loc)

	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, loc.ID)
	assert.Equal(t, "Coworking Bébé", loc.Name)
	assert.False(t, loc.Verified)
	assert.Zero(t, loc.AverageRating)
	assert.Zero(t, loc.TotalReviews)
	assert.NotEmpty(t, loc.CreatedAt)
	assert.Equal(t, []string{}, loc.Photos)

	var got domain.Location
	status = doJSON(t, http.MethodGet, srv.URL+"/api/locations/"+loc.ID, nil, &got)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, loc.ID, got.ID)
}

func TestCreateLocation_ValidationError(t *testing.T) {
	srv, store := newTestServer(t)

	in := newLocationBody()
	in.Name = ""
	in.PrivacyLevel = "secret"

	var body struct {
		Detail []httputil.FieldDetail `json:"detail"`
	}
	status := doJSON(t, http.MethodPost, srv.URL+"/api/locations", in, &body)

	assert.Equal(t, http.StatusUnprocessableEntity, status)
	require.Len(t, body.Detail, 2)
	assert.Empty(t, store.ListLocations(ListFilter{}))
}

func TestCreateLocation_MalformedBody(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/locations", "application/json", bytes.NewBufferString("{"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestGetLocation_Errors(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name       string
		id         string
		wantStatus int
		wantDetail string
	}{
		{name: "malformed id", id: "abc", wantStatus: http.StatusBadRequest, wantDetail: "Invalid location ID"},
		{name: "unknown id", id: "7f1c6a43-1d7e-4a0b-9b44-0d35e1f7c2aa", wantStatus: http.StatusNotFound, wantDetail: "Location not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body httputil.DetailResponse
			status := doJSON(t, http.MethodGet, srv.URL+"/api/locations/"+tt.id, nil, &body)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantDetail, body.Detail)
		})
	}
}

func TestDeleteLocation(t *testing.T) {
	srv, store := newTestServer(t)
	loc := store.CreateLocation(newLocationBody())

	var body httputil.MessageResponse
	status := doJSON(t, http.MethodDelete, srv.URL+"/api/locations/"+loc.ID, nil, &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Location deleted successfully", body.Message)

	var detail httputil.DetailResponse
	status = doJSON(t, http.MethodDelete, srv.URL+"/api/locations/"+loc.ID, nil, &detail)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Location not found", detail.Detail)
}

// ============================================================================
// Reviews
// ============================================================================

func TestCreateReview_AcceptsLongComment(t *testing.T) {
	srv, store := newTestServer(t)
	loc := store.CreateLocation(newLocationBody())

	body := newReviewBody(loc.ID, 4, 4, 4, 4)
	comment := strings.Repeat("a", domain.MaxCommentLength+100)
	body.Comment = &comment
	require.Error(t, body.Validate(), "the form limit still applies client-side")

	var review domain.Review
	status := doJSON(t, http.MethodPost, srv.URL+"/api/reviews", body, &review)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, review.Comment)
	assert.Len(t, *review.Comment, domain.MaxCommentLength+100)
}

func TestRoundTenth_HalvesToEven(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{4.25, 4.2},
		{2.25, 2.2},
		{3.75, 3.8},
		{4.5, 4.5},
		{4.125, 4.1},
		{3.3333333333, 3.3},
		{0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, roundTenth(tt.in), "roundTenth(%v)", tt.in)
	}
}

func TestCreateReview_ComputesRatings(t *testing.T) {
	srv, store := newTestServer(t)
	loc := store.CreateLocation(newLocationBody())

	var first domain.Review
	status := doJSON(t, http.MethodPost, srv.URL+"/api/reviews", newReviewBody(loc.ID, 5, 4, 4, 4), &first)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 4.2, first.OverallRating, "4.25 rounds half to even")
	assert.Zero(t, first.HelpfulCount)

	var second domain.Review
	status = doJSON(t, http.MethodPost, srv.URL+"/api/reviews", newReviewBody(loc.ID, 2, 2, 2, 3), &second)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2.2, second.OverallRating, "2.25 rounds half to even")

	got, err := store.GetLocation(loc.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.2, got.AverageRating)
	assert.Equal(t, 2, got.TotalReviews)

	var reviews []domain.Review
	doJSON(t, http.MethodGet, srv.URL+"/api/reviews/"+loc.ID, nil, &reviews)
	require.Len(t, reviews, 2)
	assert.Equal(t, second.ID, reviews[0].ID, "newest first")
	assert.Equal(t, first.ID, reviews[1].ID)
}

func TestCreateReview_AnonymousHidesName(t *testing.T) {
	srv, store := newTestServer(t)
	loc := store.CreateLocation(newLocationBody())

	in := newReviewBody(loc.ID, 3, 3, 3, 3)
	in.Anonymous = true
	name := "Claire"
	in.ReviewerName = &name

	var r domain.Review
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodPost, srv.URL+"/api/reviews", in, &r))
	assert.Nil(t, r.ReviewerName)
	assert.Equal(t, []domain.Issue{}, r.Issues)
}

func TestCreateReview_Errors(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name       string
		body       domain.NewReview
		wantStatus int
	}{
		{name: "rating out of range", body: newReviewBody("7f1c6a43-1d7e-4a0b-9b44-0d35e1f7c2aa", 0, 3, 3, 3), wantStatus: http.StatusUnprocessableEntity},
		{name: "malformed location id", body: newReviewBody("abc", 3, 3, 3, 3), wantStatus: http.StatusBadRequest},
		{name: "unknown location", body: newReviewBody("7f1c6a43-1d7e-4a0b-9b44-0d35e1f7c2aa", 3, 3, 3, 3), wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := doJSON(t, http.MethodPost, srv.URL+"/api/reviews", tt.body, nil)
			assert.Equal(t, tt.wantStatus, status)
		})
	}
}

func TestListReviews_UnknownLocationIsEmpty(t *testing.T) {
	srv, _ := newTestServer(t)

	var reviews []domain.Review
	status := doJSON(t, http.MethodGet, srv.URL+"/api/reviews/whatever", nil, &reviews)

	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, reviews)
}

func TestMarkHelpful(t *testing.T) {
	srv, store := newTestServer(t)
	loc := store.CreateLocation(newLocationBody())
	r, err := store.CreateReview(newReviewBody(loc.ID, 4, 4, 4, 4))
	require.NoError(t, err)

	var body httputil.MessageResponse
	status := doJSON(t, http.MethodPost, srv.URL+"/api/reviews/"+r.ID+"/helpful", nil, &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Review marked as helpful", body.Message)

	reviews := store.ListReviews(loc.ID)
	require.Len(t, reviews, 1)
	assert.Equal(t, 1, reviews[0].HelpfulCount)

	var detail httputil.DetailResponse
	status = doJSON(t, http.MethodPost, srv.URL+"/api/reviews/7f1c6a43-1d7e-4a0b-9b44-0d35e1f7c2aa/helpful", nil, &detail)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Review not found", detail.Detail)

	status = doJSON(t, http.MethodPost, srv.URL+"/api/reviews/abc/helpful", nil, &detail)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid review ID", detail.Detail)
}

// ============================================================================
// Saved
// ============================================================================

func TestSavedFlow(t *testing.T) {
	srv, store := newTestServer(t)
	loc := store.CreateLocation(newLocationBody())

	var saved SaveResponse
	doJSON(t, http.MethodPost, srv.URL+"/api/saved", SaveRequest{LocationID: loc.ID}, &saved)
	assert.Equal(t, SaveResponse{Message: "Location saved", Saved: true}, saved)

	doJSON(t, http.MethodPost, srv.URL+"/api/saved", SaveRequest{LocationID: loc.ID}, &saved)
	assert.Equal(t, SaveResponse{Message: "Location already saved", Saved: true}, saved)

	var check SavedCheckResponse
	doJSON(t, http.MethodGet, srv.URL+"/api/saved/check/"+loc.ID, nil, &check)
	assert.True(t, check.Saved)

	var list []domain.Location
	doJSON(t, http.MethodGet, srv.URL+"/api/saved", nil, &list)
	require.Len(t, list, 1)
	assert.Equal(t, loc.ID, list[0].ID)

	doJSON(t, http.MethodGet, srv.URL+"/api/saved?user_id=someone_else", nil, &list)
	assert.Empty(t, list)

	var removed SaveResponse
	doJSON(t, http.MethodDelete, srv.URL+"/api/saved/"+loc.ID, nil, &removed)
	assert.Equal(t, SaveResponse{Message: "Location removed from saved", Saved: false}, removed)

	doJSON(t, http.MethodGet, srv.URL+"/api/saved/check/"+loc.ID, nil, &check)
	assert.False(t, check.Saved)

	// removing twice still succeeds
	status := doJSON(t, http.MethodDelete, srv.URL+"/api/saved/"+loc.ID, nil, &removed)
	assert.Equal(t, http.StatusOK, status)
}

func TestSaved_SkipsDeletedLocations(t *testing.T) {
	_, store := newTestServer(t)
	a := store.CreateLocation(newLocationBody())
	b := store.CreateLocation(newLocationBody())
	store.Save(DefaultUser, a.ID)
	store.Save(DefaultUser, b.ID)
	require.NoError(t, store.DeleteLocation(a.ID))

	saved := store.Saved(DefaultUser)
	require.Len(t, saved, 1)
	assert.Equal(t, b.ID, saved[0].ID)
	assert.True(t, store.IsSaved(DefaultUser, a.ID))
}

func TestSave_MissingLocationID(t *testing.T) {
	srv, _ := newTestServer(t)

	status := doJSON(t, http.MethodPost, srv.URL+"/api/saved", map[string]string{}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

// ============================================================================
// Router
// ============================================================================

func TestUnknownRoute(t *testing.T) {
	srv, _ := newTestServer(t)

	var body httputil.DetailResponse
	status := doJSON(t, http.MethodGet, srv.URL+"/api/nope", nil, &body)

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Not Found", body.Detail)
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)

	var body httputil.DetailResponse
	status := doJSON(t, http.MethodPut, srv.URL+"/api/seed", nil, &body)

	assert.Equal(t, http.StatusMethodNotAllowed, status)
	assert.Equal(t, "Method Not Allowed", body.Detail)
}

func TestHealthAndMetrics(t *testing.T) {
	srv, _ := newTestServer(t)

	var report health.Report
	status := doJSON(t, http.MethodGet, srv.URL+"/health/ready", nil, &report)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, health.StatusUp, report.Checks["store"].Status)

	doJSON(t, http.MethodGet, srv.URL+"/api/", nil, nil)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "doudou_http_requests_total")
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/locations", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:8081")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:8081", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
}
