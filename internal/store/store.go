// Package store holds the client-side locations and reviews state and the
// operations that keep it in sync with the backend.
package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/doudou-app/doudou/internal/domain"
	apperrors "github.com/doudou-app/doudou/pkg/errors"
)

// Backend is the subset of the REST API the store depends on.
type Backend interface {
	ListLocations(ctx context.Context, filters domain.Filters) ([]domain.Location, error)
	GetLocation(ctx context.Context, id string) (*domain.Location, error)
	CreateLocation(ctx context.Context, in domain.NewLocation) (*domain.Location, error)
	ListReviews(ctx context.Context, locationID string) ([]domain.Review, error)
	CreateReview(ctx context.Context, in domain.NewReview) (*domain.Review, error)
	MarkReviewHelpful(ctx context.Context, reviewID string) error
	ListSaved(ctx context.Context) ([]domain.Location, error)
	SaveLocation(ctx context.Context, locationID string) error
	UnsaveLocation(ctx context.Context, locationID string) error
	IsSaved(ctx context.Context, locationID string) (bool, error)
	Seed(ctx context.Context) error
	Ping(ctx context.Context) (string, error)
}

// LocationsStore owns the locations state. Operations never return backend
// errors; failures surface through State.Error, a false return value, or
// only in the logs, depending on the operation.
//
// IsLoading is one flag shared by every operation that toggles it. When two
// such operations overlap, the first to finish clears it. Responses are
// applied in completion order.
type LocationsStore struct {
	backend Backend
	logger  *slog.Logger

	mu     sync.Mutex
	state  State
	subs   map[int]func(State)
	nextID int
}

// New creates a store with empty collections and default filters.
func New(backend Backend, logger *slog.Logger) *LocationsStore {
	return &LocationsStore{
		backend: backend,
		logger:  logger,
		state:   initialState(),
		subs:    make(map[int]func(State)),
	}
}

// State returns a snapshot of the current state.
func (s *LocationsStore) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers fn to receive a snapshot after every state change.
// The returned function removes the subscription.
func (s *LocationsStore) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// update applies fn to the state and notifies subscribers outside the lock.
func (s *LocationsStore) update(fn func(*State)) {
	s.mu.Lock()
	fn(&s.state)
	snapshot := s.state.clone()
	subs := make([]func(State), 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub(snapshot)
	}
}

func (s *LocationsStore) filters() domain.Filters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Filters.Clone()
}

func (s *LocationsStore) logFailure(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	args := []any{
		slog.String("error", err.Error()),
		slog.String("kind", apperrors.Kind(err)),
	}
	for _, a := range attrs {
		args = append(args, a)
	}
	s.logger.ErrorContext(ctx, msg, args...)
}

// FetchLocations loads the locations matching the current filters. On
// failure the previous list is kept and Error is set.
func (s *LocationsStore) FetchLocations(ctx context.Context) {
	s.update(func(st *State) {
		st.IsLoading = true
		st.Error = ""
	})

	locs, err := s.backend.ListLocations(ctx, s.filters())
	record("fetch_locations", err)
	if err != nil {
		s.logFailure(ctx, "error fetching locations", err)
		s.update(func(st *State) {
			st.Error = ErrLoadLocations
			st.IsLoading = false
		})
		return
	}

	s.update(func(st *State) {
		st.Locations = nonNilLocations(locs)
		st.IsLoading = false
	})
}

// FetchSavedLocations replaces the saved list. Failures are logged only.
func (s *LocationsStore) FetchSavedLocations(ctx context.Context) {
	locs, err := s.backend.ListSaved(ctx)
	record("fetch_saved_locations", err)
	if err != nil {
		s.logFailure(ctx, "error fetching saved locations", err)
		return
	}

	s.update(func(st *State) {
		st.SavedLocations = nonNilLocations(locs)
	})
}

// FetchLocationByID loads one location into CurrentLocation. On failure
// CurrentLocation is cleared and Error is set.
func (s *LocationsStore) FetchLocationByID(ctx context.Context, id string) {
	s.update(func(st *State) {
		st.IsLoading = true
		st.Error = ""
	})

	loc, err := s.backend.GetLocation(ctx, id)
	record("fetch_location", err)
	if err != nil {
		s.logFailure(ctx, "error fetching location", err, slog.String("location_id", id))
		s.update(func(st *State) {
			st.Error = ErrNotFound
			st.IsLoading = false
			st.CurrentLocation = nil
		})
		return
	}

	s.update(func(st *State) {
		st.CurrentLocation = loc
		st.IsLoading = false
	})
}

// FetchReviews loads the reviews of a location. On failure Reviews is
// emptied.
func (s *LocationsStore) FetchReviews(ctx context.Context, locationID string) {
	reviews, err := s.backend.ListReviews(ctx, locationID)
	record("fetch_reviews", err)
	if err != nil {
		s.logFailure(ctx, "error fetching reviews", err, slog.String("location_id", locationID))
		s.update(func(st *State) {
			st.Reviews = []domain.Review{}
		})
		return
	}

	if reviews == nil {
		reviews = []domain.Review{}
	}
	s.update(func(st *State) {
		st.Reviews = reviews
	})
}

// AddLocation submits a location and, on success, reloads the list. The
// input is not validated here.
func (s *LocationsStore) AddLocation(ctx context.Context, in domain.NewLocation) bool {
	s.update(func(st *State) {
		st.IsLoading = true
		st.Error = ""
	})

	_, err := s.backend.CreateLocation(ctx, in)
	record("add_location", err)
	if err != nil {
		s.logFailure(ctx, "error adding location", err, slog.String("name", in.Name))
		s.update(func(st *State) {
			st.Error = ErrAddLocation
			st.IsLoading = false
		})
		return false
	}

	s.FetchLocations(ctx)
	s.update(func(st *State) {
		st.IsLoading = false
	})
	return true
}

// AddReview submits a review and, on success, reloads that location's
// reviews. The input is not validated here.
func (s *LocationsStore) AddReview(ctx context.Context, in domain.NewReview) bool {
	s.update(func(st *State) {
		st.IsLoading = true
		st.Error = ""
	})

	_, err := s.backend.CreateReview(ctx, in)
	record("add_review", err)
	if err != nil {
		s.logFailure(ctx, "error adding review", err, slog.String("location_id", in.LocationID))
		s.update(func(st *State) {
			st.Error = ErrAddReview
			st.IsLoading = false
		})
		return false
	}

	s.FetchReviews(ctx, in.LocationID)
	s.update(func(st *State) {
		st.IsLoading = false
	})
	return true
}

// SaveLocation adds a location to the saved set and reloads it. Failures
// are logged only.
func (s *LocationsStore) SaveLocation(ctx context.Context, locationID string) {
	err := s.backend.SaveLocation(ctx, locationID)
	record("save_location", err)
	if err != nil {
		s.logFailure(ctx, "error saving location", err, slog.String("location_id", locationID))
		return
	}
	s.FetchSavedLocations(ctx)
}

// UnsaveLocation removes a location from the saved set and reloads it.
// Failures are logged only.
func (s *LocationsStore) UnsaveLocation(ctx context.Context, locationID string) {
	err := s.backend.UnsaveLocation(ctx, locationID)
	record("unsave_location", err)
	if err != nil {
		s.logFailure(ctx, "error unsaving location", err, slog.String("location_id", locationID))
		return
	}
	s.FetchSavedLocations(ctx)
}

// CheckIfSaved asks the backend whether a location is saved. Any failure
// reads as not saved.
func (s *LocationsStore) CheckIfSaved(ctx context.Context, locationID string) bool {
	saved, err := s.backend.IsSaved(ctx, locationID)
	record("check_saved", err)
	if err != nil {
		s.logFailure(ctx, "error checking if saved", err, slog.String("location_id", locationID))
		return false
	}
	return saved
}

// SetFilters merges patch into the current filters. It does not refetch.
func (s *LocationsStore) SetFilters(patch domain.FilterPatch) {
	s.update(func(st *State) {
		st.Filters = patch.Apply(st.Filters)
	})
}

// ClearFilters restores the default filters.
func (s *LocationsStore) ClearFilters() {
	s.update(func(st *State) {
		st.Filters = domain.DefaultFilters()
	})
}

// SeedData asks the backend to load its demo data, then reloads the list.
// Failures are logged only.
func (s *LocationsStore) SeedData(ctx context.Context) {
	err := s.backend.Seed(ctx)
	record("seed", err)
	if err != nil {
		s.logFailure(ctx, "error seeding data", err)
		return
	}
	s.FetchLocations(ctx)
}

// Explore loads the location list and seeds the backend when it comes back
// empty.
func (s *LocationsStore) Explore(ctx context.Context) {
	s.FetchLocations(ctx)

	s.mu.Lock()
	empty := len(s.state.Locations) == 0
	s.mu.Unlock()

	if empty {
		s.logger.InfoContext(ctx, "no locations loaded, seeding demo data")
		s.SeedData(ctx)
	}
}

// MarkReviewHelpful upvotes a review and reloads the reviews of the
// location it belongs to. Failures are logged only.
func (s *LocationsStore) MarkReviewHelpful(ctx context.Context, reviewID string) {
	err := s.backend.MarkReviewHelpful(ctx, reviewID)
	record("mark_helpful", err)
	if err != nil {
		s.logFailure(ctx, "error marking review helpful", err, slog.String("review_id", reviewID))
		return
	}

	if locationID := s.reviewLocation(reviewID); locationID != "" {
		s.FetchReviews(ctx, locationID)
	}
}

func (s *LocationsStore) reviewLocation(reviewID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.state.Reviews {
		if r.ID == reviewID {
			return r.LocationID
		}
	}
	if s.state.CurrentLocation != nil {
		return s.state.CurrentLocation.ID
	}
	return ""
}

// Ping checks that the backend answers and returns its banner.
func (s *LocationsStore) Ping(ctx context.Context) (string, error) {
	msg, err := s.backend.Ping(ctx)
	record("ping", err)
	return msg, err
}

func nonNilLocations(locs []domain.Location) []domain.Location {
	if locs == nil {
		return []domain.Location{}
	}
	return locs
}
