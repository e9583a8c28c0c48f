package fakeapi

import (
	"context"
	"math"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/doudou-app/doudou/internal/domain"
	apperrors "github.com/doudou-app/doudou/pkg/errors"
)

// maxListed caps every list response.
const maxListed = 100

const timestampLayout = "2006-01-02T15:04:05.000000"

// ListFilter selects locations. Zero values match everything.
type ListFilter struct {
	LocationType string
	PrivacyLevel string
	FreeOnly     bool
	VerifiedOnly bool
}

type storedReview struct {
	review domain.Review
	seq    int
}

// DefaultUser owns saved locations when a request names no user.
const DefaultUser = "default_user"

// Store is the in-memory data set behind the fake backend.
type Store struct {
	mu        sync.RWMutex
	locations map[string]domain.Location
	order     []string
	reviews   map[string]*storedReview
	saved     map[string][]string
	seq       int
	now       func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		locations: make(map[string]domain.Location),
		reviews:   make(map[string]*storedReview),
		saved:     make(map[string][]string),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) timestamp() string {
	return s.now().Format(timestampLayout)
}

// Check reports whether the store can serve requests.
func (s *Store) Check(ctx context.Context) error {
	return ctx.Err()
}

// ListLocations returns locations in insertion order.
func (s *Store) ListLocations(f ListFilter) []domain.Location {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Location, 0, len(s.order))
	for _, id := range s.order {
		loc := s.locations[id]
		if f.LocationType != "" && string(loc.LocationType) != f.LocationType {
			continue
		}
		if f.PrivacyLevel != "" && string(loc.PrivacyLevel) != f.PrivacyLevel {
			continue
		}
		if f.FreeOnly && loc.RequiresPurchase {
			continue
		}
		if f.VerifiedOnly && !loc.Verified {
			continue
		}
		out = append(out, loc.Clone())
		if len(out) == maxListed {
			break
		}
	}
	return out
}

// GetLocation returns one location.
func (s *Store) GetLocation(id string) (domain.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	loc, ok := s.locations[id]
	if !ok {
		return domain.Location{}, locationNotFound()
	}
	return loc.Clone(), nil
}

// CreateLocation stores a new unverified, unrated location.
func (s *Store) CreateLocation(in domain.NewLocation) domain.Location {
	in = in.Normalized()
	loc := domain.Location{
		ID:               uuid.NewString(),
		Name:             in.Name,
		Address:          in.Address,
		Latitude:         in.Latitude,
		Longitude:        in.Longitude,
		LocationType:     in.LocationType,
		PrivacyLevel:     in.PrivacyLevel,
		RequiresPurchase: in.RequiresPurchase,
		Description:      in.Description,
		Amenities:        in.Amenities,
		Photos:           in.Photos,
		OwnerID:          in.OwnerID,
		CreatedAt:        s.timestamp(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertLocation(loc)
	return loc.Clone()
}

func (s *Store) insertLocation(loc domain.Location) {
	s.locations[loc.ID] = loc
	s.order = append(s.order, loc.ID)
}

// DeleteLocation removes a location.
func (s *Store) DeleteLocation(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.locations[id]; !ok {
		return locationNotFound()
	}
	delete(s.locations, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// CreateReview stores a review and refreshes the location's average rating
// and review count.
func (s *Store) CreateReview(in domain.NewReview) (domain.Review, error) {
	in = in.Normalized()

	s.mu.Lock()
	defer s.mu.Unlock()

	loc, ok := s.locations[in.LocationID]
	if !ok {
		return domain.Review{}, locationNotFound()
	}

	overall := float64(in.StaffRating+in.ComfortRating+in.PrivacyRating+in.SafetyRating) / 4
	r := domain.Review{
		ID:            uuid.NewString(),
		LocationID:    in.LocationID,
		StaffRating:   in.StaffRating,
		ComfortRating: in.ComfortRating,
		PrivacyRating: in.PrivacyRating,
		SafetyRating:  in.SafetyRating,
		OverallRating: roundTenth(overall),
		WouldReturn:   in.WouldReturn,
		Comment:       in.Comment,
		Issues:        in.Issues,
		Photos:        in.Photos,
		Anonymous:     in.Anonymous,
		ReviewerName:  in.ReviewerName,
		CreatedAt:     s.timestamp(),
	}
	s.insertReview(r)

	var sum float64
	var n int
	for _, sr := range s.reviews {
		if sr.review.LocationID == in.LocationID {
			sum += sr.review.OverallRating
			n++
		}
	}
	loc.AverageRating = roundTenth(sum / float64(n))
	loc.TotalReviews = n
	s.locations[loc.ID] = loc

	return r.Clone(), nil
}

func (s *Store) insertReview(r domain.Review) {
	s.seq++
	s.reviews[r.ID] = &storedReview{review: r, seq: s.seq}
}

// ListReviews returns a location's reviews, newest first.
func (s *Store) ListReviews(locationID string) []domain.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*storedReview, 0)
	for _, sr := range s.reviews {
		if sr.review.LocationID == locationID {
			matched = append(matched, sr)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].seq > matched[j].seq })
	if len(matched) > maxListed {
		matched = matched[:maxListed]
	}

	out := make([]domain.Review, len(matched))
	for i, sr := range matched {
		out[i] = sr.review.Clone()
	}
	return out
}

// MarkHelpful increments a review's helpful count.
func (s *Store) MarkHelpful(reviewID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sr, ok := s.reviews[reviewID]
	if !ok {
		return &apperrors.AppError{Code: "NOT_FOUND", Message: "Review not found", Status: http.StatusNotFound, Err: apperrors.ErrNotFound}
	}
	sr.review.HelpfulCount++
	return nil
}

// Save adds a location to a user's saved set and reports whether it was
// already there. The location is not required to exist.
func (s *Store) Save(userID, locationID string) (already bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.saved[userID] {
		if id == locationID {
			return true
		}
	}
	s.saved[userID] = append(s.saved[userID], locationID)
	return false
}

// Unsave removes a location from a user's saved set. Removing an absent id
// is a no-op.
func (s *Store) Unsave(userID, locationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.saved[userID]
	for i, id := range ids {
		if id == locationID {
			s.saved[userID] = append(ids[:i], ids[i+1:]...)
			return
		}
	}
}

// Saved returns a user's saved locations that still exist, in save order.
func (s *Store) Saved(userID string) []domain.Location {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.saved[userID]
	out := make([]domain.Location, 0, len(ids))
	for _, id := range ids {
		if loc, ok := s.locations[id]; ok {
			out = append(out, loc.Clone())
		}
		if len(out) == maxListed {
			break
		}
	}
	return out
}

// IsSaved reports whether a location id is in a user's saved set.
func (s *Store) IsSaved(userID, locationID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.saved[userID] {
		if id == locationID {
			return true
		}
	}
	return false
}

func locationNotFound() error {
	return &apperrors.AppError{Code: "NOT_FOUND", Message: "Location not found", Status: http.StatusNotFound, Err: apperrors.ErrNotFound}
}

func roundTenth(v float64) float64 {
	return math.RoundToEven(v*10) / 10
}
