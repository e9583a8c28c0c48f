package store

import "github.com/doudou-app/doudou/internal/domain"

// Fixed messages written to State.Error.
const (
	ErrLoadLocations = "Failed to load locations"
	ErrNotFound      = "Location not found"
	ErrAddLocation   = "Failed to add location"
	ErrAddReview     = "Failed to add review"
)

// State is the observable data of a LocationsStore. Error is empty when no
// error is set.
type State struct {
	Locations       []domain.Location `json:"locations"`
	SavedLocations  []domain.Location `json:"saved_locations"`
	CurrentLocation *domain.Location  `json:"current_location"`
	Reviews         []domain.Review   `json:"reviews"`
	Filters         domain.Filters    `json:"filters"`
	IsLoading       bool              `json:"is_loading"`
	Error           string            `json:"error,omitempty"`
}

func initialState() State {
	return State{
		Locations:      []domain.Location{},
		SavedLocations: []domain.Location{},
		Reviews:        []domain.Review{},
		Filters:        domain.DefaultFilters(),
	}
}

// clone returns a deep copy so callers never share slices with the store.
func (s State) clone() State {
	c := s
	c.Locations = cloneLocations(s.Locations)
	c.SavedLocations = cloneLocations(s.SavedLocations)
	if s.CurrentLocation != nil {
		loc := s.CurrentLocation.Clone()
		c.CurrentLocation = &loc
	}
	c.Reviews = make([]domain.Review, len(s.Reviews))
	for i, r := range s.Reviews {
		c.Reviews[i] = r.Clone()
	}
	c.Filters = s.Filters.Clone()
	return c
}

// Breakdown derives the per-category ratings from the loaded reviews.
func (s State) Breakdown() domain.RatingBreakdown {
	return domain.BreakdownOf(s.Reviews)
}

// IsSavedLocally reports whether id is among the loaded saved locations.
func (s State) IsSavedLocally(id string) bool {
	for _, l := range s.SavedLocations {
		if l.ID == id {
			return true
		}
	}
	return false
}

func cloneLocations(in []domain.Location) []domain.Location {
	out := make([]domain.Location, len(in))
	for i, l := range in {
		out[i] = l.Clone()
	}
	return out
}
