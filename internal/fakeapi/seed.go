package fakeapi

import (
	"github.com/google/uuid"

	"github.com/doudou-app/doudou/internal/domain"
)

func strPtr(s string) *string { return &s }

func seedLocations() []domain.Location {
	return []domain.Location{
		{
			Name:             "Le Petit Jardin Café",
			Address:          "123 Rue de la Paix, Paris 75001",
			Latitude:         48.8566,
			Longitude:        2.3522,
			LocationType:     domain.LocationTypeCafe,
			PrivacyLevel:     domain.PrivacySemiPrivate,
			RequiresPurchase: true,
			Description:      strPtr("Cozy café with a private nursing corner and changing facilities."),
			Amenities:        []string{"changing_table", "high_chairs", "quiet_area", "wifi"},
			Verified:         true,
			AverageRating:    4.5,
			TotalReviews:     128,
		},
		{
			Name:          "Family Park Gardens",
			Address:       "45 Avenue des Enfants, Paris 75008",
			Latitude:      48.8606,
			Longitude:     2.3376,
			LocationType:  domain.LocationTypePark,
			PrivacyLevel:  domain.PrivacyPublic,
			Description:   strPtr("Beautiful park with shaded seating areas perfect for nursing."),
			Amenities:     []string{"benches", "shade", "playground", "restrooms"},
			Verified:      true,
			AverageRating: 4.2,
			TotalReviews:  85,
		},
		{
			Name:             "Mama's Kitchen Restaurant",
			Address:          "78 Rue Saint-Honoré, Paris 75001",
			Latitude:         48.8636,
			Longitude:        2.3311,
			LocationType:     domain.LocationTypeRestaurant,
			PrivacyLevel:     domain.PrivacyPrivate,
			RequiresPurchase: true,
			Description:      strPtr("Family-friendly restaurant with private nursing rooms."),
			Amenities:        []string{"private_room", "changing_table", "high_chairs", "kids_menu"},
			Verified:         true,
			AverageRating:    4.8,
			TotalReviews:     256,
		},
		{
			Name:          "City Library - Nursing Room",
			Address:       "15 Place de la République, Paris 75011",
			Latitude:      48.8674,
			Longitude:     2.3646,
			LocationType:  domain.LocationTypeLibrary,
			PrivacyLevel:  domain.PrivacyPrivate,
			Description:   strPtr("Quiet library with dedicated nursing room and baby corner."),
			Amenities:     []string{"private_room", "comfortable_seating", "air_conditioning", "wifi"},
			Verified:      true,
			AverageRating: 4.6,
			TotalReviews:  92,
		},
		{
			Name:             "Baby Café Lounge",
			Address:          "200 Boulevard Haussmann, Paris 75009",
			Latitude:         48.8738,
			Longitude:        2.3285,
			LocationType:     domain.LocationTypeCafe,
			PrivacyLevel:     domain.PrivacySemiPrivate,
			RequiresPurchase: true,
			Description:      strPtr("Café designed for new moms with play area and nursing booths."),
			Amenities:        []string{"nursing_booths", "play_area", "changing_table", "stroller_parking"},
			Verified:         true,
			AverageRating:    4.7,
			TotalReviews:     180,
		},
	}
}

func seedReviews(locationID string) []domain.Review {
	return []domain.Review{
		{
			LocationID:    locationID,
			StaffRating:   5,
			ComfortRating: 4,
			PrivacyRating: 4,
			SafetyRating:  5,
			OverallRating: 4.5,
			WouldReturn:   true,
			Comment:       strPtr("The back corner is perfect for breastfeeding! Staff were so patient when my little one had a meltdown."),
			ReviewerName:  strPtr("Sarah M."),
			HelpfulCount:  24,
		},
		{
			LocationID:    locationID,
			StaffRating:   4,
			ComfortRating: 4,
			PrivacyRating: 3,
			SafetyRating:  4,
			OverallRating: 3.75,
			WouldReturn:   true,
			Comment:       strPtr("Decent space, though it gets quite loud during the morning rush."),
			ReviewerName:  strPtr("Jessica W."),
			HelpfulCount:  8,
		},
	}
}

// Seed wipes every location, review and saved entry, then loads the demo
// data set. The demo ratings are stored as given, not recomputed. It
// returns the number of locations loaded.
func (s *Store) Seed() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.locations = make(map[string]domain.Location)
	s.order = nil
	s.reviews = make(map[string]*storedReview)
	s.saved = make(map[string][]string)

	now := s.timestamp()
	locs := seedLocations()
	for _, loc := range locs {
		loc.ID = uuid.NewString()
		loc.Photos = []string{}
		loc.CreatedAt = now
		s.insertLocation(loc)
	}

	for _, r := range seedReviews(s.order[0]) {
		r.ID = uuid.NewString()
		r.Issues = []domain.Issue{}
		r.Photos = []string{}
		r.CreatedAt = now
		s.insertReview(r)
	}

	return len(locs)
}
