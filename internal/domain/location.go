package domain

import (
	"github.com/doudou-app/doudou/pkg/validator"
)

// LocationType categorizes a venue.
type LocationType string

const (
	LocationTypeCafe       LocationType = "cafe"
	LocationTypeRestaurant LocationType = "restaurant"
	LocationTypePark       LocationType = "park"
	LocationTypeLibrary    LocationType = "library"
	LocationTypeCoworking  LocationType = "coworking"
	LocationTypeOther      LocationType = "other"
)

// LocationTypes lists every location type in display order.
var LocationTypes = []LocationType{
	LocationTypeCafe,
	LocationTypeRestaurant,
	LocationTypePark,
	LocationTypeLibrary,
	LocationTypeCoworking,
	LocationTypeOther,
}

// IsValid reports whether t is a known location type.
func (t LocationType) IsValid() bool {
	for _, v := range LocationTypes {
		if v == t {
			return true
		}
	}
	return false
}

// PrivacyLevel describes how secluded a venue's nursing space is.
type PrivacyLevel string

const (
	PrivacyPrivate     PrivacyLevel = "private"
	PrivacySemiPrivate PrivacyLevel = "semi-private"
	PrivacyPublic      PrivacyLevel = "public"
)

// PrivacyLevels lists every privacy level from most to least secluded.
var PrivacyLevels = []PrivacyLevel{PrivacyPrivate, PrivacySemiPrivate, PrivacyPublic}

// IsValid reports whether p is a known privacy level.
func (p PrivacyLevel) IsValid() bool {
	for _, v := range PrivacyLevels {
		if v == p {
			return true
		}
	}
	return false
}

// TranslationKey returns the translation table key naming the level.
func (p PrivacyLevel) TranslationKey() string {
	if p == PrivacySemiPrivate {
		return "semiPrivate"
	}
	return string(p)
}

// Location is a breastfeeding-friendly venue. AverageRating and TotalReviews
// are derived by the backend from the venue's reviews.
type Location struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Address          string       `json:"address"`
	Latitude         float64      `json:"latitude"`
	Longitude        float64      `json:"longitude"`
	LocationType     LocationType `json:"location_type"`
	PrivacyLevel     PrivacyLevel `json:"privacy_level"`
	RequiresPurchase bool         `json:"requires_purchase"`
	Description      *string      `json:"description,omitempty"`
	Amenities        []string     `json:"amenities"`
	Photos           []string     `json:"photos"`
	OwnerID          *string      `json:"owner_id,omitempty"`
	AverageRating    float64      `json:"average_rating"`
	TotalReviews     int          `json:"total_reviews"`
	CreatedAt        string       `json:"created_at"`
	Verified         bool         `json:"verified"`
}

// Clone returns a deep copy of l.
func (l Location) Clone() Location {
	c := l
	c.Amenities = cloneStrings(l.Amenities)
	c.Photos = cloneStrings(l.Photos)
	c.Description = cloneStringPtr(l.Description)
	c.OwnerID = cloneStringPtr(l.OwnerID)
	return c
}

// HasAmenity reports whether the venue lists the given amenity tag.
func (l Location) HasAmenity(tag string) bool {
	for _, a := range l.Amenities {
		if a == tag {
			return true
		}
	}
	return false
}

// NewLocation is the payload for creating a location. Identity, rating and
// verification fields are assigned by the backend.
type NewLocation struct {
	Name             string       `json:"name" validate:"required"`
	Address          string       `json:"address" validate:"required"`
	Latitude         float64      `json:"latitude" validate:"latitude"`
	Longitude        float64      `json:"longitude" validate:"longitude"`
	LocationType     LocationType `json:"location_type" validate:"required,oneof=cafe restaurant park library coworking other"`
	PrivacyLevel     PrivacyLevel `json:"privacy_level" validate:"required,oneof=private semi-private public"`
	RequiresPurchase bool         `json:"requires_purchase"`
	Description      *string      `json:"description,omitempty"`
	Amenities        []string     `json:"amenities"`
	Photos           []string     `json:"photos" validate:"dive,required"`
	OwnerID          *string      `json:"owner_id,omitempty"`
}

// Validate checks the required fields a caller must supply before submitting.
// The store itself never validates.
func (n NewLocation) Validate() error {
	return validator.Validate(n)
}

// Normalized returns a copy with nil slices replaced by empty ones so the
// payload always carries arrays.
func (n NewLocation) Normalized() NewLocation {
	if n.Amenities == nil {
		n.Amenities = []string{}
	}
	if n.Photos == nil {
		n.Photos = []string{}
	}
	return n
}

// Amenity tags offered in the add-location form, keyed to translation entries.
var Amenities = []struct {
	Tag string
	Key string
}{
	{"private_room", "privateRoom"},
	{"changing_table", "changingTable"},
	{"high_chairs", "highChairs"},
	{"quiet_area", "quietArea"},
	{"wifi", "wifi"},
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
