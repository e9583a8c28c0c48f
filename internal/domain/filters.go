package domain

import (
	"net/url"
)

// DefaultDistanceKM is the search radius selected when no distance was chosen.
const DefaultDistanceKM = 5

// DistanceOptions are the radii the filter screen offers, in kilometres.
var DistanceOptions = []int{1, 2, 3, 5, 10}

// Filters are the active constraints on the location list. Nil enum fields
// mean "no constraint".
type Filters struct {
	LocationType *LocationType `json:"location_type,omitempty"`
	PrivacyLevel *PrivacyLevel `json:"privacy_level,omitempty"`
	FreeOnly     bool          `json:"free_only"`
	VerifiedOnly bool          `json:"verified_only"`
	DistanceKM   int           `json:"distance_km"`
}

// DefaultFilters returns the filter set restored by ClearFilters.
func DefaultFilters() Filters {
	return Filters{DistanceKM: DefaultDistanceKM}
}

// Clone returns a copy of f that shares no pointers with it.
func (f Filters) Clone() Filters {
	c := f
	if f.LocationType != nil {
		v := *f.LocationType
		c.LocationType = &v
	}
	if f.PrivacyLevel != nil {
		v := *f.PrivacyLevel
		c.PrivacyLevel = &v
	}
	return c
}

// IsDefault reports whether no constraint beyond the default radius is set.
func (f Filters) IsDefault() bool {
	return f.LocationType == nil && f.PrivacyLevel == nil &&
		!f.FreeOnly && !f.VerifiedOnly && f.DistanceKM == DefaultDistanceKM
}

// Query encodes the filters as list-request query parameters. Unset enums and
// false booleans are omitted. DistanceKM is not sent: the backend list
// endpoint has no matching parameter wired from the client.
func (f Filters) Query() url.Values {
	q := url.Values{}
	if f.LocationType != nil && *f.LocationType != "" {
		q.Set("location_type", string(*f.LocationType))
	}
	if f.PrivacyLevel != nil && *f.PrivacyLevel != "" {
		q.Set("privacy_level", string(*f.PrivacyLevel))
	}
	if f.FreeOnly {
		q.Set("free_only", "true")
	}
	if f.VerifiedOnly {
		q.Set("verified_only", "true")
	}
	return q
}

// FilterPatch is a partial update for Filters. Only non-nil fields are
// applied. ClearLocationType and ClearPrivacyLevel reset the enum to unset.
type FilterPatch struct {
	LocationType      *LocationType
	PrivacyLevel      *PrivacyLevel
	ClearLocationType bool
	ClearPrivacyLevel bool
	FreeOnly          *bool
	VerifiedOnly      *bool
	DistanceKM        *int
}

// Apply shallow-merges p into f and returns the result.
func (p FilterPatch) Apply(f Filters) Filters {
	out := f.Clone()
	if p.ClearLocationType {
		out.LocationType = nil
	}
	if p.LocationType != nil {
		v := *p.LocationType
		out.LocationType = &v
	}
	if p.ClearPrivacyLevel {
		out.PrivacyLevel = nil
	}
	if p.PrivacyLevel != nil {
		v := *p.PrivacyLevel
		out.PrivacyLevel = &v
	}
	if p.FreeOnly != nil {
		out.FreeOnly = *p.FreeOnly
	}
	if p.VerifiedOnly != nil {
		out.VerifiedOnly = *p.VerifiedOnly
	}
	if p.DistanceKM != nil {
		out.DistanceKM = *p.DistanceKM
	}
	return out
}

// IsDistanceOption reports whether km is one of DistanceOptions.
func IsDistanceOption(km int) bool {
	for _, d := range DistanceOptions {
		if d == km {
			return true
		}
	}
	return false
}
