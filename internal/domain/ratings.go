package domain

import (
	"math"
	"strings"
)

// RatingBreakdown is the per-category summary shown on a location's page.
type RatingBreakdown struct {
	Staff       float64 `json:"staff"`
	Comfort     float64 `json:"comfort"`
	Privacy     float64 `json:"privacy"`
	Safety      float64 `json:"safety"`
	WouldReturn int     `json:"would_return"` // percent, 0-100
}

// BreakdownOf averages each category across reviews and computes the share
// of reviewers who would return, rounded to the nearest percent. An empty
// set yields all zeros.
func BreakdownOf(reviews []Review) RatingBreakdown {
	if len(reviews) == 0 {
		return RatingBreakdown{}
	}

	var staff, comfort, privacy, safety, wouldReturn int
	for _, r := range reviews {
		staff += r.StaffRating
		comfort += r.ComfortRating
		privacy += r.PrivacyRating
		safety += r.SafetyRating
		if r.WouldReturn {
			wouldReturn++
		}
	}

	n := float64(len(reviews))
	return RatingBreakdown{
		Staff:       float64(staff) / n,
		Comfort:     float64(comfort) / n,
		Privacy:     float64(privacy) / n,
		Safety:      float64(safety) / n,
		WouldReturn: int(math.Round(float64(wouldReturn) / n * 100)),
	}
}

// RatingPercent converts a 0-5 rating into a 0-100 bar width.
func RatingPercent(rating float64) float64 {
	return rating / 5 * 100
}

// Stars renders a rating as five filled or empty stars, rounding to the
// nearest whole star.
func Stars(rating float64) string {
	filled := int(math.Round(rating))
	if filled < 0 {
		filled = 0
	}
	if filled > 5 {
		filled = 5
	}
	return strings.Repeat("★", filled) + strings.Repeat("☆", 5-filled)
}
