package domain

import (
	"fmt"

	playground "github.com/go-playground/validator/v10"

	"github.com/doudou-app/doudou/pkg/validator"
)

// Issue is a predefined red-flag tag a reviewer can attach.
type Issue string

const (
	IssueAskedLeave  Issue = "asked_leave"
	IssueFeltIgnored Issue = "felt_ignored"
	IssueHygiene     Issue = "hygiene"
)

// Issues lists the predefined issue tags with their translation keys.
var Issues = []struct {
	Issue Issue
	Key   string
}{
	{IssueAskedLeave, "askedToLeave"},
	{IssueFeltIgnored, "feltIgnored"},
	{IssueHygiene, "hygieneConcerns"},
}

// MaxCommentLength is the soft limit the review form enforces on comments.
const MaxCommentLength = 500

// Category ratings are whole stars.
const (
	MinRating = 1
	MaxRating = 5
)

func init() {
	validator.RegisterRule("rating", func(fl playground.FieldLevel) bool {
		v := fl.Field().Int()
		return v >= MinRating && v <= MaxRating
	}, fmt.Sprintf("must be between %d and %d stars", MinRating, MaxRating))
}

// Review is a single rating submission for one location. OverallRating and
// HelpfulCount are maintained by the backend.
type Review struct {
	ID            string   `json:"id"`
	LocationID    string   `json:"location_id"`
	StaffRating   int      `json:"staff_rating"`
	ComfortRating int      `json:"comfort_rating"`
	PrivacyRating int      `json:"privacy_rating"`
	SafetyRating  int      `json:"safety_rating"`
	OverallRating float64  `json:"overall_rating"`
	WouldReturn   bool     `json:"would_return"`
	Comment       *string  `json:"comment,omitempty"`
	Issues        []Issue  `json:"issues"`
	Photos        []string `json:"photos"`
	Anonymous     bool     `json:"anonymous"`
	ReviewerName  *string  `json:"reviewer_name,omitempty"`
	HelpfulCount  int      `json:"helpful_count"`
	CreatedAt     string   `json:"created_at"`
}

// DisplayName returns the reviewer name to show, or "" when the review is
// anonymous or unsigned.
func (r Review) DisplayName() string {
	if r.Anonymous || r.ReviewerName == nil {
		return ""
	}
	return *r.ReviewerName
}

// Clone returns a deep copy of r.
func (r Review) Clone() Review {
	c := r
	c.Comment = cloneStringPtr(r.Comment)
	c.ReviewerName = cloneStringPtr(r.ReviewerName)
	c.Photos = cloneStrings(r.Photos)
	if r.Issues != nil {
		c.Issues = make([]Issue, len(r.Issues))
		copy(c.Issues, r.Issues)
	}
	return c
}

// NewReview is the payload for creating a review.
type NewReview struct {
	LocationID    string   `json:"location_id" validate:"required"`
	StaffRating   int      `json:"staff_rating" validate:"rating"`
	ComfortRating int      `json:"comfort_rating" validate:"rating"`
	PrivacyRating int      `json:"privacy_rating" validate:"rating"`
	SafetyRating  int      `json:"safety_rating" validate:"rating"`
	WouldReturn   bool     `json:"would_return"`
	Comment       *string  `json:"comment,omitempty"`
	Issues        []Issue  `json:"issues" validate:"dive,oneof=asked_leave felt_ignored hygiene"`
	Photos        []string `json:"photos"`
	Anonymous     bool     `json:"anonymous"`
	ReviewerName  *string  `json:"reviewer_name,omitempty"`
}

// reviewForm holds the limits the review form applies on top of the
// payload rules. The backend accepts longer comments.
type reviewForm struct {
	Comment *string `json:"comment" validate:"omitempty,max=500"`
}

// Validate checks the ratings and issue tags, plus the form's soft comment
// length limit.
func (n NewReview) Validate() error {
	return validator.Merge(validator.Validate(n), validator.Validate(reviewForm{Comment: n.Comment}))
}

// Normalized drops the reviewer name from anonymous reviews, removes
// duplicate issues and replaces nil slices with empty ones.
func (n NewReview) Normalized() NewReview {
	if n.Anonymous || (n.ReviewerName != nil && *n.ReviewerName == "") {
		n.ReviewerName = nil
	}
	seen := make(map[Issue]bool, len(n.Issues))
	issues := make([]Issue, 0, len(n.Issues))
	for _, is := range n.Issues {
		if !seen[is] {
			seen[is] = true
			issues = append(issues, is)
		}
	}
	n.Issues = issues
	if n.Photos == nil {
		n.Photos = []string{}
	}
	return n
}

// ToggleIssue adds the issue when absent and removes it when present.
func ToggleIssue(issues []Issue, issue Issue) []Issue {
	out := make([]Issue, 0, len(issues)+1)
	found := false
	for _, is := range issues {
		if is == issue {
			found = true
			continue
		}
		out = append(out, is)
	}
	if !found {
		out = append(out, issue)
	}
	return out
}
