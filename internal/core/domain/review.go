package domain

import "time"

// ReviewType tells which kind of item a review was written for.
type ReviewType string

const (
	ReviewMovie ReviewType = "MOVIE"
	ReviewEvent ReviewType = "EVENT"
)

// Label is the human readable kind shown next to a review.
func (t ReviewType) Label() string {
	if t == ReviewMovie {
		return "Movie"
	}
	return "Event"
}

// ReviewRecord is one review written by the current user. Rating bounds are
// enforced by the upstream API and are not re-checked here.
type ReviewRecord struct {
	ReviewType ReviewType `json:"reviewType" validate:"required,oneof=MOVIE EVENT"`
	Rating     int        `json:"rating"`
	Comment    *string    `json:"comment,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"  validate:"required"`
}

// HasComment reports whether the reviewer left any text.
func (r ReviewRecord) HasComment() bool {
	return r.Comment != nil && *r.Comment != ""
}
