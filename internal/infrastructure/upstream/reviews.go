package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/revtickets/portal/internal/core/domain"
	"github.com/revtickets/portal/internal/pkg/validation"
)

const myReviewsPath = "/reviews/my-reviews"

// ReviewClient reads the caller's reviews.
type ReviewClient struct {
	api       *API
	validator *validation.Validator
	log       zerolog.Logger
}

func NewReviewClient(api *API, v *validation.Validator, log zerolog.Logger) *ReviewClient {
	return &ReviewClient{api: api, validator: v, log: log}
}

// MyReviews fetches GET <base>/reviews/my-reviews.
//
// A payload without a data field, or with data null, is an empty list.
// Records that fail validation are dropped; the remaining ones keep server
// order.
func (c *ReviewClient) MyReviews(ctx context.Context) ([]domain.ReviewRecord, error) {
	var env envelope[[]json.RawMessage]
	if err := c.api.get(ctx, myReviewsPath, &env); err != nil {
		return nil, err
	}

	reviews := make([]domain.ReviewRecord, 0, len(env.Data))
	for i, raw := range env.Data {
		r, err := decodeReview(raw)
		if err != nil {
			c.log.Warn().Err(err).Int("index", i).Msg("skipping undecodable review")
			continue
		}
		if err := c.validator.Validate(r); err != nil {
			c.log.Warn().Err(err).Int("index", i).Msg("skipping invalid review")
			continue
		}
		reviews = append(reviews, r)
	}
	return reviews, nil
}

// reviewWire mirrors the API's review JSON. createdAt arrives either as
// RFC 3339 or as a zone-less local date-time, which is read as UTC.
type reviewWire struct {
	ReviewType string  `json:"reviewType"`
	Rating     int     `json:"rating"`
	Comment    *string `json:"comment"`
	CreatedAt  string  `json:"createdAt"`
}

var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

func decodeReview(raw json.RawMessage) (domain.ReviewRecord, error) {
	var w reviewWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return domain.ReviewRecord{}, err
	}
	r := domain.ReviewRecord{
		ReviewType: domain.ReviewType(w.ReviewType),
		Rating:     w.Rating,
		Comment:    w.Comment,
	}
	if w.CreatedAt == "" {
		return r, nil
	}
	for _, layout := range createdAtLayouts {
		if ts, err := time.Parse(layout, w.CreatedAt); err == nil {
			r.CreatedAt = ts.UTC()
			return r, nil
		}
	}
	return r, fmt.Errorf("createdAt %q: unrecognised timestamp", w.CreatedAt)
}
