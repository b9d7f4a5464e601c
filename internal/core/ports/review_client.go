package ports

import (
	"context"

	"github.com/revtickets/portal/internal/core/domain"
)

// ReviewClient reads the reviews written by the caller. The caller is whoever
// the outbound pipeline authenticates the request as.
type ReviewClient interface {
	MyReviews(ctx context.Context) ([]domain.ReviewRecord, error)
}
