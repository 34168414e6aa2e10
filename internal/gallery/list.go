package gallery

import (
	"context"
	"database/sql"

	"github.com/keepsakehq/keepsake/internal/db"
	"github.com/keepsakehq/keepsake/internal/photo"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Mode   string // "public" (default) or "vault"
	Limit  int    // default: 50, max: 500
	Offset int    // default: 0
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Mode       photo.AccessMode `json:"mode"`
	Items      []photo.Summary  `json:"items"`
	Pagination Pagination       `json:"pagination"`
	Sort       string           `json:"sort"`
}

// List returns the accessible set for an access mode: exactly the photos
// whose vault membership matches the mode, in insertion order. Consumers
// that need date ordering or grouping go through Timeline instead.
func List(ctx context.Context, database *sql.DB, input ListInput) (*ListOutput, error) {
	mode, err := parseMode(input.Mode)
	if err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	offset := max(input.Offset, 0)

	summaries, total, err := db.ListPhotos(ctx, database, mode == photo.ModeVault, limit, offset)
	if err != nil {
		return nil, err
	}

	if summaries == nil {
		summaries = []photo.Summary{}
	}

	hasMore := offset+len(summaries) < total

	return &ListOutput{
		Mode:  mode,
		Items: summaries,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: hasMore,
			Total:   total,
		},
		Sort: "insertion_order",
	}, nil
}
