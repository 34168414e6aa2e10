package gallery

import (
	"context"
	"database/sql"
	"time"

	"github.com/keepsakehq/keepsake/internal/db"
	"github.com/keepsakehq/keepsake/internal/errors"
	"github.com/keepsakehq/keepsake/internal/photo"
)

// AddInput contains parameters for the Add operation.
type AddInput struct {
	// URL is the opaque displayable reference produced by ingestion (required)
	URL string

	Title   *string
	Caption *string

	// TakenAt is the capture instant in Unix milliseconds; 0 means "now"
	TakenAt int64

	// PersonIDs are the identifiers supplied by the detection collaborator
	PersonIDs []string
}

// AddOutput contains the result of the Add operation.
type AddOutput struct {
	Photo photo.Photo `json:"photo"`
}

// Add inserts a new photo. New photos always start in the public partition
// with no adjustment attached; vault membership is an explicit later step.
func Add(ctx context.Context, database *sql.DB, input AddInput) (*AddOutput, error) {
	if input.URL == "" {
		return nil, errors.NewInvalidRequest("url is required")
	}

	takenAt := input.TakenAt
	if takenAt == 0 {
		takenAt = time.Now().UnixMilli()
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	p := &photo.Photo{
		ID:        id,
		URL:       input.URL,
		Private:   false,
		TakenAt:   takenAt,
		Title:     cleanOptionalString(input.Title),
		Caption:   cleanOptionalString(input.Caption),
		PersonIDs: photo.DedupePersonIDs(input.PersonIDs),
		CreatedAt: time.Now().Unix(),
	}

	if err := db.InsertPhoto(ctx, database, p); err != nil {
		return nil, err
	}

	return &AddOutput{Photo: *p}, nil
}
