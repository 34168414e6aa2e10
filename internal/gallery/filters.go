package gallery

import (
	"context"
	"database/sql"

	"github.com/keepsakehq/keepsake/internal/db"
	"github.com/keepsakehq/keepsake/internal/errors"
	"github.com/keepsakehq/keepsake/internal/photo"
)

// UpdateFiltersInput contains parameters for the UpdateFilters operation.
type UpdateFiltersInput struct {
	ID      string
	Filters photo.FilterAdjustment
}

// UpdateFiltersOutput contains the result of the UpdateFilters operation.
type UpdateFiltersOutput struct {
	ID         string `json:"id"`
	Descriptor string `json:"descriptor"`
}

// UpdateFilters replaces a photo's stored adjustment wholesale. Merging of
// individual channels happens in the edit session, not here. An all-default
// adjustment is stored as absent, since the two are semantically identical.
func UpdateFilters(ctx context.Context, database *sql.DB, input UpdateFiltersInput) (*UpdateFiltersOutput, error) {
	if input.ID == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	var stored *photo.FilterAdjustment
	if !input.Filters.IsDefault() {
		f := input.Filters
		stored = &f
	}

	if err := db.UpdatePhotoFilters(ctx, database, input.ID, stored); err != nil {
		return nil, err
	}

	return &UpdateFiltersOutput{
		ID:         input.ID,
		Descriptor: photo.DescriptorOf(stored),
	}, nil
}
