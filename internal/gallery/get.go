package gallery

import (
	"context"
	"database/sql"

	"github.com/keepsakehq/keepsake/internal/db"
	"github.com/keepsakehq/keepsake/internal/errors"
	"github.com/keepsakehq/keepsake/internal/photo"
)

// GetInput contains parameters for the Get operation.
type GetInput struct {
	ID string
}

// GetOutput contains the result of the Get operation.
type GetOutput struct {
	photo.Photo        // embedded (copy, not pointer)
	Descriptor  string `json:"descriptor"`
}

// Get retrieves a single photo with its composed filter descriptor.
func Get(ctx context.Context, database *sql.DB, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	p, err := db.GetPhotoByID(ctx, database, input.ID)
	if err != nil {
		return nil, err
	}

	return &GetOutput{
		Photo:      *p,
		Descriptor: photo.DescriptorOf(p.Filters),
	}, nil
}
