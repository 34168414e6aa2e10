package gallery

import (
	"context"
	"database/sql"

	"github.com/keepsakehq/keepsake/internal/db"
	"github.com/keepsakehq/keepsake/internal/errors"
	"github.com/keepsakehq/keepsake/internal/photo"
)

// ToggleInput contains parameters for the TogglePrivacy operation.
type ToggleInput struct {
	ID string
}

// ToggleOutput contains the result of the TogglePrivacy operation.
type ToggleOutput struct {
	ID      string `json:"id"`
	Private bool   `json:"private"`
}

// TogglePrivacy flips a photo between the public and vault partitions.
// The flip is a single statement: the photo is never visible in both
// partitions, or in neither, at any observable instant. Consumers viewing
// the photo full-screen in vault mode are expected to close that view
// themselves when the photo leaves the vault.
func TogglePrivacy(ctx context.Context, database *sql.DB, input ToggleInput) (*ToggleOutput, error) {
	if input.ID == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	if err := db.FlipPrivate(ctx, database, input.ID); err != nil {
		return nil, err
	}

	p, err := db.GetPhotoByID(ctx, database, input.ID)
	if err != nil {
		return nil, err
	}

	return &ToggleOutput{
		ID:      p.ID,
		Private: p.Private,
	}, nil
}

// Accessible reports whether a photo is visible under the given access mode.
func Accessible(p *photo.Photo, mode photo.AccessMode) bool {
	return p.Private == (mode == photo.ModeVault)
}
