package gallery

import (
	"context"
	"database/sql"

	"github.com/keepsakehq/keepsake/internal/errors"
	"github.com/keepsakehq/keepsake/internal/photo"
)

// EditSession is a transient adjustment buffer scoped to one photo.
// Slider mutations write the buffer only; the photo's stored adjustment is
// untouched until Commit. A session is all-or-nothing: Commit replaces the
// stored adjustment wholesale, Discard drops every pending change.
type EditSession struct {
	photoID string
	buffer  photo.FilterAdjustment
	done    bool
}

// NewEditSession opens an edit session seeded from the photo's current
// adjustment, or from the identity adjustment if none is stored.
func NewEditSession(p *photo.Photo) *EditSession {
	buffer := photo.Default()
	if p.Filters != nil {
		buffer = *p.Filters
	}
	return &EditSession{
		photoID: p.ID,
		buffer:  buffer,
	}
}

// PhotoID returns the id of the photo being edited.
func (s *EditSession) PhotoID() string {
	return s.photoID
}

// Buffer returns the current in-progress adjustment.
func (s *EditSession) Buffer() photo.FilterAdjustment {
	return s.buffer
}

// Descriptor composes the buffered adjustment for live preview.
func (s *EditSession) Descriptor() string {
	return s.buffer.Descriptor()
}

// SetBrightness writes the brightness channel into the buffer.
func (s *EditSession) SetBrightness(v int) { s.buffer.Brightness = v }

// SetContrast writes the contrast channel into the buffer.
func (s *EditSession) SetContrast(v int) { s.buffer.Contrast = v }

// SetSaturation writes the saturation channel into the buffer.
func (s *EditSession) SetSaturation(v int) { s.buffer.Saturation = v }

// SetSepia writes the sepia channel into the buffer.
func (s *EditSession) SetSepia(v int) { s.buffer.Sepia = v }

// SetGrayscale writes the grayscale channel into the buffer.
func (s *EditSession) SetGrayscale(v int) { s.buffer.Grayscale = v }

// Reset sets the buffer to the identity adjustment — not to the photo's
// previously saved state.
func (s *EditSession) Reset() {
	s.buffer = photo.Default()
}

// Commit persists the buffer wholesale and consumes the session.
func (s *EditSession) Commit(ctx context.Context, database *sql.DB) (*UpdateFiltersOutput, error) {
	if s.done {
		return nil, errors.NewInvalidRequest("edit session already closed")
	}

	output, err := UpdateFilters(ctx, database, UpdateFiltersInput{
		ID:      s.photoID,
		Filters: s.buffer,
	})
	if err != nil {
		return nil, err
	}

	s.done = true
	return output, nil
}

// Discard drops the buffer and consumes the session. The photo's stored
// adjustment is left untouched.
func (s *EditSession) Discard() {
	s.done = true
}

// Closed reports whether the session has been committed or discarded.
func (s *EditSession) Closed() bool {
	return s.done
}
