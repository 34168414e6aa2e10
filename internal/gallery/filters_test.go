package gallery

import (
	"context"
	"testing"

	"github.com/keepsakehq/keepsake/internal/errors"
	"github.com/keepsakehq/keepsake/internal/photo"
)

func TestUpdateFilters_RoundTrip(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	id := mustAdd(t, database, AddInput{URL: "data:image/png;base64,AA"})

	f := photo.FilterAdjustment{Brightness: 120, Contrast: 90, Saturation: 110, Sepia: 20, Grayscale: 5}
	if _, err := UpdateFilters(ctx, database, UpdateFiltersInput{ID: id, Filters: f}); err != nil {
		t.Fatalf("UpdateFilters failed: %v", err)
	}

	got, err := Get(ctx, database, GetInput{ID: id})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Filters == nil || *got.Filters != f {
		t.Errorf("Filters = %v, want %v", got.Filters, f)
	}
}

func TestUpdateFilters_ReplacesWholesale(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	id := mustAdd(t, database, AddInput{URL: "data:image/png;base64,AA"})

	first := photo.FilterAdjustment{Brightness: 150, Contrast: 100, Saturation: 100, Sepia: 80, Grayscale: 0}
	if _, err := UpdateFilters(ctx, database, UpdateFiltersInput{ID: id, Filters: first}); err != nil {
		t.Fatalf("UpdateFilters failed: %v", err)
	}

	// The second adjustment replaces, never merges: sepia goes back to 0.
	second := photo.Default()
	second.Brightness = 70
	if _, err := UpdateFilters(ctx, database, UpdateFiltersInput{ID: id, Filters: second}); err != nil {
		t.Fatalf("UpdateFilters failed: %v", err)
	}

	got, err := Get(ctx, database, GetInput{ID: id})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Filters == nil || got.Filters.Sepia != 0 || got.Filters.Brightness != 70 {
		t.Errorf("Filters = %v, want wholesale replacement", got.Filters)
	}
}

func TestUpdateFilters_DefaultStoredAsAbsent(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	id := mustAdd(t, database, AddInput{URL: "data:image/png;base64,AA"})

	f := photo.Default()
	f.Grayscale = 100
	if _, err := UpdateFilters(ctx, database, UpdateFiltersInput{ID: id, Filters: f}); err != nil {
		t.Fatalf("UpdateFilters failed: %v", err)
	}

	output, err := UpdateFilters(ctx, database, UpdateFiltersInput{ID: id, Filters: photo.Default()})
	if err != nil {
		t.Fatalf("UpdateFilters(default) failed: %v", err)
	}
	if output.Descriptor != "none" {
		t.Errorf("Descriptor = %q, want \"none\"", output.Descriptor)
	}

	got, err := Get(ctx, database, GetInput{ID: id})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Filters != nil {
		t.Errorf("Filters = %v, want nil (default adjustment stored as absent)", got.Filters)
	}
}

func TestUpdateFilters_NotFound(t *testing.T) {
	database := testDB(t)

	_, err := UpdateFilters(context.Background(), database, UpdateFiltersInput{
		ID:      "missing",
		Filters: photo.FilterAdjustment{Brightness: 50, Contrast: 100, Saturation: 100},
	})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}
