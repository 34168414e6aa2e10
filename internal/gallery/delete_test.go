package gallery

import (
	"context"
	"testing"

	"github.com/keepsakehq/keepsake/internal/errors"
)

func TestDelete_HappyPath(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	id := mustAdd(t, database, AddInput{URL: "data:image/png;base64,AA"})

	output, err := Delete(ctx, database, DeleteInput{ID: id})
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !output.Deleted || output.ID != id {
		t.Errorf("output = %+v, want deleted=true id=%s", output, id)
	}
}

func TestDelete_EveryLaterQueryIsNotFound(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	id := mustAdd(t, database, AddInput{URL: "data:image/png;base64,AA"})
	if _, err := Delete(ctx, database, DeleteInput{ID: id}); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := Get(ctx, database, GetInput{ID: id}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Get after delete = %v, want NOT_FOUND", err)
	}
	if _, err := TogglePrivacy(ctx, database, ToggleInput{ID: id}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("TogglePrivacy after delete = %v, want NOT_FOUND", err)
	}
	if _, err := Delete(ctx, database, DeleteInput{ID: id}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Delete after delete = %v, want NOT_FOUND", err)
	}

	// Never reappears in either partition
	for _, mode := range []string{"public", "vault"} {
		output, err := List(ctx, database, ListInput{Mode: mode})
		if err != nil {
			t.Fatalf("List(%s) failed: %v", mode, err)
		}
		for _, item := range output.Items {
			if item.ID == id {
				t.Errorf("deleted photo reappeared in %s partition", mode)
			}
		}
	}
}

func TestDelete_NotFound(t *testing.T) {
	database := testDB(t)

	_, err := Delete(context.Background(), database, DeleteInput{ID: "missing"})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestDelete_IDRequired(t *testing.T) {
	database := testDB(t)

	_, err := Delete(context.Background(), database, DeleteInput{})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}
