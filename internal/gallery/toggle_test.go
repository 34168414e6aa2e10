package gallery

import (
	"context"
	"testing"

	"github.com/keepsakehq/keepsake/internal/errors"
	"github.com/keepsakehq/keepsake/internal/photo"
)

func TestTogglePrivacy_MovesBetweenPartitions(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	id := mustAdd(t, database, AddInput{URL: "data:image/png;base64,AA"})

	output, err := TogglePrivacy(ctx, database, ToggleInput{ID: id})
	if err != nil {
		t.Fatalf("TogglePrivacy failed: %v", err)
	}
	if !output.Private {
		t.Error("Private = false after toggle, want true")
	}

	// Exactly one partition holds the photo at any time
	public, err := List(ctx, database, ListInput{Mode: "public"})
	if err != nil {
		t.Fatalf("List(public) failed: %v", err)
	}
	vault, err := List(ctx, database, ListInput{Mode: "vault"})
	if err != nil {
		t.Fatalf("List(vault) failed: %v", err)
	}
	if len(public.Items) != 0 {
		t.Errorf("public partition has %d photos after toggle, want 0", len(public.Items))
	}
	if len(vault.Items) != 1 {
		t.Errorf("vault partition has %d photos after toggle, want 1", len(vault.Items))
	}
}

func TestTogglePrivacy_TwiceRestoresOriginal(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	id := mustAdd(t, database, AddInput{
		URL:       "data:image/png;base64,AA",
		Title:     stringPtr("Beach"),
		TakenAt:   1700000000000,
		PersonIDs: []string{"p1"},
	})
	before, err := Get(ctx, database, GetInput{ID: id})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := TogglePrivacy(ctx, database, ToggleInput{ID: id}); err != nil {
			t.Fatalf("TogglePrivacy #%d failed: %v", i+1, err)
		}
	}

	after, err := Get(ctx, database, GetInput{ID: id})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if after.Private != before.Private {
		t.Errorf("Private = %v after double toggle, want %v", after.Private, before.Private)
	}
	if *after.Title != *before.Title || after.TakenAt != before.TakenAt || after.URL != before.URL {
		t.Error("double toggle changed fields other than Private")
	}
	if len(after.PersonIDs) != len(before.PersonIDs) {
		t.Error("double toggle changed PersonIDs")
	}
}

func TestTogglePrivacy_NotFound(t *testing.T) {
	database := testDB(t)

	_, err := TogglePrivacy(context.Background(), database, ToggleInput{ID: "missing"})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestAccessible(t *testing.T) {
	publicPhoto := &photo.Photo{Private: false}
	vaultPhoto := &photo.Photo{Private: true}

	// Each photo is accessible under exactly one mode
	if !Accessible(publicPhoto, photo.ModePublic) || Accessible(publicPhoto, photo.ModeVault) {
		t.Error("public photo must be accessible in public mode only")
	}
	if !Accessible(vaultPhoto, photo.ModeVault) || Accessible(vaultPhoto, photo.ModePublic) {
		t.Error("vault photo must be accessible in vault mode only")
	}
}
