package detect

import (
	"context"
	"database/sql"
	"math/rand"
	"testing"

	"github.com/keepsakehq/keepsake/internal/db"
	"github.com/keepsakehq/keepsake/internal/gallery"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func addPeople(t *testing.T, database *sql.DB, names ...string) map[string]bool {
	t.Helper()
	known := make(map[string]bool)
	for _, name := range names {
		out, err := gallery.AddPerson(context.Background(), database, gallery.AddPersonInput{Name: name})
		if err != nil {
			t.Fatalf("AddPerson failed: %v", err)
		}
		known[out.Person.ID] = true
	}
	return known
}

func TestSimulated_ReturnsKnownPeopleOnly(t *testing.T) {
	database := testDB(t)
	known := addPeople(t, database, "Me", "Sarah", "David", "Emma")

	svc := &Simulated{DB: database, Rand: rand.New(rand.NewSource(1))}

	for i := 0; i < 20; i++ {
		ids, err := svc.Detect(context.Background(), "data:image/jpeg;base64,AAAA")
		if err != nil {
			t.Fatalf("Detect failed: %v", err)
		}
		if len(ids) > 2 {
			t.Fatalf("Detect returned %d people, want at most 2", len(ids))
		}
		seen := make(map[string]bool)
		for _, id := range ids {
			if !known[id] {
				t.Fatalf("Detect returned unknown person %q", id)
			}
			if seen[id] {
				t.Fatalf("Detect returned %q twice", id)
			}
			seen[id] = true
		}
	}
}

func TestSimulated_EmptyRegistry(t *testing.T) {
	database := testDB(t)

	svc := &Simulated{DB: database, Rand: rand.New(rand.NewSource(1))}
	ids, err := svc.Detect(context.Background(), "data:image/jpeg;base64,AAAA")
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("Detect = %v with no registered people, want none", ids)
	}
}

func TestSimulated_FewerPeopleThanPickCap(t *testing.T) {
	database := testDB(t)
	addPeople(t, database, "Me")

	svc := &Simulated{DB: database, Rand: rand.New(rand.NewSource(7))}
	for i := 0; i < 10; i++ {
		ids, err := svc.Detect(context.Background(), "data:image/jpeg;base64,AAAA")
		if err != nil {
			t.Fatalf("Detect failed: %v", err)
		}
		if len(ids) > 1 {
			t.Fatalf("Detect returned %d people from a registry of 1", len(ids))
		}
	}
}
