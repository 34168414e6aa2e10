package gallery

import (
	"context"
	"database/sql"
	"testing"

	"github.com/keepsakehq/keepsake/internal/db"
)

// testDB opens a fresh database in a temp dir for one test.
func testDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

// mustAdd inserts a photo and fails the test on error.
func mustAdd(t *testing.T, database *sql.DB, input AddInput) string {
	t.Helper()
	output, err := Add(context.Background(), database, input)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	return output.Photo.ID
}

func stringPtr(s string) *string {
	return &s
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "public", false},
		{"public", "public", false},
		{"vault", "vault", false},
		{" Vault ", "vault", false},
		{"secret", "", true},
	}

	for _, tt := range tests {
		mode, err := parseMode(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseMode(%q) succeeded, want error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseMode(%q) failed: %v", tt.in, err)
			continue
		}
		if string(mode) != tt.want {
			t.Errorf("parseMode(%q) = %q, want %q", tt.in, mode, tt.want)
		}
	}
}
