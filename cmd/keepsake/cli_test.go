package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/keepsakehq/keepsake/internal/config"
	"github.com/keepsakehq/keepsake/internal/db"
	"github.com/keepsakehq/keepsake/internal/gallery"
	"github.com/keepsakehq/keepsake/internal/vault"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	database, err := db.Init(tmpDir)
	if err != nil {
		t.Fatalf("failed to init test db: %v", err)
	}
	cleanup := func() {
		database.Close()
	}
	return database, cleanup
}

// testConfig returns a default config for testing.
func testConfig() *config.Config {
	return &config.Config{
		BiometricSuccessRate: 1.0,
		BiometricDelayMS:     1,
	}
}

// runCLI runs the app with the given args and captures stdout.
func runCLI(t *testing.T, app *cli.App, args ...string) (string, error) {
	t.Helper()

	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := app.Run(append([]string{"keepsake"}, args...))

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	os.Stdout = oldStdout

	return buf.String(), err
}

// writeTestImage writes a minimal PNG file and returns its path.
func writeTestImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "beach.png")
	data := append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, make([]byte, 64)...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write test image: %v", err)
	}
	return path
}

// TestSplitList tests the splitList helper function.
func TestSplitList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: nil,
		},
		{
			name:     "single item",
			input:    "p1",
			expected: []string{"p1"},
		},
		{
			name:     "multiple items",
			input:    "p1,p2,p3",
			expected: []string{"p1", "p2", "p3"},
		},
		{
			name:     "items with spaces",
			input:    " p1 , p2 ",
			expected: []string{"p1", "p2"},
		},
		{
			name:     "empty items filtered",
			input:    "p1,,p2,",
			expected: []string{"p1", "p2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitList(tt.input)
			if len(result) != len(tt.expected) {
				t.Errorf("expected %d items, got %d", len(tt.expected), len(result))
				return
			}
			for i, item := range result {
				if item != tt.expected[i] {
					t.Errorf("expected item[%d]=%q, got %q", i, tt.expected[i], item)
				}
			}
		})
	}
}

// TestCLIAdd tests the add command.
func TestCLIAdd(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	app := newCLIApp(database, testConfig())

	imagePath := writeTestImage(t)
	out, err := runCLI(t, app, "add", "--title=Beach Day", imagePath)
	if err != nil {
		t.Fatalf("add command failed: %v", err)
	}

	var output gallery.AddOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v\nOutput: %s", err, out)
	}

	if output.Photo.ID == "" {
		t.Error("expected non-empty photo ID")
	}
	if output.Photo.Title == nil || *output.Photo.Title != "Beach Day" {
		t.Errorf("expected title 'Beach Day', got %v", output.Photo.Title)
	}
	if output.Photo.Private {
		t.Error("new photo should start public")
	}
}

// TestCLIAdd_DefaultTitleFromFileName tests title fallback.
func TestCLIAdd_DefaultTitleFromFileName(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	app := newCLIApp(database, testConfig())

	out, err := runCLI(t, app, "add", writeTestImage(t))
	if err != nil {
		t.Fatalf("add command failed: %v", err)
	}

	var output gallery.AddOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if output.Photo.Title == nil || *output.Photo.Title != "beach.png" {
		t.Errorf("expected title 'beach.png', got %v", output.Photo.Title)
	}
}

// TestCLIAdd_MissingFile tests error handling for a bad path.
func TestCLIAdd_MissingFile(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	app := newCLIApp(database, testConfig())

	_, err := runCLI(t, app, "add", "/nonexistent/photo.png")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

// TestCLIListAndShow tests the list and show commands.
func TestCLIListAndShow(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	app := newCLIApp(database, testConfig())

	title := "Sunset"
	added, err := gallery.Add(context.Background(), database, gallery.AddInput{
		URL:   "data:image/png;base64,AAAA",
		Title: &title,
	})
	if err != nil {
		t.Fatalf("failed to seed photo: %v", err)
	}

	out, err := runCLI(t, app, "list")
	if err != nil {
		t.Fatalf("list command failed: %v", err)
	}
	var listOut gallery.ListOutput
	if err := json.Unmarshal([]byte(out), &listOut); err != nil {
		t.Fatalf("failed to parse list output: %v", err)
	}
	if len(listOut.Items) != 1 {
		t.Fatalf("expected 1 photo, got %d", len(listOut.Items))
	}

	out, err = runCLI(t, app, "show", added.Photo.ID)
	if err != nil {
		t.Fatalf("show command failed: %v", err)
	}
	var getOut gallery.GetOutput
	if err := json.Unmarshal([]byte(out), &getOut); err != nil {
		t.Fatalf("failed to parse show output: %v", err)
	}
	if getOut.ID != added.Photo.ID {
		t.Errorf("expected photo %s, got %s", added.Photo.ID, getOut.ID)
	}
	if getOut.Descriptor == "" {
		t.Error("expected a composed filter descriptor")
	}
}

// TestCLIShow_NotFound tests show with an unknown ID.
func TestCLIShow_NotFound(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	app := newCLIApp(database, testConfig())

	_, err := runCLI(t, app, "show", "nope")
	if err == nil {
		t.Fatal("expected error for unknown photo")
	}
}

// TestCLIPrivacyAndVaultListing tests the privacy toggle end to end.
func TestCLIPrivacyAndVaultListing(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	app := newCLIApp(database, testConfig())

	added, err := gallery.Add(context.Background(), database, gallery.AddInput{URL: "data:image/png;base64,AAAA"})
	if err != nil {
		t.Fatalf("failed to seed photo: %v", err)
	}

	out, err := runCLI(t, app, "privacy", added.Photo.ID)
	if err != nil {
		t.Fatalf("privacy command failed: %v", err)
	}
	var toggleOut gallery.ToggleOutput
	if err := json.Unmarshal([]byte(out), &toggleOut); err != nil {
		t.Fatalf("failed to parse toggle output: %v", err)
	}
	if !toggleOut.Private {
		t.Error("expected photo to be private after toggle")
	}

	// Public listing no longer sees it
	out, err = runCLI(t, app, "list")
	if err != nil {
		t.Fatalf("list command failed: %v", err)
	}
	var publicList gallery.ListOutput
	if err := json.Unmarshal([]byte(out), &publicList); err != nil {
		t.Fatalf("failed to parse list output: %v", err)
	}
	if len(publicList.Items) != 0 {
		t.Errorf("expected empty public list, got %d photos", len(publicList.Items))
	}

	// Vault listing does
	out, err = runCLI(t, app, "list", "--mode=vault")
	if err != nil {
		t.Fatalf("vault list command failed: %v", err)
	}
	var vaultList gallery.ListOutput
	if err := json.Unmarshal([]byte(out), &vaultList); err != nil {
		t.Fatalf("failed to parse list output: %v", err)
	}
	if len(vaultList.Items) != 1 {
		t.Errorf("expected 1 vault photo, got %d", len(vaultList.Items))
	}
}

// TestCLIFilters tests the filters set and reset subcommands.
func TestCLIFilters(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	app := newCLIApp(database, testConfig())

	added, err := gallery.Add(context.Background(), database, gallery.AddInput{URL: "data:image/png;base64,AAAA"})
	if err != nil {
		t.Fatalf("failed to seed photo: %v", err)
	}

	out, err := runCLI(t, app, "filters", "set", "--brightness=130", "--sepia=40", added.Photo.ID)
	if err != nil {
		t.Fatalf("filters set failed: %v", err)
	}
	var setOut gallery.UpdateFiltersOutput
	if err := json.Unmarshal([]byte(out), &setOut); err != nil {
		t.Fatalf("failed to parse filters output: %v", err)
	}
	want := "brightness(130%) contrast(100%) saturate(100%) sepia(40%) grayscale(0%)"
	if setOut.Descriptor != want {
		t.Errorf("descriptor = %q, want %q", setOut.Descriptor, want)
	}

	if _, err = runCLI(t, app, "filters", "reset", added.Photo.ID); err != nil {
		t.Fatalf("filters reset failed: %v", err)
	}
	got, err := gallery.Get(context.Background(), database, gallery.GetInput{ID: added.Photo.ID})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Filters != nil {
		t.Errorf("expected nil stored adjustment after reset, got %+v", got.Filters)
	}
}

// TestCLIDelete tests the delete command.
func TestCLIDelete(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	app := newCLIApp(database, testConfig())

	added, err := gallery.Add(context.Background(), database, gallery.AddInput{URL: "data:image/png;base64,AAAA"})
	if err != nil {
		t.Fatalf("failed to seed photo: %v", err)
	}

	if _, err := runCLI(t, app, "delete", added.Photo.ID); err != nil {
		t.Fatalf("delete command failed: %v", err)
	}

	if _, err := runCLI(t, app, "show", added.Photo.ID); err == nil {
		t.Error("expected error showing deleted photo")
	}
}

// TestCLIPeople tests the people add and list subcommands.
func TestCLIPeople(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	app := newCLIApp(database, testConfig())

	out, err := runCLI(t, app, "people", "add", "Maya")
	if err != nil {
		t.Fatalf("people add failed: %v", err)
	}
	var addOut gallery.AddPersonOutput
	if err := json.Unmarshal([]byte(out), &addOut); err != nil {
		t.Fatalf("failed to parse people add output: %v", err)
	}
	if addOut.Person.Name != "Maya" {
		t.Errorf("expected name Maya, got %s", addOut.Person.Name)
	}

	// Zero-count people are hidden from the public roster but not the vault one
	out, err = runCLI(t, app, "people", "list", "--mode=vault")
	if err != nil {
		t.Fatalf("people list failed: %v", err)
	}
	var listOut gallery.PeopleOutput
	if err := json.Unmarshal([]byte(out), &listOut); err != nil {
		t.Fatalf("failed to parse people list output: %v", err)
	}
	if len(listOut.Items) != 1 {
		t.Errorf("expected 1 person, got %d", len(listOut.Items))
	}
}

// TestCLIVault tests the vault setup, status, unlock, and lock subcommands.
func TestCLIVault(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	app := newCLIApp(database, testConfig())

	// Fresh install reports setup
	out, err := runCLI(t, app, "vault", "status")
	if err != nil {
		t.Fatalf("vault status failed: %v", err)
	}
	var snap vault.Snapshot
	if err := json.Unmarshal([]byte(out), &snap); err != nil {
		t.Fatalf("failed to parse status output: %v", err)
	}
	if snap.State != vault.StateSetup {
		t.Fatalf("expected state %s, got %s", vault.StateSetup, snap.State)
	}

	// Mismatched confirmation fails and persists nothing
	if _, err := runCLI(t, app, "vault", "setup", "1234", "9999"); err == nil {
		t.Fatal("expected error for mismatched confirmation")
	}
	out, _ = runCLI(t, app, "vault", "status")
	if err := json.Unmarshal([]byte(out), &snap); err != nil {
		t.Fatalf("failed to parse status output: %v", err)
	}
	if snap.State != vault.StateSetup {
		t.Errorf("expected state %s after failed setup, got %s", vault.StateSetup, snap.State)
	}

	// Matching confirmation unlocks and persists
	out, err = runCLI(t, app, "vault", "setup", "1234", "1234")
	if err != nil {
		t.Fatalf("vault setup failed: %v", err)
	}
	if err := json.Unmarshal([]byte(out), &snap); err != nil {
		t.Fatalf("failed to parse setup output: %v", err)
	}
	if snap.State != vault.StateUnlocked {
		t.Errorf("expected state %s, got %s", vault.StateUnlocked, snap.State)
	}

	// A later process sees the stored PIN
	out, err = runCLI(t, app, "vault", "status")
	if err != nil {
		t.Fatalf("vault status failed: %v", err)
	}
	if err := json.Unmarshal([]byte(out), &snap); err != nil {
		t.Fatalf("failed to parse status output: %v", err)
	}
	if snap.State != vault.StateLocked {
		t.Errorf("expected state %s, got %s", vault.StateLocked, snap.State)
	}

	// Wrong PIN fails, right PIN verifies
	if _, err := runCLI(t, app, "vault", "unlock", "--pin=0000"); err == nil {
		t.Error("expected error for wrong PIN")
	}
	out, err = runCLI(t, app, "vault", "unlock", "--pin=1234")
	if err != nil {
		t.Fatalf("vault unlock failed: %v", err)
	}
	if err := json.Unmarshal([]byte(out), &snap); err != nil {
		t.Fatalf("failed to parse unlock output: %v", err)
	}
	if snap.State != vault.StateUnlocked {
		t.Errorf("expected state %s, got %s", vault.StateUnlocked, snap.State)
	}

	// Lock reports locked
	out, err = runCLI(t, app, "vault", "lock")
	if err != nil {
		t.Fatalf("vault lock failed: %v", err)
	}
	if err := json.Unmarshal([]byte(out), &snap); err != nil {
		t.Fatalf("failed to parse lock output: %v", err)
	}
	if snap.State != vault.StateLocked {
		t.Errorf("expected state %s, got %s", vault.StateLocked, snap.State)
	}
}

// TestCLIVault_SetupTwiceRejected tests that setup refuses an existing PIN.
func TestCLIVault_SetupTwiceRejected(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	app := newCLIApp(database, testConfig())

	if _, err := runCLI(t, app, "vault", "setup", "1234", "1234"); err != nil {
		t.Fatalf("vault setup failed: %v", err)
	}
	if _, err := runCLI(t, app, "vault", "setup", "5678", "5678"); err == nil {
		t.Error("expected error for second setup")
	}
}

// TestCLIVault_BadPinShape tests digit and length validation.
func TestCLIVault_BadPinShape(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	app := newCLIApp(database, testConfig())

	if _, err := runCLI(t, app, "vault", "setup", "123", "123"); err == nil {
		t.Error("expected error for short PIN")
	}
	if _, err := runCLI(t, app, "vault", "setup", "12ab", "12ab"); err == nil {
		t.Error("expected error for non-digit PIN")
	}
}
