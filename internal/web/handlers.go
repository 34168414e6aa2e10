package web

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"github.com/keepsakehq/keepsake/internal/config"
	"github.com/keepsakehq/keepsake/internal/db"
	"github.com/keepsakehq/keepsake/internal/errors"
	"github.com/keepsakehq/keepsake/internal/gallery"
	"github.com/keepsakehq/keepsake/internal/photo"
	"github.com/keepsakehq/keepsake/internal/vault"
)

// Handlers contains HTTP route handlers for the gallery web UI.
type Handlers struct {
	db       *sql.DB
	cfg      *config.Config
	renderer *Renderer
	keypad   *vault.Keypad
}

// viewMode resolves the partition the request wants to look at. Vault mode
// requires an unlocked keypad; a locked request is bounced to the lock
// screen and the second return value is false.
func (h *Handlers) viewMode(w http.ResponseWriter, r *http.Request) (string, bool) {
	mode := r.URL.Query().Get("mode")
	if mode == "" {
		mode = string(photo.ModePublic)
	}
	if mode == string(photo.ModeVault) && !h.keypad.Unlocked() {
		http.Redirect(w, r, "/vault", http.StatusFound)
		return "", false
	}
	return mode, true
}

// HandleTimeline handles GET /photos — the grouped photo timeline.
func (h *Handlers) HandleTimeline(w http.ResponseWriter, r *http.Request) {
	mode, ok := h.viewMode(w, r)
	if !ok {
		return
	}

	query := r.URL.Query().Get("q")
	personID := r.URL.Query().Get("person")

	result, err := gallery.Timeline(r.Context(), h.db, gallery.TimelineInput{
		Mode:     mode,
		Query:    query,
		PersonID: personID,
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	// People power the filter chips above the grid
	people, err := gallery.People(r.Context(), h.db, gallery.PeopleInput{Mode: mode})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, result)
		return
	}

	h.renderer.renderPage(w, r, "timeline", TimelinePageData{
		PageData: PageData{
			Title:   "Photos",
			Version: h.renderer.version,
			Nav:     "photos",
			Mode:    mode,
		},
		Groups:   result.Groups,
		Total:    result.Total,
		Query:    query,
		PersonID: personID,
		People:   people.Items,
	})
}

// HandleDetail handles GET /photos/{id} — view a single photo.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	mode, ok := h.viewMode(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("photo ID is required"))
		return
	}

	result, err := gallery.Get(r.Context(), h.db, gallery.GetInput{ID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	// A photo outside the viewed partition is not shown there; the
	// timeline is where it now lives.
	if result.Private != (mode == string(photo.ModeVault)) {
		http.Redirect(w, r, "/photos?mode="+mode, http.StatusFound)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, result)
		return
	}

	var caption string
	if result.Caption != nil {
		caption = *result.Caption
	}

	adjust := photo.Default()
	if result.Filters != nil {
		adjust = *result.Filters
	}

	// Resolve tagged people to names; tags pointing at since-removed
	// people are simply not shown.
	var tagged []photo.Person
	for _, pid := range result.PersonIDs {
		person, err := db.GetPersonByID(r.Context(), h.db, pid)
		if err != nil {
			if errors.Is(err, errors.ErrNotFound) {
				continue
			}
			h.renderer.renderError(w, r, err)
			return
		}
		tagged = append(tagged, *person)
	}

	h.renderer.renderPage(w, r, "detail", DetailPageData{
		PageData: PageData{
			Title:   displayName(result.Title, result.ID),
			Version: h.renderer.version,
			Nav:     "photos",
			Mode:    mode,
		},
		Photo:           result,
		Adjust:          adjust,
		People:          tagged,
		RenderedCaption: renderMarkdown(caption),
		DisplayName:     displayName(result.Title, result.ID),
	})
}

// HandleTogglePrivacy handles POST /photos/{id}/privacy — move a photo to
// the other partition. When the photo leaves the partition being viewed,
// the detail view closes back to the timeline.
func (h *Handlers) HandleTogglePrivacy(w http.ResponseWriter, r *http.Request) {
	mode, ok := h.viewMode(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	result, err := gallery.TogglePrivacy(r.Context(), h.db, gallery.ToggleInput{ID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, result)
		return
	}

	if result.Private != (mode == string(photo.ModeVault)) {
		http.Redirect(w, r, "/photos?mode="+mode, http.StatusFound)
		return
	}
	http.Redirect(w, r, "/photos/"+id+"?mode="+mode, http.StatusFound)
}

// HandleUpdateFilters handles POST /photos/{id}/filters — commit a filter
// adjustment from the edit form. The form carries every channel; the
// stored adjustment is replaced wholesale.
func (h *Handlers) HandleUpdateFilters(w http.ResponseWriter, r *http.Request) {
	mode, ok := h.viewMode(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	id := r.PathValue("id")
	filters := photo.Default()
	channels := []struct {
		name string
		dst  *int
	}{
		{"brightness", &filters.Brightness},
		{"contrast", &filters.Contrast},
		{"saturation", &filters.Saturation},
		{"sepia", &filters.Sepia},
		{"grayscale", &filters.Grayscale},
	}
	for _, c := range channels {
		raw := r.FormValue(c.name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			h.renderer.renderError(w, r, errors.NewInvalidRequest(c.name+" must be an integer"))
			return
		}
		*c.dst = v
	}

	result, err := gallery.UpdateFilters(r.Context(), h.db, gallery.UpdateFiltersInput{
		ID:      id,
		Filters: filters,
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, result)
		return
	}
	http.Redirect(w, r, "/photos/"+id+"?mode="+mode, http.StatusFound)
}

// HandleDelete handles DELETE and POST /photos/{id}/delete — permanently
// remove a photo.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	mode, ok := h.viewMode(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	result, err := gallery.Delete(r.Context(), h.db, gallery.DeleteInput{ID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, map[string]any{
			"deleted": result.Deleted,
			"id":      result.ID,
		})
		return
	}
	http.Redirect(w, r, "/photos?mode="+mode, http.StatusFound)
}

// HandlePeople handles GET /people — known people with photo counts.
func (h *Handlers) HandlePeople(w http.ResponseWriter, r *http.Request) {
	mode, ok := h.viewMode(w, r)
	if !ok {
		return
	}

	result, err := gallery.People(r.Context(), h.db, gallery.PeopleInput{Mode: mode})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, result)
		return
	}

	h.renderer.renderPage(w, r, "people", PeoplePageData{
		PageData: PageData{
			Title:   "People",
			Version: h.renderer.version,
			Nav:     "people",
			Mode:    mode,
		},
		Items: result.Items,
	})
}

// HandleLockScreen handles GET /vault — the PIN keypad. An unlocked vault
// goes straight to the vault timeline.
func (h *Handlers) HandleLockScreen(w http.ResponseWriter, r *http.Request) {
	snap := h.keypad.Snapshot()
	if snap.State == vault.StateUnlocked {
		http.Redirect(w, r, "/photos?mode=vault", http.StatusFound)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, snap)
		return
	}

	h.renderer.renderPage(w, r, "lock", LockPageData{
		PageData: PageData{
			Title:   "Vault",
			Version: h.renderer.version,
			Nav:     "vault",
			Mode:    string(photo.ModePublic),
		},
		Snapshot: snap,
		Heading:  lockHeading(snap),
		Subtext:  lockSubtext(snap),
	})
}

// HandleVaultPress handles POST /vault/press — one keypad digit.
func (h *Handlers) HandleVaultPress(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	digit, err := strconv.Atoi(r.FormValue("digit"))
	if err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("digit must be an integer"))
		return
	}

	snap, err := h.keypad.Press(r.Context(), digit)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.respondKeypad(w, r, snap)
}

// HandleVaultBackspace handles POST /vault/backspace.
func (h *Handlers) HandleVaultBackspace(w http.ResponseWriter, r *http.Request) {
	h.respondKeypad(w, r, h.keypad.Backspace())
}

// HandleVaultBiometric handles POST /vault/biometric — start a scan.
func (h *Handlers) HandleVaultBiometric(w http.ResponseWriter, r *http.Request) {
	snap, err := h.keypad.AttemptBiometric(r.Context())
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.respondKeypad(w, r, snap)
}

// HandleVaultLock handles POST /vault/lock — seal the vault.
func (h *Handlers) HandleVaultLock(w http.ResponseWriter, r *http.Request) {
	snap := h.keypad.Lock()

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, snap)
		return
	}
	http.Redirect(w, r, "/photos", http.StatusFound)
}

// respondKeypad returns the keypad snapshot as JSON, or redirects browsers
// to the vault timeline on unlock and back to the lock screen otherwise.
func (h *Handlers) respondKeypad(w http.ResponseWriter, r *http.Request, snap vault.Snapshot) {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, snap)
		return
	}

	if snap.State == vault.StateUnlocked {
		http.Redirect(w, r, "/photos?mode=vault", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/vault", http.StatusFound)
}

// lockHeading mirrors the keypad step on the lock screen.
func lockHeading(snap vault.Snapshot) string {
	switch snap.Step {
	case vault.StepCreate:
		return "Set Vault PIN"
	case vault.StepConfirm:
		return "Confirm Vault PIN"
	default:
		return "Vault Locked"
	}
}

// lockSubtext explains the current step, or the pending error.
func lockSubtext(snap vault.Snapshot) string {
	switch snap.Error {
	case errors.ErrWrongPin:
		return "Wrong PIN. Try again."
	case errors.ErrPinMismatch:
		return "PINs do not match."
	case errors.ErrBiometricFailure:
		return "Biometric scan failed. Try again."
	}
	switch snap.Step {
	case vault.StepCreate:
		return "Create a 4-digit PIN for security"
	case vault.StepConfirm:
		return "Re-enter your PIN to confirm"
	default:
		return "Enter PIN or use Biometrics"
	}
}
