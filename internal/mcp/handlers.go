package mcp

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/keepsakehq/keepsake/internal/config"
	"github.com/keepsakehq/keepsake/internal/detect"
	"github.com/keepsakehq/keepsake/internal/errors"
	"github.com/keepsakehq/keepsake/internal/gallery"
	"github.com/keepsakehq/keepsake/internal/photo"
	"github.com/keepsakehq/keepsake/internal/vault"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db       *sql.DB
	cfg      *config.Config
	keypad   *vault.Keypad
	detector detect.Service
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, cfg *config.Config, keypad *vault.Keypad, detector detect.Service) *Handlers {
	return &Handlers{db: db, cfg: cfg, keypad: keypad, detector: detector}
}

// Request types for each tool

// PhotoAddRequest represents the arguments for photo_add.
type PhotoAddRequest struct {
	URL       string   `json:"url"`
	Title     *string  `json:"title,omitempty"`
	Caption   *string  `json:"caption,omitempty"`
	TakenAt   int64    `json:"taken_at,omitempty"`
	PersonIDs []string `json:"person_ids,omitempty"`
	Detect    bool     `json:"detect,omitempty"`
}

// PhotoGetRequest represents the arguments for photo_get.
type PhotoGetRequest struct {
	ID string `json:"id"`
}

// PhotoListRequest represents the arguments for photo_list.
type PhotoListRequest struct {
	Mode   string `json:"mode,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// PhotoTimelineRequest represents the arguments for photo_timeline.
type PhotoTimelineRequest struct {
	Mode     string `json:"mode,omitempty"`
	Query    string `json:"query,omitempty"`
	PersonID string `json:"person_id,omitempty"`
}

// PhotoUpdateFiltersRequest represents the arguments for photo_update_filters.
// Absent channels fall back to their identity values.
type PhotoUpdateFiltersRequest struct {
	ID         string `json:"id"`
	Brightness *int   `json:"brightness,omitempty"`
	Contrast   *int   `json:"contrast,omitempty"`
	Saturation *int   `json:"saturation,omitempty"`
	Sepia      *int   `json:"sepia,omitempty"`
	Grayscale  *int   `json:"grayscale,omitempty"`
}

// PeopleListRequest represents the arguments for people_list.
type PeopleListRequest struct {
	Mode string `json:"mode,omitempty"`
}

// PeopleAddRequest represents the arguments for people_add.
type PeopleAddRequest struct {
	Name    string `json:"name"`
	FaceURL string `json:"face_url,omitempty"`
}

// VaultPressRequest represents the arguments for vault_press.
type VaultPressRequest struct {
	Digit int `json:"digit"`
}

// requireVaultMode rejects vault-mode requests while the vault is locked.
func (h *Handlers) requireVaultMode(mode string) error {
	if mode == string(photo.ModeVault) && !h.keypad.Unlocked() {
		return errors.NewVaultLocked()
	}
	return nil
}

// requireVaultPhoto rejects operations on vault photos while the vault is
// locked. A missing photo surfaces as NOT_FOUND from the lookup itself.
func (h *Handlers) requireVaultPhoto(ctx context.Context, id string) error {
	result, err := gallery.Get(ctx, h.db, gallery.GetInput{ID: id})
	if err != nil {
		return err
	}
	if result.Private && !h.keypad.Unlocked() {
		return errors.NewVaultLocked()
	}
	return nil
}

// Handler implementations

// HandlePhotoAdd handles the photo_add tool call.
func (h *Handlers) HandlePhotoAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PhotoAddRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	personIDs := input.PersonIDs
	if input.Detect {
		detected, err := h.detector.Detect(ctx, input.URL)
		if err != nil {
			return errorResult(err), nil
		}
		personIDs = detected
	}

	result, err := gallery.Add(ctx, h.db, gallery.AddInput{
		URL:       input.URL,
		Title:     input.Title,
		Caption:   input.Caption,
		TakenAt:   input.TakenAt,
		PersonIDs: personIDs,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandlePhotoGet handles the photo_get tool call.
func (h *Handlers) HandlePhotoGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PhotoGetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := gallery.Get(ctx, h.db, gallery.GetInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}
	if result.Private && !h.keypad.Unlocked() {
		return errorResult(errors.NewVaultLocked()), nil
	}

	return successResult(result)
}

// HandlePhotoList handles the photo_list tool call.
func (h *Handlers) HandlePhotoList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PhotoListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if err := h.requireVaultMode(input.Mode); err != nil {
		return errorResult(err), nil
	}

	limit := input.Limit
	if limit == 0 {
		limit = h.cfg.PageSize
	}

	result, err := gallery.List(ctx, h.db, gallery.ListInput{
		Mode:   input.Mode,
		Limit:  limit,
		Offset: input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandlePhotoTimeline handles the photo_timeline tool call.
func (h *Handlers) HandlePhotoTimeline(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PhotoTimelineRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if err := h.requireVaultMode(input.Mode); err != nil {
		return errorResult(err), nil
	}

	result, err := gallery.Timeline(ctx, h.db, gallery.TimelineInput{
		Mode:     input.Mode,
		Query:    input.Query,
		PersonID: input.PersonID,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandlePhotoTogglePrivacy handles the photo_toggle_privacy tool call.
func (h *Handlers) HandlePhotoTogglePrivacy(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PhotoGetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	// Hiding a public photo is always allowed; revealing a vault photo
	// needs the vault open.
	if err := h.requireVaultPhoto(ctx, input.ID); err != nil {
		return errorResult(err), nil
	}

	result, err := gallery.TogglePrivacy(ctx, h.db, gallery.ToggleInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandlePhotoUpdateFilters handles the photo_update_filters tool call.
func (h *Handlers) HandlePhotoUpdateFilters(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PhotoUpdateFiltersRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if err := h.requireVaultPhoto(ctx, input.ID); err != nil {
		return errorResult(err), nil
	}

	filters := photo.Default()
	if input.Brightness != nil {
		filters.Brightness = *input.Brightness
	}
	if input.Contrast != nil {
		filters.Contrast = *input.Contrast
	}
	if input.Saturation != nil {
		filters.Saturation = *input.Saturation
	}
	if input.Sepia != nil {
		filters.Sepia = *input.Sepia
	}
	if input.Grayscale != nil {
		filters.Grayscale = *input.Grayscale
	}

	result, err := gallery.UpdateFilters(ctx, h.db, gallery.UpdateFiltersInput{
		ID:      input.ID,
		Filters: filters,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandlePhotoDelete handles the photo_delete tool call.
func (h *Handlers) HandlePhotoDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PhotoGetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if err := h.requireVaultPhoto(ctx, input.ID); err != nil {
		return errorResult(err), nil
	}

	result, err := gallery.Delete(ctx, h.db, gallery.DeleteInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandlePeopleList handles the people_list tool call.
func (h *Handlers) HandlePeopleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PeopleListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if err := h.requireVaultMode(input.Mode); err != nil {
		return errorResult(err), nil
	}

	result, err := gallery.People(ctx, h.db, gallery.PeopleInput{Mode: input.Mode})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandlePeopleAdd handles the people_add tool call.
func (h *Handlers) HandlePeopleAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PeopleAddRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := gallery.AddPerson(ctx, h.db, gallery.AddPersonInput{
		Name:    input.Name,
		FaceURL: input.FaceURL,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleVaultStatus handles the vault_status tool call.
func (h *Handlers) HandleVaultStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(h.keypad.Snapshot())
}

// HandleVaultPress handles the vault_press tool call.
func (h *Handlers) HandleVaultPress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[VaultPressRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	snap, err := h.keypad.Press(ctx, input.Digit)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(snap)
}

// HandleVaultLock handles the vault_lock tool call.
func (h *Handlers) HandleVaultLock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(h.keypad.Lock())
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if kErr, ok := err.(*errors.KeepsakeError); ok {
		errorObj := map[string]any{
			"code":    kErr.Code,
			"message": kErr.Message,
			"status":  kErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if kErr.Code != errors.ErrInternal && kErr.Details != nil {
			errorObj["details"] = kErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
