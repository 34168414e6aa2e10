package mcp

import "github.com/mark3labs/mcp-go/mcp"

var photoAddToolDef = mcp.NewTool("photo_add",
	mcp.WithDescription("Add a photo to the gallery. New photos always start public; move them to the vault with photo_toggle_privacy. Set detect to run face detection against the registered people."),
	mcp.WithString("url", mcp.Required(), mcp.Description("Displayable image reference, usually a data URI")),
	mcp.WithString("title", mcp.Description("Optional title, used by text search")),
	mcp.WithString("caption", mcp.Description("Optional markdown caption")),
	mcp.WithNumber("taken_at", mcp.Description("Capture time in Unix milliseconds; omit for now")),
	mcp.WithArray("person_ids", mcp.Description("People in the photo; ignored when detect is set")),
	mcp.WithBoolean("detect", mcp.Description("Run simulated face detection to assign people")),
)

var photoGetToolDef = mcp.NewTool("photo_get",
	mcp.WithDescription("Fetch a single photo with its filter descriptor. Vault photos require an unlocked vault."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Photo ID")),
)

var photoListToolDef = mcp.NewTool("photo_list",
	mcp.WithDescription("List photo summaries in one partition, in insertion order, with pagination."),
	mcp.WithString("mode", mcp.Description("Partition to list: public (default) or vault")),
	mcp.WithNumber("limit", mcp.Description("Max items to return (default 50, max 500)")),
	mcp.WithNumber("offset", mcp.Description("Items to skip")),
)

var photoTimelineToolDef = mcp.NewTool("photo_timeline",
	mcp.WithDescription("The grouped timeline view: most recent first, bucketed by day (Today, Yesterday, then calendar dates), optionally filtered by title search and person."),
	mcp.WithString("mode", mcp.Description("Partition to view: public (default) or vault")),
	mcp.WithString("query", mcp.Description("Case-insensitive title search; untitled photos never match")),
	mcp.WithString("person_id", mcp.Description("Only photos featuring this person")),
)

var photoTogglePrivacyToolDef = mcp.NewTool("photo_toggle_privacy",
	mcp.WithDescription("Move a photo between the public gallery and the vault. Pulling a photo out of the vault requires an unlocked vault."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Photo ID")),
)

var photoUpdateFiltersToolDef = mcp.NewTool("photo_update_filters",
	mcp.WithDescription("Replace a photo's filter adjustment wholesale. Omitted channels reset to their defaults (brightness/contrast/saturation 100, sepia/grayscale 0). The original image is never modified."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Photo ID")),
	mcp.WithNumber("brightness", mcp.Description("Brightness percent, default 100")),
	mcp.WithNumber("contrast", mcp.Description("Contrast percent, default 100")),
	mcp.WithNumber("saturation", mcp.Description("Saturation percent, default 100")),
	mcp.WithNumber("sepia", mcp.Description("Sepia percent, default 0")),
	mcp.WithNumber("grayscale", mcp.Description("Grayscale percent, default 0")),
)

var photoDeleteToolDef = mcp.NewTool("photo_delete",
	mcp.WithDescription("Permanently delete a photo. There is no undo. Vault photos require an unlocked vault."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Photo ID")),
)

var peopleListToolDef = mcp.NewTool("people_list",
	mcp.WithDescription("List registered people with per-partition photo counts. The public view hides people with no public photos."),
	mcp.WithString("mode", mcp.Description("Partition to count in: public (default) or vault")),
)

var peopleAddToolDef = mcp.NewTool("people_add",
	mcp.WithDescription("Register a known person for face detection and person filtering."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Display name")),
	mcp.WithString("face_url", mcp.Description("Face thumbnail reference")),
)

var vaultStatusToolDef = mcp.NewTool("vault_status",
	mcp.WithDescription("The keypad's observable state: setup/locked/unlocked, the entry step, buffered digit count, scanning flag, and any pending error."),
)

var vaultPressToolDef = mcp.NewTool("vault_press",
	mcp.WithDescription("Press one keypad digit. The fourth digit evaluates automatically: verifying a PIN, buffering a new one, or confirming it, depending on the current step."),
	mcp.WithNumber("digit", mcp.Required(), mcp.Description("Digit 0-9")),
)

var vaultLockToolDef = mcp.NewTool("vault_lock",
	mcp.WithDescription("Seal the vault and clear all keypad entry state."),
)
