package mcp

import (
	"context"
	"database/sql"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/keepsakehq/keepsake/internal/config"
	"github.com/keepsakehq/keepsake/internal/detect"
	"github.com/keepsakehq/keepsake/internal/vault"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"photo_add": {
		def:     photoAddToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePhotoAdd },
	},
	"photo_get": {
		def:     photoGetToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePhotoGet },
	},
	"photo_list": {
		def:     photoListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePhotoList },
	},
	"photo_timeline": {
		def:     photoTimelineToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePhotoTimeline },
	},
	"photo_toggle_privacy": {
		def:     photoTogglePrivacyToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePhotoTogglePrivacy },
	},
	"photo_update_filters": {
		def:     photoUpdateFiltersToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePhotoUpdateFilters },
	},
	"photo_delete": {
		def:     photoDeleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePhotoDelete },
	},
	"people_list": {
		def:     peopleListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePeopleList },
	},
	"people_add": {
		def:     peopleAddToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePeopleAdd },
	},
	"vault_status": {
		def:     vaultStatusToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleVaultStatus },
	},
	"vault_press": {
		def:     vaultPressToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleVaultPress },
	},
	"vault_lock": {
		def:     vaultLockToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleVaultLock },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates a new MCP server with Keepsake tools registered.
// Tools listed in cfg.DisabledTools are excluded from registration.
// The keypad is the shared vault session for every tool call.
func NewServer(db *sql.DB, cfg *config.Config, keypad *vault.Keypad, detector detect.Service, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"keepsake",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(db, cfg, keypad, detector)

	disabled := make(map[string]bool)
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	// Register tools (skip disabled)
	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(db *sql.DB, cfg *config.Config, keypad *vault.Keypad, detector detect.Service, version string) error {
	s := NewServer(db, cfg, keypad, detector, version)
	return server.ServeStdio(s)
}

// ToolHandlerFunc is the signature for tool handlers.
type ToolHandlerFunc func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
