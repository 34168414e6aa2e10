package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// decode round-trips the tool call arguments through JSON into a typed
// request struct. The arguments arrive as a loose map; the round trip
// gives typed fields without per-handler type assertions.
func decode[T any](req mcp.CallToolRequest) (T, error) {
	var input T

	raw, err := json.Marshal(req.GetArguments())
	if err != nil {
		return input, fmt.Errorf("encode arguments: %w", err)
	}
	if err := json.Unmarshal(raw, &input); err != nil {
		return input, fmt.Errorf("decode arguments: %w", err)
	}
	return input, nil
}
