package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/wayfarerhq/places-mcp/internal/places"
)

// PlaceSearchHandler returns the MCP tool handler for the "place-search" tool.
func PlaceSearchHandler(client *places.Client) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		q, err := req.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		result, err := client.Search(ctx, q)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(formatPlaces(result)), nil
	}
}

// formatPlaces renders an ordered list; a well-formed empty result is a
// message, not an error.
func formatPlaces(result *places.SearchResult) string {
	if len(result.Places) == 0 {
		return "No places found."
	}
	var sb strings.Builder
	for i, p := range result.Places {
		sb.WriteString(fmt.Sprintf("%d. %s", i+1, p.DisplayName))
		if p.FormattedAddress != "" {
			sb.WriteString("\n   ")
			sb.WriteString(p.FormattedAddress)
		}
		if p.WebsiteURI != "" {
			sb.WriteString("\n   ")
			sb.WriteString(p.WebsiteURI)
		}
		if i < len(result.Places)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}
