package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/wayfarerhq/places-mcp/internal/places"
)

// PlacePhotoHandler returns the MCP tool handler for the "place-photo" tool.
func PlacePhotoHandler(client *places.Client) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		location, err := req.RequireString("location")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		ref, err := client.PhotoRef(ctx, location)
		if err != nil {
			if places.IsKind(err, places.KindNotFound) {
				return mcp.NewToolResultText("No place matched that location."), nil
			}
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(ref), nil
	}
}
