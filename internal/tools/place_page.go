package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/wayfarerhq/places-mcp/internal/places"
	"github.com/wayfarerhq/places-mcp/internal/web"
)

// PlacePageHandler returns the MCP tool handler for the "place-page" tool:
// resolve the location to its best match, then fetch and summarize that
// place's website.
func PlacePageHandler(client *places.Client, fetcher *web.Fetcher) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		location, err := req.RequireString("location")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		result, err := client.Search(ctx, location)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if len(result.Places) == 0 {
			return mcp.NewToolResultText("No place matched that location."), nil
		}
		site := result.Places[0].WebsiteURI
		if site == "" {
			return mcp.NewToolResultText("The best match has no website listed."), nil
		}
		ps, err := fetcher.Fetch(ctx, site)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(formatPageSummary(ps)), nil
	}
}

func formatPageSummary(ps *web.PageSummary) string {
	var sb strings.Builder
	if ps.Title != "" {
		sb.WriteString("# ")
		sb.WriteString(ps.Title)
		sb.WriteString("\n\n")
	}
	if ps.Description != "" {
		sb.WriteString(ps.Description)
		sb.WriteString("\n\n")
	}
	if len(ps.Links) > 0 {
		sb.WriteString("## Links\n")
		for _, l := range ps.Links {
			sb.WriteString("- ")
			sb.WriteString(l)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	sb.WriteString(ps.Markdown)
	return sb.String()
}
