package tools

import (
	"strings"
	"testing"

	"github.com/wayfarerhq/places-mcp/internal/places"
	"github.com/wayfarerhq/places-mcp/internal/web"
)

func TestFormatPlacesEmpty(t *testing.T) {
	got := formatPlaces(&places.SearchResult{Places: []places.Place{}})
	if got != "No places found." {
		t.Errorf("got %q", got)
	}
}

func TestFormatPlaces(t *testing.T) {
	result := &places.SearchResult{Places: []places.Place{
		{DisplayName: "White Beach", FormattedAddress: "Boracay, PH", WebsiteURI: "https://example.com"},
		{DisplayName: "Cloud 9"},
	}}
	got := formatPlaces(result)
	if !strings.HasPrefix(got, "1. White Beach") {
		t.Errorf("missing numbered first entry:\n%s", got)
	}
	if !strings.Contains(got, "Boracay, PH") || !strings.Contains(got, "https://example.com") {
		t.Errorf("missing address or website:\n%s", got)
	}
	if !strings.Contains(got, "2. Cloud 9") {
		t.Errorf("missing second entry:\n%s", got)
	}
}

func TestFormatPageSummary(t *testing.T) {
	ps := &web.PageSummary{
		Title:       "White Beach Resort",
		Description: "A beachfront resort.",
		Markdown:    "Fine white sand.",
		Links:       []string{"https://example.com/booking"},
	}
	got := formatPageSummary(ps)
	if !strings.HasPrefix(got, "# White Beach Resort") {
		t.Errorf("missing title heading:\n%s", got)
	}
	if !strings.Contains(got, "- https://example.com/booking") {
		t.Errorf("missing link list:\n%s", got)
	}
	if !strings.HasSuffix(got, "Fine white sand.") {
		t.Errorf("missing body:\n%s", got)
	}
}
