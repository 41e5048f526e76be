package places

import (
	"context"
	"testing"
)

func TestPhotoRefFromFirstPlace(t *testing.T) {
	u := &upstream{body: placesBody}
	c := newTestClient(t, u, Options{})

	ref, err := c.PhotoRef(context.Background(), "Boracay")
	if err != nil {
		t.Fatal(err)
	}
	if ref != "places/p1/photos/ph1" {
		t.Errorf("ref = %q, want first photo of first place", ref)
	}

	// Second call rides the photo cache: no new upstream traffic.
	if _, err := c.PhotoRef(context.Background(), "Boracay"); err != nil {
		t.Fatal(err)
	}
	if got := u.calls.Load(); got != 1 {
		t.Errorf("upstream calls = %d, want 1", got)
	}
}

func TestPhotoRefFallbackWhenNoPhotos(t *testing.T) {
	u := &upstream{body: `{"success":true,"data":{"places":[{"id":"p1","displayName":"Hidden Cove","formattedAddress":"Somewhere"}]}}`}
	c := newTestClient(t, u, Options{})

	ref, err := c.PhotoRef(context.Background(), "Hidden Cove")
	if err != nil {
		t.Fatalf("missing photo is a fallback, not an error: %v", err)
	}
	if ref != FallbackPhotoRef {
		t.Errorf("ref = %q, want FallbackPhotoRef", ref)
	}

	// The fallback is cached like any value.
	if _, err := c.PhotoRef(context.Background(), "Hidden Cove"); err != nil {
		t.Fatal(err)
	}
	if got := u.calls.Load(); got != 1 {
		t.Errorf("upstream calls = %d, want 1", got)
	}
}

func TestPhotoRefNotFoundOnEmptyResult(t *testing.T) {
	u := &upstream{body: `{"success":true,"data":{"places":[]}}`}
	c := newTestClient(t, u, Options{})

	_, err := c.PhotoRef(context.Background(), "Atlantis")
	if !IsKind(err, KindNotFound) {
		t.Fatalf("expected KindNotFound, got %v", err)
	}
}

func TestPhotoRefEmptyLocation(t *testing.T) {
	c := NewClient(newTestStore(t), Options{Endpoint: "http://unused.invalid"})
	if _, err := c.PhotoRef(context.Background(), "  "); !IsKind(err, KindInvalidQuery) {
		t.Fatalf("expected KindInvalidQuery, got %v", err)
	}
}

func TestPhotoRefDoubleMissCostsOneFetch(t *testing.T) {
	u := &upstream{body: placesBody}
	c := newTestClient(t, u, Options{})

	// Neither the photo cache nor the search cache has the key; the
	// composed lookup still makes exactly one upstream call.
	if _, err := c.PhotoRef(context.Background(), "Boracay"); err != nil {
		t.Fatal(err)
	}
	if got := u.calls.Load(); got != 1 {
		t.Errorf("upstream calls = %d, want 1", got)
	}
}

func TestPhotoCacheSurvivesSearchInvalidation(t *testing.T) {
	u := &upstream{body: placesBody}
	c := newTestClient(t, u, Options{})

	if _, err := c.PhotoRef(context.Background(), "Boracay"); err != nil {
		t.Fatal(err)
	}
	if err := c.InvalidateCategory(CategorySearch); err != nil {
		t.Fatal(err)
	}
	// The photo tier is untouched, so no refetch is needed.
	if _, err := c.PhotoRef(context.Background(), "Boracay"); err != nil {
		t.Fatal(err)
	}
	if got := u.calls.Load(); got != 1 {
		t.Errorf("upstream calls = %d, want 1: photo cache must survive search invalidation", got)
	}
}
