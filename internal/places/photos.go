package places

import (
	"context"
	"strings"

	"github.com/wayfarerhq/places-mcp/internal/logger"
)

// FallbackPhotoRef is returned when a location resolves but its first place
// carries no photos. Callers render it as a stock image; it is a value, not
// an error.
const FallbackPhotoRef = "places/fallback/photos/default"

// photoKey is derived from the raw location string, not from the search
// cache key: the photo cache is an independent tier with its own identity.
func photoKey(location string) string { return "place_photo|" + location }

// PhotoRef returns the photo resource name for the best match of location.
//
// It is a cache-wrapped lookup composed over Search: a fully missed call
// costs exactly one upstream fetch (Search's own cache and dedup still
// apply). The result is stored under the photo category with the long
// photo TTL, including the fallback value.
func (c *Client) PhotoRef(ctx context.Context, location string) (string, error) {
	loc := strings.TrimSpace(location)
	if loc == "" {
		return "", errf(KindInvalidQuery, "empty location")
	}
	key := photoKey(loc)

	if v, err := c.cache.Get(key); err == nil {
		return string(v), nil
	}

	result, err := c.Search(ctx, loc)
	if err != nil {
		return "", err
	}
	if len(result.Places) == 0 {
		return "", errf(KindNotFound, "no places for %q", loc)
	}

	ref := FallbackPhotoRef
	if first := result.Places[0]; len(first.Photos) > 0 && first.Photos[0].Name != "" {
		ref = first.Photos[0].Name
	}

	if perr := c.cache.Put(key, []byte(ref), CategoryPhotos, c.photoTTL); perr != nil {
		c.persistErrors.Add(1)
		logger.Warnf("cache put %s: %v", key, perr)
	}
	return ref, nil
}
