package places

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wayfarerhq/places-mcp/internal/cache"
	"github.com/wayfarerhq/places-mcp/internal/logger"
)

// Cache categories. Each lookup class writes under its own label so one can
// be cleared without disturbing the others.
const (
	CategorySearch = "places-search"
	CategoryPhotos = "place-photos"
)

// Default TTLs per lookup class. Photo references rot far slower than
// search rankings.
const (
	DefaultSearchTTL = 24 * time.Hour
	DefaultPhotoTTL  = 30 * 24 * time.Hour
)

// Place is the stable per-item shape handed to callers, identical whether
// it was served from cache or freshly fetched.
type Place struct {
	ID               string  `json:"id"`
	DisplayName      string  `json:"displayName"`
	FormattedAddress string  `json:"formattedAddress"`
	WebsiteURI       string  `json:"websiteUri,omitempty"`
	Photos           []Photo `json:"photos,omitempty"`
}

// Photo identifies a media asset by its upstream resource name.
type Photo struct {
	Name string `json:"name"`
}

// SearchResult is the transformed lookup result. Places is never nil: an
// upstream response without a places field yields an empty slice.
type SearchResult struct {
	Places []Place `json:"places"`
}

// searchEnvelope is the upstream proxy response shape.
type searchEnvelope struct {
	Success bool `json:"success"`
	Data    struct {
		Places []Place `json:"places"`
	} `json:"data"`
}

type searchRequest struct {
	TextQuery string `json:"textQuery"`
}

// Options configures a Client. Zero-value TTLs fall back to the class
// defaults; a nil HTTPClient gets a 15s-timeout default.
type Options struct {
	Endpoint   string
	APIKey     string
	SearchTTL  time.Duration
	PhotoTTL   time.Duration
	HTTPClient *http.Client
}

// Client resolves place searches against the lookup endpoint, preferring a
// valid persistent-cache entry over a network round trip. Concurrent
// lookups for the same normalized query coalesce into one upstream call.
type Client struct {
	http      *http.Client
	cache     cache.KV
	endpoint  string
	apiKey    string
	searchTTL time.Duration
	photoTTL  time.Duration

	// persistErrors counts swallowed cache write-back failures.
	persistErrors atomic.Int64

	// inflight dedupes concurrent fetches per normalized key.
	inflightMu sync.Mutex
	inflight   map[string]*call
}

// call is the shared record for one in-flight fetch. The initiator fills
// result/err and closes done; waiters block on done.
type call struct {
	done   chan struct{}
	result *SearchResult
	err    error
}

// NewClient builds a Client on top of the given cache store.
func NewClient(cacheStore cache.KV, opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	searchTTL := opts.SearchTTL
	if searchTTL <= 0 {
		searchTTL = DefaultSearchTTL
	}
	photoTTL := opts.PhotoTTL
	if photoTTL <= 0 {
		photoTTL = DefaultPhotoTTL
	}
	return &Client{
		http:      httpClient,
		cache:     cacheStore,
		endpoint:  opts.Endpoint,
		apiKey:    opts.APIKey,
		searchTTL: searchTTL,
		photoTTL:  photoTTL,
		inflight:  make(map[string]*call),
	}
}

// normalizeQuery lower-cases and trims a raw query. The normalized form is
// the sole cache identity: "Boracay Beach" and "  boracay beach " share one
// entry.
func normalizeQuery(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func searchKey(normalized string) string { return "place_search|" + normalized }

// Search returns the places matching rawQuery.
//
// Order of preference: valid cache entry, in-flight fetch for the same
// normalized query, then one upstream call whose transformed result is
// written back under the search category and TTL. The returned value has
// the same shape regardless of where it came from.
func (c *Client) Search(ctx context.Context, rawQuery string) (*SearchResult, error) {
	q := strings.TrimSpace(rawQuery)
	if q == "" {
		return nil, errf(KindInvalidQuery, "empty query")
	}
	key := searchKey(normalizeQuery(q))

	if v, err := c.cache.Get(key); err == nil {
		var cached SearchResult
		if json.Unmarshal(v, &cached) == nil {
			return &cached, nil
		}
	}

	c.inflightMu.Lock()
	if cl, ok := c.inflight[key]; ok {
		c.inflightMu.Unlock()
		select {
		case <-cl.done:
			return cl.result, cl.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	cl := &call{done: make(chan struct{})}
	c.inflight[key] = cl
	c.inflightMu.Unlock()

	// The fetch runs on a detached context: a caller abandoning its wait
	// must not starve the other waiters or skip the cache write.
	go func() {
		cl.result, cl.err = c.fetchAndStore(context.WithoutCancel(ctx), q, key)
		c.inflightMu.Lock()
		delete(c.inflight, key)
		c.inflightMu.Unlock()
		close(cl.done)
	}()

	select {
	case <-cl.done:
		return cl.result, cl.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// fetchAndStore performs the single upstream call for a missed key. The
// request carries the original query text; only the cache key is
// normalized.
func (c *Client) fetchAndStore(ctx context.Context, query, key string) (*SearchResult, error) {
	body, err := json.Marshal(searchRequest{TextQuery: query})
	if err != nil {
		return nil, wrapf(KindUpstream, err, "encode request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, wrapf(KindUpstream, err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, wrapf(KindUpstream, err, "lookup %q", query)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errf(KindUpstream, "lookup %q: status %d", query, resp.StatusCode)
	}

	var env searchEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, wrapf(KindUpstream, err, "decode response")
	}

	// A missing data.places field is a valid empty result, not an error.
	result := &SearchResult{Places: env.Data.Places}
	if result.Places == nil {
		result.Places = []Place{}
	}

	if b, err := json.Marshal(result); err == nil {
		if perr := c.cache.Put(key, b, CategorySearch, c.searchTTL); perr != nil {
			// The cache is best-effort: record and move on.
			c.persistErrors.Add(1)
			logger.Warnf("cache put %s: %v", key, perr)
		}
	}
	return result, nil
}

// Prefetch warms the cache for rawQuery without blocking the caller.
// Failures are recorded in the log for diagnostics and otherwise dropped.
func (c *Client) Prefetch(rawQuery string) {
	go func() {
		if _, err := c.Search(context.Background(), rawQuery); err != nil {
			logger.Warnf("prefetch %q: %v", rawQuery, err)
		}
	}()
}

// InvalidateCategory removes every cache entry under category, regardless
// of TTL state. Atomicity is the store's contract: a concurrent Search sees
// either the old entry or a clean miss.
func (c *Client) InvalidateCategory(category string) error {
	return c.cache.ClearCategory(category)
}

// PersistErrors reports how many cache write-backs have been swallowed.
func (c *Client) PersistErrors() int64 {
	return c.persistErrors.Load()
}
